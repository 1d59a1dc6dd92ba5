package chainledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
)

// Recorder is the surface the reconciliation worker depends on.
type Recorder interface {
	RecordOperation(ctx context.Context, operationID string, opType string, timestamp uint64) (string, error)
}

// Client submits operation fingerprints to the StockLedger contract through
// the chain gateway's RPC endpoint. The HTTP client is built lazily on first
// use so a missing gateway configuration surfaces as a call error rather than
// a boot failure.
type Client struct {
	cfg config.ChainConfig

	mu      sync.Mutex
	http    *resty.Client
	initErr error
}

type callRequest struct {
	Contract string `json:"contract"`
	Method   string `json:"method"`
	Params   []any  `json:"params"`
}

type callResponse struct {
	TxHash string `json:"tx_hash"`
	Error  string `json:"error,omitempty"`
}

// New builds a chain ledger client from configuration. The returned client is
// safe for concurrent use and holds its signing credential for the process
// lifetime.
func New(cfg config.ChainConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) client() (*resty.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.http != nil || c.initErr != nil {
		return c.http, c.initErr
	}

	if strings.TrimSpace(c.cfg.RPCURL) == "" {
		c.initErr = fmt.Errorf("chain rpc url is not configured")
		return nil, c.initErr
	}
	if strings.TrimSpace(c.cfg.ContractAddress) == "" {
		c.initErr = fmt.Errorf("chain contract address is not configured")
		return nil, c.initErr
	}
	if strings.TrimSpace(c.cfg.SigningKey) == "" {
		c.initErr = fmt.Errorf("chain signing key is not configured")
		return nil, c.initErr
	}

	timeout := c.cfg.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(c.cfg.RPCURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(c.cfg.SigningKey)

	return c.http, nil
}

// RecordOperation invokes recordOperation(operationId, type, timestamp) on the
// StockLedger contract and returns the transaction hash.
func (c *Client) RecordOperation(ctx context.Context, operationID string, opType string, timestamp uint64) (string, error) {
	http, err := c.client()
	if err != nil {
		return "", err
	}

	var result callResponse
	resp, err := http.R().
		SetContext(ctx).
		SetBody(callRequest{
			Contract: c.cfg.ContractAddress,
			Method:   "recordOperation",
			Params:   []any{operationID, opType, timestamp},
		}).
		SetResult(&result).
		// Some gateways reply without a JSON content type; parse regardless.
		ForceContentType("application/json").
		Post("/contracts/call")
	if err != nil {
		return "", fmt.Errorf("chain call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chain call: gateway returned %s", resp.Status())
	}
	if result.Error != "" {
		return "", fmt.Errorf("chain call: contract reverted: %s", result.Error)
	}
	if result.TxHash == "" {
		return "", fmt.Errorf("chain call: gateway returned no transaction hash")
	}
	return result.TxHash, nil
}
