package chainledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
)

func TestRecordOperationSuccess(t *testing.T) {
	var gotAuth string
	var gotBody callRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(callResponse{TxHash: "0xabc123"})
	}))
	defer server.Close()

	client := New(config.ChainConfig{
		RPCURL:          server.URL,
		ContractAddress: "0xcontract",
		SigningKey:      "signer-key",
		CallTimeout:     5 * time.Second,
	})

	hash, err := client.RecordOperation(context.Background(), "op-1", "RECEIPT", 1700000000)
	if err != nil {
		t.Fatalf("RecordOperation: %v", err)
	}
	if hash != "0xabc123" {
		t.Fatalf("unexpected tx hash %q", hash)
	}
	if gotAuth != "Bearer signer-key" {
		t.Fatalf("expected signing credential on request, got %q", gotAuth)
	}
	if gotBody.Contract != "0xcontract" || gotBody.Method != "recordOperation" {
		t.Fatalf("unexpected call payload: %+v", gotBody)
	}
	if len(gotBody.Params) != 3 {
		t.Fatalf("expected 3 params, got %v", gotBody.Params)
	}
}

func TestRecordOperationNonJSONContentType(t *testing.T) {
	// Gateways behind generic proxies sometimes reply with text/plain; the
	// body is still JSON and the hash must still come through.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_ = json.NewEncoder(w).Encode(callResponse{TxHash: "0xfeed42"})
	}))
	defer server.Close()

	client := New(config.ChainConfig{
		RPCURL:          server.URL,
		ContractAddress: "0xcontract",
		SigningKey:      "signer-key",
	})

	hash, err := client.RecordOperation(context.Background(), "op-1", "RECEIPT", 1700000000)
	if err != nil {
		t.Fatalf("RecordOperation: %v", err)
	}
	if hash != "0xfeed42" {
		t.Fatalf("unexpected tx hash %q", hash)
	}
}

func TestRecordOperationContractRevert(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(callResponse{Error: "execution reverted"})
	}))
	defer server.Close()

	client := New(config.ChainConfig{
		RPCURL:          server.URL,
		ContractAddress: "0xcontract",
		SigningKey:      "signer-key",
	})

	if _, err := client.RecordOperation(context.Background(), "op-1", "RECEIPT", 1700000000); err == nil {
		t.Fatal("expected revert error")
	}
}

func TestRecordOperationGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(config.ChainConfig{
		RPCURL:          server.URL,
		ContractAddress: "0xcontract",
		SigningKey:      "signer-key",
	})

	if _, err := client.RecordOperation(context.Background(), "op-1", "RECEIPT", 1700000000); err == nil {
		t.Fatal("expected gateway error")
	}
}

func TestRecordOperationMissingConfigDegrades(t *testing.T) {
	client := New(config.ChainConfig{})

	_, err := client.RecordOperation(context.Background(), "op-1", "RECEIPT", 1700000000)
	if err == nil {
		t.Fatal("expected init error")
	}
	if !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every subsequent call keeps failing instead of panicking.
	if _, err := client.RecordOperation(context.Background(), "op-2", "DELIVERY", 1700000001); err == nil {
		t.Fatal("expected repeated init error")
	}
}
