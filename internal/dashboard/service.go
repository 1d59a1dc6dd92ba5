package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/redis"
)

// Snapshot is the dashboard rollup. Pending counters track operations still
// in a pre-DONE status.
type Snapshot struct {
	TotalProducts     int64 `json:"totalProducts"`
	LowStockCount     int64 `json:"lowStockCount"`
	PendingReceipts   int64 `json:"pendingReceipts"`
	PendingDeliveries int64 `json:"pendingDeliveries"`
	InternalTransfers int64 `json:"internalTransfers"`
}

// Cache is the slice of the redis client the dashboard uses.
type Cache interface {
	CacheKey(parts ...string) string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service computes dashboard snapshots.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService wires a dashboard service. cache may be nil, in which case every
// call recomputes from the store.
func NewService(repo Repository, cache Cache, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &service{repo: repo, cache: cache, ttl: ttl, logg: logg}, nil
}

func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	totalProducts, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountPendingByType(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		TotalProducts:     totalProducts,
		LowStockCount:     lowStock,
		PendingReceipts:   pending[enums.OperationTypeReceipt],
		PendingDeliveries: pending[enums.OperationTypeDelivery],
		InternalTransfers: pending[enums.OperationTypeTransfer],
	}
	s.toCache(ctx, snapshot)
	return snapshot, nil
}

// fromCache is best effort: a cache failure falls through to the store.
func (s *service) fromCache(ctx context.Context) *Snapshot {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey("dashboard", "snapshot"))
	if err != nil {
		if err != redis.ErrCacheMiss {
			s.logg.Warn(ctx, "dashboard cache read failed")
		}
		return nil
	}
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

func (s *service) toCache(ctx context.Context, snapshot *Snapshot) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CacheKey("dashboard", "snapshot"), string(raw), s.ttl); err != nil {
		s.logg.Warn(ctx, "dashboard cache write failed")
	}
}
