package stockledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
)

// Repository manages the append-only stock ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	AppendEntries(ctx context.Context, entries []models.StockLedgerEntry) error
	ListByProductID(ctx context.Context, productID uuid.UUID, limit int) ([]models.StockLedgerEntry, error)
	ListByOperationID(ctx context.Context, operationID uuid.UUID) ([]models.StockLedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) AppendEntries(ctx context.Context, entries []models.StockLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) ListByProductID(ctx context.Context, productID uuid.UUID, limit int) ([]models.StockLedgerEntry, error) {
	var entries []models.StockLedgerEntry
	q := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByOperationID(ctx context.Context, operationID uuid.UUID) ([]models.StockLedgerEntry, error) {
	var entries []models.StockLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("operation_id = ?", operationID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
