package stockledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
)

// ErrInsufficientStock is returned when a debit would push a stock level
// below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrStaleQuantity is returned when a compare-and-set lost a race with a
// concurrent writer and should be retried against a fresh read.
var ErrStaleQuantity = errors.New("stock quantity changed concurrently")

// Engine applies quantity changes to per-warehouse stock levels. All writes
// are expressed as single atomic statements so concurrent operations never
// read-modify-write each other's totals.
type Engine interface {
	WithTx(tx *gorm.DB) Engine
	ApplyDelta(ctx context.Context, productID, warehouseID uuid.UUID, delta int) error
	Quantity(ctx context.Context, productID, warehouseID uuid.UUID) (int, error)
	CompareAndSet(ctx context.Context, productID, warehouseID uuid.UUID, expected, target int) error
}

type engine struct {
	db *gorm.DB
}

// NewEngine returns a stock engine bound to the provided database.
func NewEngine(db *gorm.DB) Engine {
	return &engine{db: db}
}

func (e *engine) WithTx(tx *gorm.DB) Engine {
	if tx == nil {
		return e
	}
	return &engine{db: tx}
}

// ApplyDelta adjusts the stock level by delta in one relative statement. A
// missing row counts as zero stock: credits upsert the row, debits against
// it fail with ErrInsufficientStock.
func (e *engine) ApplyDelta(ctx context.Context, productID, warehouseID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}

	if delta < 0 {
		// Debits only ever update: a missing row is zero stock, and the
		// guard rejects anything that would go negative.
		updated, err := e.tryUpdate(ctx, productID, warehouseID, delta)
		if err != nil {
			return err
		}
		if !updated {
			return ErrInsufficientStock
		}
		return nil
	}

	// Credits insert-or-increment in a single statement. A failed insert
	// must not be retried inside the surrounding transaction: Postgres
	// aborts the transaction on constraint violations, so the race has to
	// be resolved by the database itself.
	level := &models.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    delta,
		UpdatedAt:   time.Now().UTC(),
	}
	return e.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("quantity + ?", delta),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(level).Error
}

func (e *engine) tryUpdate(ctx context.Context, productID, warehouseID uuid.UUID, delta int) (bool, error) {
	res := e.db.WithContext(ctx).Model(&models.StockLevel{}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Where("quantity + ? >= 0", delta).
		UpdateColumns(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (e *engine) exists(ctx context.Context, productID, warehouseID uuid.UUID) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.StockLevel{}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Quantity reads the current stock level. A missing row reads as zero.
func (e *engine) Quantity(ctx context.Context, productID, warehouseID uuid.UUID) (int, error) {
	var level models.StockLevel
	err := e.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return level.Quantity, nil
}

// CompareAndSet writes target only if the stored quantity still equals
// expected. Adjustments use this so a recount never clobbers movements
// committed between the read and the write.
func (e *engine) CompareAndSet(ctx context.Context, productID, warehouseID uuid.UUID, expected, target int) error {
	if target < 0 {
		return ErrInsufficientStock
	}

	if expected == 0 {
		exists, err := e.exists(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if !exists {
			level := &models.StockLevel{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Quantity:    target,
				UpdatedAt:   time.Now().UTC(),
			}
			if err := e.db.WithContext(ctx).Create(level).Error; err != nil {
				// Concurrent insert; the caller re-reads and retries.
				return ErrStaleQuantity
			}
			return nil
		}
	}

	res := e.db.WithContext(ctx).Model(&models.StockLevel{}).
		Where("product_id = ? AND warehouse_id = ? AND quantity = ?", productID, warehouseID, expected).
		UpdateColumns(map[string]any{
			"quantity":   target,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleQuantity
	}
	return nil
}
