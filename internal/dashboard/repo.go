package dashboard

import (
	"context"

	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// Repository runs the dashboard's read-only aggregate queries.
type Repository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	CountPendingByType(ctx context.Context) (map[enums.OperationType]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a dashboard repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *repository) CountLowStock(ctx context.Context) (int64, error) {
	sub := r.db.WithContext(ctx).
		Table("products").
		Select("products.id").
		Joins("LEFT JOIN stock_levels ON stock_levels.product_id = products.id").
		Where("products.is_active = ?", true).
		Group("products.id, products.reorder_level").
		Having("COALESCE(SUM(stock_levels.quantity), 0) <= products.reorder_level")

	var count int64
	err := r.db.WithContext(ctx).Table("(?) AS low", sub).Count(&count).Error
	return count, err
}

func (r *repository) CountPendingByType(ctx context.Context) (map[enums.OperationType]int64, error) {
	type bucket struct {
		Type  enums.OperationType
		Count int64
	}
	var buckets []bucket
	err := r.db.WithContext(ctx).Model(&models.Operation{}).
		Select("type, COUNT(*) AS count").
		Where("status IN ?", enums.PendingOperationStatuses).
		Group("type").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.OperationType]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Type] = b.Count
	}
	return counts, nil
}
