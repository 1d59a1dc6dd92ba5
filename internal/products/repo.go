package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
)

// LowStockRow is one low-stock alert line, aggregated across warehouses.
type LowStockRow struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	Category     string    `json:"category"`
	UOM          string    `json:"uom"`
	TotalStock   int       `json:"totalStock"`
	ReorderLevel int       `json:"reorderLevel"`
}

// Repository manages product master data.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a product repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("StockLevels").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, category string) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Preload("StockLevels").Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// LowStock returns active products whose summed stock across all warehouses
// is at or below their reorder level. Products with no stock rows count as
// zero on hand.
func (r *repository) LowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.id, products.name, products.sku, products.category, products.uom, products.reorder_level, COALESCE(SUM(stock_levels.quantity), 0) AS total_stock").
		Joins("LEFT JOIN stock_levels ON stock_levels.product_id = products.id").
		Where("products.is_active = ?", true).
		Group("products.id, products.name, products.sku, products.category, products.uom, products.reorder_level").
		Having("COALESCE(SUM(stock_levels.quantity), 0) <= products.reorder_level").
		Order("products.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
