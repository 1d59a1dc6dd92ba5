package warehouses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
)

// Repository manages warehouse master data.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, warehouse *models.Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	List(ctx context.Context) ([]models.Warehouse, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Warehouse, error)
	Update(ctx context.Context, warehouse *models.Warehouse) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a warehouse repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, warehouse *models.Warehouse) error {
	return r.db.WithContext(ctx).Create(warehouse).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *repository) List(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Warehouse, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var warehouses []models.Warehouse
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *repository) Update(ctx context.Context, warehouse *models.Warehouse) error {
	return r.db.WithContext(ctx).Save(warehouse).Error
}
