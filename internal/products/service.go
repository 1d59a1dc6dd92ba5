package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	apperrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
)

// CreateProductInput carries the fields needed to register a product.
type CreateProductInput struct {
	SKU          string
	Name         string
	Category     string
	UOM          string
	ReorderLevel int
}

// Service exposes product master data and the low-stock view.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)
	EnsureActive(ctx context.Context, ids []uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a product service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.SKU == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "sku is required")
	}
	if input.Name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "name is required")
	}
	if input.UOM == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "uom is required")
	}
	if input.ReorderLevel < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "reorderLevel must be zero or positive")
	}

	product := &models.Product{
		SKU:          input.SKU,
		Name:         input.Name,
		Category:     input.Category,
		UOM:          input.UOM,
		ReorderLevel: input.ReorderLevel,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "products_sku_key") {
			return nil, apperrors.New(apperrors.CodeConflict, fmt.Sprintf("sku %q already exists", input.SKU))
		}
		return nil, err
	}
	return product, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) List(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *service) LowStock(ctx context.Context) ([]LowStockRow, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []LowStockRow{}
	}
	return rows, nil
}

// EnsureActive verifies every id references an existing, active product.
func (s *service) EnsureActive(ctx context.Context, ids []uuid.UUID) error {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil
	}

	found, err := s.repo.ListByIDs(ctx, unique)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, product := range found {
		byID[product.ID] = product
	}
	for _, id := range unique {
		product, ok := byID[id]
		if !ok {
			return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("product %s not found", id)).
				WithDetails(map[string]string{"productId": id.String()})
		}
		if !product.IsActive {
			return apperrors.New(apperrors.CodeStateConflict, fmt.Sprintf("product %s is inactive", product.SKU)).
				WithDetails(map[string]string{"productId": id.String()})
		}
	}
	return nil
}
