package warehouses

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

// CreateWarehouseInput carries the fields needed to register a warehouse.
type CreateWarehouseInput struct {
	Name      string
	Code      string
	Location  string
	ManagerID *uuid.UUID
}

// UpdateWarehouseInput carries the mutable warehouse fields. Nil means keep.
type UpdateWarehouseInput struct {
	Name      *string
	Location  *string
	ManagerID *uuid.UUID
	IsActive  *bool
}

// Service exposes warehouse master data.
type Service interface {
	Create(ctx context.Context, input CreateWarehouseInput) (*models.Warehouse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	List(ctx context.Context) ([]models.Warehouse, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateWarehouseInput) (*models.Warehouse, error)
	EnsureActive(ctx context.Context, ids []uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a warehouse service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouses repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateWarehouseInput) (*models.Warehouse, error) {
	if input.Name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "name is required")
	}
	if input.Code == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "code is required")
	}

	warehouse := &models.Warehouse{
		Name:      input.Name,
		Code:      input.Code,
		Location:  input.Location,
		ManagerID: input.ManagerID,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, warehouse); err != nil {
		if db.IsUniqueViolation(err, "warehouses_code_key") {
			return nil, apperrors.New(apperrors.CodeConflict, fmt.Sprintf("code %q already exists", input.Code))
		}
		return nil, err
	}
	return warehouse, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "warehouse not found")
	}
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (s *service) List(ctx context.Context) ([]models.Warehouse, error) {
	warehouses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if warehouses == nil {
		warehouses = []models.Warehouse{}
	}
	return warehouses, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateWarehouseInput) (*models.Warehouse, error) {
	warehouse, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "name must not be empty")
		}
		warehouse.Name = *input.Name
	}
	if input.Location != nil {
		warehouse.Location = *input.Location
	}
	if input.ManagerID != nil {
		warehouse.ManagerID = input.ManagerID
	}
	if input.IsActive != nil {
		warehouse.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// EnsureActive verifies every id references an existing, active warehouse.
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

	byID := make(map[uuid.UUID]models.Warehouse, len(found))
	for _, warehouse := range found {
		byID[warehouse.ID] = warehouse
	}
	for _, id := range unique {
		warehouse, ok := byID[id]
		if !ok {
			return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("warehouse %s not found", id)).
				WithDetails(map[string]string{"warehouseId": id.String()})
		}
		if !warehouse.IsActive {
			return apperrors.New(apperrors.CodeStateConflict, fmt.Sprintf("warehouse %s is inactive", warehouse.Code)).
				WithDetails(map[string]string{"warehouseId": id.String()})
		}
	}
	return nil
}
