package warehouses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	apperrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:warehouses_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Warehouse{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func TestCreateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateWarehouseInput{Name: "North Depot", Code: "WH-N", Location: "Oslo"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.Create(ctx, CreateWarehouseInput{Name: "East Depot", Code: "WH-E"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	warehouses, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(warehouses) != 2 {
		t.Fatalf("expected 2 warehouses, got %d", len(warehouses))
	}
	if warehouses[0].Name != "East Depot" {
		t.Fatalf("expected name ordering, got %s first", warehouses[0].Name)
	}
}

func TestCreateValidationAndDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateWarehouseInput{Code: "WH-X"})
	if appErr := apperrors.As(err); appErr == nil || appErr.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	_, err = svc.Create(ctx, CreateWarehouseInput{Name: "No Code"})
	if appErr := apperrors.As(err); appErr == nil || appErr.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	if _, err := svc.Create(ctx, CreateWarehouseInput{Name: "Depot", Code: "WH-DUP"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	_, err = svc.Create(ctx, CreateWarehouseInput{Name: "Other", Code: "WH-DUP"})
	if appErr := apperrors.As(err); appErr == nil || appErr.Code() != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	warehouse, err := svc.Create(ctx, CreateWarehouseInput{Name: "Depot", Code: "WH-U"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	name := "Renamed Depot"
	inactive := false
	updated, err := svc.Update(ctx, warehouse.ID, UpdateWarehouseInput{Name: &name, IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Name != name || updated.IsActive {
		t.Fatalf("unexpected warehouse after update: %+v", updated)
	}

	_, err = svc.Update(ctx, uuid.New(), UpdateWarehouseInput{Name: &name})
	if appErr := apperrors.As(err); appErr == nil || appErr.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestEnsureActive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	warehouse, err := svc.Create(ctx, CreateWarehouseInput{Name: "Depot", Code: "WH-A"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.EnsureActive(ctx, []uuid.UUID{warehouse.ID}); err != nil {
		t.Fatalf("EnsureActive error: %v", err)
	}

	err = svc.EnsureActive(ctx, []uuid.UUID{uuid.New()})
	if appErr := apperrors.As(err); appErr == nil || appErr.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	inactive := false
	if _, err := svc.Update(ctx, warehouse.ID, UpdateWarehouseInput{IsActive: &inactive}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	err = svc.EnsureActive(ctx, []uuid.UUID{warehouse.ID})
	if appErr := apperrors.As(err); appErr == nil || appErr.Code() != apperrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}
