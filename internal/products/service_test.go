package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	apperrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.StockLevel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc, conn
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductInput{
		SKU:          "SKU-001",
		Name:         "Compost Bag",
		Category:     "Soil",
		UOM:          "bag",
		ReorderLevel: 5,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	got, err := svc.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.SKU != "SKU-001" || !got.IsActive {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateProductInput{
		{Name: "No SKU", UOM: "pcs"},
		{SKU: "SKU-1", UOM: "pcs"},
		{SKU: "SKU-2", Name: "No UOM"},
		{SKU: "SKU-3", Name: "Bad reorder", UOM: "pcs", ReorderLevel: -1},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, input)
		appErr := apperrors.As(err)
		if appErr == nil || appErr.Code() != apperrors.CodeValidation {
			t.Fatalf("expected VALIDATION_ERROR for %+v, got %v", input, err)
		}
	}
}

func TestCreateDuplicateSKU(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := CreateProductInput{SKU: "SKU-DUP", Name: "First", UOM: "pcs"}
	if _, err := svc.Create(ctx, input); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	input.Name = "Second"
	_, err := svc.Create(ctx, input)
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), uuid.New())
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestEnsureActive(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	active, err := svc.Create(ctx, CreateProductInput{SKU: "SKU-A", Name: "Active", UOM: "pcs"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	retired, err := svc.Create(ctx, CreateProductInput{SKU: "SKU-R", Name: "Retired", UOM: "pcs"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := conn.Model(&models.Product{}).Where("id = ?", retired.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if err := svc.EnsureActive(ctx, []uuid.UUID{active.ID, active.ID}); err != nil {
		t.Fatalf("EnsureActive error: %v", err)
	}

	err = svc.EnsureActive(ctx, []uuid.UUID{active.ID, uuid.New()})
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	err = svc.EnsureActive(ctx, []uuid.UUID{retired.ID})
	appErr = apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestLowStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	low, err := svc.Create(ctx, CreateProductInput{SKU: "SKU-LOW", Name: "Seed Tray", Category: "Seeds", UOM: "pcs", ReorderLevel: 10})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	high, err := svc.Create(ctx, CreateProductInput{SKU: "SKU-HIGH", Name: "Watering Can", UOM: "pcs", ReorderLevel: 2})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	warehouseID := uuid.New()
	levels := []models.StockLevel{
		{ProductID: low.ID, WarehouseID: warehouseID, Quantity: 5},
		{ProductID: high.ID, WarehouseID: warehouseID, Quantity: 50},
	}
	if err := conn.Create(&levels).Error; err != nil {
		t.Fatalf("seed levels: %v", err)
	}

	rows, err := svc.LowStock(ctx)
	if err != nil {
		t.Fatalf("LowStock error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 low-stock product, got %d", len(rows))
	}
	if rows[0].ID != low.ID || rows[0].TotalStock != 5 || rows[0].ReorderLevel != 10 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}

	// A product with no stock rows reads as zero on hand.
	empty, err := svc.Create(ctx, CreateProductInput{SKU: "SKU-EMPTY", Name: "Gloves", UOM: "pair", ReorderLevel: 1})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	rows, err = svc.LowStock(ctx)
	if err != nil {
		t.Fatalf("LowStock error: %v", err)
	}
	ids := map[uuid.UUID]bool{}
	for _, row := range rows {
		ids[row.ID] = true
	}
	if !ids[empty.ID] || !ids[low.ID] || ids[high.ID] {
		t.Fatalf("unexpected low-stock set: %+v", rows)
	}
}

func TestLowStockBoundaryIsInclusive(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductInput{SKU: "SKU-EDGE", Name: "Edge", UOM: "pcs", ReorderLevel: 10})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	level := models.StockLevel{ProductID: product.ID, WarehouseID: uuid.New(), Quantity: 10}
	if err := conn.Create(&level).Error; err != nil {
		t.Fatalf("seed level: %v", err)
	}

	rows, err := svc.LowStock(ctx)
	if err != nil {
		t.Fatalf("LowStock error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("stock equal to reorder level must alert, got %d rows", len(rows))
	}

	// One more unit clears the alert.
	if err := conn.Model(&models.StockLevel{}).
		Where("product_id = ?", product.ID).
		Update("quantity", 11).Error; err != nil {
		t.Fatalf("update level: %v", err)
	}
	rows, err = svc.LowStock(ctx)
	if err != nil {
		t.Fatalf("LowStock error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no alerts above reorder level, got %+v", rows)
	}
}
