package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
)

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error when DSN is empty")
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newSQLiteClient(t)

	type row struct {
		ID   string `gorm:"primaryKey"`
		Name string
	}
	if err := client.DB().AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	boom := errors.New("boom")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&row{ID: uuid.NewString(), Name: "doomed"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	if err := client.DB().Model(&row{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to discard writes, found %d rows", count)
	}
}

func TestWithTxCommits(t *testing.T) {
	client := newSQLiteClient(t)

	type row struct {
		ID   string `gorm:"primaryKey"`
		Name string
	}
	if err := client.DB().AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&row{ID: uuid.NewString(), Name: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("unexpected tx error: %v", err)
	}

	var count int64
	if err := client.DB().Model(&row{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed row, found %d", count)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not be a violation")
	}
	err := errors.New(`duplicate key value violates unique constraint "products_sku_key"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic duplicate key detection")
	}
	if !IsUniqueViolation(err, "products_sku_key") {
		t.Fatal("expected constraint-name detection")
	}
	if IsUniqueViolation(err, "warehouses_code_key") {
		t.Fatal("unexpected match for unrelated constraint")
	}
}

func newSQLiteClient(t *testing.T) *Client {
	t.Helper()
	dsn := "file:dbclient_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewFromGorm(conn)
}
