package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// StockLedgerEntry is the immutable audit record of one warehouse-side effect
// of an operation. Rows are never updated or deleted after creation.
type StockLedgerEntry struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	Type            enums.OperationType `gorm:"column:type;type:operation_type_enum;not null"`
	FromWarehouseID *uuid.UUID          `gorm:"column:from_warehouse_id;type:uuid"`
	ToWarehouseID   *uuid.UUID          `gorm:"column:to_warehouse_id;type:uuid"`
	QtyChange       int                 `gorm:"column:qty_change;not null"`
	OperationID     uuid.UUID           `gorm:"column:operation_id;type:uuid;not null;index"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (e *StockLedgerEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (StockLedgerEntry) TableName() string {
	return "stock_ledger_entries"
}
