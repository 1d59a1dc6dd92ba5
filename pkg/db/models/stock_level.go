package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLevel is one product's on-hand quantity in one warehouse. Rows are
// written only by the stock ledger engine; everything else reads.
type StockLevel struct {
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;primaryKey"`
	Quantity    int       `gorm:"column:quantity;not null;default:0"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StockLevel) TableName() string {
	return "stock_levels"
}
