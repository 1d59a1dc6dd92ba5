package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the master-data record stock movements reference.
type Product struct {
	ID           uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	SKU          string       `gorm:"column:sku;not null;uniqueIndex:products_sku_key"`
	Name         string       `gorm:"column:name;not null"`
	Category     string       `gorm:"column:category;not null;default:Uncategorized"`
	UOM          string       `gorm:"column:uom;not null"`
	ReorderLevel int          `gorm:"column:reorder_level;not null;default:0"`
	IsActive     bool         `gorm:"column:is_active;not null;default:true"`
	StockLevels  []StockLevel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
