package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// Operation records one stock movement transaction. Once DONE the row is
// immutable except for the reconciliation fields, which the reconciliation
// worker sets exactly once.
type Operation struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Type             enums.OperationType    `gorm:"column:type;type:operation_type_enum;not null"`
	Status           enums.OperationStatus  `gorm:"column:status;type:operation_status_enum;not null"`
	FromWarehouseID  *uuid.UUID             `gorm:"column:from_warehouse_id;type:uuid"`
	ToWarehouseID    *uuid.UUID             `gorm:"column:to_warehouse_id;type:uuid"`
	Items            []OperationItem        `gorm:"foreignKey:OperationID;constraint:OnDelete:CASCADE"`
	CreatedBy        string                 `gorm:"column:created_by;not null"`
	Notes            string                 `gorm:"column:notes"`
	TxHash           *string                `gorm:"column:tx_hash"`
	BlockchainStatus enums.BlockchainStatus `gorm:"column:blockchain_status;type:blockchain_status_enum;not null;default:PENDING"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	ValidatedAt      *time.Time             `gorm:"column:validated_at"`
}

func (o *Operation) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OperationItem is one line of an operation's ordered items sequence. For
// ADJUSTMENT operations Qty stores the signed counted-vs-current diff.
type OperationItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OperationID uuid.UUID `gorm:"column:operation_id;type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Qty         int       `gorm:"column:qty;not null"`
	Position    int       `gorm:"column:position;not null"`
}

func (i *OperationItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
