package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

type operationItemView struct {
	ProductID uuid.UUID `json:"productId"`
	Qty       int       `json:"qty"`
}

type operationView struct {
	ID               uuid.UUID              `json:"id"`
	Type             enums.OperationType    `json:"type"`
	Status           enums.OperationStatus  `json:"status"`
	FromWarehouseID  *uuid.UUID             `json:"fromWarehouseId,omitempty"`
	ToWarehouseID    *uuid.UUID             `json:"toWarehouseId,omitempty"`
	Items            []operationItemView    `json:"items"`
	CreatedBy        string                 `json:"createdBy"`
	Notes            string                 `json:"notes,omitempty"`
	TxHash           *string                `json:"txHash"`
	BlockchainStatus enums.BlockchainStatus `json:"blockchainStatus"`
	CreatedAt        time.Time              `json:"createdAt"`
	ValidatedAt      *time.Time             `json:"validatedAt,omitempty"`
}

func newOperationView(op *models.Operation) operationView {
	view := operationView{
		ID:               op.ID,
		Type:             op.Type,
		Status:           op.Status,
		FromWarehouseID:  op.FromWarehouseID,
		ToWarehouseID:    op.ToWarehouseID,
		Items:            make([]operationItemView, 0, len(op.Items)),
		CreatedBy:        op.CreatedBy,
		Notes:            op.Notes,
		TxHash:           op.TxHash,
		BlockchainStatus: op.BlockchainStatus,
		CreatedAt:        op.CreatedAt,
		ValidatedAt:      op.ValidatedAt,
	}
	for _, item := range op.Items {
		view.Items = append(view.Items, operationItemView{ProductID: item.ProductID, Qty: item.Qty})
	}
	return view
}

func newOperationViews(ops []models.Operation) []operationView {
	views := make([]operationView, 0, len(ops))
	for i := range ops {
		views = append(views, newOperationView(&ops[i]))
	}
	return views
}

type productView struct {
	ID               uuid.UUID      `json:"id"`
	SKU              string         `json:"sku"`
	Name             string         `json:"name"`
	Category         string         `json:"category"`
	UOM              string         `json:"uom"`
	ReorderLevel     int            `json:"reorderLevel"`
	IsActive         bool           `json:"isActive"`
	StockByWarehouse map[string]int `json:"stockByWarehouse"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func newProductView(product *models.Product) productView {
	view := productView{
		ID:               product.ID,
		SKU:              product.SKU,
		Name:             product.Name,
		Category:         product.Category,
		UOM:              product.UOM,
		ReorderLevel:     product.ReorderLevel,
		IsActive:         product.IsActive,
		StockByWarehouse: make(map[string]int, len(product.StockLevels)),
		CreatedAt:        product.CreatedAt,
	}
	// A stock_levels row exists only once the pair has movement history, so
	// every row gets a key, including a quantity back at zero.
	for _, level := range product.StockLevels {
		view.StockByWarehouse[level.WarehouseID.String()] = level.Quantity
	}
	return view
}

type warehouseView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Location  string     `json:"location,omitempty"`
	ManagerID *uuid.UUID `json:"managerId,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

func newWarehouseView(warehouse *models.Warehouse) warehouseView {
	return warehouseView{
		ID:        warehouse.ID,
		Name:      warehouse.Name,
		Code:      warehouse.Code,
		Location:  warehouse.Location,
		ManagerID: warehouse.ManagerID,
		IsActive:  warehouse.IsActive,
		CreatedAt: warehouse.CreatedAt,
	}
}
