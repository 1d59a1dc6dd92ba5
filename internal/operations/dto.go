package operations

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// ItemInput is one line of a movement operation.
type ItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// SubmitMovementInput drives RECEIPT, DELIVERY and TRANSFER submissions.
type SubmitMovementInput struct {
	Type            enums.OperationType
	FromWarehouseID *uuid.UUID
	ToWarehouseID   *uuid.UUID
	Items           []ItemInput
	CreatedBy       string
	Notes           string
	Draft           bool
}

// SubmitAdjustmentInput drives an ADJUSTMENT recount submission. CountedQty
// is the physically counted quantity, not a delta.
type SubmitAdjustmentInput struct {
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
	CountedQty  int
	CreatedBy   string
	Notes       string
}

// HistoryFilters narrows a history query. Every field is optional; zero
// values mean "no filter". Date bounds are inclusive.
type HistoryFilters struct {
	Type        *enums.OperationType
	Status      *enums.OperationStatus
	WarehouseID *uuid.UUID
	Category    string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
}
