package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/api/middleware"
	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	"github.com/stockmasterhq/stockmaster-backend/api/validators"
	opsvc "github.com/stockmasterhq/stockmaster-backend/internal/operations"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

type movementItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
}

type receiptRequest struct {
	WarehouseID uuid.UUID             `json:"warehouseId" validate:"required"`
	Items       []movementItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes       string                `json:"notes,omitempty"`
	Draft       bool                  `json:"draft,omitempty"`
}

type transferRequest struct {
	FromWarehouseID uuid.UUID             `json:"fromWarehouseId" validate:"required"`
	ToWarehouseID   uuid.UUID             `json:"toWarehouseId" validate:"required"`
	Items           []movementItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes           string                `json:"notes,omitempty"`
	Draft           bool                  `json:"draft,omitempty"`
}

type adjustmentRequest struct {
	WarehouseID uuid.UUID `json:"warehouseId" validate:"required"`
	ProductID   uuid.UUID `json:"productId" validate:"required"`
	// Pointer so an explicit zero count is distinguishable from an
	// omitted field; a missing count must never read as "counted 0".
	CountedQty *int   `json:"countedQty" validate:"required,gte=0"`
	Notes      string `json:"notes,omitempty"`
}

type submitOperationResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
	TxHash  *string   `json:"txHash"`
}

func toItemInputs(items []movementItemRequest) []opsvc.ItemInput {
	inputs := make([]opsvc.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, opsvc.ItemInput{ProductID: item.ProductID, Qty: item.Qty})
	}
	return inputs
}

// SubmitReceipt records incoming stock at a warehouse.
func SubmitReceipt(svc opsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload receiptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouseID := payload.WarehouseID
		op, err := svc.SubmitMovement(r.Context(), opsvc.SubmitMovementInput{
			Type:          enums.OperationTypeReceipt,
			ToWarehouseID: &warehouseID,
			Items:         toItemInputs(payload.Items),
			CreatedBy:     middleware.UserIDFromContext(r.Context()),
			Notes:         payload.Notes,
			Draft:         payload.Draft,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, submitOperationResponse{
			Message: "Receipt recorded",
			ID:      op.ID,
			TxHash:  op.TxHash,
		})
	}
}

// SubmitDelivery records outgoing stock from a warehouse.
func SubmitDelivery(svc opsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload receiptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouseID := payload.WarehouseID
		op, err := svc.SubmitMovement(r.Context(), opsvc.SubmitMovementInput{
			Type:            enums.OperationTypeDelivery,
			FromWarehouseID: &warehouseID,
			Items:           toItemInputs(payload.Items),
			CreatedBy:       middleware.UserIDFromContext(r.Context()),
			Notes:           payload.Notes,
			Draft:           payload.Draft,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, submitOperationResponse{
			Message: "Delivery recorded",
			ID:      op.ID,
			TxHash:  op.TxHash,
		})
	}
}

// SubmitTransfer moves stock between two warehouses.
func SubmitTransfer(svc opsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload transferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, to := payload.FromWarehouseID, payload.ToWarehouseID
		op, err := svc.SubmitMovement(r.Context(), opsvc.SubmitMovementInput{
			Type:            enums.OperationTypeTransfer,
			FromWarehouseID: &from,
			ToWarehouseID:   &to,
			Items:           toItemInputs(payload.Items),
			CreatedBy:       middleware.UserIDFromContext(r.Context()),
			Notes:           payload.Notes,
			Draft:           payload.Draft,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, submitOperationResponse{
			Message: "Transfer recorded",
			ID:      op.ID,
			TxHash:  op.TxHash,
		})
	}
}

// SubmitAdjustment reconciles a physical recount against recorded stock.
func SubmitAdjustment(svc opsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adjustmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		op, err := svc.SubmitAdjustment(r.Context(), opsvc.SubmitAdjustmentInput{
			WarehouseID: payload.WarehouseID,
			ProductID:   payload.ProductID,
			CountedQty:  *payload.CountedQty,
			CreatedBy:   middleware.UserIDFromContext(r.Context()),
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, submitOperationResponse{
			Message: "Adjustment recorded",
			ID:      op.ID,
			TxHash:  op.TxHash,
		})
	}
}

// ValidateOperation promotes a draft operation to DONE.
func ValidateOperation(svc opsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid operation id"))
			return
		}

		op, err := svc.Validate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOperationView(op))
	}
}

// GetOperation returns a single operation by id.
func GetOperation(svc opsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid operation id"))
			return
		}

		op, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOperationView(op))
	}
}

// OperationHistory lists operations matching the query filters, newest first.
func OperationHistory(svc opsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := historyFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ops, err := svc.History(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOperationViews(ops))
	}
}

func historyFiltersFromQuery(r *http.Request) (opsvc.HistoryFilters, error) {
	var filters opsvc.HistoryFilters

	if raw := validators.QueryString(r, "type"); raw != "" {
		opType, err := enums.ParseOperationType(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter")
		}
		filters.Type = &opType
	}
	if raw := validators.QueryString(r, "status"); raw != "" {
		status, err := enums.ParseOperationStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}

	warehouseID, err := validators.ParseQueryUUID(r, "warehouseId")
	if err != nil {
		return filters, err
	}
	filters.WarehouseID = warehouseID

	filters.Category = validators.QueryString(r, "category")

	startDate, _, err := validators.ParseQueryDate(r, "startDate")
	if err != nil {
		return filters, err
	}
	filters.StartDate = startDate

	endDate, bareDate, err := validators.ParseQueryDate(r, "endDate")
	if err != nil {
		return filters, err
	}
	if endDate != nil {
		// A bare date as the end bound means "through the end of that day".
		// An explicit RFC 3339 timestamp, midnight included, is used as-is.
		if bareDate {
			widened := endDate.Add(24*time.Hour - time.Nanosecond)
			endDate = &widened
		}
		filters.EndDate = endDate
	}

	limit, err := validators.ParseQueryInt(r, "limit")
	if err != nil {
		return filters, err
	}
	filters.Limit = limit

	return filters, nil
}
