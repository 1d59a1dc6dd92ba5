package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	"github.com/stockmasterhq/stockmaster-backend/api/validators"
	warehousesvc "github.com/stockmasterhq/stockmaster-backend/internal/warehouses"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

type createWarehouseRequest struct {
	Name      string     `json:"name" validate:"required"`
	Code      string     `json:"code" validate:"required"`
	Location  string     `json:"location,omitempty"`
	ManagerID *uuid.UUID `json:"managerId,omitempty"`
}

type updateWarehouseRequest struct {
	Name      *string    `json:"name,omitempty"`
	Location  *string    `json:"location,omitempty"`
	ManagerID *uuid.UUID `json:"managerId,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
}

// CreateWarehouse registers a warehouse.
func CreateWarehouse(svc warehousesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createWarehouseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouse, err := svc.Create(r.Context(), warehousesvc.CreateWarehouseInput{
			Name:      payload.Name,
			Code:      payload.Code,
			Location:  payload.Location,
			ManagerID: payload.ManagerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newWarehouseView(warehouse))
	}
}

// ListWarehouses lists all warehouses.
func ListWarehouses(svc warehousesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouses, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]warehouseView, 0, len(warehouses))
		for i := range warehouses {
			views = append(views, newWarehouseView(&warehouses[i]))
		}
		responses.WriteSuccess(w, views)
	}
}

// UpdateWarehouse patches warehouse master data.
func UpdateWarehouse(svc warehousesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid warehouse id"))
			return
		}

		var payload updateWarehouseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouse, err := svc.Update(r.Context(), id, warehousesvc.UpdateWarehouseInput{
			Name:      payload.Name,
			Location:  payload.Location,
			ManagerID: payload.ManagerID,
			IsActive:  payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newWarehouseView(warehouse))
	}
}
