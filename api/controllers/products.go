package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	"github.com/stockmasterhq/stockmaster-backend/api/validators"
	productsvc "github.com/stockmasterhq/stockmaster-backend/internal/products"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

type createProductRequest struct {
	SKU          string `json:"sku" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Category     string `json:"category,omitempty"`
	UOM          string `json:"uom" validate:"required"`
	ReorderLevel int    `json:"reorderLevel,omitempty" validate:"gte=0"`
}

// CreateProduct registers a product.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), productsvc.CreateProductInput{
			SKU:          payload.SKU,
			Name:         payload.Name,
			Category:     payload.Category,
			UOM:          payload.UOM,
			ReorderLevel: payload.ReorderLevel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductView(product))
	}
}

// GetProduct returns a product with its per-warehouse stock.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductView(product))
	}
}

// ListProducts lists products, optionally filtered by category.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.List(r.Context(), validators.QueryString(r, "category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]productView, 0, len(products))
		for i := range products {
			views = append(views, newProductView(&products[i]))
		}
		responses.WriteSuccess(w, views)
	}
}
