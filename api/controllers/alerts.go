package controllers

import (
	"net/http"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	productsvc "github.com/stockmasterhq/stockmaster-backend/internal/products"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

// LowStockAlerts lists products whose total stock has fallen to or below
// their reorder level.
func LowStockAlerts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
