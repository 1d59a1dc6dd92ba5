package controllers

import (
	"net/http"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	dashsvc "github.com/stockmasterhq/stockmaster-backend/internal/dashboard"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

// Dashboard returns the aggregate inventory snapshot.
func Dashboard(svc dashsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
