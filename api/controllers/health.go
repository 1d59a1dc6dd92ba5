package controllers

import (
	"net/http"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Stockmaster-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, pinger db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Stockmaster-Env", cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
