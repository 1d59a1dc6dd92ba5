package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockmasterhq/stockmaster-backend/api/controllers"
	"github.com/stockmasterhq/stockmaster-backend/api/middleware"
	dashsvc "github.com/stockmasterhq/stockmaster-backend/internal/dashboard"
	opsvc "github.com/stockmasterhq/stockmaster-backend/internal/operations"
	productsvc "github.com/stockmasterhq/stockmaster-backend/internal/products"
	warehousesvc "github.com/stockmasterhq/stockmaster-backend/internal/warehouses"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

// Deps bundle everything the router needs.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DBPinger   db.Pinger
	Operations opsvc.Service
	Products   productsvc.Service
	Warehouses warehousesvc.Service
	Dashboard  dashsvc.Service
	Registry   *prometheus.Registry
}

// NewRouter builds the full HTTP surface. Writes require the manager or
// operator role; reads are open to any authenticated caller.
func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	writeRoles := []enums.MemberRole{enums.MemberRoleManager, enums.MemberRoleOperator}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/operations", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, writeRoles...))
				r.Post("/receipt", controllers.SubmitReceipt(deps.Operations, logg))
				r.Post("/delivery", controllers.SubmitDelivery(deps.Operations, logg))
				r.Post("/transfer", controllers.SubmitTransfer(deps.Operations, logg))
				r.Post("/adjustment", controllers.SubmitAdjustment(deps.Operations, logg))
				r.Post("/{id}/validate", controllers.ValidateOperation(deps.Operations, logg))
			})
			r.Get("/history", controllers.OperationHistory(deps.Operations, logg))
			r.Get("/{id}", controllers.GetOperation(deps.Operations, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.With(middleware.RequireAnyRole(logg, enums.MemberRoleManager)).
				Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Products, logg))
		})

		r.Route("/warehouses", func(r chi.Router) {
			r.With(middleware.RequireAnyRole(logg, enums.MemberRoleManager)).
				Post("/", controllers.CreateWarehouse(deps.Warehouses, logg))
			r.With(middleware.RequireAnyRole(logg, enums.MemberRoleManager)).
				Patch("/{id}", controllers.UpdateWarehouse(deps.Warehouses, logg))
			r.Get("/", controllers.ListWarehouses(deps.Warehouses, logg))
		})

		r.Get("/dashboard", controllers.Dashboard(deps.Dashboard, logg))
		r.Get("/alerts/low-stock", controllers.LowStockAlerts(deps.Products, logg))
	})

	return r
}
