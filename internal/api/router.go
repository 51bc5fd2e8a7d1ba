package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/agrienhance/farmplot/internal/api/handlers"
	mw "github.com/agrienhance/farmplot/internal/api/middleware"
	"github.com/agrienhance/farmplot/internal/buildconfig"
	"github.com/agrienhance/farmplot/internal/config"
	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/service"
	"github.com/agrienhance/farmplot/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and the process-level counters the metrics endpoint
// reports.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, idp domain.IdentityProvider, logger *zap.Logger) *App {
	// Stores
	tenantStore := store.NewTenantStore(db)
	farmStore := store.NewFarmStore(db)
	plotStore := store.NewPlotStore(db)
	tenureStore := store.NewLandTenureStore(db)
	poiStore := store.NewPOIStore(db)

	// Services
	tenantSvc := service.NewTenantService(tenantStore, idp, logger)
	farmSvc := service.NewFarmService(farmStore)
	plotSvc := service.NewPlotService(plotStore, farmStore, tenureStore, logger)
	poiSvc := service.NewPOIService(poiStore, farmStore, plotStore)

	// Handlers
	tenantHandler := handlers.NewTenantHandler(tenantSvc)
	farmHandler := handlers.NewFarmHandler(farmSvc)
	plotHandler := handlers.NewPlotHandler(plotSvc)
	poiHandler := handlers.NewPOIHandler(poiSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no auth)
	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	// Tenant provisioning (no auth — bootstrap endpoint)
	r.Post("/v1/tenants", tenantHandler.Create)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(tenantSvc))

		r.Route("/farms", func(r chi.Router) {
			r.Post("/", farmHandler.Create)
			r.Get("/", farmHandler.List)
			r.Route("/{farmID}", func(r chi.Router) {
				r.Get("/", farmHandler.GetByID)
				r.Put("/", farmHandler.Update)
				r.Delete("/", farmHandler.Delete)
				r.Post("/pois", poiHandler.CreateUnder(domain.ParentFarm, "farmID"))
				r.Get("/pois", poiHandler.ListUnder(domain.ParentFarm, "farmID"))
			})
		})

		r.Route("/plots", func(r chi.Router) {
			r.Post("/", plotHandler.Create)
			r.Get("/", plotHandler.List)
			r.Route("/{plotID}", func(r chi.Router) {
				r.Get("/", plotHandler.GetByID)
				r.Put("/", plotHandler.Update)
				r.Delete("/", plotHandler.Delete)

				r.Route("/land-tenure", func(r chi.Router) {
					r.Put("/", plotHandler.UpsertTenure)
					r.Get("/", plotHandler.GetTenure)
					r.Delete("/", plotHandler.DeleteTenure)
				})

				r.Post("/pois", poiHandler.CreateUnder(domain.ParentPlot, "plotID"))
				r.Get("/pois", poiHandler.ListUnder(domain.ParentPlot, "plotID"))
			})
		})

		r.Route("/pois/{poiID}", func(r chi.Router) {
			r.Get("/", poiHandler.GetByID)
			r.Put("/", poiHandler.Update)
			r.Delete("/", poiHandler.Delete)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, idp domain.IdentityProvider, logger *zap.Logger) *chi.Mux {
	return NewApp(db, idp, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Compile-time checks that the stores satisfy their domain interfaces.
var (
	_ domain.TenantStore     = (*store.TenantStore)(nil)
	_ domain.FarmStore       = (*store.FarmStore)(nil)
	_ domain.PlotStore       = (*store.PlotStore)(nil)
	_ domain.LandTenureStore = (*store.LandTenureStore)(nil)
	_ domain.POIStore        = (*store.POIStore)(nil)
)
