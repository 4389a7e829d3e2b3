// Package rest wires the HTTP surface: one chi router over the element
// store, the timeline change log, history maintenance and epochs.
package rest

import (
	"net/http"

	"atlas-backend/infrastructure/di"
	"atlas-backend/interfaces/http/rest/handlers"
	"atlas-backend/interfaces/http/rest/middleware"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.container.Config.Environment != "production")

	elementHandler := handlers.NewElementHandler(
		rt.container.ElementService,
		rt.container.SnapshotService,
		errorHandler,
		rt.logger,
	)
	timelineHandler := handlers.NewTimelineHandler(
		rt.container.TimelineService,
		rt.container.HistoryService,
		errorHandler,
		rt.logger,
	)
	epochHandler := handlers.NewEpochHandler(rt.container.EpochService, errorHandler, rt.logger)
	maintenanceHandler := handlers.NewMaintenanceHandler(
		rt.container.HistoryService,
		rt.container.MigrationService,
		errorHandler,
		rt.logger,
	)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		// Element endpoints
		r.Route("/elements/{kind}", func(r chi.Router) {
			r.Get("/", elementHandler.ListElements)
			r.Post("/", elementHandler.CreateElement)
			r.Get("/{elementID}", elementHandler.GetElement)
			r.Put("/{elementID}", elementHandler.UpdateElement)
			r.Delete("/{elementID}", elementHandler.DeleteElement)
		})

		// Timeline endpoints
		r.Route("/timeline", func(r chi.Router) {
			r.Get("/entries", timelineHandler.ListEntries)
			r.Put("/entries/{year}", timelineHandler.UpdateEntry)
			r.Delete("/entries/{year}", timelineHandler.DeleteEntry)
			r.Post("/changes", timelineHandler.RecordChange)
			r.Delete("/history/{kind}/{elementID}", timelineHandler.DeleteHistory)
		})

		// Epoch endpoints
		r.Route("/epochs", func(r chi.Router) {
			r.Get("/", epochHandler.ListEpochs)
			r.Post("/", epochHandler.CreateEpoch)
			r.Put("/{epochID}", epochHandler.UpdateEpoch)
			r.Delete("/{epochID}", epochHandler.DeleteEpoch)
		})

		// Maintenance endpoints
		r.Route("/maintenance", func(r chi.Router) {
			r.Post("/consolidate", maintenanceHandler.Consolidate)
			r.Post("/migrate", maintenanceHandler.Migrate)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck verifies the timeline store is reachable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := rt.container.TimelineRepo.Load(req.Context()); err != nil {
		rt.logger.Warn("readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
