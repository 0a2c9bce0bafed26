package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/helios/internal/api/handlers"
	mw "github.com/Harshitk-cp/helios/internal/api/middleware"
	"github.com/Harshitk-cp/helios/internal/app"
	"github.com/Harshitk-cp/helios/internal/buildconfig"
	"github.com/Harshitk-cp/helios/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the request metrics.
type App struct {
	Router    *chi.Mux
	core      *app.Core
	metrics   *mw.MetricsCollector
	startTime time.Time
}

// NewApp builds the HTTP surface over core. Background work started here stops when ctx
// is done.
func NewApp(ctx context.Context, core *app.Core, logger *zap.Logger) *App {
	// Handlers
	chatHandler := handlers.NewChatHandler(core.Dialogue, logger)
	memoryHandler := handlers.NewMemoryHandler(core.Dialogue, logger)
	beliefHandler := handlers.NewBeliefHandler(core.Analyzer, logger)
	echoHandler := handlers.NewEchoHandler(core.Echo)

	r := chi.NewRouter()

	a := &App{
		Router:    r,
		core:      core,
		metrics:   mw.NewMetricsCollector(),
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                      // Generate/extract request ID first
	r.Use(middleware.RealIP)                                                 // Extract real IP
	r.Use(a.metrics.Middleware)                                              // Collect metrics
	r.Use(mw.Logging(logger))                                                // Log all requests
	r.Use(middleware.Recoverer)                                              // Recover from panics
	r.Use(mw.RateLimit(ctx, config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	// Public
	r.Get("/", rootHandler)
	r.Get("/metrics", a.metricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.healthHandler())

		r.Group(func(r chi.Router) {
			r.Use(mw.APIKeyAuth(config.APIKey()))

			r.Get("/status", chatHandler.Status)
			r.Get("/characters", chatHandler.Characters)
			r.Post("/chat", chatHandler.Chat)
			r.Post("/echo", echoHandler.Echo)

			r.Route("/memory/{sessionID}", func(r chi.Router) {
				r.Get("/", memoryHandler.Get)
				r.Delete("/", memoryHandler.Clear)
			})

			r.Route("/belief", func(r chi.Router) {
				r.Post("/analyze", beliefHandler.Analyze)
				r.Get("/{characterID}", beliefHandler.Get)
			})
		})
	})

	return a
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	info := buildconfig.VersionInfo()
	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Helios dialogue and belief engine",
		"version": info["version"],
		"build":   info,
	})
}

func (a *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.core.Ping(r.Context()); err != nil {
			handlers.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "error": err.Error()})
			return
		}
		handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": buildconfig.ServiceName})
	}
}

func (a *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(a.startTime)
		status := a.core.Dialogue.Status()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"requests":       a.metrics.Snapshot(),
			"sessions": map[string]any{
				"active":  status.ActiveSessions,
				"entries": status.TotalEntries,
			},
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		handlers.WriteJSON(w, http.StatusOK, response)
	}
}
