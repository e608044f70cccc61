package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/deepfake-api/internal/api/handlers"
	mw "github.com/Harshitk-cp/deepfake-api/internal/api/middleware"
	"github.com/Harshitk-cp/deepfake-api/internal/buildconfig"
	"github.com/Harshitk-cp/deepfake-api/internal/domain"
	"github.com/Harshitk-cp/deepfake-api/internal/service"
	"github.com/Harshitk-cp/deepfake-api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const rateLimitCleanupInterval = 10 * time.Minute

// Options configures the HTTP surface. Zero values fall back to defaults.
type Options struct {
	MaxUploadBytes     int64
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// App holds the router and the pieces with a lifecycle.
type App struct {
	Router    *chi.Mux
	Forensics *service.ForensicsService
	Uploads   *store.TempStore

	metrics     *mw.MetricsCollector
	limiter     *mw.RateLimiter
	stopLimiter func()
	startTime   time.Time
}

func NewApp(uploads *store.TempStore, logger *zap.Logger, opts Options) *App {
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 100
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 20
	}

	forensicsSvc := service.NewForensicsService(logger)

	analyzeHandler := handlers.NewAnalyzeHandler(uploads, forensicsSvc)
	analyzeHandler.SetMaxBytes(opts.MaxUploadBytes)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Forensics: forensicsSvc,
		Uploads:   uploads,
		metrics:   mw.NewMetricsCollector(),
		limiter:   mw.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)                     // Generate/extract request ID first
	r.Use(middleware.RealIP)                // Extract real IP
	r.Use(app.metrics.Middleware)           // Collect metrics
	r.Use(mw.Logging(logger))               // Log all requests
	r.Use(middleware.Recoverer)             // Recover from panics
	r.Use(mw.CORS(opts.CORSAllowedOrigins)) // Answer preflights before rate limiting
	r.Use(app.limiter.Middleware)           // Rate limiting

	r.Get("/", handlers.Health)
	r.Get("/metrics", app.metricsHandler())
	r.Post("/analyze", analyzeHandler.Analyze)

	return app
}

// Start launches background maintenance.
func (app *App) Start() {
	app.stopLimiter = app.limiter.StartCleanup(rateLimitCleanupInterval)
}

// Stop halts background maintenance started by Start.
func (app *App) Stop() {
	if app.stopLimiter != nil {
		app.stopLimiter()
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		snap := app.metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds":     uptime.Seconds(),
			"uptime_human":       uptime.Round(time.Second).String(),
			"request_count":      snap.Requests,
			"error_count":        snap.Errors,
			"client_error_count": snap.ClientErrors,
			"server_error_count": snap.ServerErrors,
			"in_flight":          snap.InFlight,
			"rate_limited_keys":  app.limiter.Len(),
			"goroutines":         runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		handlers.WriteJSON(w, http.StatusOK, response)
	}
}

// Ensure implementations satisfy interfaces at compile time.
var (
	_ domain.UploadStore    = (*store.TempStore)(nil)
	_ domain.ReportAnalyzer = (*service.ForensicsService)(nil)
)
