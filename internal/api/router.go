package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theopenlane/shelfcheck/internal/rules"
	"github.com/theopenlane/shelfcheck/internal/scanner"
)

// RouterConfig carries the dependencies and limits of the HTTP API
type RouterConfig struct {
	// Scanner runs scans and evaluations
	Scanner scanner.Interface
	// Store serves scan history, nil disables the history endpoints
	Store ScanStore
	// Catalog is listed by the rules endpoint
	Catalog *rules.Catalog
	// MaxBodySize limits request bodies in bytes, zero disables the limit
	MaxBodySize int64
	// RequestTimeout bounds every request
	RequestTimeout time.Duration
}

// NewRouter creates a new chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	h := &Handler{
		scanner:     cfg.Scanner,
		store:       cfg.Store,
		catalog:     cfg.Catalog,
		maxBodySize: cfg.MaxBodySize,
	}

	if h.catalog == nil {
		h.catalog = rules.MustDefault()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors)

	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Post("/scan", h.handleScan)
		r.Post("/evaluate", h.handleEvaluate)
		r.Get("/scans/{id}", h.handleGetScan)
		r.Get("/history", h.handleHistory)
		r.Get("/rules", h.handleRules)
	})

	return r
}
