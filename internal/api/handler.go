// Package api provides HTTP handlers for the shelfcheck product page compliance service.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/shelfcheck/internal/product"
	"github.com/theopenlane/shelfcheck/internal/rules"
	"github.com/theopenlane/shelfcheck/internal/scanner"
	"github.com/theopenlane/shelfcheck/internal/store"
	"github.com/theopenlane/shelfcheck/internal/types"
)

const (
	// serviceName is reported by the health endpoint
	serviceName = "shelfcheck"
	// defaultHistoryLimit is used when no limit query parameter is given
	defaultHistoryLimit = store.DefaultListLimit
	// maxHistoryLimit caps the history page size
	maxHistoryLimit = 100
)

// ScanStore reads persisted scans
type ScanStore interface {
	Get(ctx context.Context, id string) (*types.ScanResult, error)
	List(ctx context.Context, limit int) ([]types.ScanResult, error)
	Ping(ctx context.Context) error
}

// Handler manages API endpoints
type Handler struct {
	scanner     scanner.Interface
	store       ScanStore
	catalog     *rules.Catalog
	maxBodySize int64
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Service   string `json:"service" example:"shelfcheck"`
	Storage   string `json:"storage" example:"ok"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// handleHealth returns service health status. A configured store that fails
// to answer a ping marks the service degraded
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Storage:   "disabled",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK

	if h.store != nil {
		response.Storage = "ok"

		if err := h.store.Ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("storage health check failed")

			response.Status = "degraded"
			response.Storage = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, response)
}

// ScanRequest represents a product page scan request
type ScanRequest struct {
	// URL is the product page to scan
	URL string `json:"url" example:"https://www.amazon.in/dp/B0TEST"`
	// Notify controls whether an alert is sent for a risky result. Omitted keeps the server default
	Notify *bool `json:"notify,omitempty"`
}

// handleScan fetches and evaluates a product page
func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	var req ScanRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if req.URL == "" {
		respondError(w, http.StatusBadRequest, errCodeValidation, ErrURLRequired.Error())
		return
	}

	result, err := h.scanner.Scan(r.Context(), scanner.Request{URL: req.URL, Notify: req.Notify})
	if err != nil {
		status, code := scanErrorStatus(err)
		log.Error().Err(err).Str("url", req.URL).Int("status", status).Msg("product scan failed")
		respondError(w, status, code, err.Error())

		return
	}

	respondOK(w, result)
}

// scanErrorStatus maps scanner failures to a status code and error code
func scanErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, scanner.ErrInvalidURL):
		return http.StatusBadRequest, errCodeValidation
	case errors.Is(err, scanner.ErrFetchFailed), errors.Is(err, scanner.ErrExtractFailed):
		return http.StatusBadGateway, errCodeUpstream
	default:
		return http.StatusInternalServerError, errCodeInternal
	}
}

// EvaluateRequest evaluates an already extracted product without fetching anything
type EvaluateRequest struct {
	// Product is the scraped product record
	Product *product.ProductData `json:"product"`
	// Normalized is an optional normalized record used for field availability
	Normalized *product.NormalizedProduct `json:"normalized,omitempty"`
	// PageText is the optional visible page text used for dark-pattern checks
	PageText string `json:"page_text,omitempty"`
}

// handleEvaluate runs the compliance evaluation over a supplied product
func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	var req EvaluateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if req.Product == nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, ErrProductRequired.Error())
		return
	}

	respondOK(w, h.scanner.Evaluate(req.Product, req.Normalized, req.PageText))
}

// handleGetScan returns a stored scan by id
func (h *Handler) handleGetScan(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	id := chi.URLParam(r, "id")

	result, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, errCodeNotFound, ErrScanNotFound.Error())
			return
		}

		log.Error().Err(err).Str("scan_id", id).Msg("failed to load scan")
		respondError(w, http.StatusInternalServerError, errCodeInternal, err.Error())

		return
	}

	respondOK(w, result)
}

// HistoryResult is a page of stored scans, newest first
type HistoryResult struct {
	// Count is the number of scans returned
	Count int `json:"count"`
	// Scans holds the stored scans
	Scans []types.ScanResult `json:"scans"`
}

// handleHistory lists the most recent scans
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
		return
	}

	scans, err := h.store.List(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Int("limit", limit).Msg("failed to list scans")
		respondError(w, http.StatusInternalServerError, errCodeInternal, err.Error())

		return
	}

	if scans == nil {
		scans = []types.ScanResult{}
	}

	respondOK(w, HistoryResult{Count: len(scans), Scans: scans})
}

// parseLimit reads the history page size, defaulting when empty and capping at the maximum
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, ErrInvalidLimit
	}

	return min(limit, maxHistoryLimit), nil
}

// RulesResult lists catalog rules
type RulesResult struct {
	// Category is the filter applied, empty when every rule is listed
	Category rules.Category `json:"category,omitempty"`
	// Rules are the matching rules in catalog order
	Rules []rules.Rule `json:"rules"`
}

// handleRules lists the rule catalog, optionally only the rules applying to one category
func (h *Handler) handleRules(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		respondOK(w, RulesResult{Rules: h.catalog.Rules()})
		return
	}

	category, ok := rules.ParseCategory(raw)
	if !ok {
		respondError(w, http.StatusBadRequest, errCodeValidation, ErrInvalidCategory.Error())
		return
	}

	respondOK(w, RulesResult{Category: category, Rules: h.catalog.ForCategory(category)})
}

func (h *Handler) limitBody(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}
}
