// Package handlers implements the HTTP endpoint handlers for the analytics
// API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cashflowstory/cashflowstory/internal/application/calc"
	"github.com/cashflowstory/cashflowstory/internal/cache"
	"github.com/cashflowstory/cashflowstory/internal/domain/statement"
	"github.com/cashflowstory/cashflowstory/internal/fixtures"
	httpContracts "github.com/cashflowstory/cashflowstory/internal/http"
	"github.com/cashflowstory/cashflowstory/internal/metrics"
)

const demoCacheKey = "demo:rebeccas"

// Handlers manages all HTTP endpoint handlers.
type Handlers struct {
	calculator *calc.Calculator
	cache      cache.Cache
	demoTTL    time.Duration
	service    string
	version    string
	started    time.Time
}

// NewHandlers creates a handlers instance wired to the given calculator and
// cache.
func NewHandlers(calculator *calc.Calculator, c cache.Cache, demoTTL time.Duration, service, version string) *Handlers {
	return &Handlers{
		calculator: calculator,
		cache:      c,
		demoTTL:    demoTTL,
		service:    service,
		version:    version,
		started:    time.Now(),
	}
}

// Root handles GET / with service information.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, httpContracts.RootResponse{
		Service: h.service,
		Version: h.version,
		Endpoints: []string{
			"POST /api/calculate",
			"POST /api/calculate/batch",
			"GET /api/demo/rebeccas",
			"GET /health",
			"GET /metrics",
		},
	})
}

// Health handles GET /health for liveness checks.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, httpContracts.HealthResponse{
		Status:        "ok",
		Service:       h.service,
		Version:       h.version,
		UptimeSeconds: time.Since(h.started).Seconds(),
		CacheCircuit:  cache.CircuitState(h.cache),
		Timestamp:     time.Now().UTC(),
	})
}

// Calculate handles POST /api/calculate: one statement in, one analytics
// record or a field-level validation error out.
func (h *Handlers) Calculate(w http.ResponseWriter, r *http.Request) {
	var req httpContracts.CalculateRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	// A previous_period object is the scalar prior_revenue spelled out in
	// full; prefer the explicit scalar when both are present.
	if req.PriorRevenue == nil && req.PreviousPeriod != nil {
		prior := req.PreviousPeriod.Revenue
		req.PriorRevenue = &prior
	}

	result, verr := h.calculator.Calculate(req.Statement)
	if verr != nil {
		metrics.Default.RecordCalculation(metrics.ModeSingle, metrics.StatusRejected)
		h.writeValidationError(w, verr)
		return
	}

	metrics.Default.RecordCalculation(metrics.ModeSingle, metrics.StatusOK)
	h.writeJSON(w, http.StatusOK, httpContracts.NewCalculateResponse(result, req.PreviousPeriod))
}

// CalculateBatch handles POST /api/calculate/batch: per-position results in
// request order, one record's validation error never aborting the rest.
func (h *Handlers) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req httpContracts.BatchRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if len(req.Periods) == 0 {
		h.writeError(w, http.StatusBadRequest, "periods must contain at least one statement")
		return
	}

	metrics.Default.BatchSize.Observe(float64(len(req.Periods)))

	items := h.calculator.CalculateBatch(req.Periods)
	for _, item := range items {
		if item.Err != nil {
			metrics.Default.RecordCalculation(metrics.ModeBatch, metrics.StatusRejected)
			recordFieldFailures(item.Err.Fields)
			continue
		}
		metrics.Default.RecordCalculation(metrics.ModeBatch, metrics.StatusOK)
	}

	h.writeJSON(w, http.StatusOK, httpContracts.NewBatchResponse(req.CompanyName, items))
}

// DemoRebeccas handles GET /api/demo/rebeccas with the canned case study,
// cache-aside through the cache layer.
func (h *Handlers) DemoRebeccas(w http.ResponseWriter, r *http.Request) {
	if body, ok := h.cache.Get(demoCacheKey); ok {
		metrics.Default.RecordCacheHit("demo")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Debug().Err(err).Msg("Demo response write failed")
		}
		return
	}
	metrics.Default.RecordCacheMiss("demo")

	periods := fixtures.RebeccasCoffee()
	items := h.calculator.CalculateBatch(periods)
	metrics.Default.RecordCalculation(metrics.ModeDemo, metrics.StatusOK)

	resp := httpContracts.NewBatchResponse("Rebeccas Coffee", items)
	body, err := json.Marshal(resp)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to encode demo response")
		return
	}

	h.cache.Set(demoCacheKey, body, h.demoTTL)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Debug().Err(err).Msg("Demo response write failed")
	}
}

// NotFound handles 404 responses.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, http.StatusNotFound, "the requested endpoint does not exist")
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// writeValidationError writes a 422 with one entry per failing field.
func (h *Handlers) writeValidationError(w http.ResponseWriter, verr *statement.ValidationError) {
	recordFieldFailures(verr.Fields)
	h.writeJSON(w, http.StatusUnprocessableEntity, httpContracts.ErrorResponse{
		Error:     "validation_failed",
		Fields:    verr.Fields,
		Timestamp: time.Now().UTC(),
	})
}

func recordFieldFailures(fields []statement.FieldError) {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	metrics.Default.RecordValidationFailures(names)
}

// writeError writes a standardized error response.
func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, httpContracts.ErrorResponse{
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}

// writeJSON writes a JSON response with proper error handling.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}
