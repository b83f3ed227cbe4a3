// Package http defines the wire contracts for the analytics API.
package http

import (
	"time"

	"github.com/cashflowstory/cashflowstory/internal/application/calc"
	"github.com/cashflowstory/cashflowstory/internal/domain/ratio"
	"github.com/cashflowstory/cashflowstory/internal/domain/statement"
)

// CalculateRequest is the body of POST /api/calculate. The statement fields
// are inlined; previous_period optionally supplies the prior period whose
// revenue feeds the growth metric when prior_revenue is not given directly.
type CalculateRequest struct {
	statement.Statement
	PreviousPeriod *statement.Statement `json:"previous_period,omitempty"`
}

// CalculateResponse echoes the input alongside the derived analytics.
type CalculateResponse struct {
	InputData      statement.Statement  `json:"input_data"`
	Analytics      ratio.Analytics      `json:"analytics"`
	PreviousPeriod *statement.Statement `json:"previous_period,omitempty"`
	CalculatedAt   time.Time            `json:"calculated_at"`
}

// BatchRequest is the body of POST /api/calculate/batch. Periods should be
// ordered chronologically so growth can chain period to period.
type BatchRequest struct {
	CompanyName string                `json:"company_name"`
	Periods     []statement.Statement `json:"periods"`
}

// BatchResultItem is one per-position slot of a batch response. Exactly one
// of Result and Error is set; Position matches the request index even when
// neighboring records fail validation.
type BatchResultItem struct {
	Position int                        `json:"position"`
	Result   *CalculateResponse         `json:"result,omitempty"`
	Error    *statement.ValidationError `json:"error,omitempty"`
}

// BatchResponse carries per-position results in request order.
type BatchResponse struct {
	CompanyName  string            `json:"company_name"`
	Periods      []BatchResultItem `json:"periods"`
	TotalPeriods int               `json:"total_periods"`
}

// ErrorResponse is the standardized error body for non-success statuses.
// Fields is populated for validation failures, one entry per failing field.
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Fields    []statement.FieldError `json:"fields,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// HealthResponse reports liveness plus the state of the optional cache tier.
type HealthResponse struct {
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	Version       string    `json:"version"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	CacheCircuit  string    `json:"cache_circuit"`
	Timestamp     time.Time `json:"timestamp"`
}

// RootResponse describes the service for GET /.
type RootResponse struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// NewCalculateResponse converts a calculator result to its wire shape.
func NewCalculateResponse(res *calc.Result, previous *statement.Statement) *CalculateResponse {
	return &CalculateResponse{
		InputData:      res.Input,
		Analytics:      res.Analytics,
		PreviousPeriod: previous,
		CalculatedAt:   res.CalculatedAt,
	}
}

// NewBatchResponse converts calculator batch items to their wire shape.
func NewBatchResponse(companyName string, items []calc.BatchItem) *BatchResponse {
	out := &BatchResponse{
		CompanyName:  companyName,
		Periods:      make([]BatchResultItem, 0, len(items)),
		TotalPeriods: len(items),
	}
	for _, item := range items {
		wire := BatchResultItem{Position: item.Position, Error: item.Err}
		if item.Result != nil {
			wire.Result = NewCalculateResponse(item.Result, nil)
		}
		out.Periods = append(out.Periods, wire)
	}
	return out
}
