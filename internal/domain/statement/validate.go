package statement

import (
	"fmt"
	"math"
	"strings"
)

// FieldError reports a single failing field with a human-readable reason.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries one entry per failing field so a caller can fix
// every problem in one round trip. It is a value, not a panic: batch
// processing depends on validation failures never aborting sibling records.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// nonNegativeFields lists every monetary input that rejects on a negative
// value. Net profit may legitimately be negative but it is derived, never
// supplied.
var nonNegativeFields = []struct {
	name  string
	value func(*Statement) float64
}{
	{"cost_of_goods", func(s *Statement) float64 { return s.CostOfGoods }},
	{"overheads", func(s *Statement) float64 { return s.Overheads }},
	{"depreciation", func(s *Statement) float64 { return s.Depreciation }},
	{"interest_paid", func(s *Statement) float64 { return s.InterestPaid }},
	{"tax_paid", func(s *Statement) float64 { return s.TaxPaid }},
	{"cash", func(s *Statement) float64 { return s.Cash }},
	{"accounts_receivable", func(s *Statement) float64 { return s.AccountsReceivable }},
	{"inventory", func(s *Statement) float64 { return s.Inventory }},
	{"fixed_assets", func(s *Statement) float64 { return s.FixedAssets }},
	{"current_liabilities", func(s *Statement) float64 { return s.CurrentLiabilities }},
	{"noncurrent_liabilities", func(s *Statement) float64 { return s.NoncurrentLiabilities }},
	{"accounts_payable", func(s *Statement) float64 { return s.AccountsPayable }},
}

// Validate checks a statement's structural and semantic constraints before
// any ratio is computed. It is pure, mutates nothing, and returns nil when
// the statement is acceptable. On failure the returned error names every
// failing field, not just the first.
func Validate(s Statement) *ValidationError {
	verr := &ValidationError{}

	if strings.TrimSpace(s.CompanyName) == "" {
		verr.add("company_name", "is required")
	}
	if strings.TrimSpace(s.Period) == "" {
		verr.add("period", "is required")
	}

	// Revenue is the one denominator the engine does not guard: zero or
	// negative revenue makes every margin ratio undefined.
	if !isFinite(s.Revenue) {
		verr.add("revenue", "must be a finite number")
	} else if s.Revenue <= 0 {
		verr.add("revenue", "must be > 0")
	}

	for _, f := range nonNegativeFields {
		v := f.value(&s)
		switch {
		case !isFinite(v):
			verr.add(f.name, "must be a finite number")
		case v < 0:
			verr.add(f.name, "must be >= 0")
		}
	}

	if s.PriorRevenue != nil {
		switch {
		case !isFinite(*s.PriorRevenue):
			verr.add("prior_revenue", "must be a finite number")
		case *s.PriorRevenue < 0:
			verr.add("prior_revenue", "must be >= 0 when provided")
		}
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
