// Package calc ties the statement validator to the ratio engine and adds the
// batch contract: per-position results, order preserved, one record's
// validation failure never touching its siblings.
package calc

import (
	"time"

	"github.com/cashflowstory/cashflowstory/internal/domain/ratio"
	"github.com/cashflowstory/cashflowstory/internal/domain/statement"
)

// Result is one successful calculation: the input echoed back, the derived
// analytics, and when the derivation ran.
type Result struct {
	Input        statement.Statement `json:"input_data"`
	Analytics    ratio.Analytics     `json:"analytics"`
	CalculatedAt time.Time           `json:"calculated_at"`
}

// BatchItem is one slot of a batch response, aligned by position with the
// request. Exactly one of Result and Err is set.
type BatchItem struct {
	Position int
	Result   *Result
	Err      *statement.ValidationError
}

// Calculator validates statements and runs them through the engine. It holds
// no per-call state; a single instance serves all requests.
type Calculator struct {
	engine *ratio.Engine
	now    func() time.Time
}

// New returns a calculator backed by the given engine.
func New(engine *ratio.Engine) *Calculator {
	return &Calculator{engine: engine, now: time.Now}
}

// Calculate validates a single statement and, if it is acceptable, derives
// its analytics. On rejection the validation error names every failing field.
func (c *Calculator) Calculate(s statement.Statement) (*Result, *statement.ValidationError) {
	if verr := statement.Validate(s); verr != nil {
		return nil, verr
	}
	a := c.engine.Compute(s)
	return &Result{Input: s, Analytics: a, CalculatedAt: c.now().UTC()}, nil
}

// CalculateBatch applies Calculate independently to each statement and
// returns one item per input, in input order. A statement without an explicit
// prior_revenue inherits the preceding statement's revenue for the growth
// metric, matching how period sequences are submitted chronologically.
func (c *Calculator) CalculateBatch(periods []statement.Statement) []BatchItem {
	items := make([]BatchItem, len(periods))
	for i, s := range periods {
		if s.PriorRevenue == nil && i > 0 {
			prior := periods[i-1].Revenue
			s.PriorRevenue = &prior
		}
		res, verr := c.Calculate(s)
		items[i] = BatchItem{Position: i, Result: res, Err: verr}
	}
	return items
}
