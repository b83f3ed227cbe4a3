// Package ratio derives the 21 financial metrics from a validated statement.
//
// The engine is a pure function over its input: no I/O, no shared state, no
// panics on degenerate input. Every division whose denominator can be zero
// resolves to an explicit null sentinel (a nil *float64, serialized as JSON
// null) so one undefined ratio never blocks the other twenty, and a null is
// always distinguishable from a computed zero.
package ratio

import (
	"github.com/shopspring/decimal"

	"github.com/cashflowstory/cashflowstory/internal/domain/statement"
)

// DefaultDaysInPeriod is the annual day-count convention for the
// working-capital day metrics.
const DefaultDaysInPeriod = 365

// Totals are the intermediate aggregates computed once and reused across
// metric groups. They are part of the response because callers read them
// alongside the ratios (gross profit next to gross margin, equity next to
// return on equity).
type Totals struct {
	GrossProfit      float64 `json:"gross_profit"`
	OperatingProfit  float64 `json:"operating_profit"`
	EBITDA           float64 `json:"ebitda"`
	NetProfit        float64 `json:"net_profit"`
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	Equity           float64 `json:"equity"`
}

// Analytics holds the 21 derived metrics for one statement. Percentages are
// multiplied by exactly 100 and day counts use the engine's day convention;
// nothing is pre-rounded, presentation rounding belongs to the caller.
// Nullable metrics use *float64: nil means the formula's denominator was
// zero or the required input was absent.
type Analytics struct {
	Totals Totals `json:"totals"`

	// Group 1: profitability
	RevenueGrowthPercent   *float64 `json:"revenue_growth_percent"`
	GrossMarginPercent     float64  `json:"gross_margin_percent"`
	OperatingProfitPercent float64  `json:"operating_profit_percent"`
	NetProfitPercent       float64  `json:"net_profit_percent"`
	EBITDAPercent          float64  `json:"ebitda_percent"`
	InterestCoverage       *float64 `json:"interest_coverage"`
	// NoInterestExpense marks the interest coverage null as "no interest
	// expense at all" rather than an unknown.
	NoInterestExpense bool `json:"no_interest_expense"`

	// Group 2: working capital
	AccountsReceivableDays      float64  `json:"accounts_receivable_days"`
	InventoryDays               float64  `json:"inventory_days"`
	AccountsPayableDays         float64  `json:"accounts_payable_days"`
	WorkingCapitalCycle         float64  `json:"working_capital_cycle"`
	WorkingCapitalPer100Revenue float64  `json:"working_capital_per_100_revenue"`
	CurrentRatio                *float64 `json:"current_ratio"`

	// Group 3: capital efficiency
	ReturnOnCapitalPercent *float64 `json:"return_on_capital_percent"`
	AssetTurnover          *float64 `json:"asset_turnover"`
	ReturnOnEquity         *float64 `json:"return_on_equity"`
	ReturnOnAssets         *float64 `json:"return_on_assets"`
	FixedAssetsTurnover    *float64 `json:"fixed_assets_turnover"`
	DebtToEquity           *float64 `json:"debt_to_equity"`
	DebtToCapital          *float64 `json:"debt_to_capital"`
	EquityRatioPercent     *float64 `json:"equity_ratio_percent"`
	OperatingCashFlow      float64  `json:"operating_cash_flow"`
}

// Engine computes analytics from validated statements. Its only state is the
// immutable day-count convention, fixed at construction; Compute may be
// called from any number of goroutines concurrently.
type Engine struct {
	days decimal.Decimal
}

// NewEngine returns an engine using the given day-count convention.
// Zero or negative falls back to the 365-day default.
func NewEngine(daysInPeriod int) *Engine {
	if daysInPeriod <= 0 {
		daysInPeriod = DefaultDaysInPeriod
	}
	return &Engine{days: decimal.NewFromInt(int64(daysInPeriod))}
}

var hundred = decimal.NewFromInt(100)

// Compute derives all 21 metrics from a statement the validator accepted
// (revenue > 0, listed fields non-negative). Calling it twice on the same
// input yields identical output.
func (e *Engine) Compute(s statement.Statement) Analytics {
	revenue := decimal.NewFromFloat(s.Revenue)
	cogs := decimal.NewFromFloat(s.CostOfGoods)
	overheads := decimal.NewFromFloat(s.Overheads)
	depreciation := decimal.NewFromFloat(s.Depreciation)
	interest := decimal.NewFromFloat(s.InterestPaid)
	tax := decimal.NewFromFloat(s.TaxPaid)

	cash := decimal.NewFromFloat(s.Cash)
	receivables := decimal.NewFromFloat(s.AccountsReceivable)
	inventory := decimal.NewFromFloat(s.Inventory)
	fixedAssets := decimal.NewFromFloat(s.FixedAssets)

	currentLiab := decimal.NewFromFloat(s.CurrentLiabilities)
	noncurrentLiab := decimal.NewFromFloat(s.NoncurrentLiabilities)
	payables := decimal.NewFromFloat(s.AccountsPayable)

	// Intermediate totals, computed once.
	grossProfit := revenue.Sub(cogs)
	operatingProfit := grossProfit.Sub(overheads).Sub(depreciation)
	ebitda := operatingProfit.Add(depreciation)
	netProfit := operatingProfit.Sub(interest).Sub(tax)
	totalAssets := cash.Add(receivables).Add(inventory).Add(fixedAssets)
	totalLiabilities := currentLiab.Add(noncurrentLiab).Add(payables)
	equity := totalAssets.Sub(totalLiabilities)

	a := Analytics{
		Totals: Totals{
			GrossProfit:      grossProfit.InexactFloat64(),
			OperatingProfit:  operatingProfit.InexactFloat64(),
			EBITDA:           ebitda.InexactFloat64(),
			NetProfit:        netProfit.InexactFloat64(),
			TotalAssets:      totalAssets.InexactFloat64(),
			TotalLiabilities: totalLiabilities.InexactFloat64(),
			Equity:           equity.InexactFloat64(),
		},
	}

	// Group 1: profitability. Revenue > 0 is guaranteed by the validator,
	// so the margin denominators need no guard here.
	if s.PriorRevenue != nil {
		prior := decimal.NewFromFloat(*s.PriorRevenue)
		if prior.IsPositive() {
			a.RevenueGrowthPercent = ptr(revenue.Sub(prior).Div(prior).Mul(hundred))
		}
	}
	a.GrossMarginPercent = pct(grossProfit, revenue)
	a.OperatingProfitPercent = pct(operatingProfit, revenue)
	a.NetProfitPercent = pct(netProfit, revenue)
	a.EBITDAPercent = pct(ebitda, revenue)
	if interest.IsZero() {
		a.NoInterestExpense = true
	} else {
		a.InterestCoverage = ptr(operatingProfit.Div(interest))
	}

	// Group 2: working capital.
	a.AccountsReceivableDays = receivables.Div(revenue).Mul(e.days).InexactFloat64()
	if !cogs.IsZero() {
		a.InventoryDays = inventory.Div(cogs).Mul(e.days).InexactFloat64()
		a.AccountsPayableDays = payables.Div(cogs).Mul(e.days).InexactFloat64()
	}
	a.WorkingCapitalCycle = a.AccountsReceivableDays + a.InventoryDays - a.AccountsPayableDays
	a.WorkingCapitalPer100Revenue = pct(receivables.Add(inventory).Sub(payables), revenue)
	if !currentLiab.IsZero() {
		a.CurrentRatio = ptr(cash.Add(receivables).Add(inventory).Div(currentLiab))
	}

	// Group 3: capital efficiency. Every denominator may legitimately be
	// zero, so each carries a null guard.
	if capital := equity.Add(noncurrentLiab); !capital.IsZero() {
		a.ReturnOnCapitalPercent = ptr(operatingProfit.Div(capital).Mul(hundred))
	}
	if !totalAssets.IsZero() {
		a.AssetTurnover = ptr(revenue.Div(totalAssets))
		a.ReturnOnAssets = ptr(netProfit.Div(totalAssets).Mul(hundred))
		a.EquityRatioPercent = ptr(equity.Div(totalAssets).Mul(hundred))
	}
	if !equity.IsZero() {
		a.ReturnOnEquity = ptr(netProfit.Div(equity).Mul(hundred))
		a.DebtToEquity = ptr(totalLiabilities.Div(equity))
	}
	if !fixedAssets.IsZero() {
		a.FixedAssetsTurnover = ptr(revenue.Div(fixedAssets))
	}
	if capital := totalLiabilities.Add(equity); !capital.IsZero() {
		a.DebtToCapital = ptr(totalLiabilities.Div(capital))
	}
	a.OperatingCashFlow = netProfit.Add(depreciation).InexactFloat64()

	return a
}

func pct(numerator, denominator decimal.Decimal) float64 {
	return numerator.Div(denominator).Mul(hundred).InexactFloat64()
}

func ptr(d decimal.Decimal) *float64 {
	v := d.InexactFloat64()
	return &v
}
