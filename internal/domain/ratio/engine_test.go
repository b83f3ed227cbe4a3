package ratio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflowstory/cashflowstory/internal/domain/statement"
)

const tolerance = 1e-9

func acmeStatement() statement.Statement {
	return statement.Statement{
		CompanyName:           "Acme Corp",
		Period:                "2024-Q4",
		Revenue:               1000000,
		CostOfGoods:           600000,
		Overheads:             200000,
		Depreciation:          50000,
		InterestPaid:          10000,
		TaxPaid:               30000,
		Cash:                  100000,
		AccountsReceivable:    150000,
		Inventory:             200000,
		FixedAssets:           500000,
		CurrentLiabilities:    120000,
		NoncurrentLiabilities: 300000,
		AccountsPayable:       80000,
	}
}

func TestCompute_Totals(t *testing.T) {
	a := NewEngine(365).Compute(acmeStatement())

	assert.InDelta(t, 400000, a.Totals.GrossProfit, tolerance)
	assert.InDelta(t, 150000, a.Totals.OperatingProfit, tolerance)
	assert.InDelta(t, 200000, a.Totals.EBITDA, tolerance)
	assert.InDelta(t, 110000, a.Totals.NetProfit, tolerance)
	assert.InDelta(t, 950000, a.Totals.TotalAssets, tolerance)
	assert.InDelta(t, 500000, a.Totals.TotalLiabilities, tolerance)
	assert.InDelta(t, 450000, a.Totals.Equity, tolerance)
}

func TestCompute_Profitability(t *testing.T) {
	a := NewEngine(365).Compute(acmeStatement())

	assert.InDelta(t, 40.0, a.GrossMarginPercent, tolerance)
	assert.InDelta(t, 15.0, a.OperatingProfitPercent, tolerance)
	assert.InDelta(t, 11.0, a.NetProfitPercent, tolerance)
	assert.InDelta(t, 20.0, a.EBITDAPercent, tolerance)

	require.NotNil(t, a.InterestCoverage)
	assert.InDelta(t, 15.0, *a.InterestCoverage, tolerance)
	assert.False(t, a.NoInterestExpense)
}

func TestCompute_WorkingCapital(t *testing.T) {
	a := NewEngine(365).Compute(acmeStatement())

	assert.InDelta(t, 54.75, a.AccountsReceivableDays, tolerance)
	assert.InDelta(t, 200000.0/600000.0*365, a.InventoryDays, tolerance)
	assert.InDelta(t, 80000.0/600000.0*365, a.AccountsPayableDays, tolerance)
	assert.InDelta(t, a.AccountsReceivableDays+a.InventoryDays-a.AccountsPayableDays, a.WorkingCapitalCycle, tolerance)
	assert.InDelta(t, 27.0, a.WorkingCapitalPer100Revenue, tolerance)

	require.NotNil(t, a.CurrentRatio)
	assert.InDelta(t, 3.75, *a.CurrentRatio, tolerance)
}

func TestCompute_CapitalEfficiency(t *testing.T) {
	a := NewEngine(365).Compute(acmeStatement())

	require.NotNil(t, a.ReturnOnCapitalPercent)
	assert.InDelta(t, 20.0, *a.ReturnOnCapitalPercent, tolerance)

	require.NotNil(t, a.AssetTurnover)
	assert.InDelta(t, 1000000.0/950000.0, *a.AssetTurnover, tolerance)

	require.NotNil(t, a.ReturnOnEquity)
	assert.InDelta(t, 110000.0/450000.0*100, *a.ReturnOnEquity, 0.01)

	require.NotNil(t, a.ReturnOnAssets)
	assert.InDelta(t, 110000.0/950000.0*100, *a.ReturnOnAssets, tolerance)

	require.NotNil(t, a.FixedAssetsTurnover)
	assert.InDelta(t, 2.0, *a.FixedAssetsTurnover, tolerance)

	require.NotNil(t, a.DebtToEquity)
	assert.InDelta(t, 500000.0/450000.0, *a.DebtToEquity, tolerance)

	require.NotNil(t, a.DebtToCapital)
	assert.InDelta(t, 500000.0/950000.0, *a.DebtToCapital, tolerance)

	require.NotNil(t, a.EquityRatioPercent)
	assert.InDelta(t, 450000.0/950000.0*100, *a.EquityRatioPercent, tolerance)

	assert.InDelta(t, 160000, a.OperatingCashFlow, tolerance)
}

func TestCompute_RevenueGrowth(t *testing.T) {
	s := acmeStatement()

	// Absent prior revenue: growth is null.
	a := NewEngine(365).Compute(s)
	assert.Nil(t, a.RevenueGrowthPercent)

	prior := 800000.0
	s.PriorRevenue = &prior
	a = NewEngine(365).Compute(s)
	require.NotNil(t, a.RevenueGrowthPercent)
	assert.InDelta(t, 25.0, *a.RevenueGrowthPercent, tolerance)

	// Zero prior revenue: growth undefined, null again.
	zero := 0.0
	s.PriorRevenue = &zero
	a = NewEngine(365).Compute(s)
	assert.Nil(t, a.RevenueGrowthPercent)
}

func TestCompute_NoInterestExpense(t *testing.T) {
	s := acmeStatement()
	s.InterestPaid = 0

	a := NewEngine(365).Compute(s)
	assert.Nil(t, a.InterestCoverage)
	assert.True(t, a.NoInterestExpense)
}

func TestCompute_ZeroCostOfGoods(t *testing.T) {
	s := acmeStatement()
	s.CostOfGoods = 0

	a := NewEngine(365).Compute(s)
	assert.Zero(t, a.InventoryDays)
	assert.Zero(t, a.AccountsPayableDays)
	assert.InDelta(t, a.AccountsReceivableDays, a.WorkingCapitalCycle, tolerance)
}

func TestCompute_ZeroCurrentLiabilities(t *testing.T) {
	s := acmeStatement()
	s.CurrentLiabilities = 0

	a := NewEngine(365).Compute(s)
	assert.Nil(t, a.CurrentRatio)
}

func TestCompute_ZeroEquity(t *testing.T) {
	s := statement.Statement{
		CompanyName:           "Break Even Ltd",
		Period:                "2024",
		Revenue:               1000,
		Cash:                  100,
		CurrentLiabilities:    50,
		NoncurrentLiabilities: 30,
		AccountsPayable:       20,
	}

	a := NewEngine(365).Compute(s)
	assert.InDelta(t, 0, a.Totals.Equity, tolerance)
	assert.Nil(t, a.ReturnOnEquity)
	assert.Nil(t, a.DebtToEquity)

	// Debt to capital stays defined: liabilities + equity = 100.
	require.NotNil(t, a.DebtToCapital)
	assert.InDelta(t, 1.0, *a.DebtToCapital, tolerance)
}

func TestCompute_ZeroAssetDenominators(t *testing.T) {
	s := statement.Statement{
		CompanyName: "Shell Co",
		Period:      "2024",
		Revenue:     1000,
	}

	a := NewEngine(365).Compute(s)
	assert.Nil(t, a.AssetTurnover)
	assert.Nil(t, a.ReturnOnAssets)
	assert.Nil(t, a.EquityRatioPercent)
	assert.Nil(t, a.FixedAssetsTurnover)
	assert.Nil(t, a.ReturnOnCapitalPercent)
	assert.Nil(t, a.DebtToCapital)
	assert.Nil(t, a.DebtToEquity)
}

func TestCompute_Idempotent(t *testing.T) {
	engine := NewEngine(365)
	s := acmeStatement()
	prior := 800000.0
	s.PriorRevenue = &prior

	first := engine.Compute(s)
	second := engine.Compute(s)
	assert.Equal(t, first, second)
}

func TestCompute_NoDriftAtTrillionScale(t *testing.T) {
	s := statement.Statement{
		CompanyName:        "Megacorp",
		Period:             "2024",
		Revenue:            1e12,
		CostOfGoods:        6e11,
		AccountsReceivable: 1.5e11,
	}

	a := NewEngine(365).Compute(s)
	assert.InDelta(t, 40.0, a.GrossMarginPercent, tolerance)
	assert.InDelta(t, 54.75, a.AccountsReceivableDays, tolerance)
}

func TestNewEngine_DayConvention(t *testing.T) {
	s := acmeStatement()

	a := NewEngine(360).Compute(s)
	assert.InDelta(t, 54.0, a.AccountsReceivableDays, tolerance)

	// Zero falls back to the 365-day default.
	a = NewEngine(0).Compute(s)
	assert.InDelta(t, 54.75, a.AccountsReceivableDays, tolerance)
}
