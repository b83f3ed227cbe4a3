package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflowstory/cashflowstory/internal/application/calc"
	"github.com/cashflowstory/cashflowstory/internal/cache"
	"github.com/cashflowstory/cashflowstory/internal/domain/ratio"
	httpContracts "github.com/cashflowstory/cashflowstory/internal/http"
	"github.com/cashflowstory/cashflowstory/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Initialize()
	os.Exit(m.Run())
}

func newTestHandlers() *Handlers {
	calculator := calc.New(ratio.NewEngine(ratio.DefaultDaysInPeriod))
	return NewHandlers(calculator, cache.New(), time.Minute, "cashflowstory", "test")
}

func acmeBody() map[string]interface{} {
	return map[string]interface{}{
		"company_name":           "Acme Corp",
		"period":                 "2024-Q4",
		"revenue":                1000000,
		"cost_of_goods":          600000,
		"overheads":              200000,
		"depreciation":           50000,
		"interest_paid":          10000,
		"tax_paid":               30000,
		"cash":                   100000,
		"accounts_receivable":    150000,
		"inventory":              200000,
		"fixed_assets":           500000,
		"current_liabilities":    120000,
		"noncurrent_liabilities": 300000,
		"accounts_payable":       80000,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestHandlers()

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpContracts.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "disabled", resp.CacheCircuit)
}

func TestCalculate_Success(t *testing.T) {
	h := newTestHandlers()

	rec := postJSON(t, h.Calculate, "/api/calculate", acmeBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpContracts.CalculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 40.0, resp.Analytics.GrossMarginPercent, 1e-9)
	assert.InDelta(t, 450000, resp.Analytics.Totals.Equity, 1e-9)
	assert.Equal(t, "Acme Corp", resp.InputData.CompanyName)
}

func TestCalculate_PreviousPeriodFeedsGrowth(t *testing.T) {
	h := newTestHandlers()

	prev := acmeBody()
	prev["revenue"] = 800000
	body := acmeBody()
	body["previous_period"] = prev

	rec := postJSON(t, h.Calculate, "/api/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpContracts.CalculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Analytics.RevenueGrowthPercent)
	assert.InDelta(t, 25.0, *resp.Analytics.RevenueGrowthPercent, 1e-9)
}

func TestCalculate_ValidationErrorNamesFields(t *testing.T) {
	h := newTestHandlers()

	body := acmeBody()
	body["revenue"] = 0
	body["inventory"] = -5

	rec := postJSON(t, h.Calculate, "/api/calculate", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp httpContracts.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)

	fields := make(map[string]string)
	for _, f := range resp.Fields {
		fields[f.Field] = f.Reason
	}
	assert.Equal(t, "must be > 0", fields["revenue"])
	assert.Equal(t, "must be >= 0", fields["inventory"])
}

func TestCalculate_MalformedJSON(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader([]byte(`{"revenue": "lots"}`)))
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateBatch_PerPositionIsolation(t *testing.T) {
	h := newTestHandlers()

	bad := acmeBody()
	bad["revenue"] = 0

	body := map[string]interface{}{
		"company_name": "Acme Corp",
		"periods":      []interface{}{acmeBody(), bad, acmeBody()},
	}

	rec := postJSON(t, h.CalculateBatch, "/api/calculate/batch", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpContracts.BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Periods, 3)
	assert.Equal(t, 3, resp.TotalPeriods)

	assert.NotNil(t, resp.Periods[0].Result)
	assert.Nil(t, resp.Periods[0].Error)

	assert.Nil(t, resp.Periods[1].Result)
	require.NotNil(t, resp.Periods[1].Error)
	assert.Equal(t, 1, resp.Periods[1].Position)

	assert.NotNil(t, resp.Periods[2].Result)
	assert.Equal(t, 2, resp.Periods[2].Position)
}

func TestCalculateBatch_EmptyRejected(t *testing.T) {
	h := newTestHandlers()

	body := map[string]interface{}{"company_name": "Acme Corp", "periods": []interface{}{}}
	rec := postJSON(t, h.CalculateBatch, "/api/calculate/batch", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDemoRebeccas(t *testing.T) {
	h := newTestHandlers()

	rec := httptest.NewRecorder()
	h.DemoRebeccas(rec, httptest.NewRequest(http.MethodGet, "/api/demo/rebeccas", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpContracts.BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Rebeccas Coffee", resp.CompanyName)
	require.Len(t, resp.Periods, 4)
	for _, p := range resp.Periods {
		assert.NotNil(t, p.Result)
		assert.Nil(t, p.Error)
	}

	// Second call is served from cache and must be byte-identical.
	first := rec.Body.Bytes()
	rec2 := httptest.NewRecorder()
	h.DemoRebeccas(rec2, httptest.NewRequest(http.MethodGet, "/api/demo/rebeccas", nil))
	assert.Equal(t, first, rec2.Body.Bytes())
}

func TestNotFound(t *testing.T) {
	h := newTestHandlers()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
