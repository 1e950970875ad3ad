package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rgehrsitz/jptax/internal/breakeven"
	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/compare"
	"github.com/rgehrsitz/jptax/internal/domain"
)

type envelope[T any] struct {
	Success   bool   `json:"success"`
	Data      T      `json:"data"`
	Error     *Error `json:"error"`
	RequestID string `json:"requestId"`
}

func newTestServer() *Server {
	return NewServer(calculation.NewTaxEngine(), nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer().Routes(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagates(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestServer().Routes().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	env := decodeEnvelope[json.RawMessage](t, rec)
	assert.Equal(t, "abc-123", env.RequestID)
}

func TestRules(t *testing.T) {
	rec := do(t, newTestServer().Routes(), http.MethodGet, "/api/v1/rules", "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope[domain.FiscalYearRules](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, 2025, env.Data.Metadata.FiscalYear)
	assert.Len(t, env.Data.Brackets, 7)
}

func TestTemplates(t *testing.T) {
	rec := do(t, newTestServer().Routes(), http.MethodGet, "/api/v1/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope[[]TemplateInfo](t, rec)
	require.NotEmpty(t, env.Data)
	names := []string{}
	for _, ti := range env.Data {
		names = append(names, ti.Name)
		assert.NotEmpty(t, ti.Description)
	}
	assert.Contains(t, names, "ideco_employee")
	assert.Contains(t, names, "nisa_all")
}

func TestCalculate(t *testing.T) {
	body := `{"salaryRevenue": 6000000, "socialInsurancePaid": "900000", "isSingle": true}`
	rec := do(t, newTestServer().Routes(), http.MethodPost, "/api/v1/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeEnvelope[domain.ScenarioResult](t, rec)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.True(t, env.Data.Result.TotalTax.Equal(decimal.NewFromInt(472710)), "total tax %s", env.Data.Result.TotalTax)
	assert.True(t, env.Data.TakeHome.Equal(decimal.NewFromInt(4627290)))
	assert.True(t, env.Data.Result.FurusatoLimit.Equal(decimal.NewFromInt(77000)))
}

func TestCalculate_ValidationError(t *testing.T) {
	body := `{"salaryRevenue": -1, "dependentsCount": -2}`
	rec := do(t, newTestServer().Routes(), http.MethodPost, "/api/v1/calculate", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope[json.RawMessage](t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)

	details, ok := env.Error.Details.(map[string]any)
	require.True(t, ok)
	fields, ok := details["fields"].([]any)
	require.True(t, ok)
	assert.Len(t, fields, 2)
	assert.Contains(t, rec.Body.String(), "salaryRevenue")
	assert.Contains(t, rec.Body.String(), "dependentsCount")
}

func TestCalculate_BadJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"malformed", `{"salaryRevenue":`, http.StatusBadRequest},
		{"unknown field", `{"salary": 1}`, http.StatusBadRequest},
		{"trailing document", `{} {}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer().Routes(), http.MethodPost, "/api/v1/calculate", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			env := decodeEnvelope[json.RawMessage](t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, "invalid_json", env.Error.Code)
		})
	}
}

func TestCalculate_BodyTooLarge(t *testing.T) {
	srv := newTestServer()
	srv.MaxBodyBytes = 16
	rec := do(t, srv.Routes(), http.MethodPost, "/api/v1/calculate", `{"salaryRevenue": 6000000, "socialInsurancePaid": 900000}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCompare(t *testing.T) {
	body := `{
		"input": {"salaryRevenue": 6000000, "socialInsurancePaid": 900000, "stockProfit": 1000000},
		"templates": ["nisa_all", "ideco_employee"]
	}`
	rec := do(t, newTestServer().Routes(), http.MethodPost, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[compare.ComparisonSet](t, rec)
	assert.Equal(t, "Base", env.Data.BaseScenarioName)
	require.Len(t, env.Data.AlternativeResults, 2)
	assert.Equal(t, "Base_nisa_all", env.Data.AlternativeResults[0].ScenarioName)
	assert.True(t, env.Data.AlternativeResults[0].TaxDiffFromBase.Equal(decimal.NewFromInt(-203150)))
	assert.NotEmpty(t, env.Data.Recommendations)
}

func TestCompare_Errors(t *testing.T) {
	h := newTestServer().Routes()

	rec := do(t, h, http.MethodPost, "/api/v1/compare", `{"input": {"salaryRevenue": 1000000}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")

	rec = do(t, h, http.MethodPost, "/api/v1/compare", `{"input": {"salaryRevenue": 1000000}, "templates": ["nope"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope[json.RawMessage](t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_comparison", env.Error.Code)
	assert.Contains(t, env.Error.Message, "template nope not found")

	rec = do(t, h, http.MethodPost, "/api/v1/compare", `{"input": {"stockProfit": -5}, "templates": ["nisa_all"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "stockProfit")
}

func TestSolve(t *testing.T) {
	body := `{
		"input": {"salaryRevenue": 6000000, "socialInsurancePaid": 900000},
		"target": "salary",
		"goal": "take_home",
		"value": 5000000,
		"max": 20000000
	}`
	rec := do(t, newTestServer().Routes(), http.MethodPost, "/api/v1/solve", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[breakeven.Result](t, rec)
	assert.True(t, env.Data.Converged)
	assert.True(t, env.Data.Achieved.GreaterThanOrEqual(decimal.NewFromInt(5000000)))
	assert.True(t, env.Data.Solution.GreaterThan(decimal.NewFromInt(6000000)))
}

func TestSolve_Errors(t *testing.T) {
	h := newTestServer().Routes()

	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{"unreachable", `{"input": {"salaryRevenue": 6000000}, "target": "ideco", "goal": "take_home", "value": 9000000}`, http.StatusUnprocessableEntity, "unreachable_goal"},
		{"unknown target", `{"input": {}, "target": "bonus", "goal": "total_tax", "value": 1}`, http.StatusBadRequest, "invalid_solve"},
		{"negative max", `{"input": {"salaryRevenue": 6000000, "socialInsurancePaid": 900000}, "target": "ideco", "goal": "total_tax", "value": 500000, "max": -1000000}`, http.StatusBadRequest, "invalid_solve"},
		{"unknown goal", `{"input": {}, "target": "salary", "goal": "wealth", "value": 1}`, http.StatusBadRequest, "invalid_solve"},
		{"invalid input", `{"input": {"salaryRevenue": -1}, "target": "salary", "goal": "total_tax", "value": 1}`, http.StatusBadRequest, "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/solve", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			env := decodeEnvelope[json.RawMessage](t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.want, env.Error.Code)
		})
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestServer().Routes()

	rec := do(t, h, http.MethodGet, "/api/v1/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")

	rec = do(t, h, http.MethodGet, "/api/v1/calculate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecoverer(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	srv := NewServer(calculation.NewTaxEngine(), zap.New(core))

	h := RequestID(srv.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	rec := do(t, h, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope[json.RawMessage](t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "internal_error", env.Error.Code)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, 1, logs.FilterMessage("panic in handler").Len())
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := NewServer(calculation.NewTaxEngine(), zap.New(core))

	do(t, srv.Routes(), http.MethodGet, "/api/v1/missing", "")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/v1/missing", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}
