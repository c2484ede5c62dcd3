package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/finance-engine-go/internal/cache"
	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/config"
	"github.com/cloud-ru/finance-engine-go/internal/tools"
)

func newTestServer(t *testing.T, limiter *RateLimiter) (*Server, *cache.MemoryCache) {
	t.Helper()
	cfg := &config.Config{
		MaxPrincipal:    1e9,
		MaxContribution: 1e8,
		MaxMonths:       600,
		MaxPeriods:      600,
		MaxRate:         200,
		MaxBalanceCap:   1e12,
		PPFRatePercent:  calculations.DefaultPPFRatePercent,
		TaxPolicy:       config.DefaultTaxPolicy(),
	}
	registry := tools.NewRegistry(cfg, noop.NewTracerProvider().Tracer("test"))
	c := cache.NewMemoryCache(time.Minute)
	return NewServer(registry, c, limiter, zerolog.Nop()), c
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCallToolOK(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	w := post(t, h, "/v1/tools/compute_amortization", `{"principal": 500000, "annual_rate_percent": 8.5, "term_months": 240}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Tool   string                          `json:"tool"`
		Result calculations.AmortizationResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "compute_amortization", resp.Tool)
	assert.Equal(t, 4339.0, resp.Result.PeriodicPayment)
}

func TestCallToolCachesResults(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()
	body := `{"periodic_contribution": "1000", "annual_rate_percent": 10, "number_of_periods": 2}`

	first := post(t, h, "/v1/tools/project_growth", body)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := post(t, h, "/v1/tools/project_growth", body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestCallToolStatusMapping(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"invalid input", "/v1/tools/compute_amortization", `{"principal": -5, "annual_rate_percent": 8, "term_months": 12}`, http.StatusBadRequest},
		{"malformed json", "/v1/tools/compute_amortization", `{invalid-json}`, http.StatusBadRequest},
		{"undefined result", "/v1/tools/percentage_return", `{"invested": 0, "current_value": 10}`, http.StatusUnprocessableEntity},
		{"zero target", "/v1/tools/progress_ratio", `{"current": 10, "target": 0}`, http.StatusBadRequest},
		{"huge exponent", "/v1/tools/compute_amortization", `{"principal": 1e99999999, "annual_rate_percent": 8, "term_months": "1e99999999"}`, http.StatusBadRequest},
		{"unknown tool", "/v1/tools/compute_lottery", `{}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestCallToolMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/tools/compute_tax", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestListToolsAndHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/tools", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "compute_tax")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	s, _ := newTestServer(t, limiter)
	h := s.Handler()

	body := `{"amount": 1200, "billing_cycle": "Yearly"}`
	assert.Equal(t, http.StatusOK, post(t, h, "/v1/tools/normalize_to_monthly", body).Code)
	assert.Equal(t, http.StatusOK, post(t, h, "/v1/tools/normalize_to_monthly", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(t, h, "/v1/tools/normalize_to_monthly", body).Code)
}

func TestRateLimiterRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow("10.0.0.1"))
}
