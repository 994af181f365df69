package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/sip"
)

func setupRouter(t *testing.T) (http.Handler, *sip.Plan, *portfolio.Portfolio) {
	t.Helper()
	logger := zerolog.Nop()
	table := allocation.Table{"SIP": 40, "USD": 10, "XAU/USD": 15, "EUR/USD": 20, "BTC": 15}
	prices := domain.PriceSnapshot{"SIP": 100, "XAU/USD": 1800, "EUR/USD": 1.1, "BTC": 40000}
	p, err := portfolio.Build(10000, table, prices, nil)
	require.NoError(t, err)

	plan := sip.NewPlan(500, logger)
	_, err = plan.SetAllocation(table)
	require.NoError(t, err)

	svc := portfolio.NewService(p, plan, nil, "test", nil, logger)
	router := chi.NewRouter()
	NewHandler(plan, svc, logger).RegisterRoutes(router)
	return router, plan, p
}

func serve(t *testing.T, h http.Handler, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		return w.Code, nil
	}
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return w.Code, response["data"].(map[string]interface{})
}

func TestHandleGetPlan(t *testing.T) {
	router, _, _ := setupRouter(t)

	status, data := serve(t, router, "GET", "/sip", "")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 500.0, data["monthly_amount"])
	assert.Equal(t, true, data["auto_invest"])
	assert.Len(t, data["projections"], 4)
}

func TestHandleSetAmount(t *testing.T) {
	router, plan, _ := setupRouter(t)

	status, _ := serve(t, router, "PUT", "/sip/amount", `{"amount": 750}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 750.0, plan.MonthlyAmount())

	tests := []string{`{"amount": -1}`, `{}`, `nope`}
	for _, body := range tests {
		status, _ := serve(t, router, "PUT", "/sip/amount", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
	}
	assert.Equal(t, 750.0, plan.MonthlyAmount())
}

func TestHandleSetAllocation(t *testing.T) {
	router, plan, _ := setupRouter(t)

	status, data := serve(t, router, "PUT", "/sip/allocation", `{"allocation": {"SIP": 30, "BTC": 30}}`)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data["normalized"])
	assert.InDelta(t, 50, plan.Allocation()["SIP"], 1e-9)

	status, _ = serve(t, router, "PUT", "/sip/allocation", `{"allocation": {"SIP": -5}}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleExecute(t *testing.T) {
	router, _, p := setupRouter(t)

	status, data := serve(t, router, "POST", "/sip/execute", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0.0, data["total"])

	status, data = serve(t, router, "POST", "/sip/execute", `{"force": true}`)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 500, data["total"], 1e-9)
	assert.InDelta(t, 10500, p.TotalValue(), 1e-6)
}

func TestHandleExecute_Disabled(t *testing.T) {
	router, _, _ := setupRouter(t)

	status, data := serve(t, router, "POST", "/sip/toggle", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, data["auto_invest"])

	status, _ = serve(t, router, "POST", "/sip/execute", "")
	assert.Equal(t, http.StatusConflict, status)
}

func TestHandleSimulate(t *testing.T) {
	router, _, _ := setupRouter(t)

	status, data := serve(t, router, "GET", "/sip/simulate?months=3", "")
	require.Equal(t, http.StatusOK, status)
	investments := data["investments"].(map[string]interface{})
	assert.Len(t, investments["SIP"], 3)

	status, _ = serve(t, router, "GET", "/sip/simulate?months=abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}
