package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func setupRouter(t *testing.T, monthly float64) http.Handler {
	t.Helper()
	table := allocation.Table{"SIP": 40, "USD": 10, "XAU/USD": 15, "EUR/USD": 20, "BTC": 15}
	prices := domain.PriceSnapshot{"SIP": 100, "XAU/USD": 1800, "EUR/USD": 1.1, "BTC": 40000}
	p, err := portfolio.Build(10000, table, prices, nil)
	require.NoError(t, err)

	router := chi.NewRouter()
	NewHandler(p, sip.NewPlan(monthly, zerolog.Nop()), zerolog.Nop()).RegisterRoutes(router)
	return router
}

func get(t *testing.T, h http.Handler, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		return w.Code, nil
	}
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Contains(t, response, "metadata")
	return w.Code, response["data"].(map[string]interface{})
}

func TestHandleProjectPortfolio(t *testing.T) {
	router := setupRouter(t, 0)

	status, data := get(t, router, "/projection/portfolio?rate=0&months=24&contribution=100")

	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 12400, data["future_value"], 1e-6)
	assert.Len(t, data["path"], 3)
}

func TestHandleProjectPortfolio_Defaults(t *testing.T) {
	router := setupRouter(t, 500)

	status, data := get(t, router, "/projection/portfolio")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 120.0, data["months"])
	assert.Equal(t, 10.0, data["annual_rate"])
	assert.Equal(t, 500.0, data["contribution"])
	assert.InDelta(t, 10000, data["current_value"], 1e-6)
}

func TestHandleProjectPortfolio_BadParams(t *testing.T) {
	router := setupRouter(t, 0)

	for _, q := range []string{"rate=abc", "months=-1", "months=99999", "contribution=x", "value=NaN"} {
		status, _ := get(t, router, "/projection/portfolio?"+q)
		assert.Equal(t, http.StatusBadRequest, status, q)
	}
}

func TestHandleScenarios(t *testing.T) {
	router := setupRouter(t, 500)

	status, data := get(t, router, "/projection/scenarios")

	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data["market"], 3)
	assert.Len(t, data["inflation"], 2)
	assert.Len(t, data["sip"], 3)
}

func TestHandleProjectSIP(t *testing.T) {
	router := setupRouter(t, 500)

	status, data := get(t, router, "/projection/sip")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data["projections"], 4)

	status, data = get(t, router, "/projection/sip?monthly=100&rate=12&months=12")
	require.Equal(t, http.StatusOK, status)
	projections := data["projections"].([]interface{})
	require.Len(t, projections, 1)
	assert.InDelta(t, 1280.93, projections[0].(map[string]interface{})["future_value"], 0.01)
}
