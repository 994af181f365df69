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
	"github.com/aristath/folio/internal/modules/risk"
)

func setupRouter(t *testing.T, score float64) http.Handler {
	t.Helper()
	logger := zerolog.Nop()
	table := allocation.Table{"SIP": 50, "BTC": 50}
	prices := domain.PriceSnapshot{"SIP": 100, "BTC": 40000}
	p, err := portfolio.Build(10000, table, prices, nil)
	require.NoError(t, err)

	router := chi.NewRouter()
	NewHandler(p, risk.NewProfile(score, risk.DefaultVolatilityThreshold, logger), logger).RegisterRoutes(router)
	return router
}

func get(t *testing.T, h http.Handler, path string) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleGetTiers(t *testing.T) {
	body := get(t, setupRouter(t, 50), "/allocation/tiers")

	tiers := body["data"].([]interface{})
	require.Len(t, tiers, len(risk.Tiers))
	last := tiers[len(tiers)-1].(map[string]interface{})
	assert.Equal(t, "high", last["name"])
	assert.Nil(t, last["below"])
}

func TestHandleGetTargets(t *testing.T) {
	body := get(t, setupRouter(t, 80), "/allocation/targets")

	data := body["data"].(map[string]interface{})
	assert.Equal(t, 80.0, data["score"])
	assert.Equal(t, "Aggressive", data["label"])
	targets := data["targets"].(map[string]interface{})
	assert.Equal(t, 30.0, targets["BTC"])
}

func TestHandleGetDeviations(t *testing.T) {
	body := get(t, setupRouter(t, 80), "/allocation/deviations")

	data := body["data"].(map[string]interface{})
	// SIP is held at 50% against a 20% target
	assert.InDelta(t, 30, data["max_deviation"], 1e-6)
	assert.InDelta(t, 0.5, data["concentration"], 1e-6)
	assert.Len(t, data["deviations"], 5)
}

func TestCalculateHHI(t *testing.T) {
	assert.InDelta(t, 1.0, calculateHHI(allocation.Table{"A": 100}), 1e-12)
	assert.InDelta(t, 0.25, calculateHHI(allocation.Table{"A": 25, "B": 25, "C": 25, "D": 25}), 1e-12)
	assert.Equal(t, 0.0, calculateHHI(nil))
}
