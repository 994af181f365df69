package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/di"
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/events"
)

func newTestServer(t *testing.T) (*Server, *di.Container) {
	t.Helper()
	cfg := &config.Config{
		Port:                8001,
		DevMode:             true,
		InitialCapital:      10000,
		MonthlySIP:          500,
		RiskAppetite:        domain.RiskAppetiteMedium,
		RiskFreeRate:        0.5,
		VolatilityThreshold: 15,
		MarketData:          config.MarketDataSimulated,
		MarketSeed:          7,
	}
	container, _, err := di.Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	srv := New(Config{Log: zerolog.Nop(), Port: cfg.Port, DevMode: true, Container: container})
	srv.systemHandlers.stats = func() (float64, float64) { return 12.5, 40 }
	return srv, container
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "folio", body["service"])
}

func TestSystemStatus(t *testing.T) {
	srv, container := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data SystemStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Data.Status)
	assert.Equal(t, 12.5, body.Data.CPUPercent)
	assert.Equal(t, 40.0, body.Data.MemoryPercent)
	assert.Equal(t, config.MarketDataSimulated, body.Data.MarketData)
	assert.Equal(t, len(container.Portfolio.Symbols()), body.Data.PositionCount)
	assert.Equal(t, 50.0, body.Data.RiskScore)
}

func TestModuleRoutesMounted(t *testing.T) {
	srv, _ := newTestServer(t)

	paths := []string{
		"/api/portfolio",
		"/api/portfolio/composition",
		"/api/risk",
		"/api/risk/metrics",
		"/api/rebalancing/plan",
		"/api/sip",
		"/api/projection/scenarios",
		"/api/advisor",
		"/api/advisor/report",
		"/api/allocation/deviations",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   []events.EventType
	}{
		{"empty selects all", "", events.AllEventTypes},
		{"single", "price_updated", []events.EventType{events.PriceUpdated}},
		{"unknown dropped", "PRICE_UPDATED, NOPE ,PRICE_UPDATED,SIP_EXECUTED", []events.EventType{events.PriceUpdated, events.SIPExecuted}},
		{"only unknown", "NOPE", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTypes(tt.filter))
		})
	}
}

func dialStream(t *testing.T, srv *Server, query string) (*websocket.Conn, context.Context) {
	t.Helper()
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events/ws" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

func TestEventsStream_JSON(t *testing.T) {
	srv, container := newTestServer(t)
	conn, ctx := dialStream(t, srv, "?types=PRICE_UPDATED")

	kind, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, kind)
	var greeting StreamMessage
	require.NoError(t, json.Unmarshal(data, &greeting))
	assert.Equal(t, "connected", greeting.Type)

	// Filtered out
	container.EventBus.Emit(events.SIPExecuted, "portfolio", map[string]interface{}{"total": 1.0})
	container.EventBus.Emit(events.PriceUpdated, "portfolio", map[string]interface{}{"source": "test"})

	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	var msg StreamMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, string(events.PriceUpdated), msg.Type)
	assert.Equal(t, "portfolio", msg.Module)
	assert.Equal(t, "test", msg.Data["source"])
	assert.NotEmpty(t, msg.ID)
}

func TestEventsStream_Msgpack(t *testing.T) {
	srv, container := newTestServer(t)
	conn, ctx := dialStream(t, srv, "?format=msgpack")

	kind, _, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageBinary, kind)

	container.EventBus.Emit(events.TradeExecuted, "portfolio", map[string]interface{}{"symbol": "BTC"})

	kind, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageBinary, kind)
	var msg StreamMessage
	require.NoError(t, msgpack.Unmarshal(data, &msg))
	assert.Equal(t, string(events.TradeExecuted), msg.Type)
	assert.Equal(t, "BTC", msg.Data["symbol"])
}

func TestEventsStream_BadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, query := range []string{"?format=xml", "?types=NOPE"} {
		req := httptest.NewRequest(http.MethodGet, "/api/events/ws"+query, nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}
