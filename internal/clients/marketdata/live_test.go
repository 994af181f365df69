package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLive(t *testing.T, handler http.Handler) *Live {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	endpoints := Endpoints{
		Crypto: srv.URL + "/crypto",
		Gold:   srv.URL + "/gold",
		Forex:  srv.URL + "/forex",
		Quote:  srv.URL + "/quote",
	}
	return NewLive(endpoints, "key", NewSimulated(9, 0, zerolog.Nop()), zerolog.Nop())
}

func TestLive_Price(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crypto", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":43210.5}}`))
	})
	mux.HandleFunc("/gold", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"spreadProfilePrices":[{"bid":1950.25,"ask":1951}]}]`))
	})
	mux.HandleFunc("/forex/EUR", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.0875,"GBP":0.86}}`))
	})
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "VTI", r.URL.Query().Get("symbol"))
		assert.Equal(t, "key", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`{"c":231.4,"h":232,"l":229}`))
	})
	live := newTestLive(t, mux)

	tests := []struct {
		symbol string
		want   float64
	}{
		{"BTC", 43210.5},
		{"XAU/USD", 1950.25},
		{"EUR/USD", 1.0875},
		{"SIP", 231.4},
		{"USD", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, err := live.Price(context.Background(), tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLive_CommonShapes(t *testing.T) {
	bodies := map[string]string{
		"/quote": `{"price":"12.5"}`,
	}
	live := newTestLive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bodies[r.URL.Path]))
	}))

	got, err := live.Price(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)
}

func TestLive_FallsBackToSimulation(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
		{"no price", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"bitcoin":{"eur":1}}`))
		}},
		{"zero price", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":0}}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := newTestLive(t, tt.handler)

			got, err := live.Price(context.Background(), "BTC")
			require.NoError(t, err)
			assert.InDelta(t, 40000, got, 40000*0.2)
		})
	}
}

func TestLive_SeedsFallbackWithLastQuote(t *testing.T) {
	calls := 0
	live := newTestLive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":10}}`))
			return
		}
		http.Error(w, "down", http.StatusBadGateway)
	}))

	first, err := live.Price(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, 10.0, first)

	second, err := live.Price(context.Background(), "BTC")
	require.NoError(t, err)
	assert.InDelta(t, 10, second, 2)
}

func TestLive_Prices(t *testing.T) {
	live := newTestLive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"USD":1.2}}`))
	}))

	snapshot, err := live.Prices(context.Background(), []string{"EUR/USD", "USD"})
	require.NoError(t, err)
	assert.Equal(t, 1.2, snapshot["EUR/USD"])
	assert.Equal(t, 1.0, snapshot["USD"])
}

func TestExtract(t *testing.T) {
	doc := map[string]any{"data": map[string]any{"last": 3.5}}

	got, err := extract(doc, []string{"$.price", "$.data.last"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)

	_, err = extract(doc, []string{"$.price"})
	assert.Error(t, err)
}
