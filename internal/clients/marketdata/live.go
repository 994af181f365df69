package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/domain"
)

// Endpoints are the quote URLs the live source queries
type Endpoints struct {
	Crypto string // CoinGecko simple price
	Gold   string // Swissquote public quotes
	Forex  string // exchangerate-api latest
	Quote  string // Finnhub quote
}

// DefaultEndpoints are the public services queried in live mode
var DefaultEndpoints = Endpoints{
	Crypto: "https://api.coingecko.com/api/v3/simple/price",
	Gold:   "https://forex-data-feed.swissquote.com/public-quotes/bboquotes/instrument/XAU/USD",
	Forex:  "https://api.exchangerate-api.com/v4/latest",
	Quote:  "https://finnhub.io/api/v1/quote",
}

var coinIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
}

// stockSymbols maps folio symbols to exchange tickers
var stockSymbols = map[string]string{
	"SIP": "VTI",
}

// Live fetches quotes over HTTP and falls back to the simulator on any
// failure, so callers always receive a usable price.
type Live struct {
	Indicators

	endpoints Endpoints
	apiKey    string
	client    *http.Client
	fallback  *Simulated
	log       zerolog.Logger
}

// NewLive creates a live source. fallback must not be nil.
func NewLive(endpoints Endpoints, apiKey string, fallback *Simulated, log zerolog.Logger) *Live {
	return &Live{
		endpoints: endpoints,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 10 * time.Second},
		fallback:  fallback,
		log:       log.With().Str("client", "marketdata").Logger(),
	}
}

type request struct {
	url   string
	paths []string
}

// requestFor resolves the endpoint and the candidate JSON paths for symbol
func (l *Live) requestFor(symbol string) request {
	common := []string{"$.price", "$.data.last", "$.ticker.price"}

	if id, ok := coinIDs[symbol]; ok {
		q := url.Values{"ids": {id}, "vs_currencies": {"usd"}}
		return request{
			url:   l.endpoints.Crypto + "?" + q.Encode(),
			paths: append([]string{fmt.Sprintf("$.%s.usd", id)}, common...),
		}
	}
	if symbol == "XAU/USD" {
		return request{
			url:   l.endpoints.Gold,
			paths: append([]string{"$[0].spreadProfilePrices[0].bid"}, common...),
		}
	}
	if base, quote, ok := strings.Cut(symbol, "/"); ok {
		return request{
			url:   l.endpoints.Forex + "/" + url.PathEscape(base),
			paths: append([]string{fmt.Sprintf("$.rates.%s", quote)}, common...),
		}
	}

	ticker := symbol
	if t, ok := stockSymbols[symbol]; ok {
		ticker = t
	}
	q := url.Values{"symbol": {ticker}, "token": {l.apiKey}}
	return request{
		url:   l.endpoints.Quote + "?" + q.Encode(),
		paths: append([]string{"$.c"}, common...),
	}
}

// fetch returns the first positive number found at one of req.paths
func (l *Live) fetch(ctx context.Context, req request) (float64, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return extract(doc, req.paths)
}

// extract evaluates paths in order against doc
func extract(doc any, paths []string) (float64, error) {
	for _, path := range paths {
		v, err := jsonpath.Get(path, doc)
		if err != nil {
			continue
		}
		// a path may yield a one-element list
		if list, ok := v.([]any); ok {
			if len(list) == 0 {
				continue
			}
			v = list[0]
		}
		if price, ok := toFloat(v); ok && price > 0 {
			return price, nil
		}
	}
	return 0, fmt.Errorf("no price at %s", strings.Join(paths, ", "))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}

// Price fetches symbol, falling back to a simulated move on failure
func (l *Live) Price(ctx context.Context, symbol string) (float64, error) {
	if symbol == "USD" {
		return 1.0, nil
	}
	req := l.requestFor(symbol)
	price, err := l.fetch(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		l.log.Warn().Err(err).Str("symbol", symbol).Msg("Live quote failed, using simulated price")
		return l.fallback.Price(ctx, symbol)
	}
	l.fallback.Seed(symbol, price)
	l.log.Debug().Str("symbol", symbol).Float64("price", price).Msg("Live quote")
	return price, nil
}

// Prices fetches one snapshot for symbols
func (l *Live) Prices(ctx context.Context, symbols []string) (domain.PriceSnapshot, error) {
	out := make(domain.PriceSnapshot, len(symbols))
	for _, symbol := range symbols {
		p, err := l.Price(ctx, symbol)
		if err != nil {
			return nil, err
		}
		out[symbol] = p
	}
	return out, nil
}

// VIX has no free live feed; it is always simulated
func (l *Live) VIX(ctx context.Context) (float64, error) {
	return l.fallback.VIX(ctx)
}

var _ domain.MarketData = (*Live)(nil)
