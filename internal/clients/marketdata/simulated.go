package marketdata

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/folio/internal/domain"
)

// SymbolVIX is the key the simulator uses for the volatility index
const SymbolVIX = "VIX"

// DefaultVolatilityFactor is the standard deviation of one simulated move
const DefaultVolatilityFactor = 0.02

// FallbackBasePrice seeds symbols missing from BasePrices
const FallbackBasePrice = 100.0

// BasePrices seed the first simulated price of each symbol
var BasePrices = map[string]float64{
	"SIP":     200.0,
	"BTC":     40000.0,
	"ETH":     2000.0,
	"EUR/USD": 1.10,
	"USD/INR": 75.0,
	"GBP/USD": 1.35,
	"XAU/USD": 1800.0,
	"USD":     1.0,
	"VTI":     200.0,
	"VOO":     380.0,
	SymbolVIX: 20.0,
}

// Simulated is a random-walk price source. Each call moves the last price of
// a symbol by a normally distributed fraction.
type Simulated struct {
	Indicators

	mu     sync.Mutex
	last   map[string]float64
	normal distuv.Normal
	log    zerolog.Logger
}

// NewSimulated creates a simulator. A zero seed draws one from the clock.
func NewSimulated(seed uint64, factor float64, log zerolog.Logger) *Simulated {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if factor <= 0 {
		factor = DefaultVolatilityFactor
	}
	return &Simulated{
		last: make(map[string]float64),
		normal: distuv.Normal{
			Mu:    0,
			Sigma: factor,
			Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
		log: log.With().Str("client", "simulated").Logger(),
	}
}

// Seed sets the last known price of symbol; the next move starts from it
func (s *Simulated) Seed(symbol string, price float64) {
	if price <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[symbol] = price
}

func (s *Simulated) next(symbol string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, ok := s.last[symbol]
	if !ok {
		if base, ok = BasePrices[symbol]; !ok {
			base = FallbackBasePrice
		}
	}
	price := base * (1 + s.normal.Rand())
	if price <= 0 {
		price = base
	}
	s.last[symbol] = price
	return price
}

// Price returns the next simulated price of symbol
func (s *Simulated) Price(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if symbol == "" {
		return 0, fmt.Errorf("empty symbol")
	}
	return s.next(symbol), nil
}

// Prices returns one simulated snapshot for symbols. Cash is pinned at 1.
func (s *Simulated) Prices(ctx context.Context, symbols []string) (domain.PriceSnapshot, error) {
	out := make(domain.PriceSnapshot, len(symbols))
	for _, symbol := range symbols {
		if symbol == "USD" {
			out[symbol] = 1.0
			continue
		}
		p, err := s.Price(ctx, symbol)
		if err != nil {
			return nil, err
		}
		out[symbol] = p
	}
	s.log.Debug().Int("symbols", len(out)).Msg("Simulated prices")
	return out, nil
}

// VIX returns the next simulated volatility index value
func (s *Simulated) VIX(ctx context.Context) (float64, error) {
	return s.Price(ctx, SymbolVIX)
}

var _ domain.MarketData = (*Simulated)(nil)
