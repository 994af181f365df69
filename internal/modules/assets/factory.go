package assets

import (
	"fmt"
	"strings"

	"github.com/aristath/folio/internal/domain"
)

// Symbols with a dedicated variant in the factory table
const (
	SymbolSIP  = "SIP"
	SymbolBTC  = "BTC"
	SymbolGold = "XAU/USD"
	SymbolUSD  = "USD"
)

// bitcoinMarketCap is the market cap a new BTC position starts from
const bitcoinMarketCap = 1e12

// Spec describes how to build an asset for a symbol and the capital put into it
type Spec struct {
	Symbol     string
	Price      float64
	Amount     float64
	Indicators domain.EconomicIndicators
	Options    []Option
}

func (s Spec) quantity() float64 { return s.Amount / s.Price }

func (s Spec) rates(country string) (interest, inflation float64) {
	if s.Indicators == nil {
		return 0, 0
	}
	return s.Indicators.InterestRate(country), s.Indicators.InflationRate(country)
}

type factoryEntry struct {
	name  string
	match func(symbol string) bool
	build func(s Spec) Asset
}

func exactly(symbol string) func(string) bool {
	return func(s string) bool { return s == symbol }
}

func isPair(symbol string) bool { return strings.Contains(symbol, "/") }

// factoryTable is evaluated top to bottom; the last entry matches everything
var factoryTable = []factoryEntry{
	{name: "sip", match: exactly(SymbolSIP), build: func(s Spec) Asset {
		return NewSIP("Vanguard Total Stock Market ETF", s.Symbol, s.Price, s.quantity(), DefaultSIPTerms(), s.Options...)
	}},
	{name: "bitcoin", match: exactly(SymbolBTC), build: func(s Spec) Asset {
		return NewCryptocurrency("Bitcoin", s.Symbol, s.Price, s.quantity(), bitcoinMarketCap, s.Options...)
	}},
	{name: "gold", match: exactly(SymbolGold), build: func(s Spec) Asset {
		return NewCommodity("Gold", s.Symbol, s.Price, s.quantity(), DefaultGrade, false, s.Options...)
	}},
	{name: "cash", match: exactly(SymbolUSD), build: func(s Spec) Asset {
		interest, inflation := s.rates("US")
		return NewFiatCurrency("US Dollar", s.Symbol, 1.0, s.Amount, "United States", interest, inflation, s.Options...)
	}},
	{name: "forex", match: isPair, build: func(s Spec) Asset {
		base, quote, _ := strings.Cut(s.Symbol, "/")
		return NewForex(base+" to "+quote, s.Symbol, s.Price, s.quantity(), base, quote, DefaultForexSpread, s.Options...)
	}},
	{name: "generic", match: func(string) bool { return true }, build: func(s Spec) Asset {
		return NewGeneric(s.Symbol, s.Symbol, s.Price, s.quantity(), s.Options...)
	}},
}

// NewForSymbol builds the variant registered for spec.Symbol and invests
// spec.Amount into it at spec.Price. Cash is always priced at 1.
func NewForSymbol(spec Spec) (Asset, error) {
	if spec.Symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidArgument)
	}
	if spec.Amount < 0 {
		return nil, fmt.Errorf("%w: negative amount %v for %s", ErrInvalidArgument, spec.Amount, spec.Symbol)
	}
	for _, entry := range factoryTable {
		if !entry.match(spec.Symbol) {
			continue
		}
		if entry.name != "cash" {
			if err := validPrice(spec.Symbol, spec.Price); err != nil {
				return nil, err
			}
		}
		return entry.build(spec), nil
	}
	return nil, fmt.Errorf("%w: no builder for %s", ErrInvalidArgument, spec.Symbol)
}
