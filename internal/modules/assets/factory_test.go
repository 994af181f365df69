package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIndicators struct{}

func (stubIndicators) InterestRate(country string) float64 {
	if country == "US" {
		return 0.5
	}
	return 0
}

func (stubIndicators) InflationRate(country string) float64 {
	if country == "US" {
		return 2.5
	}
	return 0
}

func TestNewForSymbol(t *testing.T) {
	tests := []struct {
		symbol   string
		price    float64
		wantKind Kind
		wantName string
		wantQty  float64
	}{
		{symbol: "SIP", price: 100, wantKind: KindSIP, wantName: "Vanguard Total Stock Market ETF", wantQty: 10},
		{symbol: "BTC", price: 40000, wantKind: KindCryptocurrency, wantName: "Bitcoin", wantQty: 0.025},
		{symbol: "XAU/USD", price: 1800, wantKind: KindCommodity, wantName: "Gold", wantQty: 1000.0 / 1800},
		{symbol: "USD", price: 1, wantKind: KindFiatCurrency, wantName: "US Dollar", wantQty: 1000},
		{symbol: "EUR/USD", price: 1.25, wantKind: KindForex, wantName: "EUR to USD", wantQty: 800},
		{symbol: "GBP/USD", price: 1.25, wantKind: KindForex, wantName: "GBP to USD", wantQty: 800},
		{symbol: "VOO", price: 400, wantKind: KindGeneric, wantName: "VOO", wantQty: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			a, err := NewForSymbol(Spec{Symbol: tt.symbol, Price: tt.price, Amount: 1000, Indicators: stubIndicators{}})
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, a.Kind())
			assert.Equal(t, tt.wantName, a.Name())
			assert.Equal(t, tt.symbol, a.Symbol())
			assert.InDelta(t, tt.wantQty, a.Quantity(), 1e-9)
			assert.InDelta(t, 1000.0, a.InitialInvestment(), 1e-9)
		})
	}
}

func TestNewForSymbol_CashIgnoresQuotedPrice(t *testing.T) {
	a, err := NewForSymbol(Spec{Symbol: "USD", Price: 0, Amount: 500, Indicators: stubIndicators{}})
	require.NoError(t, err)

	usd, ok := a.(*FiatCurrency)
	require.True(t, ok)
	assert.Equal(t, 1.0, usd.CurrentPrice())
	assert.Equal(t, 500.0, usd.Quantity())
	assert.Equal(t, 0.5, usd.InterestRate())
	assert.Equal(t, 2.5, usd.InflationRate())
	assert.Equal(t, "United States", usd.Country())
}

func TestNewForSymbol_WithoutIndicators(t *testing.T) {
	a, err := NewForSymbol(Spec{Symbol: "USD", Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.(*FiatCurrency).RealReturn())
}

func TestNewForSymbol_Forex(t *testing.T) {
	a, err := NewForSymbol(Spec{Symbol: "USD/INR", Price: 75, Amount: 750})
	require.NoError(t, err)

	fx := a.(*Forex)
	assert.Equal(t, "USD", fx.BaseCurrency())
	assert.Equal(t, "INR", fx.QuoteCurrency())
	assert.Equal(t, DefaultForexSpread, fx.SpreadPercentage())
}

func TestNewForSymbol_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{name: "empty symbol", spec: Spec{Price: 1, Amount: 1}},
		{name: "negative amount", spec: Spec{Symbol: "BTC", Price: 1, Amount: -1}},
		{name: "zero price", spec: Spec{Symbol: "BTC", Price: 0, Amount: 1}},
		{name: "negative price", spec: Spec{Symbol: "EUR/USD", Price: -1, Amount: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewForSymbol(tt.spec)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, a)
		})
	}
}
