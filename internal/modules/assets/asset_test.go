package assets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Hour)
		return t
	}
}

func TestHolding_ConstructionSeedsHistory(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewGeneric("Widget", "WDG", 50, 4, WithClock(fixedClock(start)))

	assert.Equal(t, 200.0, g.InitialInvestment())
	assert.Equal(t, 200.0, g.CurrentValue())
	require.Len(t, g.History(), 1)
	assert.Equal(t, start, g.History()[0].Timestamp)
	assert.Equal(t, 50.0, g.History()[0].Price)
	assert.Equal(t, 0.0, g.Volatility())
}

func TestHolding_ZeroPriceDoesNotSeedHistory(t *testing.T) {
	g := NewGeneric("Widget", "WDG", 0, 0)
	assert.Empty(t, g.History())
}

func TestHolding_BuyThenSellAll(t *testing.T) {
	g := NewGeneric("Widget", "WDG", 100, 0)

	require.NoError(t, g.Buy(500))
	assert.InDelta(t, 5.0, g.Quantity(), 1e-12)
	assert.Equal(t, 500.0, g.InitialInvestment())

	quantityAfterBuy := g.Quantity()
	proceeds := g.Sell(100)

	assert.InDelta(t, quantityAfterBuy*g.CurrentPrice(), proceeds, 1e-9)
	assert.Equal(t, 0.0, g.Quantity())
	assert.Equal(t, 0.0, g.InitialInvestment())
}

func TestHolding_Buy(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		wantErr     bool
		wantQty     float64
		wantInitial float64
	}{
		{name: "positive amount", amount: 250, wantQty: 12.5, wantInitial: 450},
		{name: "zero is a no-op", amount: 0, wantQty: 10, wantInitial: 200},
		{name: "negative amount fails", amount: -1, wantErr: true, wantQty: 10, wantInitial: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeneric("Widget", "WDG", 20, 10)

			err := g.Buy(tt.amount)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
			assert.InDelta(t, tt.wantQty, g.Quantity(), 1e-12)
			assert.InDelta(t, tt.wantInitial, g.InitialInvestment(), 1e-12)
		})
	}
}

func TestHolding_BuyWithoutPriceFails(t *testing.T) {
	g := NewGeneric("Widget", "WDG", 0, 0)
	assert.ErrorIs(t, g.Buy(10), ErrInvalidArgument)
}

func TestHolding_Sell(t *testing.T) {
	tests := []struct {
		name         string
		percentage   float64
		wantProceeds float64
		wantQty      float64
		wantInitial  float64
	}{
		{name: "quarter", percentage: 25, wantProceeds: 25, wantQty: 7.5, wantInitial: 75},
		{name: "all", percentage: 100, wantProceeds: 100, wantQty: 0, wantInitial: 0},
		{name: "zero is invalid", percentage: 0, wantProceeds: 0, wantQty: 10, wantInitial: 100},
		{name: "negative is invalid", percentage: -5, wantProceeds: 0, wantQty: 10, wantInitial: 100},
		{name: "above hundred is invalid", percentage: 100.1, wantProceeds: 0, wantQty: 10, wantInitial: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeneric("Widget", "WDG", 10, 10)

			proceeds := g.Sell(tt.percentage)

			assert.InDelta(t, tt.wantProceeds, proceeds, 1e-12)
			assert.InDelta(t, tt.wantQty, g.Quantity(), 1e-12)
			assert.InDelta(t, tt.wantInitial, g.InitialInvestment(), 1e-12)
		})
	}
}

func TestHolding_UpdateCurrentPriceRecomputesVolatility(t *testing.T) {
	btc := NewCryptocurrency("Bitcoin", "BTC", 40000, 1, bitcoinMarketCap)

	require.NoError(t, btc.UpdateCurrentPrice(44000))
	require.NoError(t, btc.UpdateCurrentPrice(41800))

	assert.Equal(t, 41800.0, btc.CurrentPrice())
	assert.Len(t, btc.History(), 3)
	assert.InDelta(t, 7.5, btc.Volatility(), 1e-9)
}

func TestHolding_UpdateCurrentPriceRejectsInvalid(t *testing.T) {
	g := NewGeneric("Widget", "WDG", 10, 1)

	for _, price := range []float64{0, -3} {
		assert.ErrorIs(t, g.UpdateCurrentPrice(price), ErrInvalidArgument)
	}
	assert.Equal(t, 10.0, g.CurrentPrice())
	assert.Len(t, g.History(), 1)
}

func TestHolding_AddPricePointKeepsCurrentPrice(t *testing.T) {
	g := NewGeneric("Widget", "WDG", 10, 1)
	at := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, g.AddPricePoint(at, 12))

	assert.Equal(t, 10.0, g.CurrentPrice())
	history := g.History()
	require.Len(t, history, 2)
	assert.Equal(t, at, history[1].Timestamp)
	assert.Equal(t, 0.0, g.Volatility(), "single return has zero dispersion")
}

func TestHolding_HistoryIsACopy(t *testing.T) {
	g := NewGeneric("Widget", "WDG", 10, 1)
	h := g.History()
	h[0].Price = 999

	assert.Equal(t, 10.0, g.History()[0].Price)
}

func TestHolding_ReturnPercentage(t *testing.T) {
	g := NewGeneric("Widget", "WDG", 100, 2)
	require.NoError(t, g.UpdateCurrentPrice(110))
	assert.InDelta(t, 10.0, g.ReturnPercentage(), 1e-9)

	empty := NewGeneric("Empty", "EMP", 100, 0)
	assert.Equal(t, 0.0, empty.ReturnPercentage())
}
