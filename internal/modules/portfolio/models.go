package portfolio

import (
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/internal/modules/assets"
)

// Position is a read-only copy of one holding
type Position struct {
	Symbol            string              `json:"symbol"`
	Name              string              `json:"name"`
	Kind              assets.Kind         `json:"kind"`
	CurrentPrice      float64             `json:"current_price"`
	Quantity          float64             `json:"quantity"`
	CurrentValue      float64             `json:"current_value"`
	InitialInvestment float64             `json:"initial_investment"`
	ReturnPct         float64             `json:"return_pct"`
	Volatility        float64             `json:"volatility"`
	Details           []assets.Field      `json:"details"`
	History           []domain.PricePoint `json:"history,omitempty"`
}

func positionOf(a assets.Asset) Position {
	return Position{
		Symbol:            a.Symbol(),
		Name:              a.Name(),
		Kind:              a.Kind(),
		CurrentPrice:      a.CurrentPrice(),
		Quantity:          a.Quantity(),
		CurrentValue:      a.CurrentValue(),
		InitialInvestment: a.InitialInvestment(),
		ReturnPct:         a.ReturnPercentage(),
		Volatility:        a.Volatility(),
		Details:           a.Details(),
		History:           a.History(),
	}
}

// Holding is the scalar state of one asset, without its price history
type Holding struct {
	Symbol     string
	Name       string
	Kind       assets.Kind
	Value      float64
	ReturnPct  float64
	Volatility float64
}

// Snapshot is a consistent read of the portfolio aggregates. Holdings and
// Exposures are sorted by symbol.
type Snapshot struct {
	TotalValue        float64
	InitialInvestment float64
	Composition       allocation.Table
	Exposures         []domain.Exposure
	Holdings          []Holding
	LastRebalance     time.Time
}

// TotalReturnPct compares the total value with the initial investment, or
// 0 without one.
func (s Snapshot) TotalReturnPct() float64 {
	if s.InitialInvestment <= 0 {
		return 0
	}
	return (s.TotalValue - s.InitialInvestment) / s.InitialInvestment * 100
}

// Trade is one instruction against a held symbol. Amount is a currency
// amount for BUY and a percentage of the holding for SELL.
type Trade struct {
	Symbol    string           `json:"symbol"`
	Direction domain.Direction `json:"direction"`
	Amount    float64          `json:"amount"`
}

// TradeResult reports the invested amount (BUY) or the proceeds (SELL)
type TradeResult struct {
	Trade Trade   `json:"trade"`
	Value float64 `json:"value"`
	Err   error   `json:"-"`
}
