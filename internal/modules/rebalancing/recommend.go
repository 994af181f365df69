package rebalancing

import (
	"math"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/allocation"
)

// Threshold is the minimum allocation drift, in percentage points, that
// produces a recommendation
const Threshold = 5.0

// Recommendation is one sized trade toward the ideal allocation.
//
// Amount is a currency amount for BUY (totalValue * diff / 100) but a
// percentage of the holding itself for SELL (|diff|). Worth is the
// portfolio-relative currency size of the drift for both directions.
type Recommendation struct {
	Symbol     string           `json:"symbol"`
	Direction  domain.Direction `json:"direction"`
	Amount     float64          `json:"amount"`
	Diff       float64          `json:"diff"`
	CurrentPct float64          `json:"current_pct"`
	TargetPct  float64          `json:"target_pct"`
	Worth      float64          `json:"worth"`
}

// Recommend diffs current composition against the ideal table for every
// symbol in either and returns one recommendation per symbol whose drift
// reaches Threshold, sorted by symbol. A portfolio without positive value
// gets no recommendations.
func Recommend(current, ideal allocation.Table, totalValue float64) []Recommendation {
	if totalValue <= 0 {
		return nil
	}

	var out []Recommendation
	for _, symbol := range allocation.Union(current, ideal) {
		diff := ideal[symbol] - current[symbol]
		if math.Abs(diff) < Threshold {
			continue
		}

		r := Recommendation{
			Symbol:     symbol,
			Diff:       diff,
			CurrentPct: current[symbol],
			TargetPct:  ideal[symbol],
			Worth:      totalValue * math.Abs(diff) / 100,
		}
		if diff > 0 {
			r.Direction = domain.DirectionBuy
			r.Amount = totalValue * diff / 100
		} else {
			r.Direction = domain.DirectionSell
			r.Amount = math.Abs(diff)
		}
		out = append(out, r)
	}
	return out
}
