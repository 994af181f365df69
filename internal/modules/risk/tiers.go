// Package risk maps a scalar risk score to an ideal allocation and derives
// value-weighted portfolio risk metrics.
package risk

import (
	"math"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/allocation"
)

const (
	MinScore = 0.0
	MaxScore = 100.0

	// DefaultScore is a medium-risk profile
	DefaultScore = 50.0
	// DefaultVolatilityThreshold marks an asset as too volatile above this percentage
	DefaultVolatilityThreshold = 15.0
	// DefaultRiskFreeRate is the percentage subtracted in the risk-adjusted return
	DefaultRiskFreeRate = 0.5
)

// Tier is one band of the risk score table. A score belongs to the first
// tier whose Below bound it does not reach.
type Tier struct {
	Name       string           `json:"name"`
	Label      string           `json:"label"`
	Below      float64          `json:"below"`
	Allocation allocation.Table `json:"allocation"`
}

// Tiers is the score -> ideal allocation table
var Tiers = []Tier{
	{
		Name:  "low",
		Label: "Conservative",
		Below: 30,
		Allocation: allocation.Table{
			"SIP": 60, "USD": 20, "XAU/USD": 10, "EUR/USD": 5, "BTC": 5,
		},
	},
	{
		Name:  "medium",
		Label: "Moderate",
		Below: 70,
		Allocation: allocation.Table{
			"SIP": 40, "USD": 10, "XAU/USD": 15, "EUR/USD": 20, "BTC": 15,
		},
	},
	{
		Name:  "high",
		Label: "Aggressive",
		Below: math.Inf(1),
		Allocation: allocation.Table{
			"SIP": 20, "USD": 10, "XAU/USD": 10, "EUR/USD": 30, "BTC": 30,
		},
	},
}

// Clamp bounds score to [MinScore, MaxScore]
func Clamp(score float64) float64 {
	return math.Min(MaxScore, math.Max(MinScore, score))
}

// TierFor returns the tier a clamped score falls into
func TierFor(score float64) Tier {
	score = Clamp(score)
	for _, t := range Tiers {
		if score < t.Below {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// IdealAllocation returns a copy of the target table for score
func IdealAllocation(score float64) allocation.Table {
	return TierFor(score).Allocation.Clone()
}

var appetiteScores = map[domain.RiskAppetite]float64{
	domain.RiskAppetiteLow:    25,
	domain.RiskAppetiteMedium: 50,
	domain.RiskAppetiteHigh:   75,
}

// ScoreForAppetite converts a coarse appetite into a score. Unknown values
// map to the medium score.
func ScoreForAppetite(a domain.RiskAppetite) float64 {
	if score, ok := appetiteScores[a]; ok {
		return score
	}
	return DefaultScore
}

// MarketSignal is one additive score adjustment driven by market conditions
type MarketSignal struct {
	Name    string
	Applies func(vix, btcVolatility float64) bool
	Delta   float64
}

// MarketSignals are summed, never compounded
var MarketSignals = []MarketSignal{
	{Name: "vix_high", Applies: func(vix, _ float64) bool { return vix > 30 }, Delta: -10},
	{Name: "vix_low", Applies: func(vix, _ float64) bool { return vix < 15 }, Delta: 5},
	{Name: "btc_volatile", Applies: func(_, btc float64) bool { return btc > 20 }, Delta: -5},
}

// MarketAdjustment sums the deltas of every signal that applies
func MarketAdjustment(vix, btcVolatility float64) float64 {
	var delta float64
	for _, s := range MarketSignals {
		if s.Applies(vix, btcVolatility) {
			delta += s.Delta
		}
	}
	return delta
}
