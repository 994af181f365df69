package risk

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/allocation"
)

// ErrInvalidScore is returned for NaN scores
var ErrInvalidScore = errors.New("invalid risk score")

// Profile holds the risk score and the ideal allocation derived from it.
// It is safe for concurrent use.
type Profile struct {
	mu                  sync.RWMutex
	score               float64
	ideal               allocation.Table
	volatilityThreshold float64
	log                 zerolog.Logger
}

// Summary is a point-in-time copy of a profile
type Summary struct {
	Score               float64          `json:"score"`
	Label               string           `json:"label"`
	Tier                string           `json:"tier"`
	VolatilityThreshold float64          `json:"volatility_threshold"`
	IdealAllocation     allocation.Table `json:"ideal_allocation"`
}

// NewProfile creates a profile at score (clamped). A non-positive threshold
// falls back to DefaultVolatilityThreshold.
func NewProfile(score, volatilityThreshold float64, log zerolog.Logger) *Profile {
	if volatilityThreshold <= 0 || math.IsNaN(volatilityThreshold) {
		volatilityThreshold = DefaultVolatilityThreshold
	}
	if math.IsNaN(score) {
		score = DefaultScore
	}
	score = Clamp(score)
	return &Profile{
		score:               score,
		ideal:               IdealAllocation(score),
		volatilityThreshold: volatilityThreshold,
		log:                 log.With().Str("component", "risk_profile").Logger(),
	}
}

func (p *Profile) Score() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.score
}

// IdealAllocation returns a copy of the current target table
func (p *Profile) IdealAllocation() allocation.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ideal.Clone()
}

func (p *Profile) VolatilityThreshold() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volatilityThreshold
}

// Label is Conservative, Moderate or Aggressive
func (p *Profile) Label() string {
	return TierFor(p.Score()).Label
}

// IsTooVolatile reports whether volatility exceeds the profile threshold
func (p *Profile) IsTooVolatile(volatility float64) bool {
	return volatility > p.VolatilityThreshold()
}

// SetRiskScore clamps score to [0,100] and re-derives the ideal allocation
func (p *Profile) SetRiskScore(score float64) (float64, error) {
	if math.IsNaN(score) {
		return 0, fmt.Errorf("%w: NaN", ErrInvalidScore)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(score), nil
}

// AdjustForMarketConditions applies the additive market signals to the
// current score and returns the new score.
func (p *Profile) AdjustForMarketConditions(vix, btcVolatility float64) float64 {
	delta := MarketAdjustment(vix, btcVolatility)

	p.mu.Lock()
	defer p.mu.Unlock()
	previous := p.score
	score := p.setLocked(p.score + delta)

	p.log.Info().
		Float64("vix", vix).
		Float64("btc_volatility", btcVolatility).
		Float64("delta", delta).
		Float64("previous", previous).
		Float64("score", score).
		Msg("Adjusted risk score for market conditions")
	return score
}

func (p *Profile) setLocked(score float64) float64 {
	p.score = Clamp(score)
	p.ideal = IdealAllocation(p.score)
	return p.score
}

// Summary returns a consistent copy of the profile state
func (p *Profile) Summary() Summary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	tier := TierFor(p.score)
	return Summary{
		Score:               p.score,
		Label:               tier.Label,
		Tier:                tier.Name,
		VolatilityThreshold: p.volatilityThreshold,
		IdealAllocation:     p.ideal.Clone(),
	}
}
