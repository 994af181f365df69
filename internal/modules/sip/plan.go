// Package sip implements a systematic investment plan: a fixed monthly
// amount split across a renormalised allocation.
package sip

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/pkg/formulas"
)

// ErrInvalidArgument is returned for negative amounts and percentages
var ErrInvalidArgument = errors.New("invalid argument")

const (
	// InvestmentInterval is the simplified month between automatic investments
	InvestmentInterval = 30 * 24 * time.Hour

	// DisplayRate is the annual return used for headline projections
	DisplayRate = 10.0
)

// DisplayHorizons are the headline projection horizons in months
var DisplayHorizons = []int{12, 60, 120, 240}

// Option configures a Plan
type Option func(*Plan)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(p *Plan) {
		if now != nil {
			p.now = now
		}
	}
}

// WithAutoInvest sets the initial auto-invest flag
func WithAutoInvest(enabled bool) Option {
	return func(p *Plan) { p.autoInvest = enabled }
}

// Plan is safe for concurrent use
type Plan struct {
	mu             sync.RWMutex
	monthlyAmount  float64
	allocation     allocation.Table
	lastInvestment time.Time
	autoInvest     bool
	now            func() time.Time
	log            zerolog.Logger
}

// Projection is the value of the plan after Months of contributions
type Projection struct {
	Months int     `json:"months"`
	Rate   float64 `json:"rate"`
	Value  float64 `json:"value"`
}

// Summary is a point-in-time copy of a plan
type Summary struct {
	MonthlyAmount  float64          `json:"monthly_amount"`
	AutoInvest     bool             `json:"auto_invest"`
	Allocation     allocation.Table `json:"allocation"`
	LastInvestment time.Time        `json:"last_investment"`
	NextInvestment time.Time        `json:"next_investment"`
	Projections    []Projection     `json:"projections"`
}

// NewPlan creates a plan with auto-invest enabled whose first investment
// falls due one interval from now. A negative amount is treated as zero.
func NewPlan(monthlyAmount float64, log zerolog.Logger, opts ...Option) *Plan {
	p := &Plan{
		monthlyAmount: math.Max(0, monthlyAmount),
		allocation:    allocation.Table{},
		autoInvest:    true,
		now:           time.Now,
		log:           log.With().Str("component", "sip").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastInvestment = p.now()
	return p
}

func (p *Plan) MonthlyAmount() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.monthlyAmount
}

// SetMonthlyAmount replaces the monthly contribution
func (p *Plan) SetMonthlyAmount(amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: monthly amount %v", ErrInvalidArgument, amount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.monthlyAmount = amount
	return nil
}

// Allocation returns a copy of the current allocation
func (p *Plan) Allocation() allocation.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.allocation.Clone()
}

// SetAllocation replaces the allocation, renormalising it proportionally
// when it does not sum to 100. It reports whether renormalisation happened.
func (p *Plan) SetAllocation(table allocation.Table) (bool, error) {
	for symbol, pct := range table {
		if pct < 0 || math.IsNaN(pct) {
			return false, fmt.Errorf("%w: %s=%v", ErrInvalidArgument, symbol, pct)
		}
	}

	normalized, changed := table.Normalize()
	if changed {
		p.log.Warn().
			Float64("sum", table.Sum()).
			Msg("Allocation percentages do not add up to 100, adjusting proportionally")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.allocation = normalized
	return changed, nil
}

// IsTimeForInvestment reports whether a full interval has passed since the
// last investment
func (p *Plan) IsTimeForInvestment() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dueLocked()
}

func (p *Plan) dueLocked() bool {
	return p.now().Sub(p.lastInvestment) >= InvestmentInterval
}

// ExecuteInvestment splits the monthly amount across the allocation and
// stamps the investment date. Unless forced it returns nothing when the
// investment is not yet due.
func (p *Plan) ExecuteInvestment(force bool) map[string]float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !force && !p.dueLocked() {
		return map[string]float64{}
	}

	investments := p.splitLocked()
	p.lastInvestment = p.now()

	p.log.Info().
		Bool("forced", force).
		Float64("monthly_amount", p.monthlyAmount).
		Int("symbols", len(investments)).
		Msg("SIP investment executed")
	return investments
}

func (p *Plan) splitLocked() map[string]float64 {
	out := make(map[string]float64, len(p.allocation))
	for symbol, pct := range p.allocation {
		out[symbol] = p.monthlyAmount * pct / 100
	}
	return out
}

// Simulate returns months of monthly splits per symbol without touching the
// investment date
func (p *Plan) Simulate(months int) map[string][]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string][]float64, len(p.allocation))
	if months <= 0 {
		return out
	}
	split := p.splitLocked()
	for symbol, amount := range split {
		series := make([]float64, months)
		for i := range series {
			series[i] = amount
		}
		out[symbol] = series
	}
	return out
}

// ProjectedGrowth is the annuity-due value of months contributions at
// annualRate percent
func (p *Plan) ProjectedGrowth(months int, annualRate float64) float64 {
	return formulas.AnnuityDueFutureValue(p.MonthlyAmount(), annualRate, months)
}

// ToggleAutoInvest flips the flag and returns the new value
func (p *Plan) ToggleAutoInvest() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoInvest = !p.autoInvest
	return p.autoInvest
}

func (p *Plan) AutoInvest() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.autoInvest
}

func (p *Plan) LastInvestment() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastInvestment
}

// Summary returns a consistent copy of the plan with headline projections
func (p *Plan) Summary() Summary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	projections := make([]Projection, 0, len(DisplayHorizons))
	for _, months := range DisplayHorizons {
		projections = append(projections, Projection{
			Months: months,
			Rate:   DisplayRate,
			Value:  formulas.AnnuityDueFutureValue(p.monthlyAmount, DisplayRate, months),
		})
	}
	return Summary{
		MonthlyAmount:  p.monthlyAmount,
		AutoInvest:     p.autoInvest,
		Allocation:     p.allocation.Clone(),
		LastInvestment: p.lastInvestment,
		NextInvestment: p.lastInvestment.Add(InvestmentInterval),
		Projections:    projections,
	}
}
