package sip

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/folio/internal/modules/allocation"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *manualClock {
	return &manualClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestNewPlan_Defaults(t *testing.T) {
	clock := newClock()
	p := NewPlan(500, zerolog.Nop(), WithClock(clock.now))

	assert.Equal(t, 500.0, p.MonthlyAmount())
	assert.True(t, p.AutoInvest())
	assert.Equal(t, clock.t, p.LastInvestment())
	assert.False(t, p.IsTimeForInvestment())
	assert.Empty(t, p.Allocation())
}

func TestSetMonthlyAmount(t *testing.T) {
	p := NewPlan(500, zerolog.Nop())

	require.NoError(t, p.SetMonthlyAmount(0))
	assert.Equal(t, 0.0, p.MonthlyAmount())

	assert.ErrorIs(t, p.SetMonthlyAmount(-1), ErrInvalidArgument)
	assert.ErrorIs(t, p.SetMonthlyAmount(math.NaN()), ErrInvalidArgument)
	assert.Equal(t, 0.0, p.MonthlyAmount())
}

func TestSetAllocation_RenormalisesWithWarning(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlan(500, zerolog.New(&buf))

	changed, err := p.SetAllocation(allocation.Table{"SIP": 30, "BTC": 20})
	require.NoError(t, err)

	assert.True(t, changed)
	assert.InDelta(t, 60, p.Allocation()["SIP"], 1e-9)
	assert.InDelta(t, 40, p.Allocation()["BTC"], 1e-9)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestSetAllocation_KeepsValidTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlan(500, zerolog.New(&buf))

	changed, err := p.SetAllocation(allocation.Table{"SIP": 60, "BTC": 40})
	require.NoError(t, err)

	assert.False(t, changed)
	assert.Equal(t, allocation.Table{"SIP": 60, "BTC": 40}, p.Allocation())
	assert.Empty(t, buf.String())
}

func TestSetAllocation_RejectsNegative(t *testing.T) {
	p := NewPlan(500, zerolog.Nop())

	_, err := p.SetAllocation(allocation.Table{"SIP": 110, "BTC": -10})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExecuteInvestment(t *testing.T) {
	clock := newClock()
	p := NewPlan(1000, zerolog.Nop(), WithClock(clock.now))
	_, err := p.SetAllocation(allocation.Table{"SIP": 60, "USD": 40})
	require.NoError(t, err)

	assert.Empty(t, p.ExecuteInvestment(false), "not due yet")

	clock.advance(InvestmentInterval - time.Hour)
	assert.False(t, p.IsTimeForInvestment())

	clock.advance(time.Hour)
	assert.True(t, p.IsTimeForInvestment())

	got := p.ExecuteInvestment(false)
	assert.Equal(t, map[string]float64{"SIP": 600, "USD": 400}, got)
	assert.Equal(t, clock.t, p.LastInvestment())
	assert.False(t, p.IsTimeForInvestment())
}

func TestExecuteInvestment_Forced(t *testing.T) {
	clock := newClock()
	p := NewPlan(200, zerolog.Nop(), WithClock(clock.now))
	_, err := p.SetAllocation(allocation.Table{"SIP": 100})
	require.NoError(t, err)

	clock.advance(time.Hour)
	got := p.ExecuteInvestment(true)

	assert.Equal(t, map[string]float64{"SIP": 200}, got)
	assert.Equal(t, clock.t, p.LastInvestment())
}

func TestSimulate(t *testing.T) {
	clock := newClock()
	p := NewPlan(100, zerolog.Nop(), WithClock(clock.now))
	_, err := p.SetAllocation(allocation.Table{"SIP": 75, "BTC": 25})
	require.NoError(t, err)

	got := p.Simulate(3)

	assert.Equal(t, []float64{75, 75, 75}, got["SIP"])
	assert.Equal(t, []float64{25, 25, 25}, got["BTC"])
	assert.Equal(t, clock.t, p.LastInvestment(), "simulation does not stamp the plan")
	assert.Empty(t, p.Simulate(0))
}

func TestProjectedGrowth(t *testing.T) {
	p := NewPlan(100, zerolog.Nop())

	assert.InDelta(t, 1280.9328043328946, p.ProjectedGrowth(12, 12), 1e-9)
	assert.Equal(t, 1200.0, p.ProjectedGrowth(12, 0))
	assert.Equal(t, 0.0, p.ProjectedGrowth(0, 12))
}

func TestToggleAutoInvest(t *testing.T) {
	p := NewPlan(100, zerolog.Nop(), WithAutoInvest(false))

	assert.False(t, p.AutoInvest())
	assert.True(t, p.ToggleAutoInvest())
	assert.False(t, p.ToggleAutoInvest())
}

func TestSummary(t *testing.T) {
	clock := newClock()
	p := NewPlan(100, zerolog.Nop(), WithClock(clock.now))

	s := p.Summary()

	assert.Equal(t, 100.0, s.MonthlyAmount)
	assert.Equal(t, clock.t.Add(InvestmentInterval), s.NextInvestment)
	require.Len(t, s.Projections, len(DisplayHorizons))
	for i, proj := range s.Projections {
		assert.Equal(t, DisplayHorizons[i], proj.Months)
		assert.InDelta(t, p.ProjectedGrowth(proj.Months, DisplayRate), proj.Value, 1e-9)
	}
}
