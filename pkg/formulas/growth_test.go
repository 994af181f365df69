package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFutureValue(t *testing.T) {
	tests := []struct {
		name         string
		principal    float64
		annualRate   float64
		months       int
		contribution float64
		expected     float64
	}{
		{
			name:       "zero months returns principal",
			principal:  1234.56,
			annualRate: 12,
			months:     0,
			expected:   1234.56,
		},
		{
			name:       "negative months treated as zero",
			principal:  1000,
			annualRate: 12,
			months:     -6,
			expected:   1000,
		},
		{
			name:       "one year lump sum at 12%",
			principal:  1000,
			annualRate: 12,
			months:     12,
			expected:   1126.825030131969, // 1000 * 1.01^12
		},
		{
			name:         "one year with contribution",
			principal:    1000,
			annualRate:   12,
			months:       12,
			contribution: 100,
			expected:     1126.825030131969 + 1268.2503013196977,
		},
		{
			name:         "zero rate is principal plus contributions",
			principal:    1000,
			annualRate:   0,
			months:       24,
			contribution: 50,
			expected:     2200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FutureValue(tt.principal, tt.annualRate, tt.months, tt.contribution)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestAnnuityDueFutureValue(t *testing.T) {
	// 100/month at 12% for 12 months: 100 * ((1.01^12-1)/0.01) * 1.01
	assert.InDelta(t, 1280.9328043328946, AnnuityDueFutureValue(100, 12, 12), 1e-6)
	assert.InDelta(t, 1200.0, AnnuityDueFutureValue(100, 0, 12), 1e-12)
	assert.Equal(t, 0.0, AnnuityDueFutureValue(100, 10, 0))
	assert.Equal(t, 0.0, AnnuityDueFutureValue(100, 10, -3))
}

func TestAnnuityDueExceedsOrdinaryAnnuity(t *testing.T) {
	ordinary := FutureValue(0, 10, 120, 500)
	due := AnnuityDueFutureValue(500, 10, 120)
	assert.InDelta(t, ordinary*(1+MonthlyRate(10)), due, 1e-6)
}

func TestCompoundAnnual(t *testing.T) {
	assert.InDelta(t, 1102.5, CompoundAnnual(1000, 5, 2), 1e-9)
	assert.InDelta(t, 902.5, CompoundAnnual(1000, -5, 2), 1e-9)
	assert.Equal(t, 1000.0, CompoundAnnual(1000, 5, 0))
}

func TestDiscountAnnual(t *testing.T) {
	assert.InDelta(t, 1000/1.08, DiscountAnnual(1000, 8, 1), 1e-9)
	assert.InDelta(t, 1000/math.Pow(1.08, 5), DiscountAnnual(1000, 8, 5), 1e-9)
	assert.Equal(t, 1000.0, DiscountAnnual(1000, 8, 0))
}
