package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateReturns(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		expected []float64
	}{
		{"empty", nil, []float64{}},
		{"single price", []float64{100}, []float64{}},
		{"two prices", []float64{100, 110}, []float64{0.10}},
		{"btc history", []float64{40000, 44000, 41800}, []float64{0.10, -0.05}},
		{"zero previous price yields zero return", []float64{0, 10}, []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateReturns(tt.prices)
			assert.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-12)
			}
		})
	}
}

func TestVolatility(t *testing.T) {
	tests := []struct {
		name      string
		prices    []float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "no observations",
			prices:    nil,
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "single observation",
			prices:    []float64{1800},
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "identical consecutive prices",
			prices:    []float64{1.1, 1.1, 1.1, 1.1},
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "btc scenario uses population deviation",
			prices:    []float64{40000, 44000, 41800},
			expected:  7.5, // returns [0.10, -0.05], mean 0.025, deviations ±0.075
			tolerance: 1e-9,
		},
		{
			name:      "two prices have one return and zero deviation",
			prices:    []float64{100, 120},
			expected:  0,
			tolerance: 1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Volatility(tt.prices)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("Volatility(%v) = %v, want %v", tt.prices, result, tt.expected)
			}
		})
	}
}

func TestVolatility_IdenticalPricesIsExactlyZero(t *testing.T) {
	assert.Equal(t, 0.0, Volatility([]float64{42, 42, 42, 42, 42}))
}

func TestPopulationStdDev_DividesByN(t *testing.T) {
	// sample std-dev of {2,4,4,4,5,5,7,9} is ~2.138, population is exactly 2
	assert.InDelta(t, 2.0, PopulationStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, PopulationStdDev(nil))
}

func TestWeightedMean(t *testing.T) {
	// $600 at 4% and $400 at 20% volatility
	assert.InDelta(t, 10.4, WeightedMean([]float64{4, 20}, []float64{600, 400}), 1e-12)

	assert.Equal(t, 0.0, WeightedMean(nil, nil))
	assert.Equal(t, 0.0, WeightedMean([]float64{1, 2}, []float64{1}))
	assert.Equal(t, 0.0, WeightedMean([]float64{1, 2}, []float64{0, 0}))
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 10.0, PercentChange(100, 110), 1e-12)
	assert.InDelta(t, -50.0, PercentChange(2, 1), 1e-12)
	assert.Equal(t, 0.0, PercentChange(0, 10))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.025, Mean([]float64{0.10, -0.05}), 1e-12)
}

func TestCalculateSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6}

	sma := CalculateSMA(closes, 5)
	if assert.NotNil(t, sma) {
		assert.InDelta(t, 4.0, *sma, 1e-12)
	}

	assert.Nil(t, CalculateSMA(closes[:4], 5))
	assert.Nil(t, CalculateSMA(closes, 0))
}
