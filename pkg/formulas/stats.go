// Package formulas holds the pure numeric building blocks of folio: return
// series, volatility, weighted aggregates and compound growth.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// WeightedMean calculates sum(w_i * x_i) / sum(w_i).
// Returns 0 when the inputs are empty, mismatched or the weights sum to zero.
func WeightedMean(data, weights []float64) float64 {
	if len(data) == 0 || len(data) != len(weights) {
		return 0
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return 0
	}
	return stat.Mean(data, weights)
}

// PopulationStdDev calculates the population standard deviation (divides by n, not n-1)
func PopulationStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.PopStdDev(data, nil)
}

// CalculateReturns converts prices to simple period-over-period returns
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// Volatility is the population standard deviation of the simple returns of
// prices, expressed as a percentage. Fewer than two prices yield 0.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	vol := PopulationStdDev(CalculateReturns(prices)) * 100
	if math.IsNaN(vol) || math.IsInf(vol, 0) {
		return 0
	}
	return vol
}

// PercentChange returns the change from oldValue to newValue in percent, or 0
// when oldValue is zero.
func PercentChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	return (newValue - oldValue) / oldValue * 100
}

func isNaN(f float64) bool {
	return math.IsNaN(f)
}
