package risk

import (
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/pkg/formulas"
)

// Metrics are the aggregate, value-weighted risk figures of a portfolio
type Metrics struct {
	TotalValue          float64 `json:"total_value"`
	PortfolioVolatility float64 `json:"portfolio_volatility"`
	WeightedReturn      float64 `json:"weighted_return"`
	RiskAdjustedReturn  float64 `json:"risk_adjusted_return"`
	RiskFreeRate        float64 `json:"risk_free_rate"`
}

func weights(exposures []domain.Exposure) (values []float64, total float64) {
	values = make([]float64, len(exposures))
	for i, e := range exposures {
		values[i] = e.Value
		total += e.Value
	}
	return values, total
}

// PortfolioVolatility is the sum of each asset's volatility weighted by its
// share of total value. An empty or worthless portfolio has zero volatility.
func PortfolioVolatility(exposures []domain.Exposure) float64 {
	values, total := weights(exposures)
	if total <= 0 {
		return 0
	}
	vols := make([]float64, len(exposures))
	for i, e := range exposures {
		vols[i] = e.Volatility
	}
	return formulas.WeightedMean(vols, values)
}

// WeightedReturn is the value-weighted mean of the per-asset returns
func WeightedReturn(exposures []domain.Exposure) float64 {
	values, total := weights(exposures)
	if total <= 0 {
		return 0
	}
	returns := make([]float64, len(exposures))
	for i, e := range exposures {
		returns[i] = e.ReturnPct
	}
	return formulas.WeightedMean(returns, values)
}

// RiskAdjustedReturn is (weighted return - riskFreeRate) / portfolio volatility,
// or 0 when either the total value or the volatility is not positive.
func RiskAdjustedReturn(exposures []domain.Exposure, riskFreeRate float64) float64 {
	vol := PortfolioVolatility(exposures)
	if vol <= 0 {
		return 0
	}
	return (WeightedReturn(exposures) - riskFreeRate) / vol
}

// Measure computes every aggregate metric for exposures
func Measure(exposures []domain.Exposure, riskFreeRate float64) Metrics {
	_, total := weights(exposures)
	return Metrics{
		TotalValue:          total,
		PortfolioVolatility: PortfolioVolatility(exposures),
		WeightedReturn:      WeightedReturn(exposures),
		RiskAdjustedReturn:  RiskAdjustedReturn(exposures, riskFreeRate),
		RiskFreeRate:        riskFreeRate,
	}
}
