// Package marketdata supplies prices, the VIX and macro indicators to folio,
// either simulated or fetched from public quote endpoints.
package marketdata

// Defaults returned for countries missing from the tables
const (
	DefaultInflationRate = 2.0
	DefaultInterestRate  = 0.5
)

// InflationRates are annual inflation rates in percent by country code
var InflationRates = map[string]float64{
	"US": 2.5,
	"EU": 2.0,
	"UK": 3.0,
	"IN": 5.5,
	"JP": 0.5,
}

// InterestRates are policy interest rates in percent by country code
var InterestRates = map[string]float64{
	"US": 0.5,
	"EU": 0.0,
	"UK": 0.75,
	"IN": 4.5,
	"JP": -0.1,
}

// Indicators serves the static macro tables. The zero value is ready to use.
type Indicators struct{}

// InflationRate returns the inflation rate for country or the default
func (Indicators) InflationRate(country string) float64 {
	if v, ok := InflationRates[country]; ok {
		return v
	}
	return DefaultInflationRate
}

// InterestRate returns the interest rate for country or the default
func (Indicators) InterestRate(country string) float64 {
	if v, ok := InterestRates[country]; ok {
		return v
	}
	return DefaultInterestRate
}
