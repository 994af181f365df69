package domain

import "context"

// PriceSource supplies one price snapshot per update cycle.
// Implementations must only return validated positive prices.
type PriceSource interface {
	Prices(ctx context.Context, symbols []string) (PriceSnapshot, error)
}

// EconomicIndicators supplies per-country macro scalars on demand
type EconomicIndicators interface {
	// InterestRate returns the policy interest rate in percent
	InterestRate(country string) float64

	// InflationRate returns the annual inflation rate in percent
	InflationRate(country string) float64
}

// MarketData is the full market-data collaborator consumed by folio
type MarketData interface {
	PriceSource
	EconomicIndicators

	// Price returns the latest price for a single symbol
	Price(ctx context.Context, symbol string) (float64, error)

	// VIX returns the current market volatility index value
	VIX(ctx context.Context) (float64, error)
}
