// Package domain provides core domain models and types shared across modules.
package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// ErrInvalidPrice is returned when a price snapshot carries a non-positive,
// NaN or infinite price.
var ErrInvalidPrice = errors.New("invalid price")

// PricePoint is a single timestamped price observation
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceSnapshot maps symbol -> latest price for one update cycle
type PriceSnapshot map[string]float64

// Validate rejects snapshots that contain prices the core cannot consume.
func (s PriceSnapshot) Validate() error {
	for _, symbol := range s.Symbols() {
		price := s[symbol]
		if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidPrice, symbol, price)
		}
	}
	return nil
}

// Symbols returns the snapshot's symbols in sorted order
func (s PriceSnapshot) Symbols() []string {
	symbols := make([]string, 0, len(s))
	for symbol := range s {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Direction is the side of a trade instruction
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// RiskAppetite is the coarse risk preference collected from a user profile
type RiskAppetite string

const (
	RiskAppetiteLow    RiskAppetite = "low"
	RiskAppetiteMedium RiskAppetite = "medium"
	RiskAppetiteHigh   RiskAppetite = "high"
)

// ParseRiskAppetite parses low/medium/high (case-insensitive)
func ParseRiskAppetite(s string) (RiskAppetite, error) {
	switch RiskAppetite(strings.ToLower(strings.TrimSpace(s))) {
	case RiskAppetiteLow:
		return RiskAppetiteLow, nil
	case RiskAppetiteMedium:
		return RiskAppetiteMedium, nil
	case RiskAppetiteHigh:
		return RiskAppetiteHigh, nil
	}
	return "", fmt.Errorf("unknown risk appetite %q", s)
}

// Exposure is the per-asset input to value-weighted portfolio metrics
type Exposure struct {
	Symbol     string  `json:"symbol"`
	Value      float64 `json:"value"`
	Volatility float64 `json:"volatility"`
	ReturnPct  float64 `json:"return_pct"`
}

// ValueSnapshot is one historical portfolio valuation
type ValueSnapshot struct {
	Date       time.Time `json:"date"`
	TotalValue float64   `json:"total_value"`
}
