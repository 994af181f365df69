// Package assets models the instruments a portfolio can hold. Every variant
// shares the Holding contract (price, quantity, cost basis, append-only
// price history, volatility) and adds its own display fields, analysis rules
// and optional price-update hook.
package assets

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/utils"
	"github.com/aristath/folio/pkg/formulas"
)

// ErrInvalidArgument is returned for negative buy amounts and non-positive prices
var ErrInvalidArgument = errors.New("invalid argument")

// Kind identifies an asset variant
type Kind string

const (
	KindSIP            Kind = "SIP"
	KindForex          Kind = "FOREX"
	KindCryptocurrency Kind = "CRYPTOCURRENCY"
	KindCommodity      Kind = "COMMODITY"
	KindFiatCurrency   Kind = "FIAT_CURRENCY"
	KindGeneric        Kind = "GENERIC"
)

// Field is one labelled display value
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Asset is the capability set every instrument provides
type Asset interface {
	Name() string
	Symbol() string
	Kind() Kind

	CurrentPrice() float64
	Quantity() float64
	CurrentValue() float64
	InitialInvestment() float64
	Volatility() float64
	History() []domain.PricePoint
	ReturnPercentage() float64

	Buy(amount float64) error
	Sell(percentage float64) float64
	UpdateCurrentPrice(price float64) error
	AddPricePoint(at time.Time, price float64) error

	// Details lists the display fields, base fields first
	Details() []Field
	// Rules lists the variant-specific analysis rules
	Rules() []Rule
}

// Option configures a Holding at construction
type Option func(*Holding)

// WithClock overrides the time source used to stamp price observations
func WithClock(now func() time.Time) Option {
	return func(h *Holding) {
		if now != nil {
			h.now = now
		}
	}
}

// Holding carries the state shared by all variants. It is not safe for
// concurrent use; the owning portfolio serialises access.
type Holding struct {
	name              string
	symbol            string
	currentPrice      float64
	quantity          float64
	initialInvestment float64
	volatility        float64
	history           []domain.PricePoint

	now           func() time.Time
	onPriceUpdate func()
}

func newHolding(name, symbol string, price, quantity float64, opts ...Option) *Holding {
	h := &Holding{
		name:              name,
		symbol:            symbol,
		currentPrice:      price,
		quantity:          quantity,
		initialInvestment: price * quantity,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if price > 0 {
		h.history = append(h.history, domain.PricePoint{Timestamp: h.now(), Price: price})
	}
	return h
}

func (h *Holding) Name() string               { return h.name }
func (h *Holding) Symbol() string             { return h.symbol }
func (h *Holding) CurrentPrice() float64      { return h.currentPrice }
func (h *Holding) Quantity() float64          { return h.quantity }
func (h *Holding) CurrentValue() float64      { return h.currentPrice * h.quantity }
func (h *Holding) InitialInvestment() float64 { return h.initialInvestment }
func (h *Holding) Volatility() float64        { return h.volatility }

// History returns a copy of the price observations in chronological order
func (h *Holding) History() []domain.PricePoint {
	out := make([]domain.PricePoint, len(h.history))
	copy(out, h.history)
	return out
}

// ReturnPercentage is (value - cost basis) / cost basis * 100, or 0 without a cost basis
func (h *Holding) ReturnPercentage() float64 {
	if h.initialInvestment == 0 {
		return 0
	}
	return (h.CurrentValue() - h.initialInvestment) / h.initialInvestment * 100
}

// Buy invests amount at the current price. Zero is a no-op.
func (h *Holding) Buy(amount float64) error {
	if amount < 0 || math.IsNaN(amount) {
		return fmt.Errorf("%w: buy amount %v for %s", ErrInvalidArgument, amount, h.symbol)
	}
	if amount == 0 {
		return nil
	}
	if h.currentPrice <= 0 {
		return fmt.Errorf("%w: %s has no positive price", ErrInvalidArgument, h.symbol)
	}
	h.quantity += amount / h.currentPrice
	h.initialInvestment += amount
	return nil
}

// Sell sells percentage (0, 100] of the position and returns the proceeds.
// Out-of-range percentages return 0 and leave the holding untouched.
func (h *Holding) Sell(percentage float64) float64 {
	if !(percentage > 0 && percentage <= 100) {
		return 0
	}
	fraction := percentage / 100
	soldQuantity := h.quantity * fraction
	proceeds := soldQuantity * h.currentPrice

	if percentage == 100 {
		h.quantity = 0
		h.initialInvestment = 0
	} else {
		h.quantity -= soldQuantity
		h.initialInvestment *= 1 - fraction
	}
	return proceeds
}

// UpdateCurrentPrice moves the current price, records the observation and
// runs the variant hook.
func (h *Holding) UpdateCurrentPrice(price float64) error {
	if err := validPrice(h.symbol, price); err != nil {
		return err
	}
	h.currentPrice = price
	h.appendObservation(h.now(), price)
	if h.onPriceUpdate != nil {
		h.onPriceUpdate()
	}
	return nil
}

// AddPricePoint appends a historical observation without moving the current price
func (h *Holding) AddPricePoint(at time.Time, price float64) error {
	if err := validPrice(h.symbol, price); err != nil {
		return err
	}
	h.appendObservation(at, price)
	return nil
}

func (h *Holding) appendObservation(at time.Time, price float64) {
	h.history = append(h.history, domain.PricePoint{Timestamp: at, Price: price})
	h.volatility = formulas.Volatility(h.prices())
}

func (h *Holding) prices() []float64 {
	prices := make([]float64, len(h.history))
	for i, p := range h.history {
		prices[i] = p.Price
	}
	return prices
}

func (h *Holding) baseDetails() []Field {
	return []Field{
		{Label: "Price", Value: utils.FormatCurrency(h.currentPrice)},
		{Label: "Quantity", Value: fmt.Sprintf("%.6f", h.quantity)},
		{Label: "Current Value", Value: utils.FormatCurrency(h.CurrentValue())},
		{Label: "Initial Investment", Value: utils.FormatCurrency(h.initialInvestment)},
		{Label: "Return", Value: fmt.Sprintf("%.2f%%", h.ReturnPercentage())},
		{Label: "Volatility", Value: fmt.Sprintf("%.2f%%", h.volatility)},
	}
}

func validPrice(symbol string, price float64) error {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: price %v for %s", ErrInvalidArgument, price, symbol)
	}
	return nil
}
