// Package portfolio owns the assets of one investor: it applies price
// snapshots and trades, records valuation history and reports composition.
package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/internal/modules/assets"
)

var (
	// ErrUnknownSymbol is returned when a trade targets a symbol the portfolio does not hold
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrDuplicateSymbol is returned when adding an asset whose symbol is already held
	ErrDuplicateSymbol = errors.New("duplicate symbol")
)

// Option configures a Portfolio
type Option func(*Portfolio)

// WithClock overrides the time source used for valuation snapshots
func WithClock(now func() time.Time) Option {
	return func(p *Portfolio) {
		if now != nil {
			p.now = now
		}
	}
}

// Portfolio is safe for concurrent use. Every mutation runs under one lock
// scope, so a batch of trades is applied as a unit.
type Portfolio struct {
	mu                sync.RWMutex
	assets            map[string]assets.Asset
	history           []domain.ValueSnapshot
	initialInvestment float64
	lastRebalance     time.Time
	now               func() time.Time
}

// New creates an empty portfolio and records its first snapshot at
// initialInvestment.
func New(initialInvestment float64, opts ...Option) *Portfolio {
	p := &Portfolio{
		assets:            make(map[string]assets.Asset),
		initialInvestment: initialInvestment,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.history = append(p.history, domain.ValueSnapshot{Date: p.now(), TotalValue: initialInvestment})
	return p
}

// Build creates a portfolio holding one asset per allocation entry, funded
// with capital*pct/100 at the snapshot price, and records its opening value.
func Build(
	capital float64,
	table allocation.Table,
	prices domain.PriceSnapshot,
	indicators domain.EconomicIndicators,
	opts ...Option,
) (*Portfolio, error) {
	p := New(capital, opts...)
	assetOpts := []assets.Option{assets.WithClock(p.now)}

	for _, symbol := range table.Symbols() {
		price, ok := prices[symbol]
		if !ok && symbol != assets.SymbolUSD {
			return nil, fmt.Errorf("no price for %s: %w", symbol, domain.ErrInvalidPrice)
		}
		a, err := assets.NewForSymbol(assets.Spec{
			Symbol:     symbol,
			Price:      price,
			Amount:     capital * table[symbol] / 100,
			Indicators: indicators,
			Options:    assetOpts,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", symbol, err)
		}
		p.assets[symbol] = a
	}
	p.recordLocked()
	return p, nil
}

// Add takes ownership of a
func (p *Portfolio) Add(a assets.Asset) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.assets[a.Symbol()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSymbol, a.Symbol())
	}
	p.assets[a.Symbol()] = a
	return nil
}

// Remove drops symbol and reports whether it was held
func (p *Portfolio) Remove(symbol string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.assets[symbol]; !exists {
		return false
	}
	delete(p.assets, symbol)
	return true
}

// Has reports whether symbol is held
func (p *Portfolio) Has(symbol string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.assets[symbol]
	return ok
}

// Symbols returns the held symbols in sorted order
func (p *Portfolio) Symbols() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.symbolsLocked()
}

func (p *Portfolio) symbolsLocked() []string {
	symbols := make([]string, 0, len(p.assets))
	for symbol := range p.assets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Position returns a copy of the state of symbol
func (p *Portfolio) Position(symbol string) (Position, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := p.assets[symbol]
	if !ok {
		return Position{}, false
	}
	return positionOf(a), true
}

// Analysis returns the natural-language assessment of symbol
func (p *Portfolio) Analysis(symbol string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := p.assets[symbol]
	if !ok {
		return "", false
	}
	return assets.Analyze(a), true
}

// Inspect runs fn against the live asset under the read lock. fn must not
// mutate the asset or retain it.
func (p *Portfolio) Inspect(symbol string, fn func(assets.Asset)) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := p.assets[symbol]
	if ok {
		fn(a)
	}
	return ok
}

// Update runs fn against the live asset under the write lock
func (p *Portfolio) Update(symbol string, fn func(assets.Asset) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.assets[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return fn(a)
}

func (p *Portfolio) InitialInvestment() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialInvestment
}

// TotalValue is the sum of every asset's current value
func (p *Portfolio) TotalValue() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalLocked()
}

func (p *Portfolio) totalLocked() float64 {
	var total float64
	for _, a := range p.assets {
		total += a.CurrentValue()
	}
	return total
}

// Composition maps each symbol to its share of total value in percent.
// It is empty when the total value is not positive.
func (p *Portfolio) Composition() allocation.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.compositionLocked()
}

func (p *Portfolio) compositionLocked() allocation.Table {
	out := make(allocation.Table, len(p.assets))
	total := p.totalLocked()
	if total <= 0 {
		return out
	}
	for symbol, a := range p.assets {
		out[symbol] = a.CurrentValue() / total * 100
	}
	return out
}

// Exposures returns the per-asset inputs of the value-weighted risk metrics
func (p *Portfolio) Exposures() []domain.Exposure {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exposuresLocked()
}

func (p *Portfolio) exposuresLocked() []domain.Exposure {
	out := make([]domain.Exposure, 0, len(p.assets))
	for _, symbol := range p.symbolsLocked() {
		a := p.assets[symbol]
		out = append(out, domain.Exposure{
			Symbol:     symbol,
			Value:      a.CurrentValue(),
			Volatility: a.Volatility(),
			ReturnPct:  a.ReturnPercentage(),
		})
	}
	return out
}

// Snapshot reads every aggregate under one lock, so its figures agree with
// each other even while prices or trades are being applied.
func (p *Portfolio) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := Snapshot{
		TotalValue:        p.totalLocked(),
		InitialInvestment: p.initialInvestment,
		Composition:       p.compositionLocked(),
		Exposures:         p.exposuresLocked(),
		Holdings:          make([]Holding, 0, len(p.assets)),
		LastRebalance:     p.lastRebalance,
	}
	for _, symbol := range p.symbolsLocked() {
		a := p.assets[symbol]
		snap.Holdings = append(snap.Holdings, Holding{
			Symbol:     symbol,
			Name:       a.Name(),
			Kind:       a.Kind(),
			Value:      a.CurrentValue(),
			ReturnPct:  a.ReturnPercentage(),
			Volatility: a.Volatility(),
		})
	}
	return snap
}

// ApplyPrices validates snapshot, moves the price of every held symbol it
// contains and records a valuation. Symbols not held are ignored. It returns
// the symbols that were updated.
func (p *Portfolio) ApplyPrices(snapshot domain.PriceSnapshot) ([]string, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	updated := make([]string, 0, len(snapshot))
	for _, symbol := range snapshot.Symbols() {
		a, ok := p.assets[symbol]
		if !ok {
			continue
		}
		if err := a.UpdateCurrentPrice(snapshot[symbol]); err != nil {
			return updated, fmt.Errorf("failed to update %s: %w", symbol, err)
		}
		updated = append(updated, symbol)
	}
	p.recordLocked()
	return updated, nil
}

// Buy invests amount into symbol
func (p *Portfolio) Buy(symbol string, amount float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.assets[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return a.Buy(amount)
}

// Sell sells percentage of symbol and returns the proceeds
func (p *Portfolio) Sell(symbol string, percentage float64) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.assets[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return a.Sell(percentage), nil
}

// Execute applies trades in order under a single lock and records a
// valuation afterwards. A failing trade is reported in its result and does
// not stop the batch.
func (p *Portfolio) Execute(trades []Trade) []TradeResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]TradeResult, 0, len(trades))
	for _, t := range trades {
		results = append(results, p.executeLocked(t))
	}
	p.recordLocked()
	return results
}

func (p *Portfolio) executeLocked(t Trade) TradeResult {
	result := TradeResult{Trade: t}
	a, ok := p.assets[t.Symbol]
	if !ok {
		result.Err = fmt.Errorf("%w: %s", ErrUnknownSymbol, t.Symbol)
		return result
	}
	switch t.Direction {
	case domain.DirectionBuy:
		if err := a.Buy(t.Amount); err != nil {
			result.Err = err
			return result
		}
		result.Value = t.Amount
	case domain.DirectionSell:
		if !(t.Amount > 0 && t.Amount <= 100) {
			result.Err = fmt.Errorf("%w: sell percentage %v", assets.ErrInvalidArgument, t.Amount)
			return result
		}
		result.Value = a.Sell(t.Amount)
	default:
		result.Err = fmt.Errorf("unknown direction %q", t.Direction)
	}
	return result
}

// Invest buys every held symbol with a positive amount and records a
// valuation. It returns the amounts actually invested and the error of each
// leg that failed.
func (p *Portfolio) Invest(amounts map[string]float64) (map[string]float64, map[string]error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	invested := make(map[string]float64, len(amounts))
	var failed map[string]error
	for symbol, amount := range amounts {
		a, ok := p.assets[symbol]
		if !ok || amount <= 0 {
			continue
		}
		if err := a.Buy(amount); err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[symbol] = fmt.Errorf("failed to invest in %s: %w", symbol, err)
			continue
		}
		invested[symbol] = amount
	}
	p.recordLocked()
	return invested, failed
}

// RecordValue appends the current total value to the history
func (p *Portfolio) RecordValue() domain.ValueSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recordLocked()
}

func (p *Portfolio) recordLocked() domain.ValueSnapshot {
	s := domain.ValueSnapshot{Date: p.now(), TotalValue: p.totalLocked()}
	p.history = append(p.history, s)
	return s
}

// History returns a copy of the valuation snapshots in recording order
func (p *Portfolio) History() []domain.ValueSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.ValueSnapshot, len(p.history))
	copy(out, p.history)
	return out
}

// MarkRebalanced records when the last rebalance was applied
func (p *Portfolio) MarkRebalanced() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastRebalance = p.now()
	return p.lastRebalance
}

// LastRebalance is the zero time until a rebalance has been applied
func (p *Portfolio) LastRebalance() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRebalance
}
