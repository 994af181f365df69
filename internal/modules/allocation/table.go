// Package allocation provides symbol -> percentage tables: renormalisation,
// parsing and current-vs-target deviation reports.
package allocation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aristath/folio/internal/utils"
)

// Tolerance is how far from 100 a table may sum before it is renormalised
const Tolerance = 0.01

// Table maps symbol -> percentage of total value
type Table map[string]float64

// Sum returns the total percentage of the table
func (t Table) Sum() float64 {
	var total float64
	for _, pct := range t {
		total += pct
	}
	return total
}

// Clone returns an independent copy
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for symbol, pct := range t {
		out[symbol] = pct
	}
	return out
}

// Symbols returns the table's symbols in sorted order
func (t Table) Symbols() []string {
	symbols := make([]string, 0, len(t))
	for symbol := range t {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// NeedsNormalization reports whether a non-empty table is off 100 by more than Tolerance
func (t Table) NeedsNormalization() bool {
	return len(t) > 0 && math.Abs(t.Sum()-100) > Tolerance
}

// Normalize scales every entry proportionally so the table sums to 100.
// It returns a copy and whether scaling was applied. Tables summing to zero
// or less cannot be scaled and are returned unchanged.
func (t Table) Normalize() (Table, bool) {
	out := t.Clone()
	if !t.NeedsNormalization() {
		return out, false
	}
	total := t.Sum()
	if total <= 0 {
		return out, false
	}
	for symbol, pct := range out {
		out[symbol] = pct / total * 100
	}
	return out, true
}

// Parse reads "SYMBOL:PCT,SYMBOL:PCT" into a table
func Parse(s string) (Table, error) {
	table := make(Table)
	for _, pair := range utils.ParseCSV(s) {
		symbol, raw, ok := strings.Cut(pair, ":")
		symbol = strings.TrimSpace(symbol)
		if !ok || symbol == "" {
			return nil, fmt.Errorf("invalid allocation entry %q", pair)
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage for %s: %w", symbol, err)
		}
		if pct < 0 {
			return nil, fmt.Errorf("negative percentage for %s", symbol)
		}
		table[symbol] = pct
	}
	return table, nil
}

// Deviation compares one symbol's current share with its target
type Deviation struct {
	Symbol     string  `json:"symbol"`
	TargetPct  float64 `json:"target_pct"`
	CurrentPct float64 `json:"current_pct"`
	Deviation  float64 `json:"deviation"`
}

// Union returns every symbol present in either table, sorted
func Union(a, b Table) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for symbol := range a {
		seen[symbol] = true
	}
	for symbol := range b {
		seen[symbol] = true
	}
	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Compare reports target - current for every symbol in either table.
// Absent entries count as 0.
func Compare(current, target Table) []Deviation {
	symbols := Union(current, target)
	out := make([]Deviation, 0, len(symbols))
	for _, symbol := range symbols {
		out = append(out, Deviation{
			Symbol:     symbol,
			TargetPct:  round(target[symbol], 4),
			CurrentPct: round(current[symbol], 4),
			Deviation:  round(target[symbol]-current[symbol], 4),
		})
	}
	return out
}

// round rounds a float64 to n decimal places
func round(val float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(val*multiplier) / multiplier
}
