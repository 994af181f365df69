package assets

import (
	"fmt"
	"strings"

	"github.com/aristath/folio/pkg/formulas"
)

// Rule is one named analysis rule bound to an asset. Eval returns the lines
// the rule contributes, or nothing when it does not fire.
type Rule struct {
	Name string
	Eval func() []string
}

// Band maps a metric range to the lines it produces. Bands are evaluated in
// order and the first matching one wins.
type Band struct {
	Match func(v float64) bool
	Lines []string
}

// Below matches values strictly less than limit
func Below(limit float64) func(float64) bool {
	return func(v float64) bool { return v < limit }
}

// Above matches values strictly greater than limit
func Above(limit float64) func(float64) bool {
	return func(v float64) bool { return v > limit }
}

// Otherwise matches every value
func Otherwise(float64) bool { return true }

// Classify returns the lines of the first band matching v
func Classify(bands []Band, v float64) []string {
	for _, b := range bands {
		if b.Match(v) {
			return b.Lines
		}
	}
	return nil
}

func bandRule(name string, metric func() float64, bands []Band) Rule {
	return Rule{Name: name, Eval: func() []string { return Classify(bands, metric()) }}
}

func textRule(name string, text func() string) Rule {
	return Rule{Name: name, Eval: func() []string { return []string{text()} }}
}

var (
	priceDirectionBands = []Band{
		{Match: Above(0), Lines: []string{"The price has increased since tracking began."}},
		{Match: Below(0), Lines: []string{"The price has decreased since tracking began."}},
		{Match: Otherwise, Lines: []string{"The price remains stable since tracking began."}},
	}

	volatilityBands = []Band{
		{Match: Below(5), Lines: []string{"Low volatility: This asset has been stable recently."}},
		{Match: Below(15), Lines: []string{"Medium volatility: This asset shows moderate price movements."}},
		{Match: Otherwise, Lines: []string{"High volatility: This asset has significant price fluctuations."}},
	}

	expenseRatioBands = []Band{
		{Match: Above(1), Lines: []string{"The expense ratio is relatively high. Consider lower-cost alternatives."}},
		{Match: Otherwise, Lines: []string{"The expense ratio is reasonable for this type of fund."}},
	}

	expectedReturnBands = []Band{
		{Match: Above(15), Lines: []string{"The expected return seems optimistic. Be prepared for potential underperformance."}},
	}

	forexVolatilityBands = []Band{
		{Match: Above(10), Lines: []string{"High volatility in this pair suggests caution with position sizing."}},
	}

	cryptoVolatilityBands = []Band{
		{Match: Above(20), Lines: []string{"This cryptocurrency shows extreme volatility. Consider reducing exposure."}},
	}

	goldVolatilityBands = []Band{
		{Match: Below(10), Lines: []string{"Gold is currently showing relative stability, providing a good hedge."}},
		{Match: Otherwise, Lines: []string{"Gold is showing higher than usual volatility. Monitor global macro events."}},
	}

	realReturnBands = []Band{
		{Match: Below(0), Lines: []string{
			"This currency has a negative real return, losing purchasing power over time.",
			"Consider alternatives for long-term holdings.",
		}},
		{Match: Below(1), Lines: []string{"This currency is barely maintaining purchasing power."}},
		{Match: Otherwise, Lines: []string{"This currency has a positive real return, which is favorable."}},
	}

	trendOutlook = map[Trend]string{
		TrendBullish: "is in an uptrend. Consider taking profit or trailing stops.",
		TrendBearish: "is in a downtrend. Consider hedging or reducing exposure.",
		TrendNeutral: "is in a neutral trend. Monitor for breakout opportunities.",
	}
)

// baseRules apply to every variant
func baseRules(a Asset) []Rule {
	priceChange := func() float64 {
		h := a.History()
		return formulas.PercentChange(h[0].Price, h[len(h)-1].Price)
	}
	tracked := func() bool { return len(a.History()) >= 2 }

	return []Rule{
		{Name: "price_change", Eval: func() []string {
			if !tracked() {
				return nil
			}
			return []string{fmt.Sprintf("Price change since tracking: %f%%", priceChange())}
		}},
		{Name: "price_direction", Eval: func() []string {
			if !tracked() {
				return nil
			}
			return Classify(priceDirectionBands, priceChange())
		}},
		bandRule("volatility", a.Volatility, volatilityBands),
	}
}

// Analyze renders the natural-language assessment of a: a header line, then
// the base rules, then the variant rules, each line indented two spaces.
func Analyze(a Asset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis for %s (%s):\n", a.Name(), a.Symbol())

	rules := append(baseRules(a), a.Rules()...)
	for _, r := range rules {
		for _, line := range r.Eval() {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
