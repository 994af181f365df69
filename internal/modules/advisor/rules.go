// Package advisor turns portfolio, risk and market state into alerts and
// recommendations using fixed rule tables.
package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/internal/modules/assets"
	"github.com/aristath/folio/internal/modules/risk"
)

// Thresholds used by the rule tables
const (
	HighAssetVolatility     = 25.0
	ProfitTakingReturn      = 20.0
	ReviewPositionReturn    = -15.0
	HighVIX                 = 30.0
	LowVIX                  = 15.0
	HighUSDINR              = 80.0
	BitcoinOverbought       = 50000.0
	BitcoinOversold         = 30000.0
	ConcentrationPct        = 40.0
	HighPortfolioVolatility = 20.0
	LowRiskAdjustedReturn   = 0.5
)

// SymbolUSDINR is the pair checked by the currency rule
const SymbolUSDINR = "USD/INR"

// Market is the market state the rules read. A zero price means unknown.
type Market struct {
	VIX      float64 `json:"vix"`
	USDINR   float64 `json:"usd_inr"`
	BTCPrice float64 `json:"btc_price"`
}

// Input is everything one advice run looks at
type Input struct {
	Exposures       []domain.Exposure
	Composition     allocation.Table
	RebalanceNeeded bool
	Metrics         risk.Metrics
	Market          Market
}

// Advice is the outcome of one run
type Advice struct {
	Alerts          []string `json:"alerts"`
	Recommendations []string `json:"recommendations"`
}

// Healthy reports whether nothing needs attention
func (a Advice) Healthy() bool {
	return len(a.Alerts) == 0 && len(a.Recommendations) == 0
}

func (a *Advice) alert(format string, args ...any) {
	a.Alerts = append(a.Alerts, fmt.Sprintf(format, args...))
}

func (a *Advice) recommend(format string, args ...any) {
	a.Recommendations = append(a.Recommendations, fmt.Sprintf(format, args...))
}

type section struct {
	Name  string
	Apply func(in Input, out *Advice)
}

// sections run in order; output order follows it
var sections = []section{
	{Name: "assets", Apply: assetSection},
	{Name: "market", Apply: marketSection},
	{Name: "balance", Apply: balanceSection},
	{Name: "risk", Apply: riskSection},
	{Name: "signals", Apply: signalSection},
}

// Evaluate runs every rule section against in
func Evaluate(in Input) Advice {
	out := Advice{Alerts: []string{}, Recommendations: []string{}}
	for _, s := range sections {
		s.Apply(in, &out)
	}
	return out
}

func assetSection(in Input, out *Advice) {
	for _, e := range in.Exposures {
		if e.Volatility > HighAssetVolatility {
			out.alert("HIGH VOLATILITY ALERT: %s showing %d%% volatility", e.Symbol, int(e.Volatility))
		}
		switch {
		case e.ReturnPct > ProfitTakingReturn:
			out.recommend("PROFIT TAKING: Consider taking profits on %s (+%d%%)", e.Symbol, int(e.ReturnPct))
		case e.ReturnPct < ReviewPositionReturn:
			out.recommend("REVIEW POSITION: %s is down %d%%. Consider averaging down or cutting losses",
				e.Symbol, int(math.Abs(e.ReturnPct)))
		}
	}
}

func marketSection(in Input, out *Advice) {
	m := in.Market
	switch {
	case m.VIX > HighVIX:
		out.alert("MARKET VOLATILITY HIGH: VIX at %d. Consider reducing risk exposure", int(m.VIX))
		out.recommend("Increase allocation to defensive assets (Gold, USD)")
		out.recommend("Reduce crypto and forex exposure temporarily")
	case m.VIX > 0 && m.VIX < LowVIX:
		out.recommend("MARKET CALM: VIX low at %d. Good time to increase risk exposure", int(m.VIX))
	}

	if m.USDINR > HighUSDINR {
		out.recommend("USD/INR HIGH: Consider reducing USD exposure and increasing INR assets")
	}

	switch {
	case m.BTCPrice > BitcoinOverbought:
		out.recommend("BITCOIN OVERBOUGHT: Consider taking profits or reducing BTC allocation")
	case m.BTCPrice > 0 && m.BTCPrice < BitcoinOversold:
		out.recommend("BITCOIN OVERSOLD: Good opportunity to increase BTC allocation")
	}
}

func balanceSection(in Input, out *Advice) {
	for _, symbol := range in.Composition.Symbols() {
		pct := in.Composition[symbol]
		if pct > ConcentrationPct {
			out.alert("CONCENTRATION RISK: %s represents %d%% of portfolio", symbol, int(pct))
			out.recommend("Consider rebalancing to reduce %s concentration", symbol)
		}
	}
	if in.RebalanceNeeded {
		out.recommend("REBALANCING NEEDED: Portfolio allocation has drifted from target")
	}
}

func riskSection(in Input, out *Advice) {
	if in.Metrics.PortfolioVolatility > HighPortfolioVolatility {
		out.alert("HIGH PORTFOLIO VOLATILITY: %d%%", int(in.Metrics.PortfolioVolatility))
		out.recommend("Consider adding more stable assets to reduce overall volatility")
	}
	if in.Metrics.RiskAdjustedReturn < LowRiskAdjustedReturn {
		out.recommend("LOW RISK-ADJUSTED RETURN: Review asset allocation for better efficiency")
	}
}

// signalCase emits Text when When holds; %s in Text is the symbol
type signalCase struct {
	When func(ret, vol float64) bool
	Text string
}

type signalRule struct {
	Match func(symbol string) bool
	Cases []signalCase
}

func always(float64, float64) bool { return true }

// signalRules are tried in order; the first matching rule owns the symbol
var signalRules = []signalRule{
	{
		Match: func(s string) bool { return s == assets.SymbolBTC },
		Cases: []signalCase{
			{When: func(r, v float64) bool { return r > 15 && v > 20 }, Text: "BTC SIGNAL: SELL - High gains with high volatility suggest profit-taking"},
			{When: func(r, v float64) bool { return r < -10 && v < 15 }, Text: "BTC SIGNAL: BUY - Oversold with stabilizing volatility"},
			{When: always, Text: "BTC SIGNAL: HOLD - Wait for clearer trend"},
		},
	},
	{
		Match: func(s string) bool { return s == assets.SymbolGold },
		Cases: []signalCase{
			{When: func(r, v float64) bool { return v < 5 && r < 5 }, Text: "GOLD SIGNAL: BUY - Stable and underperforming, good hedge opportunity"},
			{When: func(r, _ float64) bool { return r > 10 }, Text: "GOLD SIGNAL: HOLD - Good performance, maintain position"},
		},
	},
	{
		Match: func(s string) bool { return strings.Contains(s, "/") },
		Cases: []signalCase{
			{When: func(_, v float64) bool { return v > 15 }, Text: "%s SIGNAL: REDUCE - High forex volatility, reduce exposure"},
			{When: func(r, _ float64) bool { return r > 8 }, Text: "%s SIGNAL: HOLD - Good forex performance, maintain position"},
		},
	},
}

// Signal returns the trading signal for one holding, or "" when no rule fires
func Signal(symbol string, returnPct, volatility float64) string {
	for _, rule := range signalRules {
		if !rule.Match(symbol) {
			continue
		}
		for _, c := range rule.Cases {
			if c.When(returnPct, volatility) {
				if strings.Contains(c.Text, "%s") {
					return fmt.Sprintf(c.Text, symbol)
				}
				return c.Text
			}
		}
		return ""
	}
	return ""
}

func signalSection(in Input, out *Advice) {
	for _, e := range in.Exposures {
		if s := Signal(e.Symbol, e.ReturnPct, e.Volatility); s != "" {
			out.Recommendations = append(out.Recommendations, s)
		}
	}
}
