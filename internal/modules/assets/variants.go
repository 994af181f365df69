package assets

import (
	"fmt"
	"math"

	"github.com/aristath/folio/internal/utils"
	"github.com/aristath/folio/pkg/formulas"
)

// SIPTerms are the fund parameters of a systematic investment plan holding
type SIPTerms struct {
	ExpectedAnnualReturn float64
	FundType             string
	ExpenseRatio         float64
}

// DefaultSIPTerms is an index fund at 12% expected return and 0.5% expenses
func DefaultSIPTerms() SIPTerms {
	return SIPTerms{ExpectedAnnualReturn: 12, FundType: "Index", ExpenseRatio: 0.5}
}

// SIP is a mutual or index fund bought through periodic contributions
type SIP struct {
	*Holding
	terms SIPTerms
}

func NewSIP(name, symbol string, price, quantity float64, terms SIPTerms, opts ...Option) *SIP {
	return &SIP{Holding: newHolding(name, symbol, price, quantity, opts...), terms: terms}
}

func (s *SIP) Kind() Kind                    { return KindSIP }
func (s *SIP) ExpectedAnnualReturn() float64 { return s.terms.ExpectedAnnualReturn }
func (s *SIP) FundType() string              { return s.terms.FundType }
func (s *SIP) ExpenseRatio() float64         { return s.terms.ExpenseRatio }

// ProjectGrowth compounds the current value at the expected return for years,
// adding monthlyContribution at the end of every month.
func (s *SIP) ProjectGrowth(years int, monthlyContribution float64) float64 {
	return formulas.FutureValue(s.CurrentValue(), s.terms.ExpectedAnnualReturn, years*12, monthlyContribution)
}

func (s *SIP) Details() []Field {
	return append(s.baseDetails(),
		Field{Label: "Fund Type", Value: s.terms.FundType},
		Field{Label: "Expected Annual Return", Value: fmt.Sprintf("%g%%", s.terms.ExpectedAnnualReturn)},
		Field{Label: "Expense Ratio", Value: fmt.Sprintf("%g%%", s.terms.ExpenseRatio)},
		Field{Label: "Projected Value (3 years)", Value: utils.FormatCurrency(s.ProjectGrowth(3, 0))},
		Field{Label: "Projected Value (5 years)", Value: utils.FormatCurrency(s.ProjectGrowth(5, 0))},
		Field{Label: "Projected Value (10 years)", Value: utils.FormatCurrency(s.ProjectGrowth(10, 0))},
	)
}

func (s *SIP) Rules() []Rule {
	return []Rule{
		textRule("fund_profile", func() string {
			return fmt.Sprintf("This is a %s fund with an expense ratio of %f%%.", s.terms.FundType, s.terms.ExpenseRatio)
		}),
		bandRule("expense_ratio", s.ExpenseRatio, expenseRatioBands),
		bandRule("expected_return", s.ExpectedAnnualReturn, expectedReturnBands),
	}
}

// Trend is the short-term direction of a forex pair
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendNeutral Trend = "Neutral"
)

const (
	// DefaultForexSpread is the quoted spread in percent
	DefaultForexSpread = 0.1

	trendWindow = 5
	trendBand   = 0.02
)

// Forex is a currency pair position. Its trend is recomputed on every price update.
type Forex struct {
	*Holding
	baseCurrency  string
	quoteCurrency string
	spread        float64
	trend         Trend
}

func NewForex(name, symbol string, price, quantity float64, base, quote string, spread float64, opts ...Option) *Forex {
	f := &Forex{
		Holding:       newHolding(name, symbol, price, quantity, opts...),
		baseCurrency:  base,
		quoteCurrency: quote,
		spread:        spread,
		trend:         TrendNeutral,
	}
	f.onPriceUpdate = f.updateTrend
	return f
}

func (f *Forex) Kind() Kind                { return KindForex }
func (f *Forex) BaseCurrency() string      { return f.baseCurrency }
func (f *Forex) QuoteCurrency() string     { return f.quoteCurrency }
func (f *Forex) SpreadPercentage() float64 { return f.spread }
func (f *Forex) Trend() Trend              { return f.trend }

// updateTrend compares the current price with the simple moving average of
// the last five observations.
func (f *Forex) updateTrend() {
	avg := formulas.CalculateSMA(f.prices(), trendWindow)
	switch {
	case avg == nil:
		f.trend = TrendNeutral
	case f.currentPrice > *avg*(1+trendBand):
		f.trend = TrendBullish
	case f.currentPrice < *avg*(1-trendBand):
		f.trend = TrendBearish
	default:
		f.trend = TrendNeutral
	}
}

func (f *Forex) Details() []Field {
	return append(f.baseDetails(),
		Field{Label: "Pair", Value: f.baseCurrency + "/" + f.quoteCurrency},
		Field{Label: "Spread", Value: fmt.Sprintf("%g%%", f.spread)},
		Field{Label: "Current Trend", Value: string(f.trend)},
	)
}

func (f *Forex) Rules() []Rule {
	return []Rule{
		textRule("trend", func() string {
			return fmt.Sprintf("This forex pair (%s/%s) %s", f.baseCurrency, f.quoteCurrency, trendOutlook[f.trend])
		}),
		bandRule("pair_volatility", f.Volatility, forexVolatilityBands),
	}
}

// NetworkHealthy is the initial network status of a cryptocurrency
const NetworkHealthy = "Healthy"

// Cryptocurrency is a coin position with an optional staking yield
type Cryptocurrency struct {
	*Holding
	marketCap     float64
	networkStatus string
	staking       bool
	stakingYield  float64
}

func NewCryptocurrency(name, symbol string, price, quantity, marketCap float64, opts ...Option) *Cryptocurrency {
	return &Cryptocurrency{
		Holding:       newHolding(name, symbol, price, quantity, opts...),
		marketCap:     marketCap,
		networkStatus: NetworkHealthy,
	}
}

func (c *Cryptocurrency) Kind() Kind            { return KindCryptocurrency }
func (c *Cryptocurrency) MarketCap() float64    { return c.marketCap }
func (c *Cryptocurrency) NetworkStatus() string { return c.networkStatus }
func (c *Cryptocurrency) IsStaking() bool       { return c.staking }
func (c *Cryptocurrency) StakingYield() float64 { return c.stakingYield }

// Staker is implemented by assets that can earn a staking yield
type Staker interface {
	Asset
	EnableStaking(yield float64)
	DisableStaking()
	IsStaking() bool
	StakingYield() float64
	StakingRewards(days int) float64
}

// EnableStaking starts earning yield percent APY
func (c *Cryptocurrency) EnableStaking(yield float64) {
	c.staking = true
	c.stakingYield = yield
}

func (c *Cryptocurrency) DisableStaking() {
	c.staking = false
	c.stakingYield = 0
}

// StakingRewards is the value earned over days at the daily-compounded yield
func (c *Cryptocurrency) StakingRewards(days int) float64 {
	if !c.staking || c.stakingYield <= 0 {
		return 0
	}
	daily := c.stakingYield / 365 / 100
	return c.CurrentValue() * (math.Pow(1+daily, float64(days)) - 1)
}

// UpdateMarketCap scales the market cap by the move since the first observation
func (c *Cryptocurrency) UpdateMarketCap() {
	if len(c.history) == 0 || c.history[0].Price == 0 {
		return
	}
	c.marketCap *= c.currentPrice / c.history[0].Price
}

func (c *Cryptocurrency) Details() []Field {
	fields := append(c.baseDetails(),
		Field{Label: "Market Cap", Value: utils.FormatCurrency(c.marketCap)},
		Field{Label: "Network Status", Value: c.networkStatus},
	)
	if !c.staking {
		return append(fields, Field{Label: "Staking Enabled", Value: "No"})
	}
	return append(fields,
		Field{Label: "Staking Enabled", Value: "Yes"},
		Field{Label: "Staking Yield", Value: fmt.Sprintf("%g%% APY", c.stakingYield)},
		Field{Label: "Projected Staking Reward (30 days)", Value: utils.FormatCurrency(c.StakingRewards(30))},
	)
}

func (c *Cryptocurrency) Rules() []Rule {
	return []Rule{
		textRule("market_cap", func() string {
			return fmt.Sprintf("%s has a market cap of %s.", c.name, utils.FormatCurrency(c.marketCap))
		}),
		bandRule("crypto_volatility", c.Volatility, cryptoVolatilityBands),
		textRule("staking", func() string {
			if c.staking {
				return fmt.Sprintf("You are earning %f%% APY through staking, which helps offset volatility.", c.stakingYield)
			}
			return "Consider staking options to earn passive income from your holdings."
		}),
	}
}

// DefaultGrade is the purity assumed for gold holdings
const DefaultGrade = "24K"

// Commodity is a gold position, either physical metal or paper
type Commodity struct {
	*Holding
	grade    string
	physical bool
}

func NewCommodity(name, symbol string, price, quantity float64, grade string, physical bool, opts ...Option) *Commodity {
	if grade == "" {
		grade = DefaultGrade
	}
	return &Commodity{
		Holding:  newHolding(name, symbol, price, quantity, opts...),
		grade:    grade,
		physical: physical,
	}
}

func (c *Commodity) Kind() Kind       { return KindCommodity }
func (c *Commodity) Grade() string    { return c.grade }
func (c *Commodity) IsPhysical() bool { return c.physical }

// InflationHedge is the value an uninvested amount would lose to inflation
// percent per year over years.
func (c *Commodity) InflationHedge(inflation float64, years int) float64 {
	value := c.CurrentValue()
	return value - formulas.CompoundAnnual(value, -inflation, years)
}

func (c *Commodity) Details() []Field {
	physical := "No"
	if c.physical {
		physical = "Yes"
	}
	return append(c.baseDetails(),
		Field{Label: "Grade", Value: c.grade},
		Field{Label: "Physical Holding", Value: physical},
		Field{Label: "Inflation Hedge (5% inflation, 5 years)", Value: utils.FormatCurrency(c.InflationHedge(5, 5))},
	)
}

func (c *Commodity) Rules() []Rule {
	return []Rule{
		textRule("holding_form", func() string {
			form := "a paper investment"
			if c.physical {
				form = "physical metal"
			}
			return fmt.Sprintf("This %s gold is held as %s.", c.grade, form)
		}),
		bandRule("gold_volatility", c.Volatility, goldVolatilityBands),
	}
}

// FiatCurrency is a cash position earning the country's policy rate
type FiatCurrency struct {
	*Holding
	country       string
	interestRate  float64
	inflationRate float64
}

func NewFiatCurrency(name, symbol string, price, quantity float64, country string, interestRate, inflationRate float64, opts ...Option) *FiatCurrency {
	return &FiatCurrency{
		Holding:       newHolding(name, symbol, price, quantity, opts...),
		country:       country,
		interestRate:  interestRate,
		inflationRate: inflationRate,
	}
}

func (f *FiatCurrency) Kind() Kind             { return KindFiatCurrency }
func (f *FiatCurrency) Country() string        { return f.country }
func (f *FiatCurrency) InterestRate() float64  { return f.interestRate }
func (f *FiatCurrency) InflationRate() float64 { return f.inflationRate }

// RealReturn is the interest rate net of inflation, in percent
func (f *FiatCurrency) RealReturn() float64 {
	return f.interestRate - f.inflationRate
}

// PurchasingPower compounds the current value at the real return for years
func (f *FiatCurrency) PurchasingPower(years int) float64 {
	return formulas.CompoundAnnual(f.CurrentValue(), f.RealReturn(), years)
}

func (f *FiatCurrency) Details() []Field {
	return append(f.baseDetails(),
		Field{Label: "Country", Value: f.country},
		Field{Label: "Interest Rate", Value: fmt.Sprintf("%g%%", f.interestRate)},
		Field{Label: "Inflation Rate", Value: fmt.Sprintf("%g%%", f.inflationRate)},
		Field{Label: "Real Return", Value: fmt.Sprintf("%g%%", f.RealReturn())},
		Field{Label: "Purchasing Power (5 years)", Value: utils.FormatCurrency(f.PurchasingPower(5))},
	)
}

func (f *FiatCurrency) Rules() []Rule {
	return []Rule{
		textRule("rates", func() string {
			return fmt.Sprintf("%s has an interest rate of %f%% and inflation of %f%%.", f.name, f.interestRate, f.inflationRate)
		}),
		bandRule("real_return", f.RealReturn, realReturnBands),
	}
}

// Generic is the fallback for symbols with no dedicated variant
type Generic struct {
	*Holding
}

func NewGeneric(name, symbol string, price, quantity float64, opts ...Option) *Generic {
	return &Generic{Holding: newHolding(name, symbol, price, quantity, opts...)}
}

func (g *Generic) Kind() Kind       { return KindGeneric }
func (g *Generic) Details() []Field { return g.baseDetails() }
func (g *Generic) Rules() []Rule    { return nil }

var (
	_ Asset = (*SIP)(nil)
	_ Asset = (*Forex)(nil)
	_ Asset = (*Cryptocurrency)(nil)
	_ Asset = (*Commodity)(nil)
	_ Asset = (*FiatCurrency)(nil)
	_ Asset = (*Generic)(nil)
)
