package projection

import "github.com/aristath/folio/pkg/formulas"

// MarketScenario applies a one-off shock to the current value
type MarketScenario struct {
	Name       string
	Label      string
	Multiplier float64
}

// MarketScenarios are the stress cases reported for a portfolio
var MarketScenarios = []MarketScenario{
	{Name: "bull", Label: "Bull Market (+20%)", Multiplier: 1.20},
	{Name: "bear", Label: "Bear Market (-30%)", Multiplier: 0.70},
	{Name: "recession", Label: "Recession (-40%)", Multiplier: 0.60},
}

// InflationCase discounts the current value by Rate percent per year
type InflationCase struct {
	Years int
	Rate  float64
}

// InflationCases are the purchasing-power horizons reported
var InflationCases = []InflationCase{
	{Years: 1, Rate: 8},
	{Years: 5, Rate: 8},
}

// SIPCase is a named annual return assumption for the monthly plan
type SIPCase struct {
	Name string
	Rate float64
}

// SIPScenarioMonths is the horizon of the SIP growth cases
const SIPScenarioMonths = 120

// SIPCases are the growth assumptions reported for the monthly plan
var SIPCases = []SIPCase{
	{Name: "conservative", Rate: 8},
	{Name: "moderate", Rate: 12},
	{Name: "aggressive", Rate: 15},
}

// ScenarioValue is the outcome of one named scenario
type ScenarioValue struct {
	Name  string  `json:"name"`
	Label string  `json:"label,omitempty"`
	Rate  float64 `json:"rate,omitempty"`
	Value float64 `json:"value"`
}

// InflationValue is the real value after Years of inflation
type InflationValue struct {
	Years     int     `json:"years"`
	Rate      float64 `json:"rate"`
	RealValue float64 `json:"real_value"`
}

// Scenarios collects every scenario outcome for one portfolio
type Scenarios struct {
	CurrentValue  float64          `json:"current_value"`
	MonthlyAmount float64          `json:"monthly_amount"`
	Market        []ScenarioValue  `json:"market"`
	Inflation     []InflationValue `json:"inflation"`
	SIP           []ScenarioValue  `json:"sip"`
}

// Analyze runs every scenario table against the current value. SIP growth
// cases are only reported for a positive monthly amount.
func Analyze(currentValue, monthlyAmount float64) Scenarios {
	s := Scenarios{
		CurrentValue:  currentValue,
		MonthlyAmount: monthlyAmount,
		Market:        make([]ScenarioValue, 0, len(MarketScenarios)),
		Inflation:     make([]InflationValue, 0, len(InflationCases)),
		SIP:           []ScenarioValue{},
	}

	for _, m := range MarketScenarios {
		s.Market = append(s.Market, ScenarioValue{Name: m.Name, Label: m.Label, Value: currentValue * m.Multiplier})
	}
	for _, c := range InflationCases {
		s.Inflation = append(s.Inflation, InflationValue{
			Years:     c.Years,
			Rate:      c.Rate,
			RealValue: formulas.DiscountAnnual(currentValue, c.Rate, c.Years),
		})
	}
	if monthlyAmount > 0 {
		for _, c := range SIPCases {
			s.SIP = append(s.SIP, ScenarioValue{
				Name:  c.Name,
				Rate:  c.Rate,
				Value: formulas.AnnuityDueFutureValue(monthlyAmount, c.Rate, SIPScenarioMonths),
			})
		}
	}
	return s
}
