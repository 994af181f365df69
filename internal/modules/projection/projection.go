// Package projection provides compound-growth projections and the scenario
// analysis built on them. Nothing here mutates portfolio state.
package projection

import (
	"github.com/aristath/folio/internal/modules/sip"
	"github.com/aristath/folio/pkg/formulas"
)

// Point is the projected value after Month months
type Point struct {
	Month int     `json:"month"`
	Value float64 `json:"value"`
}

// PortfolioProjection is a lump sum compounded monthly with an optional
// end-of-month contribution
type PortfolioProjection struct {
	CurrentValue float64 `json:"current_value"`
	AnnualRate   float64 `json:"annual_rate"`
	Months       int     `json:"months"`
	Contribution float64 `json:"contribution"`
	Contributed  float64 `json:"contributed"`
	FutureValue  float64 `json:"future_value"`
	Path         []Point `json:"path"`
}

// ProjectPortfolio projects value forward. The path holds one point per
// full year plus the final month.
func ProjectPortfolio(value, annualRate float64, months int, contribution float64) PortfolioProjection {
	if months < 0 {
		months = 0
	}
	p := PortfolioProjection{
		CurrentValue: value,
		AnnualRate:   annualRate,
		Months:       months,
		Contribution: contribution,
		Contributed:  contribution * float64(months),
		FutureValue:  formulas.FutureValue(value, annualRate, months, contribution),
	}
	p.Path = append(p.Path, Point{Month: 0, Value: value})
	for m := 12; m < months; m += 12 {
		p.Path = append(p.Path, Point{Month: m, Value: formulas.FutureValue(value, annualRate, m, contribution)})
	}
	if months > 0 {
		p.Path = append(p.Path, Point{Month: months, Value: p.FutureValue})
	}
	return p
}

// SIPProjection is the annuity-due value of a monthly plan
type SIPProjection struct {
	MonthlyAmount float64 `json:"monthly_amount"`
	AnnualRate    float64 `json:"annual_rate"`
	Months        int     `json:"months"`
	Invested      float64 `json:"invested"`
	FutureValue   float64 `json:"future_value"`
	Gain          float64 `json:"gain"`
}

// ProjectSIP projects monthlyAmount invested at the start of each month
func ProjectSIP(monthlyAmount, annualRate float64, months int) SIPProjection {
	if months < 0 {
		months = 0
	}
	fv := formulas.AnnuityDueFutureValue(monthlyAmount, annualRate, months)
	invested := monthlyAmount * float64(months)
	return SIPProjection{
		MonthlyAmount: monthlyAmount,
		AnnualRate:    annualRate,
		Months:        months,
		Invested:      invested,
		FutureValue:   fv,
		Gain:          fv - invested,
	}
}

// StandardSIPHorizons projects monthlyAmount over the headline horizons
func StandardSIPHorizons(monthlyAmount float64) []SIPProjection {
	out := make([]SIPProjection, 0, len(sip.DisplayHorizons))
	for _, months := range sip.DisplayHorizons {
		out = append(out, ProjectSIP(monthlyAmount, sip.DisplayRate, months))
	}
	return out
}
