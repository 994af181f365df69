package advisor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/sip"
	"github.com/aristath/folio/internal/utils"
	"github.com/aristath/folio/pkg/formulas"
)

// ReportHorizons are the SIP projection horizons in the monthly report
var ReportHorizons = []int{12, 60}

// TopPerformerCount bounds the performer list of the monthly report
const TopPerformerCount = 3

// Performer is one holding ranked by return
type Performer struct {
	Symbol    string  `json:"symbol"`
	ReturnPct float64 `json:"return_pct"`
}

// Report is the monthly portfolio report
type Report struct {
	Date                time.Time        `json:"date"`
	TotalValue          float64          `json:"total_value"`
	TotalReturnPct      float64          `json:"total_return_pct"`
	MonthlyAmount       float64          `json:"monthly_amount"`
	Projections         []sip.Projection `json:"projections"`
	PortfolioVolatility float64          `json:"portfolio_volatility"`
	TopPerformers       []Performer      `json:"top_performers"`
}

// ReportInput is the state a monthly report is built from
type ReportInput struct {
	Date                time.Time
	TotalValue          float64
	TotalReturnPct      float64
	MonthlyAmount       float64
	PortfolioVolatility float64
	Exposures           []domain.Exposure
}

// MonthlyReport builds the report. Performers are ranked by return,
// highest first, ties broken by symbol.
func MonthlyReport(in ReportInput) Report {
	r := Report{
		Date:                in.Date,
		TotalValue:          in.TotalValue,
		TotalReturnPct:      in.TotalReturnPct,
		MonthlyAmount:       in.MonthlyAmount,
		PortfolioVolatility: in.PortfolioVolatility,
		Projections:         make([]sip.Projection, 0, len(ReportHorizons)),
	}
	for _, months := range ReportHorizons {
		r.Projections = append(r.Projections, sip.Projection{
			Months: months,
			Rate:   sip.DisplayRate,
			Value:  formulas.AnnuityDueFutureValue(in.MonthlyAmount, sip.DisplayRate, months),
		})
	}

	performers := make([]Performer, 0, len(in.Exposures))
	for _, e := range in.Exposures {
		performers = append(performers, Performer{Symbol: e.Symbol, ReturnPct: e.ReturnPct})
	}
	sort.SliceStable(performers, func(i, j int) bool {
		if performers[i].ReturnPct != performers[j].ReturnPct {
			return performers[i].ReturnPct > performers[j].ReturnPct
		}
		return performers[i].Symbol < performers[j].Symbol
	})
	if len(performers) > TopPerformerCount {
		performers = performers[:TopPerformerCount]
	}
	r.TopPerformers = performers
	return r
}

// Text renders the report for a terminal
func (r Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report Date: %s\n", r.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Portfolio Value: %s\n", utils.FormatCurrency(r.TotalValue))
	fmt.Fprintf(&b, "Total Return: %.2f%%\n", r.TotalReturnPct)
	fmt.Fprintf(&b, "Monthly Investment: %s\n", utils.FormatCurrency(r.MonthlyAmount))
	for _, p := range r.Projections {
		fmt.Fprintf(&b, "Projected Value (%d months): %s\n", p.Months, utils.FormatCurrency(p.Value))
	}
	fmt.Fprintf(&b, "Portfolio Volatility: %.2f%%\n", r.PortfolioVolatility)
	for i, p := range r.TopPerformers {
		fmt.Fprintf(&b, "  %d. %s: %.2f%%\n", i+1, p.Symbol, p.ReturnPct)
	}
	return b.String()
}
