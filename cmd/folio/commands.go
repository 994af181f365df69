package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/internal/modules/projection"
	"github.com/aristath/folio/internal/modules/risk"
	"github.com/aristath/folio/internal/modules/sip"
	"github.com/aristath/folio/internal/utils"
	"github.com/aristath/folio/pkg/formulas"
)

// Commands returns every folio subcommand writing to out
func Commands(out io.Writer) []subcommands.Command {
	return []subcommands.Command{
		&allocationCmd{out: out},
		&projectCmd{out: out},
		&sipCmd{out: out},
		&volatilityCmd{out: out},
	}
}

func fail(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type allocationCmd struct {
	out     io.Writer
	score   float64
	current string
}

func (*allocationCmd) Name() string     { return "allocation" }
func (*allocationCmd) Synopsis() string { return "show the ideal allocation for a risk score" }
func (*allocationCmd) Usage() string {
	return `folio allocation [-score <0-100>] [-current SYMBOL:PCT,...]

  Prints the target allocation of the tier the score falls into. With
  -current, also prints how far each symbol is from its target.
`
}

func (c *allocationCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.score, "score", risk.DefaultScore, "Risk score, clamped to 0-100.")
	f.StringVar(&c.current, "current", "", "Current composition to compare, e.g. BTC:30,SIP:70.")
}

func (c *allocationCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !finite(c.score) {
		return fail("score must be a number")
	}
	tier := risk.TierFor(c.score)
	target := tier.Allocation

	fmt.Fprintf(c.out, "Risk score %.0f: %s\n", risk.Clamp(c.score), tier.Label)
	for _, symbol := range target.Symbols() {
		fmt.Fprintf(c.out, "  %-8s %6.2f%%\n", symbol, target[symbol])
	}

	if c.current == "" {
		return subcommands.ExitSuccess
	}
	current, err := allocation.Parse(c.current)
	if err != nil {
		return fail("invalid -current: %v", err)
	}
	fmt.Fprintln(c.out, "Deviation from target:")
	for _, d := range allocation.Compare(current, target) {
		fmt.Fprintf(c.out, "  %-8s %6.2f%% -> %6.2f%% (%+.2f)\n", d.Symbol, d.CurrentPct, d.TargetPct, d.Deviation)
	}
	return subcommands.ExitSuccess
}

type projectCmd struct {
	out          io.Writer
	value        float64
	rate         float64
	months       int
	contribution float64
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project a portfolio value with compound growth" }
func (*projectCmd) Usage() string {
	return `folio project -value <amount> [-rate <pct>] [-months <n>] [-contribution <amount>]

  Compounds value monthly at the annual rate, adding the contribution at
  the end of every month.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.value, "value", 0, "Current portfolio value.")
	f.Float64Var(&c.rate, "rate", sip.DisplayRate, "Expected annual return in percent.")
	f.IntVar(&c.months, "months", 120, "Projection horizon in months.")
	f.Float64Var(&c.contribution, "contribution", 0, "Monthly contribution.")
}

func (c *projectCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !finite(c.value, c.rate, c.contribution) {
		return fail("value, rate and contribution must be numbers")
	}
	if c.months < 0 {
		return fail("months must not be negative")
	}

	p := projection.ProjectPortfolio(c.value, c.rate, c.months, c.contribution)
	for _, pt := range p.Path {
		fmt.Fprintf(c.out, "  month %4d  %s\n", pt.Month, utils.FormatCurrency(pt.Value))
	}
	fmt.Fprintf(c.out, "Future value after %d months at %.2f%%: %s\n", p.Months, p.AnnualRate, utils.FormatCurrency(p.FutureValue))
	return subcommands.ExitSuccess
}

type sipCmd struct {
	out     io.Writer
	monthly float64
	rate    float64
	months  int
}

func (*sipCmd) Name() string     { return "sip" }
func (*sipCmd) Synopsis() string { return "project a monthly investment plan" }
func (*sipCmd) Usage() string {
	return `folio sip -monthly <amount> [-rate <pct>] [-months <n>]

  Projects an amount invested at the start of every month. Without -months
  the standard horizons are printed.
`
}

func (c *sipCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.monthly, "monthly", 0, "Amount invested each month.")
	f.Float64Var(&c.rate, "rate", sip.DisplayRate, "Expected annual return in percent.")
	f.IntVar(&c.months, "months", 0, "Projection horizon in months.")
}

func (c *sipCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !finite(c.monthly, c.rate) || c.monthly <= 0 {
		return fail("monthly must be a positive amount")
	}
	if c.months < 0 {
		return fail("months must not be negative")
	}

	var rows []projection.SIPProjection
	if c.months == 0 {
		for _, m := range sip.DisplayHorizons {
			rows = append(rows, projection.ProjectSIP(c.monthly, c.rate, m))
		}
	} else {
		rows = append(rows, projection.ProjectSIP(c.monthly, c.rate, c.months))
	}

	for _, r := range rows {
		fmt.Fprintf(c.out, "%4d months: invested %s, value %s, gain %s\n",
			r.Months,
			utils.FormatCurrency(r.Invested),
			utils.FormatCurrency(r.FutureValue),
			utils.FormatCurrency(r.Gain))
	}
	return subcommands.ExitSuccess
}

type volatilityCmd struct {
	out io.Writer
}

func (*volatilityCmd) Name() string     { return "volatility" }
func (*volatilityCmd) Synopsis() string { return "volatility of a price series" }
func (*volatilityCmd) Usage() string {
	return `folio volatility <price> <price> [<price>...]

  Prints the population standard deviation of the period returns, in percent.
`
}

func (*volatilityCmd) SetFlags(*flag.FlagSet) {}

func (c *volatilityCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "at least two prices are required")
		return subcommands.ExitUsageError
	}

	prices := make([]float64, 0, f.NArg())
	for _, arg := range f.Args() {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || !finite(v) || v <= 0 {
			return fail("invalid price %q", arg)
		}
		prices = append(prices, v)
	}

	fmt.Fprintf(c.out, "Volatility: %.4f%%\n", formulas.Volatility(prices))
	return subcommands.ExitSuccess
}
