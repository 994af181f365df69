package formulas

import "math"

// MonthlyRate converts an annual percentage rate (e.g. 12 for 12%) into a
// monthly decimal rate.
func MonthlyRate(annualRate float64) float64 {
	return annualRate / 100 / 12
}

// FutureValue compounds principal monthly for months periods and adds an
// ordinary annuity of contribution paid at the end of each month.
//
//	FV = P*(1+r)^n + c*((1+r)^n - 1)/r
//
// A zero rate degenerates to P + c*n. Negative months are treated as zero.
func FutureValue(principal, annualRate float64, months int, contribution float64) float64 {
	if months < 0 {
		months = 0
	}
	n := float64(months)
	r := MonthlyRate(annualRate)
	if r == 0 {
		return principal + contribution*n
	}

	growth := math.Pow(1+r, n)
	fv := principal * growth
	if contribution != 0 {
		fv += contribution * (growth - 1) / r
	}
	return fv
}

// AnnuityDueFutureValue is the SIP formula: a fixed amount invested at the
// start of every month.
//
//	FV = A * ((1+r)^n - 1)/r * (1+r)
//
// A zero rate degenerates to A*n.
func AnnuityDueFutureValue(monthlyAmount, annualRate float64, months int) float64 {
	if months < 0 {
		months = 0
	}
	n := float64(months)
	r := MonthlyRate(annualRate)
	if r == 0 {
		return monthlyAmount * n
	}
	return monthlyAmount * (math.Pow(1+r, n) - 1) / r * (1 + r)
}

// CompoundAnnual grows value by rate percent per year for years.
// Negative rates shrink it, which is how purchasing power erosion is modelled.
func CompoundAnnual(value, ratePct float64, years int) float64 {
	return value * math.Pow(1+ratePct/100, float64(years))
}

// DiscountAnnual is the present value of value after years of ratePct
// annual inflation: value / (1+rate)^years.
func DiscountAnnual(value, ratePct float64, years int) float64 {
	return value / math.Pow(1+ratePct/100, float64(years))
}
