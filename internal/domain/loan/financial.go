package loan

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// ComputeFinancials derives the constant financial figures for a set of
// terms. TotalInterest is flat simple interest on the original
// principal for the full term; it is never recomputed on a shrinking
// balance. Installment is the fixed annuity payment at the equivalent
// monthly rate and is informational only — the two are intentionally
// separate models and are not reconciled.
func ComputeFinancials(terms Terms) (*Financials, error) {
	if terms.DurationMonths <= 0 || terms.Principal.IsNegative() || terms.AnnualRatePct.IsNegative() {
		return nil, ErrInvalidTerms
	}

	months := decimal.NewFromInt(int64(terms.DurationMonths))
	totalInterest := terms.Principal.
		Mul(terms.AnnualRatePct).Div(hundred).
		Mul(months).Div(monthsInYear).
		Round(2)
	totalPayable := terms.Principal.Add(totalInterest)

	return &Financials{
		TotalInterest: totalInterest,
		TotalPayable:  totalPayable,
		Installment:   annuityInstallment(terms.Principal, terms.AnnualRatePct, terms.DurationMonths),
	}, nil
}

// annuityInstallment computes P * r * (1+r)^n / ((1+r)^n - 1). The
// power term is evaluated in float64, then converted back to decimal
// for the monetary result.
func annuityInstallment(principal, annualRatePct decimal.Decimal, durationMonths int32) decimal.Decimal {
	months := decimal.NewFromInt(int64(durationMonths))
	monthlyRate := annualRatePct.InexactFloat64() / 100 / 12
	if monthlyRate == 0 {
		return principal.Div(months).Round(2)
	}

	factor := math.Pow(1+monthlyRate, float64(durationMonths))
	payment := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(2)
}
