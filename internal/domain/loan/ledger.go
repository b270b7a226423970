package loan

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// BuildLedger reconstructs the interest/principal allocation for every
// recorded payment from the loan terms and the full payment history.
//
// Interest is recognized proportionally: before each payment, the share
// of total interest considered earned equals the share of the total
// obligation collected so far, and the payment retires interest first
// within that remaining cap. This deliberately differs from an
// interest-first amortization waterfall — early payments carry interest
// roughly proportional to loan progress instead of front-loading it.
//
// Each money output is rounded to 2 decimal places (half-up)
// independently per entry; no rounding remainder is carried forward, so
// a cumulative drift of a few cents against the total payable is
// tolerated.
func BuildLedger(terms Terms, payments []PaymentEvent) (*Ledger, error) {
	fin, err := ComputeFinancials(terms)
	if err != nil {
		return nil, err
	}

	for _, p := range payments {
		if p.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: payment %s has negative amount %s", ErrMalformedPayment, p.ID, p.Amount)
		}
	}

	ordered := make([]PaymentEvent, len(payments))
	copy(ordered, payments)
	// Stable sort: timestamp ties keep original insertion order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	one := decimal.NewFromInt(1)
	entries := make([]LedgerEntry, 0, len(ordered))
	paidBefore := decimal.Zero

	for i, p := range ordered {
		progress := one
		if fin.TotalPayable.IsPositive() {
			progress = decimal.Min(one, paidBefore.Div(fin.TotalPayable))
		}
		recognizedBefore := fin.TotalInterest.Mul(progress)
		remainingCap := decimal.Max(decimal.Zero, fin.TotalInterest.Sub(recognizedBefore))

		interest := decimal.Min(p.Amount, remainingCap)
		principal := p.Amount.Sub(interest)
		balance := decimal.Max(decimal.Zero, fin.TotalPayable.Sub(paidBefore).Sub(p.Amount))

		entries = append(entries, LedgerEntry{
			PaymentNumber:    i + 1,
			PaymentID:        p.ID,
			Amount:           p.Amount.Round(2),
			InterestPortion:  interest.Round(2),
			PrincipalPortion: principal.Round(2),
			BalanceAfter:     balance.Round(2),
			RecordedAt:       p.RecordedAt,
		})

		paidBefore = paidBefore.Add(p.Amount)
	}

	return &Ledger{
		Entries:          entries,
		TotalPaid:        paidBefore.Round(2),
		RemainingBalance: decimal.Max(decimal.Zero, fin.TotalPayable.Sub(paidBefore)).Round(2),
	}, nil
}
