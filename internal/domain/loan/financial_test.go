package loan

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func terms(principal, rate string, months int32) Terms {
	return Terms{
		Principal:      decimal.RequireFromString(principal),
		AnnualRatePct:  decimal.RequireFromString(rate),
		DurationMonths: months,
	}
}

func TestComputeFinancialsFlatInterest(t *testing.T) {
	fin, err := ComputeFinancials(terms("10000", "12", 12))
	if err != nil {
		t.Fatalf("ComputeFinancials: %v", err)
	}
	if got := fin.TotalInterest.String(); got != "1200" {
		t.Fatalf("total interest = %s, want 1200", got)
	}
	if got := fin.TotalPayable.String(); got != "11200" {
		t.Fatalf("total payable = %s, want 11200", got)
	}
}

func TestComputeFinancialsPartialYear(t *testing.T) {
	// 10000 * 10% * 6/12 = 500
	fin, err := ComputeFinancials(terms("10000", "10", 6))
	if err != nil {
		t.Fatalf("ComputeFinancials: %v", err)
	}
	if got := fin.TotalInterest.String(); got != "500" {
		t.Fatalf("total interest = %s, want 500", got)
	}
}

func TestComputeFinancialsZeroRate(t *testing.T) {
	fin, err := ComputeFinancials(terms("1200", "0", 12))
	if err != nil {
		t.Fatalf("ComputeFinancials: %v", err)
	}
	if !fin.TotalInterest.IsZero() {
		t.Fatalf("total interest = %s, want 0", fin.TotalInterest)
	}
	if got := fin.Installment.String(); got != "100" {
		t.Fatalf("installment = %s, want 100", got)
	}
}

func TestComputeFinancialsInstallmentAnnuity(t *testing.T) {
	fin, err := ComputeFinancials(terms("10000", "12", 12))
	if err != nil {
		t.Fatalf("ComputeFinancials: %v", err)
	}
	// Annuity at 1% monthly over 12 months is 888.49; the flat-interest
	// figures above are independent of it.
	if got := fin.Installment.String(); got != "888.49" {
		t.Fatalf("installment = %s, want 888.49", got)
	}
}

func TestComputeFinancialsInvalidTerms(t *testing.T) {
	cases := []struct {
		name string
		in   Terms
	}{
		{"zero duration", terms("10000", "12", 0)},
		{"negative duration", terms("10000", "12", -3)},
		{"negative principal", terms("-1", "12", 12)},
		{"negative rate", terms("10000", "-0.5", 12)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ComputeFinancials(tc.in); !errors.Is(err, ErrInvalidTerms) {
				t.Fatalf("err = %v, want ErrInvalidTerms", err)
			}
		})
	}
}

func TestComputeFinancialsZeroPrincipal(t *testing.T) {
	fin, err := ComputeFinancials(terms("0", "12", 12))
	if err != nil {
		t.Fatalf("ComputeFinancials: %v", err)
	}
	if !fin.TotalPayable.IsZero() {
		t.Fatalf("total payable = %s, want 0", fin.TotalPayable)
	}
}
