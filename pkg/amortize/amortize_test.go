package amortize

import (
	"math"
	"testing"
)

func sumPrincipal(s *Schedule) float64 {
	var sum float64
	for _, l := range s.Lines {
		sum += l.Principal
	}
	return math.Round(sum*100) / 100
}

func TestCompute_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		months    int
		method    Method
	}{
		{"zero principal", 0, 12, 12, EqualPrincipal},
		{"negative principal", -5, 12, 12, EqualPrincipal},
		{"zero months", 1_000_000, 12, 0, EqualPayment},
		{"negative months", 1_000_000, 12, -3, EqualPayment},
		{"negative rate", 1_000_000, -1, 12, EqualPrincipal},
		{"unknown method", 1_000_000, 12, 12, Method("BALLOON")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Compute(tc.principal, tc.rate, tc.months, tc.method); err != ErrInvalidArgument {
				t.Fatalf("want ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestCompute_PrincipalSumsExactly(t *testing.T) {
	cases := []struct {
		principal float64
		rate      float64
		months    int
	}{
		{60_000_000, 12, 12},
		{10_000_000, 18.5, 7},   // 10M/7 does not divide evenly
		{1_000_000.33, 9, 13},   // fractional principal
		{5_000_000, 0, 6},       // zero rate
		{99_999_999.99, 24, 36}, // long term
	}
	for _, tc := range cases {
		for _, m := range []Method{EqualPrincipal, EqualPayment} {
			s, err := Compute(tc.principal, tc.rate, tc.months, m)
			if err != nil {
				t.Fatalf("%v P=%v: %v", m, tc.principal, err)
			}
			if got := sumPrincipal(s); got != tc.principal {
				t.Errorf("%v P=%v: principal parts sum to %v", m, tc.principal, got)
			}
			if last := s.Lines[len(s.Lines)-1].Remaining; last != 0 {
				t.Errorf("%v P=%v: final remaining = %v, want 0", m, tc.principal, last)
			}
		}
	}
}

func TestEqualPrincipal_InterestNonIncreasing(t *testing.T) {
	s, err := Compute(37_500_000, 15.25, 18, EqualPrincipal)
	if err != nil {
		t.Fatal(err)
	}
	prevInterest := math.Inf(1)
	prevRemaining := math.Inf(1)
	for _, l := range s.Lines {
		if l.Interest > prevInterest {
			t.Fatalf("period %d: interest %v > previous %v", l.Period, l.Interest, prevInterest)
		}
		if l.Remaining >= prevRemaining {
			t.Fatalf("period %d: remaining %v did not decrease", l.Period, l.Remaining)
		}
		prevInterest = l.Interest
		prevRemaining = l.Remaining
	}
}

func TestZeroRate_DegeneratesToEqualSplit(t *testing.T) {
	const principal = 12_000_000
	const months = 8
	for _, m := range []Method{EqualPrincipal, EqualPayment} {
		s, err := Compute(principal, 0, months, m)
		if err != nil {
			t.Fatalf("%v: %v", m, err)
		}
		if len(s.Lines) != months {
			t.Fatalf("%v: %d lines", m, len(s.Lines))
		}
		for _, l := range s.Lines {
			if l.Principal != 1_500_000 {
				t.Errorf("%v period %d: principal %v, want 1500000", m, l.Period, l.Principal)
			}
			if l.Interest != 0 {
				t.Errorf("%v period %d: interest %v, want 0", m, l.Period, l.Interest)
			}
		}
		if s.TotalInterest != 0 {
			t.Errorf("%v: total interest %v", m, s.TotalInterest)
		}
	}
}

// Scenario from the product team: 60M at 12%/year over 12 months,
// equal principal.
func TestEqualPrincipal_ReferenceScenario(t *testing.T) {
	s, err := Compute(60_000_000, 12, 12, EqualPrincipal)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Lines) != 12 {
		t.Fatalf("installments = %d", len(s.Lines))
	}
	first := s.Lines[0]
	if first.Principal != 5_000_000 {
		t.Errorf("first principal = %v", first.Principal)
	}
	if first.Interest != 600_000 { // 60,000,000 × 1%/month
		t.Errorf("first interest = %v", first.Interest)
	}
	if last := s.Lines[11]; last.Remaining != 0 {
		t.Errorf("last remaining = %v", last.Remaining)
	}
}

func TestEqualPayment_ConstantTotal(t *testing.T) {
	s, err := Compute(24_000_000, 12, 24, EqualPayment)
	if err != nil {
		t.Fatal(err)
	}
	// All totals except possibly the last equal the annuity payment.
	want := s.Lines[0].Total
	for _, l := range s.Lines[:len(s.Lines)-1] {
		if math.Abs(l.Total-want) > 0.01 {
			t.Fatalf("period %d: total %v, want %v", l.Period, l.Total, want)
		}
	}
	// Equal payment front-loads interest relative to equal principal.
	ep, _ := Compute(24_000_000, 12, 24, EqualPrincipal)
	if s.TotalInterest <= ep.TotalInterest {
		t.Errorf("annuity total interest %v should exceed equal-principal %v",
			s.TotalInterest, ep.TotalInterest)
	}
}
