package amortize

import (
	"errors"
	"math"
)

// Method selects how principal is spread across installments.
type Method string

const (
	// EqualPrincipal splits principal evenly; interest accrues on the
	// outstanding balance, so totals shrink over time.
	EqualPrincipal Method = "EQUAL_PRINCIPAL"
	// EqualPayment uses the annuity formula: same total every period.
	EqualPayment Method = "EQUAL_PAYMENT"
)

var ErrInvalidArgument = errors.New("amortize: invalid argument")

// Line is one installment of a schedule.
type Line struct {
	Period    int     `json:"period"` // 1-based
	Principal float64 `json:"principal_payment"`
	Interest  float64 `json:"interest_payment"`
	Total     float64 `json:"total_payment"`
	Remaining float64 `json:"remaining_balance"`
}

type Schedule struct {
	Lines         []Line  `json:"lines"`
	TotalInterest float64 `json:"total_interest"`
	TotalPayment  float64 `json:"total_payment"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Compute builds a repayment schedule for the given principal, annual rate
// (percent, e.g. 12 for 12%/year) and term in months.
//
// Rounding policy: every amount is rounded to 2 decimals; the final
// installment absorbs the remainder so that the principal portions sum to the
// input principal exactly and the last remaining balance is exactly 0.
func Compute(principal, annualRatePercent float64, months int, method Method) (*Schedule, error) {
	if principal <= 0 || months <= 0 {
		return nil, ErrInvalidArgument
	}
	monthlyRate := annualRatePercent / 100 / 12
	if monthlyRate < 0 {
		return nil, ErrInvalidArgument
	}

	switch method {
	case EqualPrincipal:
		return equalPrincipal(principal, monthlyRate, months), nil
	case EqualPayment:
		return equalPayment(principal, monthlyRate, months), nil
	default:
		return nil, ErrInvalidArgument
	}
}

func equalPrincipal(principal, monthlyRate float64, months int) *Schedule {
	base := round2(principal / float64(months))
	s := &Schedule{Lines: make([]Line, 0, months)}
	remaining := principal
	for period := 1; period <= months; period++ {
		principalPart := base
		if period == months {
			principalPart = round2(remaining) // absorb rounding remainder
		}
		interest := round2(remaining * monthlyRate)
		remaining = round2(remaining - principalPart)
		s.Lines = append(s.Lines, Line{
			Period:    period,
			Principal: principalPart,
			Interest:  interest,
			Total:     round2(principalPart + interest),
			Remaining: remaining,
		})
		s.TotalInterest = round2(s.TotalInterest + interest)
		s.TotalPayment = round2(s.TotalPayment + principalPart + interest)
	}
	return s
}

func equalPayment(principal, monthlyRate float64, months int) *Schedule {
	var payment float64
	if monthlyRate > 0 {
		pow := math.Pow(1+monthlyRate, float64(months))
		payment = principal * monthlyRate * pow / (pow - 1)
	} else {
		payment = principal / float64(months)
	}

	s := &Schedule{Lines: make([]Line, 0, months)}
	remaining := principal
	for period := 1; period <= months; period++ {
		interest := round2(remaining * monthlyRate)
		principalPart := round2(payment - interest)
		if period == months {
			principalPart = round2(remaining) // absorb rounding remainder
		}
		remaining = round2(remaining - principalPart)
		s.Lines = append(s.Lines, Line{
			Period:    period,
			Principal: principalPart,
			Interest:  interest,
			Total:     round2(principalPart + interest),
			Remaining: remaining,
		})
		s.TotalInterest = round2(s.TotalInterest + interest)
		s.TotalPayment = round2(s.TotalPayment + principalPart + interest)
	}
	return s
}
