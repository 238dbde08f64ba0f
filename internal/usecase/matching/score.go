package matching

import (
	"math"

	"p2plending-backend/internal/config"
	"p2plending-backend/internal/domain/lender"
	"p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/riskprofile"
)

// SubScores is the 0–100 breakdown behind a pair score, persisted alongside
// the combined score for auditability.
type SubScores struct {
	Amount   float64 `json:"amount_fit"`
	Duration float64 `json:"duration_fit"`
	Rate     float64 `json:"rate_fit"`
	Risk     float64 `json:"risk_fit"`
}

type PairScore struct {
	Score           float64   `json:"match_score"` // 0–100, 1 decimal
	Sub             SubScores `json:"sub_scores"`
	PotentialReturn float64   `json:"potential_return"` // display only
}

// riskFitUnknown is the conservative default when the borrower has no risk
// profile yet.
const riskFitUnknown = 70

// Prefilter reports whether the pair satisfies the hard constraints: amount
// and duration inside the lender's stated range, and no self-lending.
// Pairs failing it never reach the soft scorer.
func Prefilter(l *loan.LoanRequest, p *lender.LenderProfile) bool {
	if p.UserID == l.BorrowerID || !p.IsActive {
		return false
	}
	if l.Amount < p.MinAmount || l.Amount > p.MaxAmount {
		return false
	}
	if l.DurationMonths < p.PreferredDurationMin || l.DurationMonths > p.PreferredDurationMax {
		return false
	}
	return true
}

// ScorePair computes the weighted compatibility score for one (loan, lender)
// pair. tier is nil when the borrower has no risk profile. Pure; no I/O.
func ScorePair(l *loan.LoanRequest, p *lender.LenderProfile, tier *riskprofile.Tier, w config.MatchWeights) PairScore {
	sub := SubScores{
		Amount:   amountFit(l.Amount, p.MinAmount, p.MaxAmount),
		Duration: durationFit(l.DurationMonths, p.PreferredDurationMin, p.PreferredDurationMax),
		Rate:     rateFit(l.InterestRate, p.MinInterestRate),
		Risk:     riskFit(tier, p.RiskTolerance),
	}
	score := sub.Amount*w.Amount + sub.Duration*w.Duration + sub.Rate*w.Rate + sub.Risk*w.Risk
	return PairScore{
		Score:           math.Round(score*10) / 10,
		Sub:             sub,
		PotentialReturn: math.Round(l.Amount * (l.InterestRate / 100) * float64(l.DurationMonths) / 12),
	}
}

// amountFit: full marks inside the range; outside, a partial score
// proportional to how close the amount is to the nearest bound, scaled to
// half. Never negative.
func amountFit(amount, min, max float64) float64 {
	switch {
	case amount >= min && amount <= max:
		return 100
	case amount < min:
		if min <= 0 {
			return 0
		}
		return 100 * (amount / min) * 0.5
	default:
		return 100 * (max / amount) * 0.5
	}
}

// durationFit degrades 8 points per month outside the preferred range,
// floored at 0.
func durationFit(months, min, max int) float64 {
	if months >= min && months <= max {
		return 100
	}
	var diff int
	if months < min {
		diff = min - months
	} else {
		diff = months - max
	}
	return math.Max(0, 100-float64(diff)*8)
}

// rateFit degrades 10 points per percentage point the loan rate falls short
// of the lender's minimum, floored at 0.
func rateFit(loanRate, lenderMin float64) float64 {
	if loanRate >= lenderMin {
		return 100
	}
	return math.Max(0, 100-(lenderMin-loanRate)*10)
}

func riskFit(tier *riskprofile.Tier, tolerance lender.RiskTolerance) float64 {
	if tier == nil {
		return riskFitUnknown
	}
	switch tolerance {
	case lender.ToleranceHigh:
		return 100
	case lender.ToleranceMedium:
		if *tier == riskprofile.TierVeryHigh {
			return 40
		}
		return 85
	default: // LOW tolerance
		switch *tier {
		case riskprofile.TierVeryLow, riskprofile.TierLow:
			return 100
		case riskprofile.TierMedium:
			return 60
		default:
			return 30
		}
	}
}
