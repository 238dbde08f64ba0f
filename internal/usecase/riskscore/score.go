package riskscore

import (
	"math"

	"p2plending-backend/internal/domain/riskprofile"
)

// Factor weights. They are a scoring policy, not a tunable: changing them
// silently re-tiers every borrower, so they stay compiled in.
const (
	weightKYC     = 0.30
	weightIncome  = 0.25
	weightHistory = 0.20
	weightDebt    = 0.25
)

// Facts are the inputs the scoring engine consumes. Pointers mark facts that
// may be unknown; the engine substitutes documented defaults.
type Facts struct {
	KYCVerified             bool
	OCRMatchScore           *float64 // 0–100, from the identity collaborator
	MonthlyIncome           *float64
	CompletedPastLoans      int
	RequestedMonthlyPayment *float64 // principal / months of the pending request
}

// Factors is the normalized 0–100 breakdown behind a score.
type Factors struct {
	KYC             float64 `json:"kyc_verified"`
	IncomeStability float64 `json:"income_stability"`
	LoanHistory     float64 `json:"loan_history"`
	DebtRatio       float64 `json:"debt_ratio"`
}

type Assessment struct {
	CreditScore    int              `json:"credit_score"` // 0–1000
	RiskLevel      riskprofile.Tier `json:"risk_level"`
	Factors        Factors          `json:"factors"`
	DebtRatioPct   float64          `json:"debt_ratio_pct"` // raw ratio, when computable
	Recommendation string           `json:"recommendation"`
}

var recommendations = map[riskprofile.Tier]string{
	riskprofile.TierVeryLow:  "Excellent profile. Approve; preferential rate applies.",
	riskprofile.TierLow:      "Good profile. Approve.",
	riskprofile.TierMedium:   "Average profile. Review the stated loan purpose before approving.",
	riskprofile.TierHigh:     "Risky profile. Consider requiring collateral.",
	riskprofile.TierVeryHigh: "High-risk profile. Lending not recommended.",
}

// Score computes the credit score, tier and factor breakdown for the given
// facts. Pure; no I/O.
func Score(f Facts) Assessment {
	var fac Factors

	if f.KYCVerified {
		fac.KYC = 100
	} else if f.OCRMatchScore != nil {
		fac.KYC = *f.OCRMatchScore
	}

	if f.MonthlyIncome != nil {
		switch income := *f.MonthlyIncome; {
		case income >= 20_000_000:
			fac.IncomeStability = 100
		case income >= 10_000_000:
			fac.IncomeStability = 80
		case income >= 5_000_000:
			fac.IncomeStability = 60
		default:
			fac.IncomeStability = 40
		}
	}

	if f.CompletedPastLoans > 0 {
		fac.LoanHistory = math.Min(100, 60+10*float64(f.CompletedPastLoans))
	} else {
		fac.LoanHistory = 50 // new borrower
	}

	var ratioPct float64
	if f.RequestedMonthlyPayment != nil && f.MonthlyIncome != nil && *f.MonthlyIncome > 0 {
		ratioPct = *f.RequestedMonthlyPayment / *f.MonthlyIncome * 100
		switch {
		case ratioPct <= 30:
			fac.DebtRatio = 100
		case ratioPct <= 50:
			fac.DebtRatio = 70
		case ratioPct <= 70:
			fac.DebtRatio = 50
		default:
			fac.DebtRatio = 30
		}
	} else {
		fac.DebtRatio = 60 // no current request context
	}

	raw := (fac.KYC*weightKYC + fac.IncomeStability*weightIncome +
		fac.LoanHistory*weightHistory + fac.DebtRatio*weightDebt) * 10
	score := int(math.Round(raw))
	if score < 0 {
		score = 0
	}
	if score > 1000 {
		score = 1000
	}

	tier := TierForScore(score)
	return Assessment{
		CreditScore:    score,
		RiskLevel:      tier,
		Factors:        fac,
		DebtRatioPct:   ratioPct,
		Recommendation: recommendations[tier],
	}
}

// TierForScore maps a credit score onto its risk tier.
func TierForScore(score int) riskprofile.Tier {
	switch {
	case score >= 800:
		return riskprofile.TierVeryLow
	case score >= 650:
		return riskprofile.TierLow
	case score >= 500:
		return riskprofile.TierMedium
	case score >= 350:
		return riskprofile.TierHigh
	default:
		return riskprofile.TierVeryHigh
	}
}
