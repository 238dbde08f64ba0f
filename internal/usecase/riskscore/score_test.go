package riskscore

import (
	"testing"

	"p2plending-backend/internal/domain/riskprofile"
)

func fp(v float64) *float64 { return &v }

func TestScore_Bounded(t *testing.T) {
	cases := []Facts{
		{},
		{KYCVerified: true, MonthlyIncome: fp(50_000_000), CompletedPastLoans: 20,
			RequestedMonthlyPayment: fp(1_000_000)},
		{OCRMatchScore: fp(0), MonthlyIncome: fp(1), CompletedPastLoans: 0,
			RequestedMonthlyPayment: fp(99)},
		{KYCVerified: true, CompletedPastLoans: 1000},
	}
	for i, f := range cases {
		a := Score(f)
		if a.CreditScore < 0 || a.CreditScore > 1000 {
			t.Errorf("case %d: score %d out of [0,1000]", i, a.CreditScore)
		}
		if a.Recommendation == "" {
			t.Errorf("case %d: empty recommendation", i)
		}
	}
}

func TestTierForScore_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  riskprofile.Tier
	}{
		{1000, riskprofile.TierVeryLow},
		{800, riskprofile.TierVeryLow},
		{799, riskprofile.TierLow},
		{650, riskprofile.TierLow},
		{649, riskprofile.TierMedium},
		{500, riskprofile.TierMedium},
		{499, riskprofile.TierHigh},
		{350, riskprofile.TierHigh},
		{349, riskprofile.TierVeryHigh},
		{0, riskprofile.TierVeryHigh},
	}
	for _, tc := range cases {
		if got := TierForScore(tc.score); got != tc.want {
			t.Errorf("score %d: tier %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestScore_BestCase(t *testing.T) {
	// KYC 100, income 100, history capped at 100, debt 100 ⇒ 1000.
	a := Score(Facts{
		KYCVerified:             true,
		MonthlyIncome:           fp(20_000_000),
		CompletedPastLoans:      4,
		RequestedMonthlyPayment: fp(5_000_000), // 25% of income
	})
	if a.CreditScore != 1000 {
		t.Fatalf("score = %d, want 1000", a.CreditScore)
	}
	if a.RiskLevel != riskprofile.TierVeryLow {
		t.Fatalf("tier = %s", a.RiskLevel)
	}
}

func TestScore_FactorDefaults(t *testing.T) {
	a := Score(Facts{}) // nothing known
	if a.Factors.KYC != 0 {
		t.Errorf("kyc factor = %v, want 0 (no OCR score)", a.Factors.KYC)
	}
	if a.Factors.IncomeStability != 0 {
		t.Errorf("income factor = %v, want 0 (absent income)", a.Factors.IncomeStability)
	}
	if a.Factors.LoanHistory != 50 {
		t.Errorf("history factor = %v, want 50 (new borrower)", a.Factors.LoanHistory)
	}
	if a.Factors.DebtRatio != 60 {
		t.Errorf("debt factor = %v, want 60 (no request context)", a.Factors.DebtRatio)
	}
	// 0·.30 + 0·.25 + 50·.20 + 60·.25 = 25 ⇒ 250
	if a.CreditScore != 250 {
		t.Errorf("score = %d, want 250", a.CreditScore)
	}
	if a.RiskLevel != riskprofile.TierVeryHigh {
		t.Errorf("tier = %s", a.RiskLevel)
	}
}

func TestScore_OCRFallbackWhenNotVerified(t *testing.T) {
	a := Score(Facts{OCRMatchScore: fp(72.5)})
	if a.Factors.KYC != 72.5 {
		t.Fatalf("kyc factor = %v, want OCR score 72.5", a.Factors.KYC)
	}
}

func TestScore_DebtRatioTiers(t *testing.T) {
	income := fp(10_000_000)
	cases := []struct {
		payment float64
		want    float64
	}{
		{3_000_000, 100}, // 30%
		{5_000_000, 70},  // 50%
		{7_000_000, 50},  // 70%
		{7_000_001, 30},  // just over
	}
	for _, tc := range cases {
		a := Score(Facts{MonthlyIncome: income, RequestedMonthlyPayment: fp(tc.payment)})
		if a.Factors.DebtRatio != tc.want {
			t.Errorf("payment %v: debt factor %v, want %v", tc.payment, a.Factors.DebtRatio, tc.want)
		}
	}
}

func TestScore_LoanHistoryCap(t *testing.T) {
	if a := Score(Facts{CompletedPastLoans: 2}); a.Factors.LoanHistory != 80 {
		t.Errorf("2 loans: history %v, want 80", a.Factors.LoanHistory)
	}
	if a := Score(Facts{CompletedPastLoans: 9}); a.Factors.LoanHistory != 100 {
		t.Errorf("9 loans: history %v, want 100 (capped)", a.Factors.LoanHistory)
	}
}
