package riskscore

import (
	"context"
	"encoding/json"
	"errors"

	"p2plending-backend/internal/collaborator"
	"p2plending-backend/internal/domain/account"
	"p2plending-backend/internal/domain/contract"
	"p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/riskprofile"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	accounts  account.Repository
	contracts contract.Repository
	profiles  riskprofile.Repository
	verifier  collaborator.IdentityVerifier // optional
	log       *logrus.Logger
}

func NewUsecase(accounts account.Repository, contracts contract.Repository,
	profiles riskprofile.Repository, verifier collaborator.IdentityVerifier,
	log *logrus.Logger) *Usecase {
	return &Usecase{accounts: accounts, contracts: contracts, profiles: profiles,
		verifier: verifier, log: log}
}

// Assess gathers the borrower's facts, scores them, and overwrites the single
// risk profile row for that user. The identity collaborator may refresh the
// stored KYC verdict first; if it is unavailable the stored facts stand and
// scoring proceeds.
func (u *Usecase) Assess(ctx context.Context, userID string, req *loan.LoanRequest) (*Assessment, error) {
	acct, err := u.accounts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrNotFound
		}
		return nil, err
	}

	if u.verifier != nil && acct.KYCStatus != account.KYCVerified {
		v, verr := u.verifier.Verify(ctx, userID)
		switch {
		case verr == nil:
			if v.Verified {
				acct.KYCStatus = account.KYCVerified
			} else {
				acct.KYCStatus = account.KYCRejected
			}
			acct.OCRMatchScore = v.MatchScore
			if err := u.accounts.Save(ctx, acct); err != nil {
				return nil, err
			}
		case errors.Is(verr, collaborator.ErrUnavailable):
			u.log.WithField("user_id", userID).Warn("identity verifier unavailable, scoring with stored KYC facts")
		default:
			return nil, verr
		}
	}

	completed, err := u.contracts.CountCompletedByBorrower(ctx, userID)
	if err != nil {
		return nil, err
	}

	facts := Facts{
		KYCVerified:        acct.KYCStatus == account.KYCVerified,
		OCRMatchScore:      acct.OCRMatchScore,
		MonthlyIncome:      acct.MonthlyIncome,
		CompletedPastLoans: int(completed),
	}
	if req != nil && req.DurationMonths > 0 {
		monthly := req.Amount / float64(req.DurationMonths)
		facts.RequestedMonthlyPayment = &monthly
	}

	a := Score(facts)

	breakdown, _ := json.Marshal(map[string]any{
		"factors": a.Factors,
		"weights": map[string]float64{
			"kyc_verified":     weightKYC,
			"income_stability": weightIncome,
			"loan_history":     weightHistory,
			"debt_ratio":       weightDebt,
		},
	})
	p := &riskprofile.Profile{
		UserID:              userID,
		CreditScore:         a.CreditScore,
		RiskLevel:           a.RiskLevel,
		IncomeStability:     a.Factors.IncomeStability,
		DebtToIncomeRatio:   a.DebtRatioPct,
		PaymentHistoryScore: a.Factors.LoanHistory,
		FactorsJSON:         string(breakdown),
	}
	if err := u.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"credit_score": a.CreditScore,
		"risk_level":   a.RiskLevel,
	}).Info("borrower risk profile updated")
	return &a, nil
}
