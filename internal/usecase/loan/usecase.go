package loan

import (
	"context"
	"errors"
	"time"

	"p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/riskprofile"
	"p2plending-backend/internal/usecase/riskscore"
	"p2plending-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Scorer produces the borrower risk assessment used for routing. Satisfied by
// the riskscore usecase.
type Scorer interface {
	Assess(ctx context.Context, userID string, req *loan.LoanRequest) (*riskscore.Assessment, error)
}

type Usecase struct {
	repo   loan.Repository
	scorer Scorer
	log    *logrus.Logger
}

func NewUsecase(r loan.Repository, scorer Scorer, log *logrus.Logger) *Usecase {
	return &Usecase{repo: r, scorer: scorer, log: log}
}

type CreateLoanInput struct {
	BorrowerID     string  `json:"borrower_id"`
	Amount         float64 `json:"amount"`
	InterestRate   float64 `json:"interest_rate"`
	DurationMonths int     `json:"duration_months"`
	Purpose        string  `json:"purpose"`
}

type LoanDTO struct {
	RequestID       string    `json:"request_id"`
	BorrowerID      string    `json:"borrower_id"`
	Amount          float64   `json:"amount"`
	InterestRate    float64   `json:"interest_rate"`
	DurationMonths  int       `json:"duration_months"`
	Purpose         string    `json:"purpose"`
	Status          string    `json:"status"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// RouteResult is the outcome of scoring a pending request.
type RouteResult struct {
	RequestID      string           `json:"request_id"`
	CreditScore    int              `json:"credit_score"`
	RiskLevel      riskprofile.Tier `json:"risk_level"`
	Status         string           `json:"status"`
	Recommendation string           `json:"recommendation"`
}

func toDTO(l *loan.LoanRequest) *LoanDTO {
	return &LoanDTO{
		RequestID:       l.RequestID,
		BorrowerID:      l.BorrowerID,
		Amount:          l.Amount,
		InterestRate:    l.InterestRate,
		DurationMonths:  l.DurationMonths,
		Purpose:         l.Purpose,
		Status:          string(l.Status),
		StatusUpdatedAt: l.StatusUpdatedAt,
		CreatedAt:       l.CreatedAt,
	}
}

// Create opens a PENDING request. A borrower holds at most one pending
// request at a time.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if len(in.BorrowerID) != 32 || in.Amount <= 0 || in.InterestRate <= 0 || in.DurationMonths <= 0 {
		return nil, loan.ErrInvalidArgument
	}

	_, err := u.repo.GetPendingByBorrowerID(ctx, in.BorrowerID)
	switch {
	case err == nil:
		return nil, loan.ErrPendingExists
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	l := &loan.LoanRequest{
		RequestID:       id.NewID32(),
		BorrowerID:      in.BorrowerID,
		Amount:          in.Amount,
		InterestRate:    in.InterestRate,
		DurationMonths:  in.DurationMonths,
		Purpose:         in.Purpose,
		Status:          loan.StatusPending,
		StatusUpdatedAt: time.Now().UTC(),
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"request_id":  l.RequestID,
		"borrower_id": l.BorrowerID,
		"amount":      l.Amount,
	}).Info("loan request created")
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, requestID string) (*LoanDTO, error) {
	l, err := u.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

// ScoreAndRoute scores a PENDING request and routes it: every tier except
// VERY_HIGH is approved. Scoring a request twice is rejected by the status
// guard.
func (u *Usecase) ScoreAndRoute(ctx context.Context, requestID string) (*RouteResult, error) {
	l, err := u.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	if l.Status != loan.StatusPending {
		return nil, loan.ErrInvalidTransition
	}

	a, err := u.scorer.Assess(ctx, l.BorrowerID, l)
	if err != nil {
		return nil, err
	}

	l.Status = loan.StatusApproved
	if a.RiskLevel == riskprofile.TierVeryHigh {
		l.Status = loan.StatusRejected
	}
	l.StatusUpdatedAt = time.Now().UTC()
	if err := u.repo.Save(ctx, l); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"credit_score": a.CreditScore,
		"risk_level":   a.RiskLevel,
		"status":       l.Status,
	}).Info("loan request routed")
	return &RouteResult{
		RequestID:      requestID,
		CreditScore:    a.CreditScore,
		RiskLevel:      a.RiskLevel,
		Status:         string(l.Status),
		Recommendation: a.Recommendation,
	}, nil
}
