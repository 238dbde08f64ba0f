package loan

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	domain "p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/riskprofile"
	"p2plending-backend/internal/usecase/riskscore"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const borrowerID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

// mockRepo implements domain.Repository (only methods used by these tests).
type mockRepo struct {
	CreateFn                 func(ctx context.Context, l *domain.LoanRequest) error
	GetByRequestIDFn         func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	GetPendingByBorrowerIDFn func(ctx context.Context, borrowerID string) (*domain.LoanRequest, error)
	SaveFn                   func(ctx context.Context, l *domain.LoanRequest) error
}

func (m *mockRepo) Create(ctx context.Context, l *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRepo) GetByRequestID(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	return m.GetByRequestID(ctx, requestID)
}

func (m *mockRepo) GetPendingByBorrowerID(ctx context.Context, borrowerID string) (*domain.LoanRequest, error) {
	if m.GetPendingByBorrowerIDFn != nil {
		return m.GetPendingByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepo) ListOpenForMatching(ctx context.Context, excludeBorrowerID string) ([]*domain.LoanRequest, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRepo) CountCompletedByBorrowerID(ctx context.Context, borrowerID string) (int64, error) {
	return 0, nil
}

func (m *mockRepo) Save(ctx context.Context, l *domain.LoanRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

type mockScorer struct {
	AssessFn func(ctx context.Context, userID string, req *domain.LoanRequest) (*riskscore.Assessment, error)
}

func (m *mockScorer) Assess(ctx context.Context, userID string, req *domain.LoanRequest) (*riskscore.Assessment, error) {
	return m.AssessFn(ctx, userID, req)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCreate_Success_NoPendingRequest(t *testing.T) {
	uc := NewUsecase(&mockRepo{
		GetPendingByBorrowerIDFn: func(ctx context.Context, borrowerID string) (*domain.LoanRequest, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, l *domain.LoanRequest) error {
			if l.CreatedAt.IsZero() {
				l.CreatedAt = time.Now().UTC()
			}
			return nil
		},
	}, nil, quietLogger())

	dto, err := uc.Create(context.Background(), CreateLoanInput{
		BorrowerID:     borrowerID,
		Amount:         5_000_000,
		InterestRate:   12,
		DurationMonths: 12,
		Purpose:        "equipment",
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if len(dto.RequestID) != 32 {
		t.Fatalf("RequestID length: %d", len(dto.RequestID))
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status=%s", dto.Status)
	}
}

func TestCreate_Rejects_WhenPendingExists(t *testing.T) {
	uc := NewUsecase(&mockRepo{
		GetPendingByBorrowerIDFn: func(ctx context.Context, id string) (*domain.LoanRequest, error) {
			return &domain.LoanRequest{
				RequestID:  "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				BorrowerID: id,
				Status:     domain.StatusPending,
			}, nil
		},
		CreateFn: func(ctx context.Context, l *domain.LoanRequest) error {
			t.Fatalf("Create must not be called when a pending request exists")
			return nil
		},
	}, nil, quietLogger())

	_, err := uc.Create(context.Background(), CreateLoanInput{
		BorrowerID:     borrowerID,
		Amount:         7_000_000,
		InterestRate:   10,
		DurationMonths: 6,
	})
	if !errors.Is(err, domain.ErrPendingExists) {
		t.Fatalf("expected ErrPendingExists, got %v", err)
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	uc := NewUsecase(&mockRepo{}, nil, quietLogger())
	cases := []CreateLoanInput{
		{BorrowerID: "short", Amount: 1_000_000, InterestRate: 12, DurationMonths: 12},
		{BorrowerID: borrowerID, Amount: 0, InterestRate: 12, DurationMonths: 12},
		{BorrowerID: borrowerID, Amount: 1_000_000, InterestRate: 0, DurationMonths: 12},
		{BorrowerID: borrowerID, Amount: 1_000_000, InterestRate: 12, DurationMonths: 0},
	}
	for i, in := range cases {
		if _, err := uc.Create(context.Background(), in); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}

func TestScoreAndRoute_Approves(t *testing.T) {
	const requestID = "cccccccccccccccccccccccccccccccc"
	var saved *domain.LoanRequest
	uc := NewUsecase(&mockRepo{
		GetByRequestIDFn: func(ctx context.Context, id string) (*domain.LoanRequest, error) {
			return &domain.LoanRequest{
				RequestID: requestID, BorrowerID: borrowerID,
				Amount: 5_000_000, InterestRate: 12, DurationMonths: 12,
				Status: domain.StatusPending,
			}, nil
		},
		SaveFn: func(ctx context.Context, l *domain.LoanRequest) error {
			saved = l
			return nil
		},
	}, &mockScorer{
		AssessFn: func(ctx context.Context, userID string, req *domain.LoanRequest) (*riskscore.Assessment, error) {
			return &riskscore.Assessment{
				CreditScore: 720, RiskLevel: riskprofile.TierLow,
				Recommendation: "approve with standard terms",
			}, nil
		},
	}, quietLogger())

	res, err := uc.ScoreAndRoute(context.Background(), requestID)
	if err != nil {
		t.Fatalf("ScoreAndRoute: %v", err)
	}
	if res.Status != string(domain.StatusApproved) || res.CreditScore != 720 {
		t.Fatalf("result %+v", res)
	}
	if saved == nil || saved.Status != domain.StatusApproved {
		t.Fatalf("saved request %+v", saved)
	}
}

func TestScoreAndRoute_RejectsVeryHigh(t *testing.T) {
	const requestID = "cccccccccccccccccccccccccccccccc"
	uc := NewUsecase(&mockRepo{
		GetByRequestIDFn: func(ctx context.Context, id string) (*domain.LoanRequest, error) {
			return &domain.LoanRequest{
				RequestID: requestID, BorrowerID: borrowerID,
				Amount: 5_000_000, InterestRate: 12, DurationMonths: 12,
				Status: domain.StatusPending,
			}, nil
		},
	}, &mockScorer{
		AssessFn: func(ctx context.Context, userID string, req *domain.LoanRequest) (*riskscore.Assessment, error) {
			return &riskscore.Assessment{
				CreditScore: 200, RiskLevel: riskprofile.TierVeryHigh,
				Recommendation: "decline",
			}, nil
		},
	}, quietLogger())

	res, err := uc.ScoreAndRoute(context.Background(), requestID)
	if err != nil {
		t.Fatalf("ScoreAndRoute: %v", err)
	}
	if res.Status != string(domain.StatusRejected) {
		t.Fatalf("status=%s", res.Status)
	}
}

func TestScoreAndRoute_OnlyPending(t *testing.T) {
	uc := NewUsecase(&mockRepo{
		GetByRequestIDFn: func(ctx context.Context, id string) (*domain.LoanRequest, error) {
			return &domain.LoanRequest{RequestID: id, Status: domain.StatusApproved}, nil
		},
	}, &mockScorer{
		AssessFn: func(ctx context.Context, userID string, req *domain.LoanRequest) (*riskscore.Assessment, error) {
			t.Fatalf("scorer must not run on a non-pending request")
			return nil, nil
		},
	}, quietLogger())

	_, err := uc.ScoreAndRoute(context.Background(), "cccccccccccccccccccccccccccccccc")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
