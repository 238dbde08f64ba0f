package riskscore

import (
	"context"
	"errors"
	"io"
	"testing"

	"p2plending-backend/internal/adapter/repository/mysql"
	"p2plending-backend/internal/collaborator"
	accountDomain "p2plending-backend/internal/domain/account"
	contractDomain "p2plending-backend/internal/domain/contract"
	riskDomain "p2plending-backend/internal/domain/riskprofile"
	"p2plending-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type verifierMock struct {
	VerifyFn func(ctx context.Context, userID string) (*collaborator.IdentityVerification, error)
}

func (m *verifierMock) Verify(ctx context.Context, userID string) (*collaborator.IdentityVerification, error) {
	return m.VerifyFn(ctx, userID)
}

type env struct {
	db       *gorm.DB
	accounts *mysql.AccountRepository
	profiles *mysql.RiskProfileRepository
}

func newEnv(t *testing.T, verifier collaborator.IdentityVerifier) (*Usecase, *env) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&accountDomain.Account{},
		&contractDomain.LoanContract{},
		&riskDomain.Profile{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	e := &env{
		db:       db,
		accounts: mysql.NewAccountRepository(db),
		profiles: mysql.NewRiskProfileRepository(db),
	}
	uc := NewUsecase(e.accounts, mysql.NewContractRepository(db), e.profiles, verifier, log)
	return uc, e
}

func (e *env) seedAccount(t *testing.T, userID string, kyc accountDomain.KYCStatus, income *float64) {
	t.Helper()
	if err := e.accounts.Create(context.Background(), &accountDomain.Account{
		UserID:        userID,
		WalletBalance: 1_000_000,
		KYCStatus:     kyc,
		MonthlyIncome: income,
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func (e *env) seedCompletedContract(t *testing.T, borrowerID string) {
	t.Helper()
	// loan_request_id carries a unique index; derive one from the row count.
	var n int64
	e.db.Model(&contractDomain.LoanContract{}).Count(&n)
	if err := e.db.Create(&contractDomain.LoanContract{
		ContractID:    id.NewID32(),
		LoanRequestID: uint64(n) + 1,
		BorrowerID:    borrowerID,
		LenderID:      "ld-1",
		Principal:     1_000_000,
		Status:        contractDomain.StatusCompleted,
	}).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}
}

func income(v float64) *float64 { return &v }

func TestAssess_UnknownUser(t *testing.T) {
	uc, _ := newEnv(t, nil)
	if _, err := uc.Assess(context.Background(), id.NewID32(), nil); !errors.Is(err, accountDomain.ErrNotFound) {
		t.Fatalf("got %v, want account.ErrNotFound", err)
	}
}

func TestAssess_PersistsAndOverwritesProfile(t *testing.T) {
	uc, e := newEnv(t, nil)
	ctx := context.Background()
	userID := id.NewID32()
	e.seedAccount(t, userID, accountDomain.KYCVerified, income(8_000_000))
	e.seedCompletedContract(t, userID)

	a, err := uc.Assess(ctx, userID, nil)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.CreditScore < 0 || a.CreditScore > 1000 {
		t.Fatalf("score out of range: %d", a.CreditScore)
	}
	if a.Factors.KYC != 100 {
		t.Fatalf("verified KYC factor = %v, want 100", a.Factors.KYC)
	}

	p, err := e.profiles.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("profile not persisted: %v", err)
	}
	if p.CreditScore != a.CreditScore || p.RiskLevel != a.RiskLevel {
		t.Fatalf("stored profile %+v does not match assessment %+v", p, a)
	}
	if p.FactorsJSON == "" {
		t.Fatalf("factor breakdown not stored")
	}

	// Second run overwrites the single row, never appends.
	if _, err := uc.Assess(ctx, userID, nil); err != nil {
		t.Fatalf("second Assess: %v", err)
	}
	var count int64
	e.db.Model(&riskDomain.Profile{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Fatalf("profile rows = %d, want 1", count)
	}
}

func TestAssess_VerifierRefreshesKYC(t *testing.T) {
	score := 93.5
	uc, e := newEnv(t, &verifierMock{
		VerifyFn: func(ctx context.Context, userID string) (*collaborator.IdentityVerification, error) {
			return &collaborator.IdentityVerification{Verified: true, MatchScore: &score}, nil
		},
	})
	ctx := context.Background()
	userID := id.NewID32()
	e.seedAccount(t, userID, accountDomain.KYCPending, income(5_000_000))

	a, err := uc.Assess(ctx, userID, nil)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Factors.KYC != 100 {
		t.Fatalf("refreshed KYC factor = %v, want 100", a.Factors.KYC)
	}

	acct, err := e.accounts.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if acct.KYCStatus != accountDomain.KYCVerified {
		t.Fatalf("kyc status = %s, want VERIFIED", acct.KYCStatus)
	}
	if acct.OCRMatchScore == nil || *acct.OCRMatchScore != 93.5 {
		t.Fatalf("ocr score = %v, want 93.5", acct.OCRMatchScore)
	}
}

func TestAssess_VerifierUnavailableUsesStoredFacts(t *testing.T) {
	uc, e := newEnv(t, &verifierMock{
		VerifyFn: func(ctx context.Context, userID string) (*collaborator.IdentityVerification, error) {
			return nil, collaborator.ErrUnavailable
		},
	})
	ctx := context.Background()
	userID := id.NewID32()
	e.seedAccount(t, userID, accountDomain.KYCPending, income(5_000_000))

	a, err := uc.Assess(ctx, userID, nil)
	if err != nil {
		t.Fatalf("Assess must not fail on an unavailable verifier: %v", err)
	}
	if a.Factors.KYC == 100 {
		t.Fatalf("pending KYC must not score as verified")
	}

	acct, _ := e.accounts.GetByUserID(ctx, userID)
	if acct.KYCStatus != accountDomain.KYCPending {
		t.Fatalf("stored kyc must be untouched, got %s", acct.KYCStatus)
	}
}
