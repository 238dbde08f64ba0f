package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	contractDomain "p2plending-backend/internal/domain/contract"
	loanDomain "p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/uow"

	"gorm.io/gorm"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	contractRepo := NewContractRepository(db)

	var requestID, contractID string
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoanRequest("br-commit", loanDomain.StatusApproved)
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.ID == 0 {
			t.Fatalf("loan auto ID not set")
		}
		c := makeContract(l.ID, l.BorrowerID, "ld-commit")
		requestID, contractID = l.RequestID, c.ContractID
		return r.Contracts.Create(ctx, c)
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := loanRepo.GetByRequestID(ctx, requestID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := contractRepo.GetByContractID(ctx, contractID); err != nil {
		t.Fatalf("contract not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	sentinel := errors.New("boom")
	var requestID string

	_ = guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoanRequest("br-roll", loanDomain.StatusPending)
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		requestID = l.RequestID
		return sentinel // force rollback
	})

	if _, err := loanRepo.GetByRequestID(ctx, requestID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinContractTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	contractRepo := NewContractRepository(db)

	seed := makeLoanRequest("br-lock", loanDomain.StatusFunded)
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	host := makeContract(seed.ID, seed.BorrowerID, "ld-lock")
	if err := contractRepo.Create(ctx, host); err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	if err := guow.WithinContractTx(ctx, host.ContractID, func(r uow.Repos, c *contractDomain.LoanContract) error {
		if c == nil || c.ContractID != host.ContractID || c.Status != contractDomain.StatusActive {
			t.Fatalf("unexpected contract passed to fn: %+v", c)
		}
		c.Status = contractDomain.StatusCompleted
		return r.Contracts.Save(ctx, c)
	}); err != nil {
		t.Fatalf("WithinContractTx commit err: %v", err)
	}

	got, err := contractRepo.GetByContractID(ctx, host.ContractID)
	if err != nil {
		t.Fatalf("GetByContractID post-commit: %v", err)
	}
	if got.Status != contractDomain.StatusCompleted {
		t.Fatalf("contract status not updated, got=%s", got.Status)
	}
}

func TestGormUoW_WithinContractTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	contractRepo := NewContractRepository(db)

	seed := makeLoanRequest("br-rb", loanDomain.StatusFunded)
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	host := makeContract(seed.ID, seed.BorrowerID, "ld-rb")
	if err := contractRepo.Create(ctx, host); err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinContractTx(ctx, host.ContractID, func(r uow.Repos, c *contractDomain.LoanContract) error {
		c.Status = contractDomain.StatusDefaulted
		if err := r.Contracts.Save(ctx, c); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	got, err := contractRepo.GetByContractID(ctx, host.ContractID)
	if err != nil {
		t.Fatalf("post-rollback GetByContractID: %v", err)
	}
	if got.Status != contractDomain.StatusActive {
		t.Fatalf("expected ACTIVE after rollback, got %s", got.Status)
	}
}

func TestGormUoW_WithinContractTx_NotFound(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	err := guow.WithinContractTx(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef",
		func(r uow.Repos, c *contractDomain.LoanContract) error {
			t.Fatalf("callback should not be called when contract missing")
			return nil
		})
	if err == nil {
		t.Fatalf("expected error when contract not found")
	}
}

func TestLoanRepository_PendingLookupPicksNewest(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewLoanRepository(db)

	older := makeLoanRequest("br-pending", loanDomain.StatusPending)
	older.StatusUpdatedAt = time.Now().UTC().Add(-2 * time.Hour)
	newer := makeLoanRequest("br-pending", loanDomain.StatusPending)
	for _, l := range []*loanDomain.LoanRequest{older, newer} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := repo.GetPendingByBorrowerID(ctx, "br-pending")
	if err != nil {
		t.Fatalf("GetPendingByBorrowerID: %v", err)
	}
	if got.RequestID != newer.RequestID {
		t.Fatalf("expected newest pending request, got %s", got.RequestID)
	}
}

func TestLoanRepository_ListOpenForMatching(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewLoanRepository(db)

	approved := makeLoanRequest("br-open", loanDomain.StatusApproved)
	pending := makeLoanRequest("br-open", loanDomain.StatusPending)
	own := makeLoanRequest("me", loanDomain.StatusApproved)
	for _, l := range []*loanDomain.LoanRequest{approved, pending, own} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := repo.ListOpenForMatching(ctx, "me")
	if err != nil {
		t.Fatalf("ListOpenForMatching: %v", err)
	}
	if len(got) != 1 || got[0].RequestID != approved.RequestID {
		t.Fatalf("expected only the approved foreign request, got %d rows", len(got))
	}
}
