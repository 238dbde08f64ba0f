package mysql

import (
	"testing"
	"time"

	"p2plending-backend/internal/domain/account"
	"p2plending-backend/internal/domain/contract"
	"p2plending-backend/internal/domain/dispute"
	"p2plending-backend/internal/domain/lender"
	"p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/riskprofile"
	"p2plending-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB migrates every table so the UoW can orchestrate all repos.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&loan.LoanRequest{},
		&lender.LenderProfile{},
		&lender.MatchResult{},
		&riskprofile.Profile{},
		&contract.LoanContract{},
		&contract.Installment{},
		&contract.Transaction{},
		&dispute.Dispute{},
		&account.Account{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoanRequest(borrowerID string, status loan.Status) *loan.LoanRequest {
	return &loan.LoanRequest{
		RequestID:       id.NewID32(),
		BorrowerID:      borrowerID,
		Amount:          5_000_000,
		InterestRate:    12,
		DurationMonths:  12,
		Purpose:         "working capital",
		Status:          status,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func makeContract(loanRequestID uint64, borrowerID, lenderID string) *contract.LoanContract {
	return &contract.LoanContract{
		ContractID:     id.NewID32(),
		LoanRequestID:  loanRequestID,
		BorrowerID:     borrowerID,
		LenderID:       lenderID,
		Principal:      5_000_000,
		InterestRate:   12,
		DurationMonths: 12,
		TotalInterest:  600_000,
		TotalAmount:    5_600_000,
		Status:         contract.StatusActive,
	}
}
