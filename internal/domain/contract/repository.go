package contract

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c *LoanContract) error
	GetByID(ctx context.Context, id uint64) (*LoanContract, error)
	GetByContractID(ctx context.Context, contractID string) (*LoanContract, error)
	// Row-locked read; anchor for every payment/signing transaction.
	GetByContractIDForUpdate(ctx context.Context, contractID string) (*LoanContract, error)
	GetByLoanRequestID(ctx context.Context, loanRequestID uint64) (*LoanContract, error)
	Save(ctx context.Context, c *LoanContract) error
	CountCompletedByBorrower(ctx context.Context, borrowerID string) (int64, error)

	CreateInstallments(ctx context.Context, rows []*Installment) error
	GetInstallmentByID(ctx context.Context, installmentID string) (*Installment, error)
	ListInstallments(ctx context.Context, contractNumericID uint64) ([]*Installment, error)
	ListUnpaidInstallments(ctx context.Context, contractNumericID uint64) ([]*Installment, error)
	// Unpaid installments due on or before the given date, across all
	// contracts. Pool for the daily overdue sweep.
	ListUnpaidDueBefore(ctx context.Context, cutoff time.Time) ([]*Installment, error)
	CountUnpaidInstallments(ctx context.Context, contractNumericID uint64) (int64, error)
	SaveInstallment(ctx context.Context, i *Installment) error

	CreateTransaction(ctx context.Context, t *Transaction) error
	ListTransactions(ctx context.Context, contractNumericID uint64) ([]*Transaction, error)
}
