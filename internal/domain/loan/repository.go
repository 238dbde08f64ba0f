package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *LoanRequest) error
	GetByID(ctx context.Context, id uint64) (*LoanRequest, error)
	GetByRequestID(ctx context.Context, requestID string) (*LoanRequest, error)
	// Row-locked read for status transitions inside a transaction.
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*LoanRequest, error)
	GetPendingByBorrowerID(ctx context.Context, borrowerID string) (*LoanRequest, error)
	// Approved requests that have no contract yet, excluding the given
	// borrower. Pool for lender-to-loans matching.
	ListOpenForMatching(ctx context.Context, excludeBorrowerID string) ([]*LoanRequest, error)
	CountCompletedByBorrowerID(ctx context.Context, borrowerID string) (int64, error)
	Save(ctx context.Context, l *LoanRequest) error
}
