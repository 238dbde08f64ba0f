package lender

import "context"

type Repository interface {
	Create(ctx context.Context, p *LenderProfile) error
	GetByUserID(ctx context.Context, userID string) (*LenderProfile, error)
	// Active profiles excluding the given user (a borrower cannot fund
	// their own request).
	ListActive(ctx context.Context, excludeUserID string) ([]*LenderProfile, error)
	Save(ctx context.Context, p *LenderProfile) error

	// Match result replacement; delete and insert belong in one transaction.
	DeleteMatchesByLoanRequestID(ctx context.Context, loanRequestID uint64) error
	DeleteMatchesByLenderUserID(ctx context.Context, lenderUserID string) error
	CreateMatches(ctx context.Context, rows []*MatchResult) error
	ListMatchesByLoanRequestID(ctx context.Context, loanRequestID uint64) ([]*MatchResult, error)
	ListMatchesByLenderUserID(ctx context.Context, lenderUserID string) ([]*MatchResult, error)
}
