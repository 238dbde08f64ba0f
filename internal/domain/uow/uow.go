package uow

import (
	"context"

	"p2plending-backend/internal/domain/account"
	"p2plending-backend/internal/domain/contract"
	"p2plending-backend/internal/domain/dispute"
	"p2plending-backend/internal/domain/lender"
	"p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/riskprofile"
)

type Repos struct {
	Loans        loan.Repository
	Lenders      lender.Repository
	RiskProfiles riskprofile.Repository
	Contracts    contract.Repository
	Disputes     dispute.Repository
	Accounts     account.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the contract row first, then pass it in. Every
	// payment, payoff and signing mutation anchors on this lock so two
	// concurrent attempts on the same contract serialize.
	WithinContractTx(ctx context.Context, contractID string, fn func(r Repos, c *contract.LoanContract) error) error
}
