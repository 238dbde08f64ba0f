package mysql

import (
	"context"

	"p2plending-backend/internal/domain/contract"
	"p2plending-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:        &LoanRepository{db: tx},
		Lenders:      &LenderRepository{db: tx},
		RiskProfiles: &RiskProfileRepository{db: tx},
		Contracts:    &ContractRepository{db: tx},
		Disputes:     &DisputeRepository{db: tx},
		Accounts:     &AccountRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinContractTx(ctx context.Context, contractID string, fn func(r uow.Repos, c *contract.LoanContract) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the contract row up-front to prevent races
		c, err := r.Contracts.GetByContractIDForUpdate(ctx, contractID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}
