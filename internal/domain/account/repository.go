package account

import "context"

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByUserID(ctx context.Context, userID string) (*Account, error)
	// Row-locked read for wallet mutations inside a transaction.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*Account, error)
	Save(ctx context.Context, a *Account) error
}
