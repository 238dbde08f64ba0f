package riskprofile

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// Upsert keeps the one-row-per-user invariant: insert on first run,
	// overwrite on every subsequent run.
	Upsert(ctx context.Context, p *Profile) error
}
