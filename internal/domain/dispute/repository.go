package dispute

import "context"

type Repository interface {
	Create(ctx context.Context, d *Dispute) error
	GetByDisputeID(ctx context.Context, disputeID string) (*Dispute, error)
	ListByContractID(ctx context.Context, contractNumericID uint64) ([]*Dispute, error)
	Save(ctx context.Context, d *Dispute) error
}
