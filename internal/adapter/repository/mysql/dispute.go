package mysql

import (
	"context"

	disputeDomain "p2plending-backend/internal/domain/dispute"

	"gorm.io/gorm"
)

type DisputeRepository struct{ db *gorm.DB }

func NewDisputeRepository(db *gorm.DB) *DisputeRepository { return &DisputeRepository{db: db} }

func (r *DisputeRepository) Create(ctx context.Context, d *disputeDomain.Dispute) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DisputeRepository) Save(ctx context.Context, d *disputeDomain.Dispute) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DisputeRepository) GetByDisputeID(ctx context.Context, disputeID string) (*disputeDomain.Dispute, error) {
	var out disputeDomain.Dispute
	res := r.db.WithContext(ctx).Where("dispute_id = ?", disputeID).First(&out)
	return &out, res.Error
}

func (r *DisputeRepository) ListByContractID(ctx context.Context, contractNumericID uint64) ([]*disputeDomain.Dispute, error) {
	var out []*disputeDomain.Dispute
	res := r.db.WithContext(ctx).
		Where("contract_id = ?", contractNumericID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
