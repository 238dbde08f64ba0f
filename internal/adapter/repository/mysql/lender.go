package mysql

import (
	"context"

	lenderDomain "p2plending-backend/internal/domain/lender"

	"gorm.io/gorm"
)

type LenderRepository struct{ db *gorm.DB }

func NewLenderRepository(db *gorm.DB) *LenderRepository { return &LenderRepository{db: db} }

func (r *LenderRepository) Create(ctx context.Context, p *lenderDomain.LenderProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *LenderRepository) Save(ctx context.Context, p *lenderDomain.LenderProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *LenderRepository) GetByUserID(ctx context.Context, userID string) (*lenderDomain.LenderProfile, error) {
	var out lenderDomain.LenderProfile
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *LenderRepository) ListActive(ctx context.Context, excludeUserID string) ([]*lenderDomain.LenderProfile, error) {
	var out []*lenderDomain.LenderProfile
	res := r.db.WithContext(ctx).
		Where("is_active = ? AND user_id <> ?", true, excludeUserID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LenderRepository) DeleteMatchesByLoanRequestID(ctx context.Context, loanRequestID uint64) error {
	return r.db.WithContext(ctx).
		Where("loan_request_id = ?", loanRequestID).
		Delete(&lenderDomain.MatchResult{}).Error
}

func (r *LenderRepository) DeleteMatchesByLenderUserID(ctx context.Context, lenderUserID string) error {
	return r.db.WithContext(ctx).
		Where("lender_user_id = ?", lenderUserID).
		Delete(&lenderDomain.MatchResult{}).Error
}

func (r *LenderRepository) CreateMatches(ctx context.Context, rows []*lenderDomain.MatchResult) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *LenderRepository) ListMatchesByLoanRequestID(ctx context.Context, loanRequestID uint64) ([]*lenderDomain.MatchResult, error) {
	var out []*lenderDomain.MatchResult
	res := r.db.WithContext(ctx).
		Where("loan_request_id = ?", loanRequestID).
		Order("match_score DESC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LenderRepository) ListMatchesByLenderUserID(ctx context.Context, lenderUserID string) ([]*lenderDomain.MatchResult, error) {
	var out []*lenderDomain.MatchResult
	res := r.db.WithContext(ctx).
		Where("lender_user_id = ?", lenderUserID).
		Order("match_score DESC, id ASC").
		Find(&out)
	return out, res.Error
}
