package mysql

import (
	"context"

	loanDomain "p2plending-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

func (r *LoanRepository) GetByRequestID(ctx context.Context, requestID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := forUpdate(r.db.WithContext(ctx)).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetPendingByBorrowerID(ctx context.Context, borrowerID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND status = ?", borrowerID, loanDomain.StatusPending).
		Order("status_updated_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListOpenForMatching(ctx context.Context, excludeBorrowerID string) ([]*loanDomain.LoanRequest, error) {
	var out []*loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("status = ? AND borrower_id <> ?", loanDomain.StatusApproved, excludeBorrowerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) CountCompletedByBorrowerID(ctx context.Context, borrowerID string) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&loanDomain.LoanRequest{}).
		Where("borrower_id = ? AND status = ?", borrowerID, loanDomain.StatusCompleted).
		Count(&n)
	return n, res.Error
}
