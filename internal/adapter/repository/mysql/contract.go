package mysql

import (
	"context"
	"time"

	contractDomain "p2plending-backend/internal/domain/contract"

	"gorm.io/gorm"
)

type ContractRepository struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) *ContractRepository { return &ContractRepository{db: db} }

func (r *ContractRepository) Create(ctx context.Context, c *contractDomain.LoanContract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) Save(ctx context.Context, c *contractDomain.LoanContract) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uint64) (*contractDomain.LoanContract, error) {
	var out contractDomain.LoanContract
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

func (r *ContractRepository) GetByContractID(ctx context.Context, contractID string) (*contractDomain.LoanContract, error) {
	var out contractDomain.LoanContract
	res := r.db.WithContext(ctx).Where("contract_id = ?", contractID).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) GetByContractIDForUpdate(ctx context.Context, contractID string) (*contractDomain.LoanContract, error) {
	var out contractDomain.LoanContract
	res := forUpdate(r.db.WithContext(ctx)).Where("contract_id = ?", contractID).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) GetByLoanRequestID(ctx context.Context, loanRequestID uint64) (*contractDomain.LoanContract, error) {
	var out contractDomain.LoanContract
	res := r.db.WithContext(ctx).Where("loan_request_id = ?", loanRequestID).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) CountCompletedByBorrower(ctx context.Context, borrowerID string) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&contractDomain.LoanContract{}).
		Where("borrower_id = ? AND status = ?", borrowerID, contractDomain.StatusCompleted).
		Count(&n)
	return n, res.Error
}

func (r *ContractRepository) CreateInstallments(ctx context.Context, rows []*contractDomain.Installment) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *ContractRepository) GetInstallmentByID(ctx context.Context, installmentID string) (*contractDomain.Installment, error) {
	var out contractDomain.Installment
	res := r.db.WithContext(ctx).Where("installment_id = ?", installmentID).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) ListInstallments(ctx context.Context, contractNumericID uint64) ([]*contractDomain.Installment, error) {
	var out []*contractDomain.Installment
	res := r.db.WithContext(ctx).
		Where("contract_id = ?", contractNumericID).
		Order("installment_number ASC").
		Find(&out)
	return out, res.Error
}

func (r *ContractRepository) ListUnpaidInstallments(ctx context.Context, contractNumericID uint64) ([]*contractDomain.Installment, error) {
	var out []*contractDomain.Installment
	res := r.db.WithContext(ctx).
		Where("contract_id = ? AND status <> ?", contractNumericID, contractDomain.InstallmentPaid).
		Order("installment_number ASC").
		Find(&out)
	return out, res.Error
}

func (r *ContractRepository) ListUnpaidDueBefore(ctx context.Context, cutoff time.Time) ([]*contractDomain.Installment, error) {
	var out []*contractDomain.Installment
	res := r.db.WithContext(ctx).
		Where("status <> ? AND due_date < ?", contractDomain.InstallmentPaid, cutoff).
		Order("due_date ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ContractRepository) CountUnpaidInstallments(ctx context.Context, contractNumericID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&contractDomain.Installment{}).
		Where("contract_id = ? AND status <> ?", contractNumericID, contractDomain.InstallmentPaid).
		Count(&n)
	return n, res.Error
}

func (r *ContractRepository) SaveInstallment(ctx context.Context, i *contractDomain.Installment) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *ContractRepository) CreateTransaction(ctx context.Context, t *contractDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ContractRepository) ListTransactions(ctx context.Context, contractNumericID uint64) ([]*contractDomain.Transaction, error) {
	var out []*contractDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("contract_id = ?", contractNumericID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
