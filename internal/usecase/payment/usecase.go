package payment

import (
	"context"
	"errors"
	"math"
	"time"

	"p2plending-backend/internal/config"
	"p2plending-backend/internal/domain/account"
	"p2plending-backend/internal/domain/contract"
	"p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/uow"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// Payment does not cover the installment total plus accrued late fee.
	// State is left untouched.
	ErrInsufficientPayment = errors.New("payment does not cover amount due")
	ErrNotBorrower         = errors.New("payer is not the contract borrower")
)

type Usecase struct {
	uow uow.UnitOfWork
	cfg *config.Config
	log *logrus.Logger
}

func NewUsecase(tx uow.UnitOfWork, cfg *config.Config, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, cfg: cfg, log: log}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

type ProcessPaymentInput struct {
	InstallmentID string
	PayerID       string
	Amount        float64
	Today         time.Time
}

type PaymentResult struct {
	TransactionRef        string  `json:"transaction_ref"`
	AmountPaid            float64 `json:"amount_paid"`
	Principal             float64 `json:"principal"`
	Interest              float64 `json:"interest"`
	LateFee               float64 `json:"late_fee"`
	LateDays              int     `json:"late_days"`
	RemainingInstallments int64   `json:"remaining_installments"`
	ContractStatus        string  `json:"contract_status"`
}

// ProcessPayment settles one installment. The contract row is locked for the
// whole transaction, so a second attempt on the same installment observes the
// PAID row and fails with contract.ErrAlreadyPaid; wallet movement and the
// status flip commit or roll back together.
func (u *Usecase) ProcessPayment(ctx context.Context, in ProcessPaymentInput) (*PaymentResult, error) {
	host, err := u.contractOf(ctx, in.InstallmentID)
	if err != nil {
		return nil, err
	}

	var res *PaymentResult
	err = u.uow.WithinContractTx(ctx, host.ContractID, func(r uow.Repos, c *contract.LoanContract) error {
		inst, err := r.Contracts.GetInstallmentByID(ctx, in.InstallmentID)
		if err != nil {
			return contract.ErrInstallmentNotFound
		}
		if inst.Status == contract.InstallmentPaid {
			return contract.ErrAlreadyPaid
		}
		if in.PayerID != c.BorrowerID {
			return ErrNotBorrower
		}

		cls := Classify(inst, in.Today, u.cfg.LateFeeDailyRate, u.cfg.LateFeeCap)
		totalDue := round2(inst.TotalAmount + cls.LateFee)
		if in.Amount < totalDue {
			return ErrInsufficientPayment
		}

		if err := u.transfer(ctx, r, c.BorrowerID, c.LenderID, totalDue, inst.TotalAmount); err != nil {
			return err
		}

		tx := &contract.Transaction{
			TransactionRef: uuid.NewString(),
			ContractID:     c.ID,
			InstallmentID:  &inst.ID,
			PayerID:        c.BorrowerID,
			RecipientID:    c.LenderID,
			Amount:         totalDue,
			Type:           contract.TxInstallment,
			LateFee:        cls.LateFee,
			LateDays:       cls.LateDays,
		}
		if err := r.Contracts.CreateTransaction(ctx, tx); err != nil {
			return err
		}

		paidDate := dateOf(in.Today)
		inst.Status = contract.InstallmentPaid
		inst.PaidAmount = &totalDue
		inst.PaidDate = &paidDate
		inst.LateFee = cls.LateFee // frozen at payment time
		inst.LateDays = cls.LateDays
		if err := r.Contracts.SaveInstallment(ctx, inst); err != nil {
			return err
		}

		remaining, err := r.Contracts.CountUnpaidInstallments(ctx, c.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := u.complete(ctx, r, c); err != nil {
				return err
			}
		}

		res = &PaymentResult{
			TransactionRef:        tx.TransactionRef,
			AmountPaid:            totalDue,
			Principal:             inst.PrincipalAmount,
			Interest:              inst.InterestAmount,
			LateFee:               cls.LateFee,
			LateDays:              cls.LateDays,
			RemainingInstallments: remaining,
			ContractStatus:        string(c.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"installment_id": in.InstallmentID,
		"amount":         res.AmountPaid,
		"late_days":      res.LateDays,
	}).Info("installment paid")
	return res, nil
}

// PayoffQuote is the settle-now offer: remaining principal, half the
// unaccrued interest, plus any late fees already owed.
type PayoffQuote struct {
	PrincipalRemaining float64 `json:"principal_remaining"`
	InterestRemaining  float64 `json:"interest_remaining"`
	DiscountedInterest float64 `json:"discounted_interest"`
	LateFees           float64 `json:"late_fees"`
	TotalPayoff        float64 `json:"total_payoff"`
	Savings            float64 `json:"savings"`
}

// EarlyPayoffQuote prices settling all unpaid installments today. Read-only.
func (u *Usecase) EarlyPayoffQuote(ctx context.Context, contractID string, today time.Time) (*PayoffQuote, error) {
	var q *PayoffQuote
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Contracts.GetByContractID(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contract.ErrNotFound
			}
			return err
		}
		unpaid, err := r.Contracts.ListUnpaidInstallments(ctx, c.ID)
		if err != nil {
			return err
		}
		q = u.quote(unpaid, today)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (u *Usecase) quote(unpaid []*contract.Installment, today time.Time) *PayoffQuote {
	q := &PayoffQuote{}
	for _, inst := range unpaid {
		q.PrincipalRemaining = round2(q.PrincipalRemaining + inst.PrincipalAmount)
		q.InterestRemaining = round2(q.InterestRemaining + inst.InterestAmount)
		cls := Classify(inst, today, u.cfg.LateFeeDailyRate, u.cfg.LateFeeCap)
		if cls.State == StateOverdue {
			q.LateFees = round2(q.LateFees + cls.LateFee)
		}
	}
	q.DiscountedInterest = round2(q.InterestRemaining * 0.5)
	q.Savings = round2(q.InterestRemaining - q.DiscountedInterest)
	q.TotalPayoff = round2(q.PrincipalRemaining + q.DiscountedInterest + q.LateFees)
	return q
}

// AcceptEarlyPayoff executes the quote: every unpaid installment is marked
// PAID with a note, one EARLY_PAYOFF ledger entry is written, and contract
// plus loan request complete — all in the contract-locked transaction.
func (u *Usecase) AcceptEarlyPayoff(ctx context.Context, contractID, payerID string, today time.Time) (*PayoffQuote, error) {
	var q *PayoffQuote
	err := u.uow.WithinContractTx(ctx, contractID, func(r uow.Repos, c *contract.LoanContract) error {
		if c.Status != contract.StatusActive {
			return contract.ErrInvalidTransition
		}
		if payerID != c.BorrowerID {
			return ErrNotBorrower
		}
		unpaid, err := r.Contracts.ListUnpaidInstallments(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(unpaid) == 0 {
			return contract.ErrAlreadyPaid
		}
		q = u.quote(unpaid, today)

		lenderShare := round2(q.PrincipalRemaining + q.DiscountedInterest)
		if err := u.transfer(ctx, r, c.BorrowerID, c.LenderID, q.TotalPayoff, lenderShare); err != nil {
			return err
		}

		tx := &contract.Transaction{
			TransactionRef: uuid.NewString(),
			ContractID:     c.ID,
			PayerID:        c.BorrowerID,
			RecipientID:    c.LenderID,
			Amount:         q.TotalPayoff,
			Type:           contract.TxEarlyPayoff,
			LateFee:        q.LateFees,
			Note:           "early payoff with 50% discount on remaining interest",
		}
		if err := r.Contracts.CreateTransaction(ctx, tx); err != nil {
			return err
		}

		paidDate := dateOf(today)
		for _, inst := range unpaid {
			cls := Classify(inst, today, u.cfg.LateFeeDailyRate, u.cfg.LateFeeCap)
			inst.Status = contract.InstallmentPaid
			inst.PaidDate = &paidDate
			inst.Note = "settled by early payoff"
			if cls.State == StateOverdue {
				inst.LateFee = cls.LateFee
				inst.LateDays = cls.LateDays
			}
			if err := r.Contracts.SaveInstallment(ctx, inst); err != nil {
				return err
			}
		}
		return u.complete(ctx, r, c)
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"contract_id": contractID,
		"payoff":      q.TotalPayoff,
		"savings":     q.Savings,
	}).Info("early payoff accepted")
	return q, nil
}

// SweepOverdue marks unpaid installments past due as OVERDUE with their
// current late days/fee. Deterministic for a given date, so re-running the
// daily batch is harmless.
func (u *Usecase) SweepOverdue(ctx context.Context, today time.Time) (int, error) {
	swept := 0
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		due, err := r.Contracts.ListUnpaidDueBefore(ctx, dateOf(today))
		if err != nil {
			return err
		}
		for _, inst := range due {
			cls := Classify(inst, today, u.cfg.LateFeeDailyRate, u.cfg.LateFeeCap)
			if cls.State != StateOverdue {
				continue
			}
			if inst.Status == contract.InstallmentOverdue &&
				inst.LateDays == cls.LateDays && inst.LateFee == cls.LateFee {
				continue // already swept today
			}
			inst.Status = contract.InstallmentOverdue
			inst.LateDays = cls.LateDays
			inst.LateFee = cls.LateFee
			if err := r.Contracts.SaveInstallment(ctx, inst); err != nil {
				return err
			}
			swept++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	u.log.WithField("marked_overdue", swept).Info("overdue sweep finished")
	return swept, nil
}

// transfer moves totalDue out of the payer wallet and credits the recipient
// with recipientShare (late fees stay with the platform). Both rows are
// locked; insufficient balance aborts the whole transaction.
func (u *Usecase) transfer(ctx context.Context, r uow.Repos, payerID, recipientID string, totalDue, recipientShare float64) error {
	payer, err := r.Accounts.GetByUserIDForUpdate(ctx, payerID)
	if err != nil {
		return account.ErrNotFound
	}
	if payer.WalletBalance < totalDue {
		return account.ErrInsufficientFunds
	}
	recipient, err := r.Accounts.GetByUserIDForUpdate(ctx, recipientID)
	if err != nil {
		return account.ErrNotFound
	}
	payer.WalletBalance = round2(payer.WalletBalance - totalDue)
	recipient.WalletBalance = round2(recipient.WalletBalance + recipientShare)
	if err := r.Accounts.Save(ctx, payer); err != nil {
		return err
	}
	return r.Accounts.Save(ctx, recipient)
}

// complete finishes a contract: status, the backing loan request, and the
// lender's running totals.
func (u *Usecase) complete(ctx context.Context, r uow.Repos, c *contract.LoanContract) error {
	c.Status = contract.StatusCompleted
	if err := r.Contracts.Save(ctx, c); err != nil {
		return err
	}
	req, err := r.Loans.GetByID(ctx, c.LoanRequestID)
	if err != nil {
		return loan.ErrNotFound
	}
	req.Status = loan.StatusCompleted
	req.StatusUpdatedAt = time.Now().UTC()
	if err := r.Loans.Save(ctx, req); err != nil {
		return err
	}
	lp, err := r.Lenders.GetByUserID(ctx, c.LenderID)
	if err != nil {
		return nil // lender profile optional for completion bookkeeping
	}
	if lp.ActiveInvestments > 0 {
		lp.ActiveInvestments--
	}
	lp.TotalReturns = round2(lp.TotalReturns + c.TotalInterest)
	return r.Lenders.Save(ctx, lp)
}

// contractOf resolves the public contract ID hosting an installment, for use
// as the lock anchor.
func (u *Usecase) contractOf(ctx context.Context, installmentID string) (*contract.LoanContract, error) {
	var host *contract.LoanContract
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inst, err := r.Contracts.GetInstallmentByID(ctx, installmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contract.ErrInstallmentNotFound
			}
			return err
		}
		host, err = r.Contracts.GetByID(ctx, inst.ContractID)
		if err != nil {
			return contract.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return host, nil
}
