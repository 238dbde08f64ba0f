package contract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"p2plending-backend/internal/collaborator"
	"p2plending-backend/internal/domain/account"
	"p2plending-backend/internal/domain/contract"
	"p2plending-backend/internal/domain/lender"
	"p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/uow"
	"p2plending-backend/pkg/amortize"
	"p2plending-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotParty rejects a signature from a user who is neither the borrower nor
// the lender of the contract.
var ErrNotParty = errors.New("signer is not a party to this contract")

type Usecase struct {
	uow       uow.UnitOfWork
	narrative collaborator.NarrativeGenerator // optional
	log       *logrus.Logger
}

func NewUsecase(tx uow.UnitOfWork, narrative collaborator.NarrativeGenerator, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, narrative: narrative, log: log}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateFromMatch turns an approved loan request and a chosen lender into a
// PENDING_SIGNATURES contract. At most one contract exists per loan request.
func (u *Usecase) CreateFromMatch(ctx context.Context, in CreateFromMatchInput) (*ContractDTO, error) {
	method := amortize.Method(in.PaymentMethod)
	if method == "" {
		method = amortize.EqualPrincipal
	}
	if method != amortize.EqualPrincipal && method != amortize.EqualPayment {
		return nil, loan.ErrInvalidArgument
	}

	// Snapshot the request before any lock is taken: terms are immutable
	// after submission, and the narrative collaborator must never be
	// awaited while a row lock is held.
	var snap *loan.LoanRequest
	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByRequestID(ctx, in.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		snap = l
		return nil
	}); err != nil {
		return nil, err
	}
	preInterest := round2(snap.Amount * (snap.InterestRate / 100 / 12) * float64(snap.DurationMonths))
	text := u.contractText(ctx, snap, in.LenderUserID, preInterest)

	var dto *ContractDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByRequestIDForUpdate(ctx, in.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		if l.Status != loan.StatusApproved {
			return loan.ErrInvalidTransition
		}
		if in.LenderUserID == l.BorrowerID {
			return loan.ErrInvalidArgument
		}
		p, err := r.Lenders.GetByUserID(ctx, in.LenderUserID)
		if err != nil || !p.IsActive {
			return lender.ErrNotFound
		}
		if _, err := r.Contracts.GetByLoanRequestID(ctx, l.ID); err == nil {
			return contract.ErrInvalidTransition
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Simple (non-compounding) monthly interest over the full term.
		totalInterest := round2(l.Amount * (l.InterestRate / 100 / 12) * float64(l.DurationMonths))
		c := &contract.LoanContract{
			ContractID:     id.NewID32(),
			LoanRequestID:  l.ID,
			BorrowerID:     l.BorrowerID,
			LenderID:       in.LenderUserID,
			Principal:      l.Amount,
			InterestRate:   l.InterestRate,
			DurationMonths: l.DurationMonths,
			TotalInterest:  totalInterest,
			TotalAmount:    round2(l.Amount + totalInterest),
			PaymentMethod:  string(method),
			ContractText:   text,
			Status:         contract.StatusPendingSignatures,
		}
		if err := r.Contracts.Create(ctx, c); err != nil {
			return err
		}
		dto = toContractDTO(c, l.RequestID)
		u.log.WithFields(logrus.Fields{
			"contract_id": c.ContractID,
			"request_id":  l.RequestID,
			"lender_id":   in.LenderUserID,
		}).Info("contract created, awaiting signatures")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// contractText asks the narrative collaborator for prose; unreachable or
// invalid output falls back to a fixed template. Display only.
func (u *Usecase) contractText(ctx context.Context, l *loan.LoanRequest, lenderID string, totalInterest float64) string {
	fallback := fmt.Sprintf(
		"Loan agreement: lender %s funds borrower %s with %.2f at %.2f%% yearly interest over %d months. Total interest: %.2f.",
		lenderID, l.BorrowerID, l.Amount, l.InterestRate, l.DurationMonths, totalInterest)
	if u.narrative == nil {
		return fallback
	}
	n, err := u.narrative.Generate(ctx, "loan_contract", map[string]any{
		"borrower_id":     l.BorrowerID,
		"lender_id":       lenderID,
		"amount":          l.Amount,
		"interest_rate":   l.InterestRate,
		"duration_months": l.DurationMonths,
		"purpose":         l.Purpose,
	})
	if err != nil {
		u.log.WithError(err).Warn("narrative generator unavailable, using template text")
		return fallback
	}
	return n.Text
}

// Sign records one party's signature. The second signature activates the
// contract: schedule generation, disbursement and the loan's FUNDED flip all
// commit atomically under the contract row lock.
func (u *Usecase) Sign(ctx context.Context, in SignInput) (*ContractDTO, error) {
	today := in.Today
	if today.IsZero() {
		today = time.Now()
	}

	var dto *ContractDTO
	err := u.uow.WithinContractTx(ctx, in.ContractID, func(r uow.Repos, c *contract.LoanContract) error {
		if c.Status != contract.StatusPendingSignatures {
			return contract.ErrInvalidTransition
		}
		now := time.Now().UTC()
		switch in.UserID {
		case c.BorrowerID:
			if c.BorrowerSigned {
				return contract.ErrAlreadySigned
			}
			c.BorrowerSigned = true
			c.BorrowerSignedAt = &now
		case c.LenderID:
			if c.LenderSigned {
				return contract.ErrAlreadySigned
			}
			c.LenderSigned = true
			c.LenderSignedAt = &now
		default:
			return ErrNotParty
		}

		if c.BorrowerSigned && c.LenderSigned {
			if err := u.activate(ctx, r, c, today); err != nil {
				return err
			}
		}
		if err := r.Contracts.Save(ctx, c); err != nil {
			return err
		}

		l, err := r.Loans.GetByID(ctx, c.LoanRequestID)
		if err != nil {
			return loan.ErrNotFound
		}
		dto = toContractDTO(c, l.RequestID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"contract_id": in.ContractID,
		"signer":      in.UserID,
		"status":      dto.Status,
	}).Info("contract signed")
	return dto, nil
}

// activate runs once, when the second signature lands.
func (u *Usecase) activate(ctx context.Context, r uow.Repos, c *contract.LoanContract, today time.Time) error {
	start := dateOf(today)
	end := start.AddDate(0, c.DurationMonths, 0)
	c.StartDate = &start
	c.EndDate = &end
	c.Status = contract.StatusActive

	sched, err := amortize.Compute(c.Principal, c.InterestRate, c.DurationMonths, amortize.Method(c.PaymentMethod))
	if err != nil {
		return err
	}
	rows := make([]*contract.Installment, 0, len(sched.Lines))
	for _, line := range sched.Lines {
		rows = append(rows, &contract.Installment{
			InstallmentID:     id.NewID32(),
			ContractID:        c.ID,
			InstallmentNumber: line.Period,
			DueDate:           start.AddDate(0, line.Period, 0),
			PrincipalAmount:   line.Principal,
			InterestAmount:    line.Interest,
			TotalAmount:       line.Total,
			Status:            contract.InstallmentPending,
		})
	}
	if err := r.Contracts.CreateInstallments(ctx, rows); err != nil {
		return err
	}

	// Disburse principal lender -> borrower.
	src, err := r.Accounts.GetByUserIDForUpdate(ctx, c.LenderID)
	if err != nil {
		return account.ErrNotFound
	}
	if src.WalletBalance < c.Principal {
		return account.ErrInsufficientFunds
	}
	dst, err := r.Accounts.GetByUserIDForUpdate(ctx, c.BorrowerID)
	if err != nil {
		return account.ErrNotFound
	}
	src.WalletBalance = round2(src.WalletBalance - c.Principal)
	dst.WalletBalance = round2(dst.WalletBalance + c.Principal)
	if err := r.Accounts.Save(ctx, src); err != nil {
		return err
	}
	if err := r.Accounts.Save(ctx, dst); err != nil {
		return err
	}
	if err := r.Contracts.CreateTransaction(ctx, &contract.Transaction{
		TransactionRef: id.NewID32(),
		ContractID:     c.ID,
		PayerID:        c.LenderID,
		RecipientID:    c.BorrowerID,
		Amount:         c.Principal,
		Type:           contract.TxDisbursement,
	}); err != nil {
		return err
	}

	l, err := r.Loans.GetByID(ctx, c.LoanRequestID)
	if err != nil {
		return loan.ErrNotFound
	}
	l.Status = loan.StatusFunded
	l.StatusUpdatedAt = time.Now().UTC()
	if err := r.Loans.Save(ctx, l); err != nil {
		return err
	}

	lp, err := r.Lenders.GetByUserID(ctx, c.LenderID)
	if err != nil {
		return lender.ErrNotFound
	}
	lp.TotalInvested = round2(lp.TotalInvested + c.Principal)
	lp.ActiveInvestments++
	return r.Lenders.Save(ctx, lp)
}

// Get returns the contract with its loan request public ID.
func (u *Usecase) Get(ctx context.Context, contractID string) (*ContractDTO, error) {
	var dto *ContractDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Contracts.GetByContractID(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contract.ErrNotFound
			}
			return err
		}
		requestID := ""
		if l, err := r.Loans.GetByID(ctx, c.LoanRequestID); err == nil {
			requestID = l.RequestID
		}
		dto = toContractDTO(c, requestID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Schedule returns the full repayment schedule in period order.
func (u *Usecase) Schedule(ctx context.Context, contractID string) ([]InstallmentDTO, error) {
	var out []InstallmentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Contracts.GetByContractID(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contract.ErrNotFound
			}
			return err
		}
		rows, err := r.Contracts.ListInstallments(ctx, c.ID)
		if err != nil {
			return err
		}
		out = make([]InstallmentDTO, 0, len(rows))
		for _, i := range rows {
			out = append(out, toInstallmentDTO(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
