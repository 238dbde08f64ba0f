package dispute

import (
	"context"
	"errors"
	"math"
	"time"

	"p2plending-backend/internal/collaborator"
	"p2plending-backend/internal/domain/account"
	"p2plending-backend/internal/domain/contract"
	"p2plending-backend/internal/domain/dispute"
	"p2plending-backend/internal/domain/uow"
	"p2plending-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotParty rejects filings from users outside the contract.
var ErrNotParty = errors.New("user is not a party to this contract")

type Usecase struct {
	uow       uow.UnitOfWork
	narrative collaborator.NarrativeGenerator // optional
	log       *logrus.Logger
}

func NewUsecase(tx uow.UnitOfWork, narrative collaborator.NarrativeGenerator, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, narrative: narrative, log: log}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

type FileInput struct {
	ContractID  string       `json:"contract_id"`
	Complainant string       `json:"complainant"`
	Type        dispute.Type `json:"dispute_type"`
	Description string       `json:"description"`
}

type ResolveInput struct {
	DisputeID       string                 `json:"dispute_id"`
	ResolutionType  dispute.ResolutionType `json:"resolution_type"`
	ResolutionNote  string                 `json:"resolution_note"`
	RefundAmount    float64                `json:"refund_amount"`
	PenaltyAmount   float64                `json:"penalty_amount"`
	PenalizedUserID string                 `json:"penalized_user_id"`
}

func validType(t dispute.Type) bool {
	switch t {
	case dispute.TypePayment, dispute.TypeLatePayment, dispute.TypeWrongAmount,
		dispute.TypeContractTerms, dispute.TypeContractViolation,
		dispute.TypeFraud, dispute.TypeOther:
		return true
	}
	return false
}

func validResolution(t dispute.ResolutionType) bool {
	switch t {
	case dispute.ResolutionFavorComplainant, dispute.ResolutionFavorRespondent,
		dispute.ResolutionCompromise, dispute.ResolutionDismissed:
		return true
	}
	return false
}

// File opens a dispute on a contract. The respondent is always the other
// party; severity is classified immediately from the payment history.
func (u *Usecase) File(ctx context.Context, in FileInput) (*dispute.Dispute, error) {
	if !validType(in.Type) || in.Description == "" {
		return nil, dispute.ErrInvalidArgument
	}

	var d *dispute.Dispute
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Contracts.GetByContractID(ctx, in.ContractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contract.ErrNotFound
			}
			return err
		}
		var respondent string
		switch in.Complainant {
		case c.BorrowerID:
			respondent = c.LenderID
		case c.LenderID:
			respondent = c.BorrowerID
		default:
			return ErrNotParty
		}

		stats, err := u.stats(ctx, r, c)
		if err != nil {
			return err
		}
		analysis := ClassifySeverity(in.Type, stats)

		d = &dispute.Dispute{
			DisputeID:   id.NewID32(),
			ContractID:  c.ID,
			Complainant: in.Complainant,
			Respondent:  respondent,
			Type:        in.Type,
			Description: in.Description,
			Status:      dispute.StatusOpen,
			Severity:    analysis.Severity,
		}
		return r.Disputes.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"dispute_id": d.DisputeID,
		"type":       d.Type,
		"severity":   d.Severity,
	}).Info("dispute filed")
	return d, nil
}

// Analyze re-runs the rule-based classification against the current payment
// history and, when a narrative collaborator is wired, attaches its summary.
// The stored severity is refreshed; the narrative never changes it.
func (u *Usecase) Analyze(ctx context.Context, disputeID string) (*Analysis, error) {
	// Classification reads and commits first; the narrative collaborator is
	// awaited with no transaction open.
	var (
		out  *Analysis
		snap *dispute.Dispute
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Disputes.GetByDisputeID(ctx, disputeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dispute.ErrNotFound
			}
			return err
		}
		c, err := r.Contracts.GetByID(ctx, d.ContractID)
		if err != nil {
			return contract.ErrNotFound
		}
		stats, err := u.stats(ctx, r, c)
		if err != nil {
			return err
		}
		a := ClassifySeverity(d.Type, stats)
		out = &a
		snap = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	narrative := u.summarize(ctx, snap, *out)

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Disputes.GetByDisputeID(ctx, disputeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dispute.ErrNotFound
			}
			return err
		}
		d.Severity = out.Severity
		d.Narrative = narrative
		return r.Disputes.Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) summarize(ctx context.Context, d *dispute.Dispute, a Analysis) string {
	if u.narrative == nil {
		return d.Narrative
	}
	n, err := u.narrative.Generate(ctx, "dispute_summary", map[string]any{
		"dispute_type": string(d.Type),
		"severity":     string(a.Severity),
		"description":  d.Description,
		"factors":      a.Factors,
	})
	if err != nil {
		u.log.WithError(err).Warn("narrative generator unavailable, keeping stored summary")
		return d.Narrative
	}
	return n.Text
}

// Review moves an OPEN dispute to IN_REVIEW.
func (u *Usecase) Review(ctx context.Context, disputeID string) (*dispute.Dispute, error) {
	return u.transition(ctx, disputeID, dispute.StatusInReview, func(d *dispute.Dispute) {})
}

// Escalate flags a dispute for manual handling. Allowed any time before a
// terminal state.
func (u *Usecase) Escalate(ctx context.Context, disputeID string) (*dispute.Dispute, error) {
	return u.transition(ctx, disputeID, dispute.StatusEscalated, func(d *dispute.Dispute) {})
}

func (u *Usecase) transition(ctx context.Context, disputeID string, to dispute.Status, apply func(*dispute.Dispute)) (*dispute.Dispute, error) {
	var d *dispute.Dispute
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		d, err = r.Disputes.GetByDisputeID(ctx, disputeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dispute.ErrNotFound
			}
			return err
		}
		if !transitionAllowed(d.Status, to) {
			return dispute.ErrInvalidTransition
		}
		d.Status = to
		apply(d)
		return r.Disputes.Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Resolve closes the dispute with a verdict. Refunds move respondent to
// complainant; penalties are withheld by the platform. Money and the status
// flip commit atomically.
func (u *Usecase) Resolve(ctx context.Context, in ResolveInput) (*dispute.Dispute, error) {
	if !validResolution(in.ResolutionType) || in.RefundAmount < 0 || in.PenaltyAmount < 0 {
		return nil, dispute.ErrInvalidArgument
	}

	var d *dispute.Dispute
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		d, err = r.Disputes.GetByDisputeID(ctx, in.DisputeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dispute.ErrNotFound
			}
			return err
		}
		if !transitionAllowed(d.Status, dispute.StatusResolved) {
			return dispute.ErrInvalidTransition
		}

		if in.RefundAmount > 0 && in.ResolutionType == dispute.ResolutionFavorComplainant {
			if err := u.move(ctx, r, d.Respondent, d.Complainant, in.RefundAmount); err != nil {
				return err
			}
		}
		if in.PenaltyAmount > 0 && in.PenalizedUserID != "" {
			src, err := r.Accounts.GetByUserIDForUpdate(ctx, in.PenalizedUserID)
			if err != nil {
				return account.ErrNotFound
			}
			if src.WalletBalance < in.PenaltyAmount {
				return account.ErrInsufficientFunds
			}
			// penalty is withheld by the platform
			src.WalletBalance = round2(src.WalletBalance - in.PenaltyAmount)
			if err := r.Accounts.Save(ctx, src); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		rt := in.ResolutionType
		d.Status = dispute.StatusResolved
		d.ResolutionType = &rt
		d.ResolutionNote = in.ResolutionNote
		d.RefundAmount = in.RefundAmount
		d.PenaltyAmount = in.PenaltyAmount
		d.ResolvedAt = &now
		return r.Disputes.Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"dispute_id": in.DisputeID,
		"resolution": in.ResolutionType,
		"refund":     in.RefundAmount,
	}).Info("dispute resolved")
	return d, nil
}

func (u *Usecase) move(ctx context.Context, r uow.Repos, fromID, toID string, amount float64) error {
	src, err := r.Accounts.GetByUserIDForUpdate(ctx, fromID)
	if err != nil {
		return account.ErrNotFound
	}
	if src.WalletBalance < amount {
		return account.ErrInsufficientFunds
	}
	dst, err := r.Accounts.GetByUserIDForUpdate(ctx, toID)
	if err != nil {
		return account.ErrNotFound
	}
	src.WalletBalance = round2(src.WalletBalance - amount)
	dst.WalletBalance = round2(dst.WalletBalance + amount)
	if err := r.Accounts.Save(ctx, src); err != nil {
		return err
	}
	return r.Accounts.Save(ctx, dst)
}

// Get returns one dispute by public ID.
func (u *Usecase) Get(ctx context.Context, disputeID string) (*dispute.Dispute, error) {
	var d *dispute.Dispute
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		d, err = r.Disputes.GetByDisputeID(ctx, disputeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dispute.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListByContract returns every dispute filed on a contract, newest first.
func (u *Usecase) ListByContract(ctx context.Context, contractID string) ([]*dispute.Dispute, error) {
	var out []*dispute.Dispute
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Contracts.GetByContractID(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contract.ErrNotFound
			}
			return err
		}
		out, err = r.Disputes.ListByContractID(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// stats walks the schedule once; late counts include rows paid late.
func (u *Usecase) stats(ctx context.Context, r uow.Repos, c *contract.LoanContract) (PaymentStats, error) {
	rows, err := r.Contracts.ListInstallments(ctx, c.ID)
	if err != nil {
		return PaymentStats{}, err
	}
	s := PaymentStats{TotalCount: len(rows)}
	for _, i := range rows {
		if i.Status == contract.InstallmentPaid {
			s.PaidCount++
		} else if i.Status == contract.InstallmentOverdue {
			s.OverdueAmount = round2(s.OverdueAmount + i.TotalAmount)
		}
		if i.LateDays > 0 {
			s.LateCount++
		}
	}
	return s, nil
}
