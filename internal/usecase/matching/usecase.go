package matching

import (
	"context"
	"errors"
	"sort"

	"p2plending-backend/internal/config"
	"p2plending-backend/internal/domain/lender"
	"p2plending-backend/internal/domain/loan"
	"p2plending-backend/internal/domain/riskprofile"
	"p2plending-backend/internal/domain/uow"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	uow uow.UnitOfWork
	cfg *config.Config
	log *logrus.Logger
}

func NewUsecase(tx uow.UnitOfWork, cfg *config.Config, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, cfg: cfg, log: log}
}

// LenderMatch is one ranked entry of a loan-to-lenders run.
type LenderMatch struct {
	LenderUserID    string    `json:"lender_user_id"`
	MatchScore      float64   `json:"match_score"`
	Sub             SubScores `json:"sub_scores"`
	PotentialReturn float64   `json:"potential_return"`
}

// LoanMatch is one ranked entry of a lender-to-loans run.
type LoanMatch struct {
	RequestID       string    `json:"request_id"`
	MatchScore      float64   `json:"match_score"`
	Sub             SubScores `json:"sub_scores"`
	PotentialReturn float64   `json:"potential_return"`
}

// MatchLoanToLenders scores the active lender pool against one approved loan
// request, persists the top-N survivors (replacing all prior rows for the
// loan) and returns the ranked list. Re-running with an unchanged pool yields
// the identical list and the same row count.
func (u *Usecase) MatchLoanToLenders(ctx context.Context, requestID string) ([]LenderMatch, error) {
	var out []LenderMatch
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByRequestID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		if l.Status != loan.StatusApproved {
			return loan.ErrInvalidTransition
		}

		pool, err := r.Lenders.ListActive(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		tier := u.borrowerTier(ctx, r, l.BorrowerID)

		type scored struct {
			profile *lender.LenderProfile
			ps      PairScore
		}
		var kept []scored
		for _, p := range pool {
			if !Prefilter(l, p) {
				continue
			}
			ps := ScorePair(l, p, tier, u.cfg.Weights)
			if ps.Score >= u.cfg.MatchMinScore {
				kept = append(kept, scored{profile: p, ps: ps})
			}
		}

		// Rank by score; equal scores put the newer lender profile first.
		sort.SliceStable(kept, func(i, j int) bool {
			if kept[i].ps.Score != kept[j].ps.Score {
				return kept[i].ps.Score > kept[j].ps.Score
			}
			if !kept[i].profile.CreatedAt.Equal(kept[j].profile.CreatedAt) {
				return kept[i].profile.CreatedAt.After(kept[j].profile.CreatedAt)
			}
			return kept[i].profile.ID > kept[j].profile.ID
		})
		if len(kept) > u.cfg.MatchTopN {
			kept = kept[:u.cfg.MatchTopN]
		}

		if err := r.Lenders.DeleteMatchesByLoanRequestID(ctx, l.ID); err != nil {
			return err
		}
		rows := make([]*lender.MatchResult, 0, len(kept))
		for _, k := range kept {
			rows = append(rows, &lender.MatchResult{
				LoanRequestID: l.ID,
				LenderUserID:  k.profile.UserID,
				MatchScore:    k.ps.Score,
				AmountFit:     k.ps.Sub.Amount,
				DurationFit:   k.ps.Sub.Duration,
				RateFit:       k.ps.Sub.Rate,
				RiskFit:       k.ps.Sub.Risk,
			})
			out = append(out, LenderMatch{
				LenderUserID:    k.profile.UserID,
				MatchScore:      k.ps.Score,
				Sub:             k.ps.Sub,
				PotentialReturn: k.ps.PotentialReturn,
			})
		}
		if len(rows) > 0 {
			if err := r.Lenders.CreateMatches(ctx, rows); err != nil {
				return err
			}
		}
		u.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"pool_size":  len(pool),
			"matched":    len(rows),
		}).Info("loan-to-lenders matching complete")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MatchLenderToLoans is the symmetric run: the open approved-loan pool is
// scored against one lender profile. Persisted rows for this lender are
// replaced with the new top-N.
func (u *Usecase) MatchLenderToLoans(ctx context.Context, lenderUserID string) ([]LoanMatch, error) {
	var out []LoanMatch
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Lenders.GetByUserID(ctx, lenderUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return lender.ErrNotFound
			}
			return err
		}
		if !p.IsActive {
			return lender.ErrNotFound
		}

		pool, err := r.Loans.ListOpenForMatching(ctx, lenderUserID)
		if err != nil {
			return err
		}

		type scored struct {
			req *loan.LoanRequest
			ps  PairScore
		}
		var kept []scored
		for _, l := range pool {
			if !Prefilter(l, p) {
				continue
			}
			ps := ScorePair(l, p, u.borrowerTier(ctx, r, l.BorrowerID), u.cfg.Weights)
			if ps.Score >= u.cfg.MatchMinScore {
				kept = append(kept, scored{req: l, ps: ps})
			}
		}

		sort.SliceStable(kept, func(i, j int) bool {
			if kept[i].ps.Score != kept[j].ps.Score {
				return kept[i].ps.Score > kept[j].ps.Score
			}
			if !kept[i].req.CreatedAt.Equal(kept[j].req.CreatedAt) {
				return kept[i].req.CreatedAt.After(kept[j].req.CreatedAt)
			}
			return kept[i].req.ID > kept[j].req.ID
		})
		if len(kept) > u.cfg.MatchTopN {
			kept = kept[:u.cfg.MatchTopN]
		}

		if err := r.Lenders.DeleteMatchesByLenderUserID(ctx, lenderUserID); err != nil {
			return err
		}
		rows := make([]*lender.MatchResult, 0, len(kept))
		for _, k := range kept {
			rows = append(rows, &lender.MatchResult{
				LoanRequestID: k.req.ID,
				LenderUserID:  lenderUserID,
				MatchScore:    k.ps.Score,
				AmountFit:     k.ps.Sub.Amount,
				DurationFit:   k.ps.Sub.Duration,
				RateFit:       k.ps.Sub.Rate,
				RiskFit:       k.ps.Sub.Risk,
			})
			out = append(out, LoanMatch{
				RequestID:       k.req.RequestID,
				MatchScore:      k.ps.Score,
				Sub:             k.ps.Sub,
				PotentialReturn: k.ps.PotentialReturn,
			})
		}
		if len(rows) > 0 {
			if err := r.Lenders.CreateMatches(ctx, rows); err != nil {
				return err
			}
		}
		u.log.WithFields(logrus.Fields{
			"lender_user_id": lenderUserID,
			"pool_size":      len(pool),
			"matched":        len(rows),
		}).Info("lender-to-loans matching complete")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// borrowerTier resolves the borrower's current risk tier; nil when no profile
// exists yet (the scorer then applies its conservative default).
func (u *Usecase) borrowerTier(ctx context.Context, r uow.Repos, borrowerID string) *riskprofile.Tier {
	p, err := r.RiskProfiles.GetByUserID(ctx, borrowerID)
	if err != nil {
		return nil
	}
	t := p.RiskLevel
	return &t
}
