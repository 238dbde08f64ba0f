package lender

import (
	"context"
	"errors"

	"p2plending-backend/internal/domain/lender"
	"p2plending-backend/internal/domain/uow"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidProfile = errors.New("invalid lender profile input")

type Usecase struct {
	uow uow.UnitOfWork
	log *logrus.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, log: log}
}

type UpsertProfileInput struct {
	UserID               string  `json:"user_id"`
	MinAmount            float64 `json:"min_amount"`
	MaxAmount            float64 `json:"max_amount"`
	MinInterestRate      float64 `json:"min_interest_rate"`
	PreferredDurationMin int     `json:"preferred_duration_min"`
	PreferredDurationMax int     `json:"preferred_duration_max"`
	RiskTolerance        string  `json:"risk_tolerance"`
	IsActive             bool    `json:"is_active"`
}

func validTolerance(t lender.RiskTolerance) bool {
	switch t {
	case lender.ToleranceLow, lender.ToleranceMedium, lender.ToleranceHigh:
		return true
	}
	return false
}

// UpsertProfile creates or updates the lender's single preference row.
// Running totals are never touched here.
func (u *Usecase) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*lender.LenderProfile, error) {
	if len(in.UserID) != 32 || in.MinAmount <= 0 || in.MaxAmount < in.MinAmount ||
		in.PreferredDurationMin <= 0 || in.PreferredDurationMax < in.PreferredDurationMin {
		return nil, ErrInvalidProfile
	}
	tolerance := lender.RiskTolerance(in.RiskTolerance)
	if tolerance == "" {
		tolerance = lender.ToleranceMedium
	}
	if !validTolerance(tolerance) {
		return nil, ErrInvalidProfile
	}

	var p *lender.LenderProfile
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		existing, err := r.Lenders.GetByUserID(ctx, in.UserID)
		switch {
		case err == nil:
			existing.MinAmount = in.MinAmount
			existing.MaxAmount = in.MaxAmount
			existing.MinInterestRate = in.MinInterestRate
			existing.PreferredDurationMin = in.PreferredDurationMin
			existing.PreferredDurationMax = in.PreferredDurationMax
			existing.RiskTolerance = tolerance
			existing.IsActive = in.IsActive
			p = existing
			return r.Lenders.Save(ctx, existing)
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = &lender.LenderProfile{
				UserID:               in.UserID,
				MinAmount:            in.MinAmount,
				MaxAmount:            in.MaxAmount,
				MinInterestRate:      in.MinInterestRate,
				PreferredDurationMin: in.PreferredDurationMin,
				PreferredDurationMax: in.PreferredDurationMax,
				RiskTolerance:        tolerance,
				IsActive:             in.IsActive,
			}
			return r.Lenders.Create(ctx, p)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"user_id":   p.UserID,
		"is_active": p.IsActive,
	}).Info("lender profile saved")
	return p, nil
}

func (u *Usecase) GetProfile(ctx context.Context, userID string) (*lender.LenderProfile, error) {
	var p *lender.LenderProfile
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		p, err = r.Lenders.GetByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lender.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Matches returns the persisted match rows of this lender's latest run,
// score-descending.
func (u *Usecase) Matches(ctx context.Context, userID string) ([]*lender.MatchResult, error) {
	var out []*lender.MatchResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Lenders.GetByUserID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return lender.ErrNotFound
			}
			return err
		}
		var err error
		out, err = r.Lenders.ListMatchesByLenderUserID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
