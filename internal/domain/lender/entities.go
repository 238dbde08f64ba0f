package lender

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type RiskTolerance string

const (
	ToleranceLow    RiskTolerance = "LOW"
	ToleranceMedium RiskTolerance = "MEDIUM"
	ToleranceHigh   RiskTolerance = "HIGH"
)

var ErrNotFound = errors.New("lender profile not found")

// LenderProfile holds one lender's investment preferences. One per user.
type LenderProfile struct {
	ID                   uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID               string         `gorm:"size:32;uniqueIndex:ux_lender_profiles_user" json:"user_id"`
	MinAmount            float64        `gorm:"type:decimal(15,2);default:1000000" json:"min_amount"`
	MaxAmount            float64        `gorm:"type:decimal(15,2);default:100000000" json:"max_amount"`
	MinInterestRate      float64        `gorm:"type:decimal(6,2);default:8" json:"min_interest_rate"`
	PreferredDurationMin int            `gorm:"default:1" json:"preferred_duration_min"`
	PreferredDurationMax int            `gorm:"default:24" json:"preferred_duration_max"`
	RiskTolerance        RiskTolerance  `gorm:"size:10;default:'MEDIUM'" json:"risk_tolerance"`
	TotalInvested        float64        `gorm:"type:decimal(15,2);default:0" json:"total_invested"`
	TotalReturns         float64        `gorm:"type:decimal(15,2);default:0" json:"total_returns"`
	ActiveInvestments    int            `gorm:"default:0" json:"active_investments"`
	// No column default: a false insert must stay false.
	IsActive bool `gorm:"not null" json:"is_active"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LenderProfile) TableName() string { return "lender_profiles" }

// MatchResult is one surviving (loan request, lender) pair after a matching
// run. Rows for a loan are replaced wholesale on every re-run.
type MatchResult struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanRequestID uint64    `gorm:"not null;uniqueIndex:ux_match_results_pair,priority:1;index" json:"-"`
	LenderUserID  string    `gorm:"size:32;not null;uniqueIndex:ux_match_results_pair,priority:2" json:"lender_user_id"`
	MatchScore    float64   `gorm:"type:decimal(5,1)" json:"match_score"`
	AmountFit     float64   `gorm:"type:decimal(5,1)" json:"amount_fit"`
	DurationFit   float64   `gorm:"type:decimal(5,1)" json:"duration_fit"`
	RateFit       float64   `gorm:"type:decimal(5,1)" json:"rate_fit"`
	RiskFit       float64   `gorm:"type:decimal(5,1)" json:"risk_fit"`
	IsNotified    bool      `gorm:"default:false" json:"is_notified"`
	IsViewed      bool      `gorm:"default:false" json:"is_viewed"`
	IsInterested  bool      `gorm:"default:false" json:"is_interested"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MatchResult) TableName() string { return "lender_match_results" }
