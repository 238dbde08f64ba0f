package riskprofile

import (
	"errors"
	"time"
)

// Tier is the ordinal risk classification derived from the credit score.
type Tier string

const (
	TierVeryLow  Tier = "VERY_LOW"
	TierLow      Tier = "LOW"
	TierMedium   Tier = "MEDIUM"
	TierHigh     Tier = "HIGH"
	TierVeryHigh Tier = "VERY_HIGH"
)

var ErrNotFound = errors.New("risk profile not found")

// Profile is the single per-user scoring result. It is overwritten, never
// appended, so it always reflects the latest run.
type Profile struct {
	ID                  uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID              string    `gorm:"size:32;uniqueIndex:ux_risk_profiles_user" json:"user_id"`
	CreditScore         int       `gorm:"default:0" json:"credit_score"` // 0–1000
	RiskLevel           Tier      `gorm:"size:15;default:'MEDIUM'" json:"risk_level"`
	IncomeStability     float64   `gorm:"type:decimal(5,1);default:0" json:"income_stability"`
	DebtToIncomeRatio   float64   `gorm:"type:decimal(6,2);default:0" json:"debt_to_income_ratio"`
	PaymentHistoryScore float64   `gorm:"type:decimal(5,1);default:0" json:"payment_history_score"`
	// Factor/weight breakdown of the last run, kept for auditability.
	FactorsJSON string    `gorm:"type:json" json:"factors_json"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

func (Profile) TableName() string { return "borrower_risk_profiles" }
