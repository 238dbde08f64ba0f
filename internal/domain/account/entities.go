package account

import (
	"errors"
	"time"
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "PENDING"
	KYCVerified KYCStatus = "VERIFIED"
	KYCRejected KYCStatus = "REJECTED"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// Account carries the wallet balance and the KYC facts the risk engine
// consumes. KYC itself is decided by the external identity collaborator;
// this row only stores its verdict.
type Account struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID        string    `gorm:"size:32;uniqueIndex:ux_accounts_user" json:"user_id"`
	WalletBalance float64   `gorm:"type:decimal(15,2);default:0" json:"wallet_balance"`
	KYCStatus     KYCStatus `gorm:"size:10;default:'PENDING'" json:"kyc_status"`
	OCRMatchScore *float64  `gorm:"type:decimal(5,1)" json:"ocr_match_score"`
	MonthlyIncome *float64  `gorm:"type:decimal(15,2)" json:"monthly_income"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }
