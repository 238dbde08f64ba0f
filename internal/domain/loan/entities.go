package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusFunded    Status = "FUNDED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
)

var (
	ErrNotFound          = errors.New("loan request not found")
	ErrInvalidArgument   = errors.New("invalid loan request input")
	ErrPendingExists     = errors.New("borrower already has a pending loan request")
	ErrInvalidTransition = errors.New("invalid loan request status transition")
)

// LoanRequest is a borrower's funding application. Status moves
// PENDING → APPROVED/REJECTED (scoring), APPROVED → FUNDED (signing),
// FUNDED → COMPLETED (final installment or early payoff).
type LoanRequest struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"-"`
	RequestID       string         `gorm:"size:32;uniqueIndex:ux_loan_requests_request_id" json:"request_id"`
	BorrowerID      string         `gorm:"size:32;index:idx_loan_requests_borrower" json:"borrower_id"`
	Amount          float64        `gorm:"type:decimal(15,2)" json:"amount"`
	InterestRate    float64        `gorm:"type:decimal(6,2)" json:"interest_rate"` // %/year
	DurationMonths  int            `json:"duration_months"`
	Purpose         string         `gorm:"type:text" json:"purpose"`
	Status          Status         `gorm:"size:20;default:'PENDING';index" json:"status"`
	StatusUpdatedAt time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanRequest) TableName() string { return "loan_requests" }
