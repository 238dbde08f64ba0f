package dispute

import (
	"errors"
	"time"
)

type Type string

const (
	TypePayment           Type = "PAYMENT"
	TypeLatePayment       Type = "LATE_PAYMENT"
	TypeWrongAmount       Type = "WRONG_AMOUNT"
	TypeContractTerms     Type = "CONTRACT_TERMS"
	TypeContractViolation Type = "CONTRACT_VIOLATION"
	TypeFraud             Type = "FRAUD"
	TypeOther             Type = "OTHER"
)

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusInReview  Status = "IN_REVIEW"
	StatusResolved  Status = "RESOLVED"
	StatusClosed    Status = "CLOSED"
	StatusEscalated Status = "ESCALATED"
)

type ResolutionType string

const (
	ResolutionFavorComplainant ResolutionType = "FAVOR_COMPLAINANT"
	ResolutionFavorRespondent  ResolutionType = "FAVOR_RESPONDENT"
	ResolutionCompromise       ResolutionType = "COMPROMISE"
	ResolutionDismissed        ResolutionType = "DISMISSED"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var (
	ErrNotFound          = errors.New("dispute not found")
	ErrInvalidArgument   = errors.New("invalid dispute input")
	ErrInvalidTransition = errors.New("invalid dispute status transition")
)

// Dispute status advances monotonically OPEN → IN_REVIEW → RESOLVED, with
// ESCALATED allowed any time before RESOLVED. Reopening is not supported.
type Dispute struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	DisputeID   string `gorm:"size:32;uniqueIndex:ux_disputes_dispute_id" json:"dispute_id"`
	ContractID  uint64 `gorm:"not null;index" json:"-"`
	Complainant string `gorm:"size:32;index" json:"complainant"`
	Respondent  string `gorm:"size:32" json:"respondent"`
	Type        Type   `gorm:"size:30" json:"dispute_type"`
	Description string `gorm:"type:text" json:"description"`
	Status      Status `gorm:"size:20;default:'OPEN';index" json:"status"`

	Severity Severity `gorm:"size:10" json:"severity,omitempty"`
	// Optional collaborator narrative; augments, never overrides, the
	// rule-based severity.
	Narrative string `gorm:"type:text" json:"narrative,omitempty"`

	ResolutionType  *ResolutionType `gorm:"size:20" json:"resolution_type"`
	ResolutionNote  string          `gorm:"type:text" json:"resolution_note,omitempty"`
	RefundAmount    float64         `gorm:"type:decimal(15,2);default:0" json:"refund_amount"`
	PenaltyAmount   float64         `gorm:"type:decimal(15,2);default:0" json:"penalty_amount"`
	ResolvedAt      *time.Time      `json:"resolved_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Dispute) TableName() string { return "disputes" }
