package contract

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPendingSignatures Status = "PENDING_SIGNATURES"
	StatusActive            Status = "ACTIVE"
	StatusCompleted         Status = "COMPLETED"
	StatusDefaulted         Status = "DEFAULTED"
	StatusCancelled         Status = "CANCELLED"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentOverdue InstallmentStatus = "OVERDUE"
	InstallmentPartial InstallmentStatus = "PARTIAL"
)

type TransactionType string

const (
	TxDisbursement TransactionType = "DISBURSEMENT"
	TxInstallment  TransactionType = "INSTALLMENT"
	TxEarlyPayoff  TransactionType = "EARLY_PAYOFF"
	TxRefund       TransactionType = "REFUND"
)

var (
	ErrNotFound            = errors.New("contract not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrInvalidTransition   = errors.New("invalid contract status transition")
	ErrAlreadySigned       = errors.New("party already signed this contract")
	// Installment was already settled when a second payment attempt
	// arrived; the caller must re-read state.
	ErrAlreadyPaid = errors.New("installment already paid")
)

// LoanContract is the funded agreement, 1:1 with a loan request. It becomes
// ACTIVE only once both parties signed, and COMPLETED when every installment
// is PAID or an early payoff clears the balance.
type LoanContract struct {
	ID             uint64  `gorm:"primaryKey;column:id" json:"-"`
	ContractID     string  `gorm:"size:32;uniqueIndex:ux_contracts_contract_id" json:"contract_id"`
	LoanRequestID  uint64  `gorm:"not null;uniqueIndex:ux_contracts_loan_request" json:"-"`
	BorrowerID     string  `gorm:"size:32;index" json:"borrower_id"`
	LenderID       string  `gorm:"size:32;index" json:"lender_id"`
	Principal      float64 `gorm:"type:decimal(15,2)" json:"principal"`
	InterestRate   float64 `gorm:"type:decimal(6,2)" json:"interest_rate"`
	DurationMonths int     `json:"duration_months"`
	TotalInterest  float64 `gorm:"type:decimal(15,2)" json:"total_interest"`
	TotalAmount    float64 `gorm:"type:decimal(15,2)" json:"total_amount"`
	// Amortization method used when the schedule is generated.
	PaymentMethod string `gorm:"size:20;default:'EQUAL_PRINCIPAL'" json:"payment_method"`

	StartDate *time.Time `gorm:"type:date" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`

	// Optional text from the narrative collaborator; display only.
	ContractText string `gorm:"type:text" json:"contract_text,omitempty"`

	BorrowerSigned   bool       `gorm:"default:false" json:"borrower_signed"`
	BorrowerSignedAt *time.Time `json:"borrower_signed_at"`
	LenderSigned     bool       `gorm:"default:false" json:"lender_signed"`
	LenderSignedAt   *time.Time `json:"lender_signed_at"`

	Status    Status         `gorm:"size:20;default:'PENDING_SIGNATURES';index" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanContract) TableName() string { return "loan_contracts" }

// Installment is one row of the repayment schedule. Created in bulk when the
// contract activates; each row transitions away from PENDING exactly once.
type Installment struct {
	ID                uint64            `gorm:"primaryKey;column:id" json:"-"`
	InstallmentID     string            `gorm:"size:32;uniqueIndex:ux_installments_public_id" json:"installment_id"`
	ContractID        uint64            `gorm:"not null;uniqueIndex:ux_installments_contract_seq,priority:1;index" json:"-"`
	InstallmentNumber int               `gorm:"not null;uniqueIndex:ux_installments_contract_seq,priority:2" json:"installment_number"`
	DueDate           time.Time         `gorm:"type:date;index" json:"due_date"`
	PrincipalAmount   float64           `gorm:"type:decimal(15,2)" json:"principal_amount"`
	InterestAmount    float64           `gorm:"type:decimal(15,2)" json:"interest_amount"`
	TotalAmount       float64           `gorm:"type:decimal(15,2)" json:"total_amount"`
	PaidAmount        *float64          `gorm:"type:decimal(15,2)" json:"paid_amount"`
	PaidDate          *time.Time        `gorm:"type:date" json:"paid_date"`
	LateFee           float64           `gorm:"type:decimal(15,2);default:0" json:"late_fee"`
	LateDays          int               `gorm:"default:0" json:"late_days"`
	Status            InstallmentStatus `gorm:"size:15;default:'PENDING';index" json:"status"`
	Note              string            `gorm:"type:text" json:"note,omitempty"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Installment) TableName() string { return "payment_schedules" }

// Transaction is an append-only ledger entry; rows are never updated.
type Transaction struct {
	ID             uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransactionRef string          `gorm:"size:36;uniqueIndex:ux_transactions_ref" json:"transaction_ref"`
	ContractID     uint64          `gorm:"not null;index" json:"-"`
	InstallmentID  *uint64         `gorm:"index" json:"-"`
	PayerID        string          `gorm:"size:32;index" json:"payer_id"`
	RecipientID    string          `gorm:"size:32;index" json:"recipient_id"`
	Amount         float64         `gorm:"type:decimal(15,2)" json:"amount"`
	Type           TransactionType `gorm:"size:20" json:"type"`
	LateFee        float64         `gorm:"type:decimal(15,2);default:0" json:"late_fee"`
	LateDays       int             `gorm:"default:0" json:"late_days"`
	Note           string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "payment_transactions" }
