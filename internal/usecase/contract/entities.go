package contract

import (
	"time"

	"p2plending-backend/internal/domain/contract"
)

type CreateFromMatchInput struct {
	RequestID     string `json:"request_id"`
	LenderUserID  string `json:"lender_user_id"`
	PaymentMethod string `json:"payment_method"` // EQUAL_PRINCIPAL (default) or EQUAL_PAYMENT
}

type SignInput struct {
	ContractID string    `json:"contract_id"`
	UserID     string    `json:"user_id"`
	Today      time.Time `json:"-"`
}

type ContractDTO struct {
	ContractID     string     `json:"contract_id"`
	RequestID      string     `json:"request_id"`
	BorrowerID     string     `json:"borrower_id"`
	LenderID       string     `json:"lender_id"`
	Principal      float64    `json:"principal"`
	InterestRate   float64    `json:"interest_rate"`
	DurationMonths int        `json:"duration_months"`
	TotalInterest  float64    `json:"total_interest"`
	TotalAmount    float64    `json:"total_amount"`
	PaymentMethod  string     `json:"payment_method"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	ContractText   string     `json:"contract_text,omitempty"`
	BorrowerSigned bool       `json:"borrower_signed"`
	LenderSigned   bool       `json:"lender_signed"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

type InstallmentDTO struct {
	InstallmentID     string     `json:"installment_id"`
	InstallmentNumber int        `json:"installment_number"`
	DueDate           time.Time  `json:"due_date"`
	Principal         float64    `json:"principal_amount"`
	Interest          float64    `json:"interest_amount"`
	TotalAmount       float64    `json:"total_amount"`
	PaidAmount        *float64   `json:"paid_amount"`
	PaidDate          *time.Time `json:"paid_date"`
	LateFee           float64    `json:"late_fee"`
	LateDays          int        `json:"late_days"`
	Status            string     `json:"status"`
}

func toContractDTO(c *contract.LoanContract, requestID string) *ContractDTO {
	return &ContractDTO{
		ContractID:     c.ContractID,
		RequestID:      requestID,
		BorrowerID:     c.BorrowerID,
		LenderID:       c.LenderID,
		Principal:      c.Principal,
		InterestRate:   c.InterestRate,
		DurationMonths: c.DurationMonths,
		TotalInterest:  c.TotalInterest,
		TotalAmount:    c.TotalAmount,
		PaymentMethod:  c.PaymentMethod,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		ContractText:   c.ContractText,
		BorrowerSigned: c.BorrowerSigned,
		LenderSigned:   c.LenderSigned,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
	}
}

func toInstallmentDTO(i *contract.Installment) InstallmentDTO {
	return InstallmentDTO{
		InstallmentID:     i.InstallmentID,
		InstallmentNumber: i.InstallmentNumber,
		DueDate:           i.DueDate,
		Principal:         i.PrincipalAmount,
		Interest:          i.InterestAmount,
		TotalAmount:       i.TotalAmount,
		PaidAmount:        i.PaidAmount,
		PaidDate:          i.PaidDate,
		LateFee:           i.LateFee,
		LateDays:          i.LateDays,
		Status:            string(i.Status),
	}
}
