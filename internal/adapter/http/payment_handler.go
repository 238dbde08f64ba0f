package http

import (
	"net/http"
	"time"

	"p2plending-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type payInstallmentReq struct {
	InstallmentID string  `json:"installment_id" validate:"required,hex32"`
	PayerID       string  `json:"payer_id"       validate:"required,hex32"`
	Amount        float64 `json:"amount"         validate:"required,gt=0,dec2"`
}

func (h *PaymentHandler) PayInstallment(c echo.Context) error {
	var req payInstallmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.ProcessPayment(c.Request().Context(), payment.ProcessPaymentInput{
		InstallmentID: req.InstallmentID,
		PayerID:       req.PayerID,
		Amount:        req.Amount,
		Today:         time.Now().UTC(),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *PaymentHandler) PayoffQuote(c echo.Context) error {
	q, err := h.uc.EarlyPayoffQuote(c.Request().Context(), c.Param("contract_id"), time.Now().UTC())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

type acceptPayoffReq struct {
	PayerID string `json:"payer_id" validate:"required,hex32"`
}

func (h *PaymentHandler) AcceptPayoff(c echo.Context) error {
	var req acceptPayoffReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	q, err := h.uc.AcceptEarlyPayoff(c.Request().Context(), c.Param("contract_id"), req.PayerID, time.Now().UTC())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

// SweepOverdue refreshes late fees and OVERDUE markers on every unpaid
// installment past its due date. Normally driven by a scheduler.
func (h *PaymentHandler) SweepOverdue(c echo.Context) error {
	n, err := h.uc.SweepOverdue(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"updated": n})
}
