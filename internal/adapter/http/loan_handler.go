package http

import (
	"net/http"

	"p2plending-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerID     string  `json:"borrower_id"     validate:"required,hex32"`
	Amount         float64 `json:"amount"          validate:"required,gt=0,intlike"`
	InterestRate   float64 `json:"interest_rate"   validate:"required,gt=0,dec2"`
	DurationMonths int     `json:"duration_months" validate:"required,gte=1,lte=60"`
	Purpose        string  `json:"purpose"         validate:"omitempty,max=500"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput(req))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("request_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ScoreLoan runs the risk engine over a pending request and routes it to
// APPROVED or REJECTED.
func (h *LoanHandler) ScoreLoan(c echo.Context) error {
	res, err := h.uc.ScoreAndRoute(c.Request().Context(), c.Param("request_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
