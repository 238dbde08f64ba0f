package http

import (
	"net/http"
	"time"

	"p2plending-backend/internal/usecase/contract"

	"github.com/labstack/echo/v4"
)

type ContractHandler struct{ uc *contract.Usecase }

func NewContractHandler(uc *contract.Usecase) *ContractHandler { return &ContractHandler{uc: uc} }

type createContractReq struct {
	RequestID     string `json:"request_id"     validate:"required,hex32"`
	LenderUserID  string `json:"lender_user_id" validate:"required,hex32"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=EQUAL_PRINCIPAL EQUAL_PAYMENT"`
}

func (h *ContractHandler) CreateContract(c echo.Context) error {
	var req createContractReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.CreateFromMatch(c.Request().Context(), contract.CreateFromMatchInput(req))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type signContractReq struct {
	UserID string `json:"user_id" validate:"required,hex32"`
}

func (h *ContractHandler) SignContract(c echo.Context) error {
	var req signContractReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Sign(c.Request().Context(), contract.SignInput{
		ContractID: c.Param("contract_id"),
		UserID:     req.UserID,
		Today:      time.Now().UTC(),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ContractHandler) GetContract(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ContractHandler) GetSchedule(c echo.Context) error {
	rows, err := h.uc.Schedule(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"installments": rows})
}
