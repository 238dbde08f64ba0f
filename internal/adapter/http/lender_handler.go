package http

import (
	"net/http"

	"p2plending-backend/internal/usecase/lender"

	"github.com/labstack/echo/v4"
)

type LenderHandler struct{ uc *lender.Usecase }

func NewLenderHandler(uc *lender.Usecase) *LenderHandler { return &LenderHandler{uc: uc} }

type upsertProfileReq struct {
	MinAmount            float64 `json:"min_amount"             validate:"required,gt=0,dec2"`
	MaxAmount            float64 `json:"max_amount"             validate:"required,gt=0,dec2"`
	MinInterestRate      float64 `json:"min_interest_rate"      validate:"gte=0,dec2"`
	PreferredDurationMin int     `json:"preferred_duration_min" validate:"required,gte=1"`
	PreferredDurationMax int     `json:"preferred_duration_max" validate:"required,gte=1"`
	RiskTolerance        string  `json:"risk_tolerance"         validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	// Absent means active: a lender opts out explicitly.
	IsActive *bool `json:"is_active"`
}

func (h *LenderHandler) UpsertProfile(c echo.Context) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id path param"})
	}
	var req upsertProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p, err := h.uc.UpsertProfile(c.Request().Context(), lender.UpsertProfileInput{
		UserID:               userID,
		MinAmount:            req.MinAmount,
		MaxAmount:            req.MaxAmount,
		MinInterestRate:      req.MinInterestRate,
		PreferredDurationMin: req.PreferredDurationMin,
		PreferredDurationMax: req.PreferredDurationMax,
		RiskTolerance:        req.RiskTolerance,
		IsActive:             active,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *LenderHandler) GetProfile(c echo.Context) error {
	p, err := h.uc.GetProfile(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *LenderHandler) GetMatches(c echo.Context) error {
	rows, err := h.uc.Matches(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"matches": rows})
}
