package http

import (
	"net/http"

	disputeDomain "p2plending-backend/internal/domain/dispute"
	"p2plending-backend/internal/usecase/dispute"

	"github.com/labstack/echo/v4"
)

type DisputeHandler struct{ uc *dispute.Usecase }

func NewDisputeHandler(uc *dispute.Usecase) *DisputeHandler { return &DisputeHandler{uc: uc} }

type fileDisputeReq struct {
	ContractID  string `json:"contract_id"  validate:"required,hex32"`
	Complainant string `json:"complainant"  validate:"required,hex32"`
	Type        string `json:"dispute_type" validate:"required"`
	Description string `json:"description"  validate:"required,min=10,max=2000"`
}

func (h *DisputeHandler) FileDispute(c echo.Context) error {
	var req fileDisputeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	d, err := h.uc.File(c.Request().Context(), dispute.FileInput{
		ContractID:  req.ContractID,
		Complainant: req.Complainant,
		Type:        disputeDomain.Type(req.Type),
		Description: req.Description,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DisputeHandler) GetDispute(c echo.Context) error {
	d, err := h.uc.Get(c.Request().Context(), c.Param("dispute_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// AnalyzeDispute re-runs severity classification over the current payment
// history and refreshes the stored narrative.
func (h *DisputeHandler) AnalyzeDispute(c echo.Context) error {
	a, err := h.uc.Analyze(c.Request().Context(), c.Param("dispute_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *DisputeHandler) ReviewDispute(c echo.Context) error {
	d, err := h.uc.Review(c.Request().Context(), c.Param("dispute_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DisputeHandler) EscalateDispute(c echo.Context) error {
	d, err := h.uc.Escalate(c.Request().Context(), c.Param("dispute_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

type resolveDisputeReq struct {
	ResolutionType  string  `json:"resolution_type"   validate:"required"`
	ResolutionNote  string  `json:"resolution_note"   validate:"omitempty,max=2000"`
	RefundAmount    float64 `json:"refund_amount"     validate:"gte=0,dec2"`
	PenaltyAmount   float64 `json:"penalty_amount"    validate:"gte=0,dec2"`
	PenalizedUserID string  `json:"penalized_user_id" validate:"omitempty,hex32"`
}

func (h *DisputeHandler) ResolveDispute(c echo.Context) error {
	var req resolveDisputeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	d, err := h.uc.Resolve(c.Request().Context(), dispute.ResolveInput{
		DisputeID:       c.Param("dispute_id"),
		ResolutionType:  disputeDomain.ResolutionType(req.ResolutionType),
		ResolutionNote:  req.ResolutionNote,
		RefundAmount:    req.RefundAmount,
		PenaltyAmount:   req.PenaltyAmount,
		PenalizedUserID: req.PenalizedUserID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DisputeHandler) ListContractDisputes(c echo.Context) error {
	rows, err := h.uc.ListByContract(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"disputes": rows})
}
