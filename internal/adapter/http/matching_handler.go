package http

import (
	"net/http"

	"p2plending-backend/internal/usecase/matching"

	"github.com/labstack/echo/v4"
)

type MatchingHandler struct{ uc *matching.Usecase }

func NewMatchingHandler(uc *matching.Usecase) *MatchingHandler { return &MatchingHandler{uc: uc} }

// MatchLoan ranks the active lender pool against one approved request and
// persists the result. Re-running replaces the stored ranking.
func (h *MatchingHandler) MatchLoan(c echo.Context) error {
	rows, err := h.uc.MatchLoanToLenders(c.Request().Context(), c.Param("request_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"matches": rows})
}

func (h *MatchingHandler) MatchLender(c echo.Context) error {
	rows, err := h.uc.MatchLenderToLoans(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"matches": rows})
}
