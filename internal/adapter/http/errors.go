package http

import (
	"errors"
	"net/http"

	"p2plending-backend/internal/domain/account"
	contractDomain "p2plending-backend/internal/domain/contract"
	disputeDomain "p2plending-backend/internal/domain/dispute"
	lenderDomain "p2plending-backend/internal/domain/lender"
	loanDomain "p2plending-backend/internal/domain/loan"
	contractUC "p2plending-backend/internal/usecase/contract"
	disputeUC "p2plending-backend/internal/usecase/dispute"
	lenderUC "p2plending-backend/internal/usecase/lender"
	paymentUC "p2plending-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

// statusOf maps domain and usecase errors to HTTP status codes. Unknown
// errors become 500 and their text is not leaked to the client.
func statusOf(err error) int {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, lenderDomain.ErrNotFound),
		errors.Is(err, contractDomain.ErrNotFound),
		errors.Is(err, contractDomain.ErrInstallmentNotFound),
		errors.Is(err, disputeDomain.ErrNotFound),
		errors.Is(err, account.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loanDomain.ErrPendingExists),
		errors.Is(err, loanDomain.ErrInvalidTransition),
		errors.Is(err, contractDomain.ErrInvalidTransition),
		errors.Is(err, contractDomain.ErrAlreadySigned),
		errors.Is(err, contractDomain.ErrAlreadyPaid),
		errors.Is(err, disputeDomain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, contractUC.ErrNotParty),
		errors.Is(err, disputeUC.ErrNotParty),
		errors.Is(err, paymentUC.ErrNotBorrower):
		return http.StatusForbidden
	case errors.Is(err, account.ErrInsufficientFunds),
		errors.Is(err, paymentUC.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loanDomain.ErrInvalidArgument),
		errors.Is(err, disputeDomain.ErrInvalidArgument),
		errors.Is(err, lenderUC.ErrInvalidProfile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func domainError(c echo.Context, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
