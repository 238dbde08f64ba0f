package http

import "github.com/labstack/echo/v4"

// RegisterRoutes wires every handler onto the echo instance. Path ids are
// the public 32-hex identifiers, never database row ids.
func RegisterRoutes(e *echo.Echo, h *Handler, loans *LoanHandler, lenders *LenderHandler,
	matches *MatchingHandler, contracts *ContractHandler, payments *PaymentHandler,
	disputes *DisputeHandler) {

	e.GET("/health", h.Health)

	e.POST("/loans", loans.CreateLoan)
	e.GET("/loans/:request_id", loans.GetLoan)
	e.POST("/loans/:request_id/score", loans.ScoreLoan)
	e.POST("/loans/:request_id/matches", matches.MatchLoan)

	e.PUT("/lenders/:user_id/profile", lenders.UpsertProfile)
	e.GET("/lenders/:user_id/profile", lenders.GetProfile)
	e.GET("/lenders/:user_id/matches", lenders.GetMatches)
	e.POST("/lenders/:user_id/matches", matches.MatchLender)

	e.POST("/contracts", contracts.CreateContract)
	e.GET("/contracts/:contract_id", contracts.GetContract)
	e.POST("/contracts/:contract_id/sign", contracts.SignContract)
	e.GET("/contracts/:contract_id/installments", contracts.GetSchedule)
	e.GET("/contracts/:contract_id/payoff", payments.PayoffQuote)
	e.POST("/contracts/:contract_id/payoff", payments.AcceptPayoff)
	e.GET("/contracts/:contract_id/disputes", disputes.ListContractDisputes)

	e.POST("/payments", payments.PayInstallment)
	e.POST("/payments/overdue/sweep", payments.SweepOverdue)

	e.POST("/disputes", disputes.FileDispute)
	e.GET("/disputes/:dispute_id", disputes.GetDispute)
	e.POST("/disputes/:dispute_id/analyze", disputes.AnalyzeDispute)
	e.POST("/disputes/:dispute_id/review", disputes.ReviewDispute)
	e.POST("/disputes/:dispute_id/escalate", disputes.EscalateDispute)
	e.POST("/disputes/:dispute_id/resolve", disputes.ResolveDispute)
}
