package dispute

import (
	"fmt"

	"p2plending-backend/internal/domain/dispute"
)

// PaymentStats summarize the contract's schedule at analysis time.
type PaymentStats struct {
	PaidCount     int     `json:"paid_count"`
	TotalCount    int     `json:"total_count"`
	LateCount     int     `json:"late_count"`
	OverdueAmount float64 `json:"overdue_amount"`
}

// Analysis is the rule-based verdict. Severity is deterministic; the optional
// collaborator narrative only decorates it.
type Analysis struct {
	Type            dispute.Type     `json:"dispute_type"`
	Severity        dispute.Severity `json:"severity"`
	Recommendations []string         `json:"recommendations"`
	Factors         map[string]any   `json:"factors"`
}

func paymentFamily(t dispute.Type) bool {
	switch t {
	case dispute.TypePayment, dispute.TypeLatePayment, dispute.TypeWrongAmount:
		return true
	}
	return false
}

// ClassifySeverity applies the fixed severity ladder. Fraud always outranks
// payment history; payment-family severity is driven by the stats alone.
func ClassifySeverity(t dispute.Type, s PaymentStats) Analysis {
	a := Analysis{Type: t, Severity: dispute.SeverityMedium, Factors: map[string]any{}}

	switch {
	case t == dispute.TypeFraud:
		a.Severity = dispute.SeverityCritical
		a.Recommendations = []string{
			"fraud allegation, verify identity and evidence immediately",
			"collect statements from both parties",
			"freeze the contract pending review",
			"consider a full refund if fraud is confirmed",
		}

	case paymentFamily(t):
		a.Factors = map[string]any{
			"payments_made":  fmt.Sprintf("%d/%d", s.PaidCount, s.TotalCount),
			"late_payments":  s.LateCount,
			"overdue_amount": s.OverdueAmount,
		}
		switch {
		case s.PaidCount == 0:
			a.Severity = dispute.SeverityHigh
			a.Recommendations = []string{
				"borrower has made no payments",
				"demand immediate payment or cancel the contract",
				"consider refunding the lender",
			}
		case float64(s.LateCount) > float64(s.TotalCount)*0.5:
			a.Severity = dispute.SeverityHigh
			a.Recommendations = []string{
				"more than half of the installments were late",
				"adjust the schedule or raise the late fee",
			}
		default:
			a.Severity = dispute.SeverityLow
			a.Recommendations = []string{
				"payment history is broadly sound",
				"mediate and remind the borrower to pay on time",
			}
		}

	case t == dispute.TypeContractTerms:
		a.Recommendations = []string{
			"review the contract terms in question",
			"propose an adjustment both parties accept",
			"amend the contract if needed",
		}

	default:
		a.Recommendations = []string{
			"collect more information from both parties",
			"consider mediation",
		}
	}
	return a
}

// transitionAllowed encodes the monotonic dispute lifecycle. Terminal states
// never reopen.
func transitionAllowed(from, to dispute.Status) bool {
	switch from {
	case dispute.StatusOpen:
		return to == dispute.StatusInReview || to == dispute.StatusResolved ||
			to == dispute.StatusEscalated || to == dispute.StatusClosed
	case dispute.StatusInReview:
		return to == dispute.StatusResolved || to == dispute.StatusEscalated ||
			to == dispute.StatusClosed
	case dispute.StatusEscalated:
		return to == dispute.StatusResolved || to == dispute.StatusClosed
	default: // RESOLVED, CLOSED
		return false
	}
}
