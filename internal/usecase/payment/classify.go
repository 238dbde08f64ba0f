package payment

import (
	"math"
	"time"

	"p2plending-backend/internal/domain/contract"
)

// State is the due-date classification of an installment relative to a
// reference date. It is derived, not stored; the persisted row status only
// changes on payment or on the overdue sweep.
type State string

const (
	StateUpcoming State = "UPCOMING"
	StateDueToday State = "DUE_TODAY"
	StateOverdue  State = "OVERDUE"
	StatePaid     State = "PAID"
)

type Classification struct {
	State    State   `json:"state"`
	LateDays int     `json:"late_days"`
	LateFee  float64 `json:"late_fee"`
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LateDays counts whole days past the due date; never negative.
func LateDays(dueDate, today time.Time) int {
	days := int(dateOf(today).Sub(dateOf(dueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// LateFee is the simple (non-compounding) per-day penalty on the
// installment total, capped at cap when cap > 0.
func LateFee(totalAmount float64, lateDays int, dailyRate, cap float64) float64 {
	fee := math.Round(totalAmount*dailyRate*float64(lateDays)*100) / 100
	if cap > 0 && fee > cap {
		return cap
	}
	return fee
}

// Classify resolves the state, late days and accrued late fee of an
// installment as of today. Pure; recomputing on a later day is the only way
// fees grow, so repeated sweeps within one day are idempotent.
func Classify(i *contract.Installment, today time.Time, dailyRate, cap float64) Classification {
	if i.Status == contract.InstallmentPaid {
		return Classification{State: StatePaid, LateDays: i.LateDays, LateFee: i.LateFee}
	}
	days := LateDays(i.DueDate, today)
	c := Classification{
		LateDays: days,
		LateFee:  LateFee(i.TotalAmount, days, dailyRate, cap),
	}
	switch {
	case days > 0:
		c.State = StateOverdue
	case dateOf(i.DueDate).Equal(dateOf(today)):
		c.State = StateDueToday
	default:
		c.State = StateUpcoming
	}
	return c
}
