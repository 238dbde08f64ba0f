package payment

import (
	"testing"
	"time"

	"p2plending-backend/internal/domain/contract"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLateDays(t *testing.T) {
	cases := []struct {
		name string
		due  time.Time
		now  time.Time
		want int
	}{
		{"not yet due", day(2026, 3, 10), day(2026, 3, 1), 0},
		{"due today", day(2026, 3, 10), day(2026, 3, 10), 0},
		{"one day late", day(2026, 3, 10), day(2026, 3, 11), 1},
		{"ten days late", day(2026, 3, 1), day(2026, 3, 11), 10},
		{"time of day ignored", day(2026, 3, 10), time.Date(2026, 3, 11, 23, 59, 0, 0, time.UTC), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LateDays(tc.due, tc.now); got != tc.want {
				t.Fatalf("LateDays=%d want %d", got, tc.want)
			}
		})
	}
}

func TestLateFee(t *testing.T) {
	// 1,000,000 * 0.0005 * 10 days = 5,000
	if got := LateFee(1_000_000, 10, 0.0005, 200_000); got != 5_000 {
		t.Fatalf("fee=%v want 5000", got)
	}
	// cap kicks in
	if got := LateFee(1_000_000, 10_000, 0.0005, 200_000); got != 200_000 {
		t.Fatalf("capped fee=%v want 200000", got)
	}
	// zero cap means uncapped
	if got := LateFee(1_000_000, 10_000, 0.0005, 0); got != 5_000_000 {
		t.Fatalf("uncapped fee=%v want 5000000", got)
	}
	if got := LateFee(1_000_000, 0, 0.0005, 200_000); got != 0 {
		t.Fatalf("fee for zero late days=%v want 0", got)
	}
}

func TestClassify(t *testing.T) {
	rate, cap := 0.0005, 200_000.0
	today := day(2026, 3, 11)

	t.Run("upcoming", func(t *testing.T) {
		c := Classify(&contract.Installment{DueDate: day(2026, 4, 1), TotalAmount: 450_000}, today, rate, cap)
		if c.State != StateUpcoming || c.LateDays != 0 || c.LateFee != 0 {
			t.Fatalf("got %+v", c)
		}
	})

	t.Run("due today", func(t *testing.T) {
		c := Classify(&contract.Installment{DueDate: today, TotalAmount: 450_000}, today, rate, cap)
		if c.State != StateDueToday || c.LateFee != 0 {
			t.Fatalf("got %+v", c)
		}
	})

	t.Run("overdue accrues fee", func(t *testing.T) {
		c := Classify(&contract.Installment{DueDate: day(2026, 3, 1), TotalAmount: 450_000}, today, rate, cap)
		if c.State != StateOverdue || c.LateDays != 10 || c.LateFee != 2_250 {
			t.Fatalf("got %+v", c)
		}
	})

	t.Run("paid rows keep frozen values", func(t *testing.T) {
		i := &contract.Installment{
			DueDate:     day(2026, 1, 1),
			TotalAmount: 450_000,
			Status:      contract.InstallmentPaid,
			LateDays:    3,
			LateFee:     675,
		}
		c := Classify(i, today, rate, cap)
		if c.State != StatePaid || c.LateDays != 3 || c.LateFee != 675 {
			t.Fatalf("paid row values recomputed: %+v", c)
		}
	})
}
