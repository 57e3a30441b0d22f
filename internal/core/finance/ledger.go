package finance

import (
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// monthStart truncates t to the first instant of its calendar month in UTC.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// sameMonth reports whether a and b fall in the same calendar month.
func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// daysInMonth returns the number of calendar days in t's month.
func daysInMonth(t time.Time) int {
	first := monthStart(t)
	return first.AddDate(0, 1, -1).Day()
}

// OutstandingPrincipalBefore replays every transaction dated strictly before
// the start of cutoff's month and returns the drawn principal at that point.
//
// Drawdowns and client credits increase drawn principal, payments decrease it.
// The result is clamped to zero: a facility never shows negative drawn
// principal, regardless of transaction ordering errors or over-payment.
func OutstandingPrincipalBefore(txns []domain.UsageTransaction, cutoff time.Time) decimal.Decimal {
	boundary := monthStart(cutoff)
	balance := decimal.Zero
	for _, txn := range txns {
		if !txn.Date.Before(boundary) {
			continue
		}
		switch txn.Kind {
		case domain.Drawdown, domain.ClientCredit:
			balance = balance.Add(txn.Amount)
		case domain.Payment:
			balance = balance.Sub(txn.Amount)
		}
	}
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// NetChangeForMonth sums drawdown amounts minus payment amounts for
// transactions dated within the given calendar month. Client credits are
// excluded: this feeds the simple month-by-month planning view, which tracks
// facility usage only.
func NetChangeForMonth(txns []domain.UsageTransaction, month time.Time) decimal.Decimal {
	net := decimal.Zero
	for _, txn := range txns {
		if !sameMonth(txn.Date, month) {
			continue
		}
		switch txn.Kind {
		case domain.Drawdown:
			net = net.Add(txn.Amount)
		case domain.Payment:
			net = net.Sub(txn.Amount)
		}
	}
	return net
}

// NetChangeSeries produces one net-change value per month across the window
// beginning at from (truncated to month start), inclusive, for months count
// months. Used by the per-instrument drill-down view.
func NetChangeSeries(txns []domain.UsageTransaction, from time.Time, months int) []domain.MonthlyNetChange {
	if months <= 0 {
		return nil
	}
	series := make([]domain.MonthlyNetChange, 0, months)
	cursor := monthStart(from)
	for i := 0; i < months; i++ {
		series = append(series, domain.MonthlyNetChange{
			Month:     cursor,
			NetChange: NetChangeForMonth(txns, cursor),
		})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return series
}
