package finance

import (
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PastMonths is how far back every projection window reaches from the anchor
// month.
const PastMonths = 3

// Default forward horizons for the consolidated and single-instrument views.
const (
	DefaultConsolidatedMonths = 24
	DefaultPlanningMonths     = 36
)

var daysPerYear = decimal.NewFromInt(365)

// instrumentMonth is the immutable per-instrument accumulator for one month of
// the projection fold: opening balance in, closing balance out.
type instrumentMonth struct {
	opening            decimal.Decimal
	drawdowns          decimal.Decimal
	clientCredits      decimal.Decimal
	payments           decimal.Decimal
	originationCharges decimal.Decimal
	transactionCharges decimal.Decimal
	interest           decimal.Decimal
	closing            decimal.Decimal
}

// Project builds the rolling monthly projection across a set of instruments:
// one row per calendar month from PastMonths before the anchor month through
// monthsAfter after it, inclusive.
//
// Each instrument is folded independently month by month (its closing balance
// feeding the next month's opening) and the per-month figures are summed into
// the aggregate row. The fold is a pure function of its inputs; calling
// Project twice with identical arguments yields identical results.
func Project(instruments []domain.CreditInstrument, txnsByInstrument map[int64][]domain.UsageTransaction, anchor time.Time, monthsAfter int) []domain.MonthlyProjectionRow {
	if monthsAfter < 0 {
		monthsAfter = 0
	}
	totalMonths := PastMonths + 1 + monthsAfter
	first := monthStart(anchor).AddDate(0, -PastMonths, 0)

	// Running opening balances, one per instrument, seeded from the drawn
	// principal implied by the persisted limits.
	openings := make([]decimal.Decimal, len(instruments))
	for i, ci := range instruments {
		openings[i] = ci.DrawnPrincipalSeed()
	}

	rows := make([]domain.MonthlyProjectionRow, 0, totalMonths)
	for m := 0; m < totalMonths; m++ {
		month := first.AddDate(0, m, 0)

		row := domain.MonthlyProjectionRow{
			Month:                   month,
			OpeningBalance:          decimal.Zero,
			TotalDrawdowns:          decimal.Zero,
			TotalClientCredits:      decimal.Zero,
			TotalPayments:           decimal.Zero,
			TotalOriginationCharges: decimal.Zero,
			TotalTransactionCharges: decimal.Zero,
			TotalInterest:           decimal.Zero,
			NetCashFlow:             decimal.Zero,
			ClosingBalance:          decimal.Zero,
		}

		for i, ci := range instruments {
			state := foldInstrumentMonth(ci, txnsByInstrument[ci.InstrumentID], month, openings[i])
			openings[i] = state.closing

			row.OpeningBalance = row.OpeningBalance.Add(state.opening)
			row.TotalDrawdowns = row.TotalDrawdowns.Add(state.drawdowns)
			row.TotalClientCredits = row.TotalClientCredits.Add(state.clientCredits)
			row.TotalPayments = row.TotalPayments.Add(state.payments)
			row.TotalOriginationCharges = row.TotalOriginationCharges.Add(state.originationCharges)
			row.TotalTransactionCharges = row.TotalTransactionCharges.Add(state.transactionCharges)
			row.TotalInterest = row.TotalInterest.Add(state.interest)
			row.ClosingBalance = row.ClosingBalance.Add(state.closing)
		}

		row.NetCashFlow = row.TotalClientCredits.
			Add(row.TotalDrawdowns).
			Sub(row.TotalPayments).
			Sub(row.TotalOriginationCharges).
			Sub(row.TotalTransactionCharges).
			Sub(row.TotalInterest)

		rows = append(rows, row)
	}
	return rows
}

// foldInstrumentMonth computes one instrument's figures for one month.
//
// Client credits are recorded as informational cash-flow entries only: they
// enter the clientCredits aggregate and the row's net cash flow but do not
// move the interest-bearing balance. The carried balance accrues at the
// monthly rate (annual/12) while mid-month drawdowns additionally accrue a
// pro-rata daily supplement (annual/365) from the drawdown date through month
// end. The two day-count conventions are a deliberate business rule relied
// upon by existing figures; do not unify them.
func foldInstrumentMonth(ci domain.CreditInstrument, txns []domain.UsageTransaction, month time.Time, opening decimal.Decimal) instrumentMonth {
	start := monthStart(month)

	// Past the instrument's end the fold contributes nothing and carries a
	// terminal zero balance forward.
	if !ci.EndDate.IsZero() && start.After(ci.EndDate) {
		return instrumentMonth{
			opening:            decimal.Zero,
			drawdowns:          decimal.Zero,
			clientCredits:      decimal.Zero,
			payments:           decimal.Zero,
			originationCharges: decimal.Zero,
			transactionCharges: decimal.Zero,
			interest:           decimal.Zero,
			closing:            decimal.Zero,
		}
	}

	state := instrumentMonth{
		opening:            opening,
		drawdowns:          decimal.Zero,
		clientCredits:      decimal.Zero,
		payments:           decimal.Zero,
		originationCharges: decimal.Zero,
		transactionCharges: decimal.Zero,
		interest:           decimal.Zero,
	}

	annualRate := ci.AnnualRate()
	dailyRate := decimal.Zero
	if annualRate.IsPositive() {
		dailyRate = annualRate.Div(hundred).Div(daysPerYear)
	}
	proRata := decimal.Zero

	for _, txn := range txns {
		if !sameMonth(txn.Date, month) {
			continue
		}
		switch txn.Kind {
		case domain.Drawdown:
			state.drawdowns = state.drawdowns.Add(txn.Amount)
			state.transactionCharges = state.transactionCharges.Add(txn.Fee())
			if dailyRate.IsPositive() && txn.Date.Day() > 1 {
				days := daysInMonth(txn.Date) - txn.Date.Day() + 1
				proRata = proRata.Add(txn.Amount.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))))
			}
		case domain.Payment:
			state.payments = state.payments.Add(txn.Amount)
		case domain.ClientCredit:
			state.clientCredits = state.clientCredits.Add(txn.Amount)
		}
	}

	if sameMonth(ci.StartDate, month) && ci.OriginationCharge != nil {
		state.originationCharges = *ci.OriginationCharge
	}

	balance := state.opening.
		Add(state.drawdowns).
		Add(state.transactionCharges).
		Add(state.originationCharges).
		Sub(state.payments)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	if annualRate.IsPositive() {
		monthlyRate := annualRate.Div(hundred).Div(twelve)
		state.interest = balance.Mul(monthlyRate).Add(proRata)
	}

	state.closing = balance.Add(state.interest)
	return state
}
