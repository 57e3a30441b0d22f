package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationScheduleEntry is one row of a generated amortization schedule.
// Entries are value objects produced fresh on each calculation; never persisted.
type AmortizationScheduleEntry struct {
	Period         int             `json:"period"` // 1-based sequence number
	DueDate        time.Time       `json:"dueDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Interest       decimal.Decimal `json:"interest"`
	Principal      decimal.Decimal `json:"principal"`
	Installment    decimal.Decimal `json:"installment"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// AmortizationResult is the outcome of running the amortization calculator
// against a single instrument.
//
// PeriodicPayment and Schedule are only populated for term-bearing kinds;
// non-term kinds report an annualized cost estimate through TotalInterest and
// EffectiveRate instead.
type AmortizationResult struct {
	PeriodicPayment decimal.Decimal             `json:"periodicPayment"`
	TotalInterest   decimal.Decimal             `json:"totalInterest"`
	TotalPayments   decimal.Decimal             `json:"totalPayments"`
	EffectiveRate   decimal.Decimal             `json:"effectiveRate"` // percentage
	Schedule        []AmortizationScheduleEntry `json:"schedule,omitempty"`
}
