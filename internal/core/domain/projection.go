package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyProjectionRow aggregates one calendar month's figures across every
// instrument in scope.
type MonthlyProjectionRow struct {
	Month                   time.Time       `json:"month"` // first day of the month, UTC
	OpeningBalance          decimal.Decimal `json:"openingBalance"`
	TotalDrawdowns          decimal.Decimal `json:"totalDrawdowns"`
	TotalClientCredits      decimal.Decimal `json:"totalClientCredits"`
	TotalPayments           decimal.Decimal `json:"totalPayments"`
	TotalOriginationCharges decimal.Decimal `json:"totalOriginationCharges"`
	TotalTransactionCharges decimal.Decimal `json:"totalTransactionCharges"`
	TotalInterest           decimal.Decimal `json:"totalInterest"`
	NetCashFlow             decimal.Decimal `json:"netCashFlow"`
	ClosingBalance          decimal.Decimal `json:"closingBalance"`
}

// ProjectionResult carries the monthly rows plus any non-fatal warnings raised
// while assembling the inputs (e.g. an instrument whose transaction fetch
// failed and was replayed against an empty ledger).
type ProjectionResult struct {
	Rows     []MonthlyProjectionRow `json:"rows"`
	Warnings []string               `json:"warnings,omitempty"`
}

// MonthlyNetChange is one month's net usage delta (drawdowns minus payments)
// for a single instrument, used by the drill-down planning view.
type MonthlyNetChange struct {
	Month     time.Time       `json:"month"`
	NetChange decimal.Decimal `json:"netChange"`
}

// RiskTier buckets an instrument's risk profile.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

// InstrumentMetrics summarizes per-instrument risk/performance indicators.
type InstrumentMetrics struct {
	EffectiveAnnualCost     decimal.Decimal `json:"effectiveAnnualCost"`     // percentage
	EstimatedUtilizationPct decimal.Decimal `json:"estimatedUtilizationPct"` // heuristic constant by type
	RiskTier                RiskTier        `json:"riskTier"`
}
