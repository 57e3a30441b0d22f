package dto

import (
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/core/finance"
	"github.com/shopspring/decimal"
)

const monthLayout = "2006-01"

// ProjectionRowResponse is one month of the consolidated projection.
type ProjectionRowResponse struct {
	Month                   string          `json:"month"` // YYYY-MM
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

// ProjectionResponse is the full projection window plus any non-fatal
// warnings collected while assembling the inputs.
type ProjectionResponse struct {
	AnchorMonth string                  `json:"anchorMonth"`
	Rows        []ProjectionRowResponse `json:"rows"`
	Warnings    []string                `json:"warnings,omitempty"`
}

// ToProjectionResponse converts a domain projection result.
func ToProjectionResponse(result *domain.ProjectionResult, anchor time.Time) ProjectionResponse {
	response := ProjectionResponse{
		AnchorMonth: anchor.Format(monthLayout),
		Rows:        make([]ProjectionRowResponse, len(result.Rows)),
		Warnings:    result.Warnings,
	}
	for i, row := range result.Rows {
		response.Rows[i] = ProjectionRowResponse{
			Month:                   row.Month.Format(monthLayout),
			OpeningBalance:          row.OpeningBalance,
			TotalDrawdowns:          row.TotalDrawdowns,
			TotalClientCredits:      row.TotalClientCredits,
			TotalPayments:           row.TotalPayments,
			TotalOriginationCharges: row.TotalOriginationCharges,
			TotalTransactionCharges: row.TotalTransactionCharges,
			TotalInterest:           row.TotalInterest,
			NetCashFlow:             row.NetCashFlow,
			ClosingBalance:          row.ClosingBalance,
		}
	}
	return response
}

// NetChangeRowResponse is one month of the per-instrument planning view.
type NetChangeRowResponse struct {
	Month     string          `json:"month"`
	NetChange decimal.Decimal `json:"netChange"`
}

// NetChangeSeriesResponse wraps the drill-down series for one instrument.
type NetChangeSeriesResponse struct {
	InstrumentID int64                  `json:"instrumentID"`
	Rows         []NetChangeRowResponse `json:"rows"`
}

// ToNetChangeSeriesResponse converts the domain series.
func ToNetChangeSeriesResponse(instrumentID int64, series []domain.MonthlyNetChange) NetChangeSeriesResponse {
	response := NetChangeSeriesResponse{
		InstrumentID: instrumentID,
		Rows:         make([]NetChangeRowResponse, len(series)),
	}
	for i, row := range series {
		response.Rows[i] = NetChangeRowResponse{
			Month:     row.Month.Format(monthLayout),
			NetChange: row.NetChange,
		}
	}
	return response
}

// AmortizationEntryResponse is one row of a generated schedule.
type AmortizationEntryResponse struct {
	Period         int             `json:"period"`
	DueDate        string          `json:"dueDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Interest       decimal.Decimal `json:"interest"`
	Principal      decimal.Decimal `json:"principal"`
	Installment    decimal.Decimal `json:"installment"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// AmortizationResponse mirrors domain.AmortizationResult.
type AmortizationResponse struct {
	PeriodicPayment decimal.Decimal             `json:"periodicPayment"`
	TotalInterest   decimal.Decimal             `json:"totalInterest"`
	TotalPayments   decimal.Decimal             `json:"totalPayments"`
	EffectiveRate   decimal.Decimal             `json:"effectiveRate"`
	Schedule        []AmortizationEntryResponse `json:"schedule,omitempty"`
}

// ToAmortizationResponse converts a domain amortization result.
func ToAmortizationResponse(result domain.AmortizationResult) AmortizationResponse {
	response := AmortizationResponse{
		PeriodicPayment: result.PeriodicPayment,
		TotalInterest:   result.TotalInterest,
		TotalPayments:   result.TotalPayments,
		EffectiveRate:   result.EffectiveRate,
	}
	if len(result.Schedule) > 0 {
		response.Schedule = make([]AmortizationEntryResponse, len(result.Schedule))
		for i, entry := range result.Schedule {
			response.Schedule[i] = AmortizationEntryResponse{
				Period:         entry.Period,
				DueDate:        entry.DueDate.Format(dateLayout),
				OpeningBalance: entry.OpeningBalance,
				Interest:       entry.Interest,
				Principal:      entry.Principal,
				Installment:    entry.Installment,
				ClosingBalance: entry.ClosingBalance,
			}
		}
	}
	return response
}

// MetricsResponse mirrors domain.InstrumentMetrics.
type MetricsResponse struct {
	EffectiveAnnualCost     decimal.Decimal `json:"effectiveAnnualCost"`
	EstimatedUtilizationPct decimal.Decimal `json:"estimatedUtilizationPct"`
	RiskTier                domain.RiskTier `json:"riskTier"`
}

// ToMetricsResponse converts domain metrics.
func ToMetricsResponse(m domain.InstrumentMetrics) MetricsResponse {
	return MetricsResponse{
		EffectiveAnnualCost:     m.EffectiveAnnualCost,
		EstimatedUtilizationPct: m.EstimatedUtilizationPct,
		RiskTier:                m.RiskTier,
	}
}

// TypeDefaultsResponse returns the rule registry's defaults and required
// fields for one instrument type, consumed by the create form on type switch.
type TypeDefaultsResponse struct {
	InstrumentType domain.InstrumentType `json:"instrumentType"`
	RequiredFields []string              `json:"requiredFields"`
	Defaults       finance.Defaults      `json:"defaults"`
}
