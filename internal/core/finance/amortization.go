package finance

import (
	"math"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)

	// Heuristic average-utilization factors for non-amortizing facilities.
	overdraftUtilization = decimal.NewFromFloat(0.5)
	revolvingUtilization = decimal.NewFromFloat(0.7)

	// Flat issuance commission on letters of credit.
	locCommissionRate = decimal.NewFromFloat(0.015)
)

// ComputeForInstrument derives the pricing figures for a single instrument,
// branching on its type.
//
// Term-bearing kinds (fixed-term, mortgage, vehicle) produce a periodic
// payment via the French/annuity formula plus a full amortization schedule.
// Leases amortize assetValue-residualValue with the residual as a balloon.
// The remaining kinds produce an annualized cost estimate only.
//
// The function never panics or divides by zero: it may be invoked on interim
// drafts for live preview, so absent or degenerate inputs (zero rate, zero
// term, zero principal) yield a zero-valued result instead of an error.
func ComputeForInstrument(ci domain.CreditInstrument) domain.AmortizationResult {
	switch ci.InstrumentType {
	case domain.FixedTermLoan, domain.MortgageLoan, domain.VehicleLoan:
		return amortizeTermLoan(ci.TotalLimit, ci.AnnualRate(), ci.Term(), ci.StartDate)

	case domain.OperatingLease, domain.FinanceLease:
		return amortizeLease(ci)

	case domain.Factoring:
		return estimateFactoring(ci)

	case domain.BankOverdraft:
		return estimateOverdraft(ci)

	case domain.LetterOfCredit:
		return estimateLetterOfCredit(ci)

	default:
		// Revolving line and anything unrecognized fall back to the
		// revolving-utilization cost estimate.
		return estimateRevolving(ci)
	}
}

// amortizeTermLoan runs the annuity formula over the given principal and
// builds the full schedule.
func amortizeTermLoan(principal, annualRate decimal.Decimal, termMonths int, startDate time.Time) domain.AmortizationResult {
	if termMonths <= 0 || !principal.IsPositive() {
		return domain.AmortizationResult{}
	}

	payment := PeriodicPayment(principal, annualRate, termMonths)
	schedule := BuildSchedule(principal, annualRate, termMonths, startDate)

	totalInterest := decimal.Zero
	totalPayments := decimal.Zero
	for _, entry := range schedule {
		totalInterest = totalInterest.Add(entry.Interest)
		totalPayments = totalPayments.Add(entry.Installment)
	}

	effectiveRate := decimal.Zero
	if principal.IsPositive() {
		effectiveRate = totalInterest.Div(principal).Mul(hundred)
	}

	return domain.AmortizationResult{
		PeriodicPayment: payment,
		TotalInterest:   totalInterest,
		TotalPayments:   totalPayments,
		EffectiveRate:   effectiveRate,
		Schedule:        schedule,
	}
}

// amortizeLease finances assetValue minus residualValue over the term; the
// residual is collected as a balloon on top of the installments. The schedule
// reuses the term-loan routine against the financed amount.
func amortizeLease(ci domain.CreditInstrument) domain.AmortizationResult {
	if ci.AssetValue == nil || ci.Term() <= 0 {
		return domain.AmortizationResult{}
	}
	residual := decimal.Zero
	if ci.ResidualValue != nil {
		residual = *ci.ResidualValue
	}
	financed := ci.AssetValue.Sub(residual)
	if !financed.IsPositive() {
		// Residual at or above asset value should never reach here past
		// validation; guard instead of producing negative figures.
		return domain.AmortizationResult{}
	}

	result := amortizeTermLoan(financed, ci.AnnualRate(), ci.Term(), ci.StartDate)
	result.TotalPayments = result.TotalPayments.Add(residual)
	return result
}

// estimateFactoring: annualized cost over the financed share of the limit.
func estimateFactoring(ci domain.CreditInstrument) domain.AmortizationResult {
	if ci.FinancingPercentage == nil || !ci.TotalLimit.IsPositive() {
		return domain.AmortizationResult{}
	}
	cost := ci.TotalLimit.
		Mul(ci.AnnualRate().Div(hundred)).
		Mul(ci.FinancingPercentage.Div(hundred))
	return domain.AmortizationResult{
		TotalInterest: cost,
		EffectiveRate: cost.Div(ci.TotalLimit).Mul(hundred),
	}
}

// estimateOverdraft assumes a 50% average utilization of the overdraft limit
// (or the total limit when no overdraft limit is set) over one year.
func estimateOverdraft(ci domain.CreditInstrument) domain.AmortizationResult {
	limit := ci.TotalLimit
	if ci.OverdraftLimit != nil {
		limit = *ci.OverdraftLimit
	}
	if !limit.IsPositive() {
		return domain.AmortizationResult{}
	}
	cost := limit.Mul(ci.AnnualRate().Div(hundred)).Mul(overdraftUtilization)
	effective := decimal.Zero
	if ci.TotalLimit.IsPositive() {
		effective = cost.Div(ci.TotalLimit).Mul(hundred)
	}
	return domain.AmortizationResult{TotalInterest: cost, EffectiveRate: effective}
}

// estimateLetterOfCredit: flat 1.5% issuance commission plus one year of
// nominal carrying cost on the limit.
func estimateLetterOfCredit(ci domain.CreditInstrument) domain.AmortizationResult {
	if !ci.TotalLimit.IsPositive() {
		return domain.AmortizationResult{}
	}
	cost := ci.TotalLimit.Mul(locCommissionRate).
		Add(ci.TotalLimit.Mul(ci.AnnualRate().Div(hundred)))
	return domain.AmortizationResult{
		TotalInterest: cost,
		EffectiveRate: cost.Div(ci.TotalLimit).Mul(hundred),
	}
}

// estimateRevolving assumes a 70% average utilization of the limit.
func estimateRevolving(ci domain.CreditInstrument) domain.AmortizationResult {
	if !ci.TotalLimit.IsPositive() {
		return domain.AmortizationResult{}
	}
	cost := ci.TotalLimit.Mul(ci.AnnualRate().Div(hundred)).Mul(revolvingUtilization)
	return domain.AmortizationResult{
		TotalInterest: cost,
		EffectiveRate: cost.Div(ci.TotalLimit).Mul(hundred),
	}
}

// PeriodicPayment computes the equal installment for an amortizing loan:
// P = L*r*(1+r)^n / ((1+r)^n - 1) with r the monthly rate, or L/n when r = 0.
//
// The power factor is computed in float64 and the result switched back to
// decimal for monetary arithmetic, rounded to cents.
func PeriodicPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	monthlyRate := annualRate.Div(hundred).Div(twelve)
	if monthlyRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	}

	r := monthlyRate.InexactFloat64()
	factor := math.Pow(1+r, float64(termMonths))
	payment := principal.InexactFloat64() * r * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(2)
}

// BuildSchedule generates the full amortization schedule for an amortizing
// loan, one entry per month starting one month after startDate.
//
// The closing balance is floored at zero each period and the final installment
// is adjusted so the balance lands exactly on zero despite cent rounding.
func BuildSchedule(principal, annualRate decimal.Decimal, termMonths int, startDate time.Time) []domain.AmortizationScheduleEntry {
	if termMonths <= 0 || !principal.IsPositive() {
		return nil
	}

	payment := PeriodicPayment(principal, annualRate, termMonths)
	monthlyRate := annualRate.Div(hundred).Div(twelve)

	schedule := make([]domain.AmortizationScheduleEntry, 0, termMonths)
	remaining := principal
	for period := 1; period <= termMonths; period++ {
		opening := remaining
		interest := opening.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)
		installment := payment

		if period == termMonths {
			// Absorb accumulated rounding in the last installment.
			principalPart = opening
			installment = principalPart.Add(interest)
		}

		remaining = opening.Sub(principalPart)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		schedule = append(schedule, domain.AmortizationScheduleEntry{
			Period:         period,
			DueDate:        startDate.AddDate(0, period, 0),
			OpeningBalance: opening,
			Interest:       interest,
			Principal:      principalPart,
			Installment:    installment,
			ClosingBalance: remaining,
		})
	}
	return schedule
}
