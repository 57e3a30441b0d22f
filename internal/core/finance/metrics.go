package finance

import (
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// estimatedUtilization is a heuristic constant table by instrument type; it is
// not derived from actual usage.
var estimatedUtilization = map[domain.InstrumentType]decimal.Decimal{
	domain.FixedTermLoan:  decimal.NewFromInt(100),
	domain.MortgageLoan:   decimal.NewFromInt(100),
	domain.VehicleLoan:    decimal.NewFromInt(100),
	domain.OperatingLease: decimal.NewFromInt(100),
	domain.FinanceLease:   decimal.NewFromInt(100),
	domain.Factoring:      decimal.NewFromInt(60),
	domain.BankOverdraft:  decimal.NewFromInt(30),
	domain.LetterOfCredit: decimal.NewFromInt(90),
}

var defaultUtilization = decimal.NewFromInt(70)

// securedCollateral are the collateral kinds that pull an instrument into the
// LOW risk tier.
var securedCollateral = map[domain.CollateralType]bool{
	domain.CollateralRealEstate: true,
	domain.CollateralVehicle:    true,
	domain.CollateralPledge:     true,
}

// MetricsFor derives summary risk/performance indicators for one instrument
// from the amortization figures.
func MetricsFor(ci domain.CreditInstrument) domain.InstrumentMetrics {
	amortization := ComputeForInstrument(ci)

	termMonths := ci.Term()
	if termMonths <= 0 {
		termMonths = 12
	}
	termYears := decimal.NewFromInt(int64(termMonths)).Div(twelve)

	effectiveAnnualCost := decimal.Zero
	if ci.TotalLimit.IsPositive() && termYears.IsPositive() {
		effectiveAnnualCost = amortization.TotalInterest.
			Div(ci.TotalLimit).
			Div(termYears).
			Mul(hundred)
	}

	utilization, ok := estimatedUtilization[ci.InstrumentType]
	if !ok {
		utilization = defaultUtilization
	}

	return domain.InstrumentMetrics{
		EffectiveAnnualCost:     effectiveAnnualCost,
		EstimatedUtilizationPct: utilization,
		RiskTier:                riskTierFor(ci),
	}
}

func riskTierFor(ci domain.CreditInstrument) domain.RiskTier {
	if ci.CollateralType != nil && securedCollateral[*ci.CollateralType] {
		return domain.RiskLow
	}
	switch ci.InstrumentType {
	case domain.BankOverdraft, domain.Factoring:
		return domain.RiskHigh
	}
	return domain.RiskMedium
}
