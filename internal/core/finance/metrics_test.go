package finance_test

import (
	"testing"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/core/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMetricsFor_FixedTermLoan(t *testing.T) {
	metrics := finance.MetricsFor(termLoan(50000, 12, 60))

	// totalInterest ~16733 over 5 years on a 50000 limit: ~6.69% per year.
	assert.InDelta(t, 6.69, metrics.EffectiveAnnualCost.InexactFloat64(), 0.05)
	assert.True(t, metrics.EstimatedUtilizationPct.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.RiskMedium, metrics.RiskTier)
}

func TestMetricsFor_UtilizationTable(t *testing.T) {
	tests := []struct {
		instrumentType domain.InstrumentType
		wantPct        int64
	}{
		{domain.FixedTermLoan, 100},
		{domain.MortgageLoan, 100},
		{domain.Factoring, 60},
		{domain.BankOverdraft, 30},
		{domain.LetterOfCredit, 90},
		{domain.RevolvingLine, 70},
	}

	for _, tc := range tests {
		t.Run(string(tc.instrumentType), func(t *testing.T) {
			metrics := finance.MetricsFor(validInstrument(tc.instrumentType))
			assert.True(t, metrics.EstimatedUtilizationPct.Equal(decimal.NewFromInt(tc.wantPct)),
				"got %s", metrics.EstimatedUtilizationPct)
		})
	}
}

func TestMetricsFor_RiskTiers(t *testing.T) {
	// Secured collateral wins over everything else.
	mortgage := validInstrument(domain.MortgageLoan)
	assert.Equal(t, domain.RiskLow, finance.MetricsFor(mortgage).RiskTier)

	vehicle := validInstrument(domain.VehicleLoan)
	assert.Equal(t, domain.RiskLow, finance.MetricsFor(vehicle).RiskTier)

	assert.Equal(t, domain.RiskHigh, finance.MetricsFor(validInstrument(domain.BankOverdraft)).RiskTier)
	assert.Equal(t, domain.RiskHigh, finance.MetricsFor(validInstrument(domain.Factoring)).RiskTier)

	assert.Equal(t, domain.RiskMedium, finance.MetricsFor(validInstrument(domain.RevolvingLine)).RiskTier)
	assert.Equal(t, domain.RiskMedium, finance.MetricsFor(validInstrument(domain.LetterOfCredit)).RiskTier)
}

func TestMetricsFor_DefaultsTermToOneYear(t *testing.T) {
	line := validInstrument(domain.RevolvingLine)
	line.TotalLimit = decimal.NewFromInt(100000)
	line.AnnualInterestRate = decp(12)

	metrics := finance.MetricsFor(line)

	// Annualized cost 8400 over an assumed one-year term: 8.4%.
	assert.InDelta(t, 8.4, metrics.EffectiveAnnualCost.InexactFloat64(), 0.001)
}

func TestMetricsFor_ZeroLimitIsGuarded(t *testing.T) {
	ci := validInstrument(domain.RevolvingLine)
	ci.TotalLimit = decimal.Zero
	ci.AvailableAmount = decimal.Zero

	metrics := finance.MetricsFor(ci)
	assert.True(t, metrics.EffectiveAnnualCost.IsZero())
}
