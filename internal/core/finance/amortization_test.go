package finance_test

import (
	"testing"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/core/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termLoan(principal float64, rate float64, termMonths int) domain.CreditInstrument {
	ci := validInstrument(domain.FixedTermLoan)
	ci.TotalLimit = decimal.NewFromFloat(principal)
	ci.AvailableAmount = ci.TotalLimit
	ci.AnnualInterestRate = decp(rate)
	ci.TermMonths = intp(termMonths)
	return ci
}

func TestComputeForInstrument_FixedTermScenario(t *testing.T) {
	// 50000 at 12% over 60 months: monthly rate 1%.
	result := finance.ComputeForInstrument(termLoan(50000, 12, 60))

	assert.InDelta(t, 1112.22, result.PeriodicPayment.InexactFloat64(), 0.01)
	assert.InDelta(t, 66733.2, result.TotalPayments.InexactFloat64(), 1.0)
	assert.InDelta(t, 16733.2, result.TotalInterest.InexactFloat64(), 1.0)
	require.Len(t, result.Schedule, 60)
}

func TestComputeForInstrument_AnnuityIdentity(t *testing.T) {
	result := finance.ComputeForInstrument(termLoan(50000, 12, 60))

	principalSum := decimal.Zero
	installmentSum := decimal.Zero
	for _, entry := range result.Schedule {
		principalSum = principalSum.Add(entry.Principal)
		installmentSum = installmentSum.Add(entry.Installment)
	}

	// Principal components sum to the loan amount.
	assert.InDelta(t, 50000, principalSum.InexactFloat64(), 0.01)
	// Installments sum to cuota*n within rounding of the final adjustment.
	expected := result.PeriodicPayment.Mul(decimal.NewFromInt(60))
	assert.InDelta(t, expected.InexactFloat64(), installmentSum.InexactFloat64(), 1.0)
	// Balance lands exactly on zero.
	assert.True(t, result.Schedule[59].ClosingBalance.IsZero())
}

func TestComputeForInstrument_ZeroRateDegeneracy(t *testing.T) {
	result := finance.ComputeForInstrument(termLoan(12000, 0, 12))

	assert.True(t, result.PeriodicPayment.Equal(decimal.NewFromInt(1000)),
		"expected exactly L/n, got %s", result.PeriodicPayment)
	assert.True(t, result.TotalInterest.IsZero())
	for _, entry := range result.Schedule {
		assert.True(t, entry.Interest.IsZero())
	}
}

func TestComputeForInstrument_ScheduleIsMonotonic(t *testing.T) {
	result := finance.ComputeForInstrument(termLoan(30000, 9, 24))

	previousClosing := decimal.NewFromInt(30000)
	for _, entry := range result.Schedule {
		assert.True(t, entry.OpeningBalance.Equal(previousClosing))
		assert.False(t, entry.ClosingBalance.IsNegative())
		assert.True(t, entry.ClosingBalance.LessThanOrEqual(entry.OpeningBalance))
		previousClosing = entry.ClosingBalance
	}
}

func TestComputeForInstrument_Lease(t *testing.T) {
	ci := validInstrument(domain.OperatingLease)
	ci.AssetValue = decp(50000)
	ci.ResidualValue = decp(10000)
	ci.AnnualInterestRate = decp(12)
	ci.TermMonths = intp(60)

	result := finance.ComputeForInstrument(ci)

	// Financed amount is 40000; payment is the annuity over that.
	expectedPayment := finance.PeriodicPayment(decimal.NewFromInt(40000), decimal.NewFromInt(12), 60)
	assert.True(t, result.PeriodicPayment.Equal(expectedPayment))

	// Total payments include the residual balloon.
	installments := decimal.Zero
	for _, entry := range result.Schedule {
		installments = installments.Add(entry.Installment)
	}
	expectedTotal := installments.Add(decimal.NewFromInt(10000))
	assert.True(t, result.TotalPayments.Equal(expectedTotal))
}

func TestComputeForInstrument_LeaseResidualAboveAssetIsGuarded(t *testing.T) {
	// Invalid drafts may reach the calculator before validation completes; it
	// must not produce negative figures.
	ci := validInstrument(domain.FinanceLease)
	ci.AssetValue = decp(50000)
	ci.ResidualValue = decp(60000)

	result := finance.ComputeForInstrument(ci)
	assert.True(t, result.PeriodicPayment.IsZero())
	assert.True(t, result.TotalInterest.IsZero())
}

func TestComputeForInstrument_Factoring(t *testing.T) {
	ci := validInstrument(domain.Factoring)
	ci.TotalLimit = decimal.NewFromInt(200000)
	ci.AnnualInterestRate = decp(15)
	ci.FinancingPercentage = decp(80)

	result := finance.ComputeForInstrument(ci)

	// 200000 * 0.15 * 0.80 = 24000; effective rate 12%.
	assert.InDelta(t, 24000, result.TotalInterest.InexactFloat64(), 0.001)
	assert.InDelta(t, 12, result.EffectiveRate.InexactFloat64(), 0.001)
	assert.True(t, result.PeriodicPayment.IsZero())
	assert.Empty(t, result.Schedule)
}

func TestComputeForInstrument_Overdraft(t *testing.T) {
	ci := validInstrument(domain.BankOverdraft)
	ci.TotalLimit = decimal.NewFromInt(100000)
	ci.OverdraftLimit = decp(60000)
	ci.AnnualInterestRate = decp(20)

	result := finance.ComputeForInstrument(ci)

	// 60000 * 0.20 * 0.5 = 6000.
	assert.InDelta(t, 6000, result.TotalInterest.InexactFloat64(), 0.001)

	// With no overdraft limit the total limit is used instead.
	ci.OverdraftLimit = nil
	result = finance.ComputeForInstrument(ci)
	assert.InDelta(t, 10000, result.TotalInterest.InexactFloat64(), 0.001)
}

func TestComputeForInstrument_LetterOfCredit(t *testing.T) {
	ci := validInstrument(domain.LetterOfCredit)
	ci.TotalLimit = decimal.NewFromInt(100000)
	ci.AnnualInterestRate = decp(8)

	result := finance.ComputeForInstrument(ci)

	// 1.5% commission + one year carrying cost: 1500 + 8000.
	assert.InDelta(t, 9500, result.TotalInterest.InexactFloat64(), 0.001)
}

func TestComputeForInstrument_RevolvingFallback(t *testing.T) {
	ci := validInstrument(domain.RevolvingLine)
	ci.TotalLimit = decimal.NewFromInt(100000)
	ci.AnnualInterestRate = decp(12)

	result := finance.ComputeForInstrument(ci)

	// 100000 * 0.12 * 0.7 = 8400.
	assert.InDelta(t, 8400, result.TotalInterest.InexactFloat64(), 0.001)
}

func TestComputeForInstrument_DegenerateInputsYieldZero(t *testing.T) {
	tests := []struct {
		name string
		ci   domain.CreditInstrument
	}{
		{"missing term", func() domain.CreditInstrument {
			ci := validInstrument(domain.FixedTermLoan)
			ci.TermMonths = nil
			return ci
		}()},
		{"zero principal", termLoan(0, 12, 60)},
		{"missing rate on revolving", func() domain.CreditInstrument {
			ci := validInstrument(domain.RevolvingLine)
			ci.AnnualInterestRate = nil
			return ci
		}()},
		{"missing financing percentage", func() domain.CreditInstrument {
			ci := validInstrument(domain.Factoring)
			ci.FinancingPercentage = nil
			return ci
		}()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := finance.ComputeForInstrument(tc.ci)
			assert.True(t, result.PeriodicPayment.IsZero())
			assert.True(t, result.TotalInterest.IsZero())
			assert.True(t, result.TotalPayments.IsZero())
		})
	}
}

func TestBuildSchedule_DueDatesAdvanceMonthly(t *testing.T) {
	start := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	schedule := finance.BuildSchedule(decimal.NewFromInt(10000), decimal.NewFromInt(10), 6, start)

	require.Len(t, schedule, 6)
	for i, entry := range schedule {
		assert.Equal(t, start.AddDate(0, i+1, 0), entry.DueDate)
	}
}
