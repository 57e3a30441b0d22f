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

func txn(kind domain.TransactionKind, amount float64, date time.Time) domain.UsageTransaction {
	return domain.UsageTransaction{
		Kind:   kind,
		Amount: decimal.NewFromFloat(amount),
		Date:   date,
	}
}

func TestOutstandingPrincipalBefore(t *testing.T) {
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb5 := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	mar1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	txns := []domain.UsageTransaction{
		txn(domain.Drawdown, 10000, jan10),
		txn(domain.Payment, 3000, feb5),
		txn(domain.ClientCredit, 500, feb5),
		txn(domain.Drawdown, 2000, mar1), // on the cutoff month, excluded
	}

	// Cutoff in March: January and February entries count.
	balance := finance.OutstandingPrincipalBefore(txns, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.InDelta(t, 7500, balance.InexactFloat64(), 0.001)
}

func TestOutstandingPrincipalBefore_ClampsToZero(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	txns := []domain.UsageTransaction{
		txn(domain.Payment, 9000, jan), // over-payment before any drawdown
		txn(domain.Drawdown, 1000, jan),
	}

	balance := finance.OutstandingPrincipalBefore(txns, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, balance.IsZero())
}

func TestOutstandingPrincipalBefore_EmptyLedger(t *testing.T) {
	balance := finance.OutstandingPrincipalBefore(nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, balance.IsZero())
}

func TestNetChangeForMonth(t *testing.T) {
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	txns := []domain.UsageTransaction{
		txn(domain.Drawdown, 5000, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)),
		txn(domain.Payment, 2000, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
		txn(domain.ClientCredit, 800, time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC)), // ignored
		txn(domain.Drawdown, 999, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),      // other month
	}

	net := finance.NetChangeForMonth(txns, feb)
	assert.InDelta(t, 3000, net.InexactFloat64(), 0.001)
}

func TestNetChangeSeries(t *testing.T) {
	txns := []domain.UsageTransaction{
		txn(domain.Drawdown, 1000, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
		txn(domain.Payment, 400, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)),
	}

	series := finance.NetChangeSeries(txns, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), 3)
	require.Len(t, series, 3)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), series[0].Month)
	assert.InDelta(t, 1000, series[0].NetChange.InexactFloat64(), 0.001)
	assert.InDelta(t, -400, series[1].NetChange.InexactFloat64(), 0.001)
	assert.True(t, series[2].NetChange.IsZero())
}
