package services

import (
	"context"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionSvcFacade defines operations over an instrument's usage ledger.
type TransactionSvcFacade interface {
	// RecordTransaction appends one immutable ledger entry.
	RecordTransaction(ctx context.Context, instrumentID int64, req dto.RecordTransactionRequest, creatorUserID string) (*domain.UsageTransaction, error)

	// ListTransactions returns the full ordered ledger, oldest first.
	ListTransactions(ctx context.Context, instrumentID int64) ([]domain.UsageTransaction, error)

	// DeleteTransaction removes an entry; balances are re-derived on the next
	// replay, so no compensation is needed.
	DeleteTransaction(ctx context.Context, transactionID int64) error

	// OutstandingPrincipal replays the ledger and returns the drawn principal
	// before the start of cutoff's month.
	OutstandingPrincipal(ctx context.Context, instrumentID int64, cutoff time.Time) (decimal.Decimal, error)

	// NetChangeSeries produces the month-by-month planning series for one
	// instrument.
	NetChangeSeries(ctx context.Context, instrumentID int64, from time.Time, months int) ([]domain.MonthlyNetChange, error)
}
