package repositories

import (
	"context"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
)

// TransactionReader defines read operations for usage transaction data.
type TransactionReader interface {
	// FindTransactionsByInstrumentID retrieves the full ordered ledger for one
	// instrument, oldest first. Ledger replay always consumes the complete set.
	FindTransactionsByInstrumentID(ctx context.Context, instrumentID int64) ([]domain.UsageTransaction, error)

	// FindTransactionByID retrieves a single transaction.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.UsageTransaction, error)
}

// TransactionWriter defines write operations for usage transaction data.
// Rows are immutable once created; there is deliberately no update operation.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction and returns its assigned ID.
	SaveTransaction(ctx context.Context, txn domain.UsageTransaction) (int64, error)

	// DeleteTransaction removes a transaction from the ledger.
	DeleteTransaction(ctx context.Context, transactionID int64) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
