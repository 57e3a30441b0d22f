package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
	"github.com/FinObraDev/credit_instruments_app/internal/models"
	"github.com/FinObraDev/credit_instruments_app/internal/utils/mapping"
)

const transactionColumns = `
	transaction_id, instrument_id, txn_date, amount, kind, description,
	transaction_fee, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.UsageTransaction, error) {
	var m models.UsageTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.InstrumentID,
		&m.Date,
		&m.Amount,
		&m.Kind,
		&m.Description,
		&m.TransactionFee,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.UsageTransaction) (int64, error) {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO usage_transactions (
			instrument_id, txn_date, amount, kind, description, transaction_fee,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING transaction_id;
	`
	var transactionID int64
	err := r.Pool.QueryRow(ctx, query,
		m.InstrumentID,
		m.Date,
		m.Amount,
		m.Kind,
		m.Description,
		m.TransactionFee,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&transactionID)
	if err != nil {
		return 0, fmt.Errorf("failed to save transaction: %w", err)
	}
	return transactionID, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.UsageTransaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM usage_transactions
		WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %d: %w", transactionID, err)
	}

	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

func (r *PgxTransactionRepository) FindTransactionsByInstrumentID(ctx context.Context, instrumentID int64) ([]domain.UsageTransaction, error) {
	// Ledger replay depends on this order.
	query := `SELECT` + transactionColumns + `
		FROM usage_transactions
		WHERE instrument_id = $1
		ORDER BY txn_date, transaction_id;`

	rows, err := r.Pool.Query(ctx, query, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	ms := []models.UsageTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(ms), nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM usage_transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
