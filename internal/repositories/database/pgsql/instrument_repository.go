package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
	"github.com/FinObraDev/credit_instruments_app/internal/models"
	"github.com/FinObraDev/credit_instruments_app/internal/utils/mapping"
)

// instrumentColumns is the scan order shared by every instrument query.
const instrumentColumns = `
	instrument_id, workspace_id, name, instrument_type, total_limit,
	available_amount, currency, start_date, end_date, annual_interest_rate,
	origination_charge, term_months, payment_frequency, asset_value,
	residual_value, financing_percentage, overdraft_limit, collateral_type,
	collateral_description, beneficiary, issuing_bank, supporting_document_type,
	is_revolving, created_at, created_by, last_updated_at, last_updated_by`

type PgxInstrumentRepository struct {
	BaseRepository
}

func newPgxInstrumentRepository(db *pgxpool.Pool) portsrepo.InstrumentRepositoryFacade {
	return &PgxInstrumentRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.InstrumentRepositoryFacade = (*PgxInstrumentRepository)(nil)

func scanInstrument(row pgx.Row) (models.CreditInstrument, error) {
	var m models.CreditInstrument
	err := row.Scan(
		&m.InstrumentID,
		&m.WorkspaceID,
		&m.Name,
		&m.InstrumentType,
		&m.TotalLimit,
		&m.AvailableAmount,
		&m.Currency,
		&m.StartDate,
		&m.EndDate,
		&m.AnnualInterestRate,
		&m.OriginationCharge,
		&m.TermMonths,
		&m.PaymentFrequency,
		&m.AssetValue,
		&m.ResidualValue,
		&m.FinancingPercentage,
		&m.OverdraftLimit,
		&m.CollateralType,
		&m.CollateralDescription,
		&m.Beneficiary,
		&m.IssuingBank,
		&m.SupportingDocumentType,
		&m.IsRevolving,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxInstrumentRepository) SaveInstrument(ctx context.Context, ci domain.CreditInstrument) (int64, error) {
	m := mapping.ToModelInstrument(ci)
	query := `
		INSERT INTO credit_instruments (
			workspace_id, name, instrument_type, total_limit, available_amount,
			currency, start_date, end_date, annual_interest_rate,
			origination_charge, term_months, payment_frequency, asset_value,
			residual_value, financing_percentage, overdraft_limit,
			collateral_type, collateral_description, beneficiary, issuing_bank,
			supporting_document_type, is_revolving, created_at, created_by,
			last_updated_at, last_updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		) RETURNING instrument_id;
	`
	var instrumentID int64
	err := r.Pool.QueryRow(ctx, query,
		m.WorkspaceID,
		m.Name,
		m.InstrumentType,
		m.TotalLimit,
		m.AvailableAmount,
		m.Currency,
		m.StartDate,
		m.EndDate,
		m.AnnualInterestRate,
		m.OriginationCharge,
		m.TermMonths,
		m.PaymentFrequency,
		m.AssetValue,
		m.ResidualValue,
		m.FinancingPercentage,
		m.OverdraftLimit,
		m.CollateralType,
		m.CollateralDescription,
		m.Beneficiary,
		m.IssuingBank,
		m.SupportingDocumentType,
		m.IsRevolving,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&instrumentID)
	if err != nil {
		return 0, fmt.Errorf("failed to save instrument: %w", err)
	}
	return instrumentID, nil
}

func (r *PgxInstrumentRepository) FindInstrumentByID(ctx context.Context, instrumentID int64) (*domain.CreditInstrument, error) {
	query := `SELECT` + instrumentColumns + `
		FROM credit_instruments
		WHERE instrument_id = $1;`

	m, err := scanInstrument(r.Pool.QueryRow(ctx, query, instrumentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find instrument by ID %d: %w", instrumentID, err)
	}

	d := mapping.ToDomainInstrument(m)
	return &d, nil
}

func (r *PgxInstrumentRepository) ListInstrumentsByWorkspace(ctx context.Context, workspaceID string) ([]domain.CreditInstrument, error) {
	query := `SELECT` + instrumentColumns + `
		FROM credit_instruments
		WHERE workspace_id = $1
		ORDER BY start_date, instrument_id;`

	rows, err := r.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	ms := []models.CreditInstrument{}
	for rows.Next() {
		m, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument rows: %w", err)
	}

	return mapping.ToDomainInstrumentSlice(ms), nil
}

func (r *PgxInstrumentRepository) ListInstrumentsEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.CreditInstrument, error) {
	query := `SELECT` + instrumentColumns + `
		FROM credit_instruments
		WHERE end_date <= $1
		ORDER BY end_date, instrument_id;`

	rows, err := r.Pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query maturing instruments: %w", err)
	}
	defer rows.Close()

	ms := []models.CreditInstrument{}
	for rows.Next() {
		m, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument rows: %w", err)
	}

	return mapping.ToDomainInstrumentSlice(ms), nil
}

func (r *PgxInstrumentRepository) UpdateInstrument(ctx context.Context, ci domain.CreditInstrument) error {
	m := mapping.ToModelInstrument(ci)
	query := `
		UPDATE credit_instruments SET
			name = $2,
			instrument_type = $3,
			total_limit = $4,
			available_amount = $5,
			currency = $6,
			start_date = $7,
			end_date = $8,
			annual_interest_rate = $9,
			origination_charge = $10,
			term_months = $11,
			payment_frequency = $12,
			asset_value = $13,
			residual_value = $14,
			financing_percentage = $15,
			overdraft_limit = $16,
			collateral_type = $17,
			collateral_description = $18,
			beneficiary = $19,
			issuing_bank = $20,
			supporting_document_type = $21,
			is_revolving = $22,
			last_updated_at = $23,
			last_updated_by = $24
		WHERE instrument_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.InstrumentID,
		m.Name,
		m.InstrumentType,
		m.TotalLimit,
		m.AvailableAmount,
		m.Currency,
		m.StartDate,
		m.EndDate,
		m.AnnualInterestRate,
		m.OriginationCharge,
		m.TermMonths,
		m.PaymentFrequency,
		m.AssetValue,
		m.ResidualValue,
		m.FinancingPercentage,
		m.OverdraftLimit,
		m.CollateralType,
		m.CollateralDescription,
		m.Beneficiary,
		m.IssuingBank,
		m.SupportingDocumentType,
		m.IsRevolving,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update instrument %d: %w", ci.InstrumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxInstrumentRepository) DeleteInstrument(ctx context.Context, instrumentID int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	// Ledger rows go with their instrument.
	if _, err := tx.Exec(ctx, `DELETE FROM usage_transactions WHERE instrument_id = $1;`, instrumentID); err != nil {
		return fmt.Errorf("failed to delete transactions for instrument %d: %w", instrumentID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM credit_instruments WHERE instrument_id = $1;`, instrumentID)
	if err != nil {
		return fmt.Errorf("failed to delete instrument %d: %w", instrumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
