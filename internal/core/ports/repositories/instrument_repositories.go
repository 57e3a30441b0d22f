package repositories

import (
	"context"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
)

// InstrumentReader defines read operations for credit instrument data.
type InstrumentReader interface {
	// FindInstrumentByID retrieves a specific instrument by its identifier.
	FindInstrumentByID(ctx context.Context, instrumentID int64) (*domain.CreditInstrument, error)

	// ListInstrumentsByWorkspace retrieves every instrument in a workspace,
	// ordered by identifier.
	ListInstrumentsByWorkspace(ctx context.Context, workspaceID string) ([]domain.CreditInstrument, error)

	// ListInstrumentsEndingBefore retrieves instruments whose end date falls on
	// or before the given date. Used by the maturity-reminder scheduler.
	ListInstrumentsEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.CreditInstrument, error)
}

// InstrumentWriter defines write operations for credit instrument data.
type InstrumentWriter interface {
	// SaveInstrument persists a new instrument and returns its assigned ID.
	SaveInstrument(ctx context.Context, instrument domain.CreditInstrument) (int64, error)

	// UpdateInstrument replaces the mutable fields of an existing instrument.
	UpdateInstrument(ctx context.Context, instrument domain.CreditInstrument) error

	// DeleteInstrument removes an instrument and its usage transactions.
	DeleteInstrument(ctx context.Context, instrumentID int64) error
}

// InstrumentRepositoryFacade combines all instrument repository interfaces.
type InstrumentRepositoryFacade interface {
	InstrumentReader
	InstrumentWriter
}
