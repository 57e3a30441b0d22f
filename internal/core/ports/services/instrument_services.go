package services

import (
	"context"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/core/finance"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
)

// InstrumentSvcFacade defines management and calculation operations over
// credit instruments.
type InstrumentSvcFacade interface {
	// CreateInstrument validates the candidate through the rule registry,
	// applies type defaults, and persists it. A rule failure returns an error
	// matching apperrors.ErrValidation and carrying the ordered messages.
	CreateInstrument(ctx context.Context, workspaceID string, req dto.CreateInstrumentRequest, creatorUserID string) (*domain.CreditInstrument, error)

	GetInstrument(ctx context.Context, instrumentID int64) (*domain.CreditInstrument, error)
	ListInstruments(ctx context.Context, workspaceID string) ([]domain.CreditInstrument, error)

	// UpdateInstrument re-runs the full rule registry against the replacement
	// record before persisting it.
	UpdateInstrument(ctx context.Context, instrumentID int64, req dto.UpdateInstrumentRequest, updaterUserID string) (*domain.CreditInstrument, error)

	DeleteInstrument(ctx context.Context, instrumentID int64) error

	// TypeDefaults exposes the rule registry's defaults and required fields
	// for the create form's type switch.
	TypeDefaults(ctx context.Context, instrumentType domain.InstrumentType) (finance.Defaults, []string, error)

	// Amortization computes the pricing figures and, for term kinds, the full
	// schedule for a persisted instrument.
	Amortization(ctx context.Context, instrumentID int64) (domain.AmortizationResult, error)

	// Metrics derives the summary risk/performance indicators.
	Metrics(ctx context.Context, instrumentID int64) (domain.InstrumentMetrics, error)
}

// MaturityScannerSvc lists instruments approaching their end date; consumed by
// the reminder scheduler.
type MaturityScannerSvc interface {
	InstrumentsMaturingBy(ctx context.Context, cutoff time.Time) ([]domain.CreditInstrument, error)
}
