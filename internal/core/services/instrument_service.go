package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/core/finance"
	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
)

// instrumentService implements the InstrumentSvcFacade interface.
type instrumentService struct {
	BaseService
	instrumentRepo portsrepo.InstrumentRepositoryFacade
	cache          portsrepo.ProjectionCache
}

// InstrumentServiceOption is a functional option for configuring the service.
type InstrumentServiceOption func(*instrumentService)

// WithInstrumentProjectionCache lets instrument writes invalidate cached
// projections for the affected workspace.
func WithInstrumentProjectionCache(cache portsrepo.ProjectionCache) InstrumentServiceOption {
	return func(s *instrumentService) {
		s.cache = cache
	}
}

// NewInstrumentService creates a new instrument service with the provided options.
func NewInstrumentService(repo portsrepo.InstrumentRepositoryFacade, options ...InstrumentServiceOption) portssvc.InstrumentSvcFacade {
	svc := &instrumentService{instrumentRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure instrumentService implements the facades it claims.
var (
	_ portssvc.InstrumentSvcFacade = (*instrumentService)(nil)
	_ portssvc.MaturityScannerSvc  = (*instrumentService)(nil)
)

func (s *instrumentService) CreateInstrument(ctx context.Context, workspaceID string, req dto.CreateInstrumentRequest, creatorUserID string) (*domain.CreditInstrument, error) {
	candidate := req.ToDomainInstrument(workspaceID)

	if defaults, ok := finance.DefaultsFor(candidate.InstrumentType); ok {
		candidate = finance.ApplyDefaults(candidate, defaults)
		if req.IsRevolving != nil {
			candidate.IsRevolving = *req.IsRevolving
		}
	}

	if messages := finance.Validate(candidate); len(messages) > 0 {
		s.LogWarn(ctx, "Instrument failed rule validation",
			slog.String("workspace_id", workspaceID),
			slog.Int("error_count", len(messages)))
		return nil, apperrors.NewValidationError(messages)
	}

	now := time.Now()
	candidate.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	instrumentID, err := s.instrumentRepo.SaveInstrument(ctx, candidate)
	if err != nil {
		s.LogError(ctx, err, "Failed to save instrument", slog.String("workspace_id", workspaceID))
		return nil, fmt.Errorf("failed to save instrument: %w", err)
	}
	candidate.InstrumentID = instrumentID

	s.invalidateProjections(ctx, workspaceID)
	s.LogInfo(ctx, "Instrument created",
		slog.Int64("instrument_id", instrumentID),
		slog.String("instrument_type", string(candidate.InstrumentType)))
	return &candidate, nil
}

func (s *instrumentService) GetInstrument(ctx context.Context, instrumentID int64) (*domain.CreditInstrument, error) {
	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}
	return instrument, nil
}

func (s *instrumentService) ListInstruments(ctx context.Context, workspaceID string) ([]domain.CreditInstrument, error) {
	instruments, err := s.instrumentRepo.ListInstrumentsByWorkspace(ctx, workspaceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list instruments", slog.String("workspace_id", workspaceID))
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	return instruments, nil
}

func (s *instrumentService) UpdateInstrument(ctx context.Context, instrumentID int64, req dto.UpdateInstrumentRequest, updaterUserID string) (*domain.CreditInstrument, error) {
	existing, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}

	replacement := req.ToDomainInstrument(existing.WorkspaceID)
	replacement.InstrumentID = existing.InstrumentID

	if messages := finance.Validate(replacement); len(messages) > 0 {
		s.LogWarn(ctx, "Instrument update failed rule validation",
			slog.Int64("instrument_id", instrumentID),
			slog.Int("error_count", len(messages)))
		return nil, apperrors.NewValidationError(messages)
	}

	replacement.AuditFields = existing.AuditFields
	replacement.LastUpdatedAt = time.Now()
	replacement.LastUpdatedBy = updaterUserID

	if err := s.instrumentRepo.UpdateInstrument(ctx, replacement); err != nil {
		s.LogError(ctx, err, "Failed to update instrument", slog.Int64("instrument_id", instrumentID))
		return nil, fmt.Errorf("failed to update instrument %d: %w", instrumentID, err)
	}

	s.invalidateProjections(ctx, existing.WorkspaceID)
	s.LogInfo(ctx, "Instrument updated", slog.Int64("instrument_id", instrumentID))
	return &replacement, nil
}

func (s *instrumentService) DeleteInstrument(ctx context.Context, instrumentID int64) error {
	existing, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}

	if err := s.instrumentRepo.DeleteInstrument(ctx, instrumentID); err != nil {
		s.LogError(ctx, err, "Failed to delete instrument", slog.Int64("instrument_id", instrumentID))
		return fmt.Errorf("failed to delete instrument %d: %w", instrumentID, err)
	}

	s.invalidateProjections(ctx, existing.WorkspaceID)
	s.LogInfo(ctx, "Instrument deleted", slog.Int64("instrument_id", instrumentID))
	return nil
}

func (s *instrumentService) TypeDefaults(ctx context.Context, instrumentType domain.InstrumentType) (finance.Defaults, []string, error) {
	defaults, ok := finance.DefaultsFor(instrumentType)
	if !ok {
		return finance.Defaults{}, nil, fmt.Errorf("unknown instrument type %q: %w", instrumentType, apperrors.ErrNotFound)
	}
	return defaults, finance.RequiredFields(instrumentType), nil
}

func (s *instrumentService) Amortization(ctx context.Context, instrumentID int64) (domain.AmortizationResult, error) {
	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return domain.AmortizationResult{}, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}
	return finance.ComputeForInstrument(*instrument), nil
}

func (s *instrumentService) Metrics(ctx context.Context, instrumentID int64) (domain.InstrumentMetrics, error) {
	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return domain.InstrumentMetrics{}, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}
	return finance.MetricsFor(*instrument), nil
}

// InstrumentsMaturingBy lists instruments whose end date is on or before the
// cutoff; consumed by the maturity-reminder scheduler.
func (s *instrumentService) InstrumentsMaturingBy(ctx context.Context, cutoff time.Time) ([]domain.CreditInstrument, error) {
	instruments, err := s.instrumentRepo.ListInstrumentsEndingBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list maturing instruments: %w", err)
	}
	return instruments, nil
}

func (s *instrumentService) invalidateProjections(ctx context.Context, workspaceID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, workspaceID); err != nil {
		// Stale cache entries expire on their own; log and move on.
		s.LogWarn(ctx, "Failed to invalidate projection cache",
			slog.String("workspace_id", workspaceID), slog.String("error", err.Error()))
	}
}
