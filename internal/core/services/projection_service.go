package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/core/finance"
	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
)

// projectionCacheTTL bounds staleness when an invalidation is missed.
const projectionCacheTTL = 15 * time.Minute

// projectionService implements the ProjectionSvcFacade interface.
type projectionService struct {
	BaseService
	instrumentRepo portsrepo.InstrumentReader
	txnRepo        portsrepo.TransactionReader
	cache          portsrepo.ProjectionCache
}

// ProjectionServiceOption is a functional option for configuring the service.
type ProjectionServiceOption func(*projectionService)

// WithProjectionCache enables read-through caching of consolidated projection
// results. A nil cache leaves caching disabled.
func WithProjectionCache(cache portsrepo.ProjectionCache) ProjectionServiceOption {
	return func(s *projectionService) {
		s.cache = cache
	}
}

// NewProjectionService creates a new projection service with the provided options.
func NewProjectionService(instrumentRepo portsrepo.InstrumentReader, txnRepo portsrepo.TransactionReader, options ...ProjectionServiceOption) portssvc.ProjectionSvcFacade {
	svc := &projectionService{instrumentRepo: instrumentRepo, txnRepo: txnRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ProjectionSvcFacade = (*projectionService)(nil)

func (s *projectionService) ConsolidatedProjection(ctx context.Context, workspaceID string, anchor time.Time, monthsAfter int) (*domain.ProjectionResult, error) {
	if monthsAfter <= 0 {
		monthsAfter = finance.DefaultConsolidatedMonths
	}

	cacheKey := consolidatedCacheKey(workspaceID, anchor, monthsAfter)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	instruments, err := s.instrumentRepo.ListInstrumentsByWorkspace(ctx, workspaceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list instruments for projection", slog.String("workspace_id", workspaceID))
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	txnsByInstrument, warnings := s.fetchLedgers(ctx, instruments)

	result := &domain.ProjectionResult{
		Rows:     finance.Project(instruments, txnsByInstrument, anchor, monthsAfter),
		Warnings: warnings,
	}

	// Only cache clean results; a warning means an input ledger was missing.
	if len(warnings) == 0 {
		s.cacheSet(ctx, cacheKey, result)
	}
	return result, nil
}

func (s *projectionService) InstrumentProjection(ctx context.Context, instrumentID int64, anchor time.Time, monthsAfter int) (*domain.ProjectionResult, error) {
	if monthsAfter <= 0 {
		monthsAfter = finance.DefaultPlanningMonths
	}

	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}

	txns, err := s.txnRepo.FindTransactionsByInstrumentID(ctx, instrumentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for projection", slog.Int64("instrument_id", instrumentID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	instruments := []domain.CreditInstrument{*instrument}
	txnsByInstrument := map[int64][]domain.UsageTransaction{instrumentID: txns}

	return &domain.ProjectionResult{
		Rows: finance.Project(instruments, txnsByInstrument, anchor, monthsAfter),
	}, nil
}

// fetchLedgers loads every instrument's transactions concurrently. A failed
// fetch substitutes an empty ledger and records a warning so one broken
// instrument cannot sink the whole consolidated view.
func (s *projectionService) fetchLedgers(ctx context.Context, instruments []domain.CreditInstrument) (map[int64][]domain.UsageTransaction, []string) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		ledgers  = make(map[int64][]domain.UsageTransaction, len(instruments))
		warnings []string
	)

	for _, ci := range instruments {
		wg.Add(1)
		go func(ci domain.CreditInstrument) {
			defer wg.Done()
			txns, err := s.txnRepo.FindTransactionsByInstrumentID(ctx, ci.InstrumentID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.LogWarn(ctx, "Ledger fetch failed, projecting with empty ledger",
					slog.Int64("instrument_id", ci.InstrumentID),
					slog.String("error", err.Error()))
				warnings = append(warnings, fmt.Sprintf("transactions unavailable for instrument %d (%s); projected without ledger activity", ci.InstrumentID, ci.Name))
				return
			}
			ledgers[ci.InstrumentID] = txns
		}(ci)
	}
	wg.Wait()

	sort.Strings(warnings)
	return ledgers, warnings
}

func consolidatedCacheKey(workspaceID string, anchor time.Time, monthsAfter int) string {
	return fmt.Sprintf("projection:%s:%s:%d", workspaceID, anchor.UTC().Format("2006-01"), monthsAfter)
}

func (s *projectionService) cacheGet(ctx context.Context, key string) (*domain.ProjectionResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var result domain.ProjectionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.LogWarn(ctx, "Discarding undecodable cached projection", slog.String("key", key))
		return nil, false
	}
	return &result, true
}

func (s *projectionService) cacheSet(ctx context.Context, key string, result *domain.ProjectionResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), projectionCacheTTL); err != nil {
		s.LogWarn(ctx, "Failed to cache projection", slog.String("key", key), slog.String("error", err.Error()))
	}
}
