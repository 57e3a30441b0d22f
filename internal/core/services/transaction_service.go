package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/core/finance"
	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
)

// transactionService implements the TransactionSvcFacade interface.
type transactionService struct {
	BaseService
	txnRepo        portsrepo.TransactionRepositoryFacade
	instrumentRepo portsrepo.InstrumentReader
	cache          portsrepo.ProjectionCache
}

// TransactionServiceOption is a functional option for configuring the service.
type TransactionServiceOption func(*transactionService)

// WithTransactionProjectionCache lets ledger writes invalidate cached
// projections for the affected workspace.
func WithTransactionProjectionCache(cache portsrepo.ProjectionCache) TransactionServiceOption {
	return func(s *transactionService) {
		s.cache = cache
	}
}

// NewTransactionService creates a new transaction service with the provided options.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, instrumentRepo portsrepo.InstrumentReader, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{txnRepo: txnRepo, instrumentRepo: instrumentRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) RecordTransaction(ctx context.Context, instrumentID int64, req dto.RecordTransactionRequest, creatorUserID string) (*domain.UsageTransaction, error) {
	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}

	candidate := req.ToDomainTransaction(instrument.InstrumentID)
	if messages := s.validateTransaction(candidate); len(messages) > 0 {
		s.LogWarn(ctx, "Transaction failed validation",
			slog.Int64("instrument_id", instrumentID),
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

	transactionID, err := s.txnRepo.SaveTransaction(ctx, candidate)
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.Int64("instrument_id", instrumentID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	candidate.TransactionID = transactionID

	s.invalidateProjections(ctx, instrument.WorkspaceID)
	s.LogInfo(ctx, "Transaction recorded",
		slog.Int64("transaction_id", transactionID),
		slog.Int64("instrument_id", instrumentID),
		slog.String("kind", string(candidate.Kind)))
	return &candidate, nil
}

func (s *transactionService) validateTransaction(txn domain.UsageTransaction) []string {
	var messages []string
	if !txn.Kind.IsValid() {
		messages = append(messages, fmt.Sprintf("unknown transaction kind %q", txn.Kind))
	}
	if !txn.Amount.IsPositive() {
		messages = append(messages, "amount must be greater than zero")
	}
	if txn.TransactionFee != nil {
		if txn.Kind != domain.Drawdown {
			messages = append(messages, "transactionFee is only allowed on drawdowns")
		} else if txn.TransactionFee.IsNegative() {
			messages = append(messages, "transactionFee must not be negative")
		}
	}
	return messages
}

func (s *transactionService) ListTransactions(ctx context.Context, instrumentID int64) ([]domain.UsageTransaction, error) {
	if _, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID); err != nil {
		return nil, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}
	txns, err := s.txnRepo.FindTransactionsByInstrumentID(ctx, instrumentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int64("instrument_id", instrumentID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID int64) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction %d: %w", transactionID, err)
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.Int64("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction %d: %w", transactionID, err)
	}

	if instrument, ferr := s.instrumentRepo.FindInstrumentByID(ctx, txn.InstrumentID); ferr == nil {
		s.invalidateProjections(ctx, instrument.WorkspaceID)
	}
	s.LogInfo(ctx, "Transaction deleted", slog.Int64("transaction_id", transactionID))
	return nil
}

func (s *transactionService) OutstandingPrincipal(ctx context.Context, instrumentID int64, cutoff time.Time) (decimal.Decimal, error) {
	if _, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}
	txns, err := s.txnRepo.FindTransactionsByInstrumentID(ctx, instrumentID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list transactions: %w", err)
	}
	return finance.OutstandingPrincipalBefore(txns, cutoff), nil
}

func (s *transactionService) NetChangeSeries(ctx context.Context, instrumentID int64, from time.Time, months int) ([]domain.MonthlyNetChange, error) {
	if _, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID); err != nil {
		return nil, fmt.Errorf("failed to find instrument %d: %w", instrumentID, err)
	}
	if months <= 0 {
		months = finance.DefaultPlanningMonths
	}
	txns, err := s.txnRepo.FindTransactionsByInstrumentID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return finance.NetChangeSeries(txns, from, months), nil
}

func (s *transactionService) invalidateProjections(ctx context.Context, workspaceID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, workspaceID); err != nil {
		s.LogWarn(ctx, "Failed to invalidate projection cache",
			slog.String("workspace_id", workspaceID), slog.String("error", err.Error()))
	}
}
