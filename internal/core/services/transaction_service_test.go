package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/core/services"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionsByInstrumentID(ctx context.Context, instrumentID int64) ([]domain.UsageTransaction, error) {
	args := m.Called(ctx, instrumentID)
	var txns []domain.UsageTransaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.UsageTransaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.UsageTransaction, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.UsageTransaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.UsageTransaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.UsageTransaction) (int64, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID int64) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Test Suite ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo        *MockTransactionRepository
	mockInstrumentRepo *MockInstrumentRepository
	mockCache          *MockProjectionCache
	service            portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockInstrumentRepo = new(MockInstrumentRepository)
	suite.mockCache = new(MockProjectionCache)
	suite.service = services.NewTransactionService(
		suite.mockTxnRepo,
		suite.mockInstrumentRepo,
		services.WithTransactionProjectionCache(suite.mockCache),
	)
}

func (suite *TransactionServiceTestSuite) instrument() *domain.CreditInstrument {
	return &domain.CreditInstrument{
		InstrumentID:   42,
		WorkspaceID:    "ws-1",
		Name:           "Working capital line",
		InstrumentType: domain.RevolvingLine,
	}
}

// --- RecordTransaction Tests ---
func (suite *TransactionServiceTestSuite) TestRecordTransaction_Success() {
	ctx := context.Background()
	req := dto.RecordTransactionRequest{
		Date:   "2025-06-10",
		Amount: decimal.RequireFromString("15000"),
		Kind:   domain.Drawdown,
	}

	suite.mockInstrumentRepo.On("FindInstrumentByID", ctx, int64(42)).Return(suite.instrument(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.UsageTransaction) bool {
		return txn.InstrumentID == 42 &&
			txn.Kind == domain.Drawdown &&
			txn.Amount.Equal(decimal.RequireFromString("15000")) &&
			txn.CreatedBy == "user-1"
	})).Return(int64(100), nil).Once()
	suite.mockCache.On("Invalidate", ctx, "ws-1").Return(nil).Once()

	recorded, err := suite.service.RecordTransaction(ctx, 42, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(int64(100), recorded.TransactionID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestRecordTransaction_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordTransactionRequest{
		Date:   "2025-06-10",
		Amount: decimal.Zero,
		Kind:   domain.Payment,
	}

	suite.mockInstrumentRepo.On("FindInstrumentByID", ctx, int64(42)).Return(suite.instrument(), nil).Once()

	recorded, err := suite.service.RecordTransaction(ctx, 42, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(recorded)
	suite.ErrorIs(err, apperrors.ErrValidation)

	var verr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Contains(verr.Messages, "amount must be greater than zero")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *TransactionServiceTestSuite) TestRecordTransaction_FeeOnlyOnDrawdowns() {
	ctx := context.Background()
	fee := decimal.RequireFromString("50")
	req := dto.RecordTransactionRequest{
		Date:           "2025-06-10",
		Amount:         decimal.RequireFromString("5000"),
		Kind:           domain.Payment,
		TransactionFee: &fee,
	}

	suite.mockInstrumentRepo.On("FindInstrumentByID", ctx, int64(42)).Return(suite.instrument(), nil).Once()

	_, err := suite.service.RecordTransaction(ctx, 42, req, "user-1")

	suite.Require().Error(err)
	var verr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Contains(verr.Messages, "transactionFee is only allowed on drawdowns")
}

func (suite *TransactionServiceTestSuite) TestRecordTransaction_InstrumentNotFound() {
	ctx := context.Background()
	req := dto.RecordTransactionRequest{
		Date:   "2025-06-10",
		Amount: decimal.RequireFromString("100"),
		Kind:   domain.Drawdown,
	}

	suite.mockInstrumentRepo.On("FindInstrumentByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordTransaction(ctx, 99, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- DeleteTransaction Tests ---
func (suite *TransactionServiceTestSuite) TestDeleteTransaction_Success() {
	ctx := context.Background()
	txn := &domain.UsageTransaction{TransactionID: 100, InstrumentID: 42}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(100)).Return(txn, nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, int64(100)).Return(nil).Once()
	suite.mockInstrumentRepo.On("FindInstrumentByID", ctx, int64(42)).Return(suite.instrument(), nil).Once()
	suite.mockCache.On("Invalidate", ctx, "ws-1").Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, 100)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_NotFound() {
	ctx := context.Background()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(999)).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteTransaction(ctx, 999)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction")
}

// --- OutstandingPrincipal Tests ---
func (suite *TransactionServiceTestSuite) TestOutstandingPrincipal_ReplaysLedger() {
	ctx := context.Background()
	cutoff := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	txns := []domain.UsageTransaction{
		{Kind: domain.Drawdown, Amount: decimal.RequireFromString("10000"), Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)},
		{Kind: domain.Payment, Amount: decimal.RequireFromString("2500"), Date: time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)},
		// Same month as the cutoff, so excluded from the replay.
		{Kind: domain.Drawdown, Amount: decimal.RequireFromString("9999"), Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
	}

	suite.mockInstrumentRepo.On("FindInstrumentByID", ctx, int64(42)).Return(suite.instrument(), nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByInstrumentID", ctx, int64(42)).Return(txns, nil).Once()

	balance, err := suite.service.OutstandingPrincipal(ctx, 42, cutoff)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("7500")), "got %s", balance)
}

// --- NetChangeSeries Tests ---
func (suite *TransactionServiceTestSuite) TestNetChangeSeries_DefaultHorizon() {
	ctx := context.Background()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.mockInstrumentRepo.On("FindInstrumentByID", ctx, int64(42)).Return(suite.instrument(), nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByInstrumentID", ctx, int64(42)).Return([]domain.UsageTransaction{}, nil).Once()

	series, err := suite.service.NetChangeSeries(ctx, 42, from, 0)

	suite.Require().NoError(err)
	suite.Len(series, 36)
	suite.Equal(from, series[0].Month)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
