package services_test

import (
	"context"
	"errors"
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

// --- Mock InstrumentRepository ---
type MockInstrumentRepository struct {
	mock.Mock
}

func (m *MockInstrumentRepository) FindInstrumentByID(ctx context.Context, instrumentID int64) (*domain.CreditInstrument, error) {
	args := m.Called(ctx, instrumentID)
	var ci *domain.CreditInstrument
	if args.Get(0) != nil {
		ci = args.Get(0).(*domain.CreditInstrument)
	}
	return ci, args.Error(1)
}

func (m *MockInstrumentRepository) ListInstrumentsByWorkspace(ctx context.Context, workspaceID string) ([]domain.CreditInstrument, error) {
	args := m.Called(ctx, workspaceID)
	var instruments []domain.CreditInstrument
	if args.Get(0) != nil {
		instruments = args.Get(0).([]domain.CreditInstrument)
	}
	return instruments, args.Error(1)
}

func (m *MockInstrumentRepository) ListInstrumentsEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.CreditInstrument, error) {
	args := m.Called(ctx, cutoff)
	var instruments []domain.CreditInstrument
	if args.Get(0) != nil {
		instruments = args.Get(0).([]domain.CreditInstrument)
	}
	return instruments, args.Error(1)
}

func (m *MockInstrumentRepository) SaveInstrument(ctx context.Context, ci domain.CreditInstrument) (int64, error) {
	args := m.Called(ctx, ci)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInstrumentRepository) UpdateInstrument(ctx context.Context, ci domain.CreditInstrument) error {
	args := m.Called(ctx, ci)
	return args.Error(0)
}

func (m *MockInstrumentRepository) DeleteInstrument(ctx context.Context, instrumentID int64) error {
	args := m.Called(ctx, instrumentID)
	return args.Error(0)
}

// --- Mock ProjectionCache ---
type MockProjectionCache struct {
	mock.Mock
}

func (m *MockProjectionCache) Get(ctx context.Context, key string) (string, bool) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1)
}

func (m *MockProjectionCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockProjectionCache) Invalidate(ctx context.Context, workspaceID string) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

// --- Test Suite ---
type InstrumentServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockInstrumentRepository
	mockCache *MockProjectionCache
	service   portssvc.InstrumentSvcFacade
}

func (suite *InstrumentServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInstrumentRepository)
	suite.mockCache = new(MockProjectionCache)
	suite.service = services.NewInstrumentService(
		suite.mockRepo,
		services.WithInstrumentProjectionCache(suite.mockCache),
	)
}

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func validLoanRequest() dto.CreateInstrumentRequest {
	freq := domain.FrequencyMonthly
	term := 60
	return dto.CreateInstrumentRequest{
		Name:               "Machinery loan",
		InstrumentType:     domain.FixedTermLoan,
		TotalLimit:         decimal.RequireFromString("50000"),
		Currency:           "MXN",
		StartDate:          "2025-01-01",
		EndDate:            "2029-12-31",
		AnnualInterestRate: decimalPtr("12"),
		TermMonths:         &term,
		PaymentFrequency:   &freq,
	}
}

// --- CreateInstrument Tests ---
func (suite *InstrumentServiceTestSuite) TestCreateInstrument_Success() {
	ctx := context.Background()
	req := validLoanRequest()

	suite.mockRepo.On("SaveInstrument", ctx, mock.MatchedBy(func(ci domain.CreditInstrument) bool {
		return ci.Name == req.Name &&
			ci.WorkspaceID == "ws-1" &&
			ci.InstrumentType == domain.FixedTermLoan &&
			ci.CreatedBy == "user-1"
	})).Return(int64(42), nil).Once()
	suite.mockCache.On("Invalidate", ctx, "ws-1").Return(nil).Once()

	created, err := suite.service.CreateInstrument(ctx, "ws-1", req, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(int64(42), created.InstrumentID)
	suite.False(created.IsRevolving) // fixed-term default
	suite.Equal(req.TotalLimit, created.AvailableAmount)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *InstrumentServiceTestSuite) TestCreateInstrument_AppliesTypeDefaults() {
	ctx := context.Background()
	req := validLoanRequest()
	req.InstrumentType = domain.FinanceLease
	req.AnnualInterestRate = decimalPtr("10")
	req.AssetValue = decimalPtr("45000")
	req.ResidualValue = nil // filled by the type default

	suite.mockRepo.On("SaveInstrument", ctx, mock.AnythingOfType("domain.CreditInstrument")).Return(int64(7), nil).Once()
	suite.mockCache.On("Invalidate", ctx, "ws-1").Return(nil).Once()

	created, err := suite.service.CreateInstrument(ctx, "ws-1", req, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(created.ResidualValue)
	suite.True(created.ResidualValue.Equal(decimal.NewFromInt(1)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InstrumentServiceTestSuite) TestCreateInstrument_RuleFailure() {
	ctx := context.Background()
	req := validLoanRequest()
	req.AnnualInterestRate = nil // required for fixed-term loans

	created, err := suite.service.CreateInstrument(ctx, "ws-1", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)

	var verr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Contains(verr.Messages, "annualInterestRate is required for this instrument type")
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveInstrument")
}

func (suite *InstrumentServiceTestSuite) TestCreateInstrument_ExplicitRevolvingOverridesDefault() {
	ctx := context.Background()
	req := validLoanRequest()
	revolving := true
	req.IsRevolving = &revolving

	suite.mockRepo.On("SaveInstrument", ctx, mock.AnythingOfType("domain.CreditInstrument")).Return(int64(9), nil).Once()
	suite.mockCache.On("Invalidate", ctx, "ws-1").Return(nil).Once()

	created, err := suite.service.CreateInstrument(ctx, "ws-1", req, "user-1")

	suite.Require().NoError(err)
	suite.True(created.IsRevolving)
}

func (suite *InstrumentServiceTestSuite) TestCreateInstrument_SaveError() {
	ctx := context.Background()
	req := validLoanRequest()
	expectedErr := errors.New("db down")

	suite.mockRepo.On("SaveInstrument", ctx, mock.AnythingOfType("domain.CreditInstrument")).Return(int64(0), expectedErr).Once()

	created, err := suite.service.CreateInstrument(ctx, "ws-1", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, expectedErr)
	suite.mockCache.AssertNotCalled(suite.T(), "Invalidate")
}

// --- UpdateInstrument Tests ---
func (suite *InstrumentServiceTestSuite) TestUpdateInstrument_Success() {
	ctx := context.Background()
	existing := &domain.CreditInstrument{
		InstrumentID:   42,
		WorkspaceID:    "ws-1",
		Name:           "Old name",
		InstrumentType: domain.FixedTermLoan,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			CreatedBy: "user-0",
		},
	}
	req := validLoanRequest()
	req.Name = "Renamed loan"

	suite.mockRepo.On("FindInstrumentByID", ctx, int64(42)).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateInstrument", ctx, mock.MatchedBy(func(ci domain.CreditInstrument) bool {
		return ci.InstrumentID == 42 &&
			ci.Name == "Renamed loan" &&
			ci.CreatedBy == "user-0" &&
			ci.LastUpdatedBy == "user-2"
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx, "ws-1").Return(nil).Once()

	updated, err := suite.service.UpdateInstrument(ctx, 42, req, "user-2")

	suite.Require().NoError(err)
	suite.Equal("Renamed loan", updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InstrumentServiceTestSuite) TestUpdateInstrument_RuleFailure() {
	ctx := context.Background()
	existing := &domain.CreditInstrument{InstrumentID: 42, WorkspaceID: "ws-1", InstrumentType: domain.FixedTermLoan}
	req := validLoanRequest()
	req.EndDate = "2024-01-01" // before start

	suite.mockRepo.On("FindInstrumentByID", ctx, int64(42)).Return(existing, nil).Once()

	updated, err := suite.service.UpdateInstrument(ctx, 42, req, "user-2")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateInstrument")
}

func (suite *InstrumentServiceTestSuite) TestUpdateInstrument_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindInstrumentByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateInstrument(ctx, 99, validLoanRequest(), "user-2")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- DeleteInstrument Tests ---
func (suite *InstrumentServiceTestSuite) TestDeleteInstrument_Success() {
	ctx := context.Background()
	existing := &domain.CreditInstrument{InstrumentID: 42, WorkspaceID: "ws-1"}

	suite.mockRepo.On("FindInstrumentByID", ctx, int64(42)).Return(existing, nil).Once()
	suite.mockRepo.On("DeleteInstrument", ctx, int64(42)).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx, "ws-1").Return(nil).Once()

	err := suite.service.DeleteInstrument(ctx, 42)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *InstrumentServiceTestSuite) TestDeleteInstrument_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindInstrumentByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteInstrument(ctx, 99)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteInstrument")
}

// --- TypeDefaults Tests ---
func (suite *InstrumentServiceTestSuite) TestTypeDefaults_KnownType() {
	ctx := context.Background()

	defaults, required, err := suite.service.TypeDefaults(ctx, domain.FixedTermLoan)

	suite.Require().NoError(err)
	suite.Require().NotNil(defaults.TermMonths)
	suite.Equal(12, *defaults.TermMonths)
	suite.Contains(required, "annualInterestRate")
	suite.Contains(required, "termMonths")
}

func (suite *InstrumentServiceTestSuite) TestTypeDefaults_UnknownType() {
	ctx := context.Background()

	_, _, err := suite.service.TypeDefaults(ctx, domain.InstrumentType("PAYDAY_LOAN"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Amortization / Metrics Tests ---
func (suite *InstrumentServiceTestSuite) TestAmortization_TermLoan() {
	ctx := context.Background()
	term := 60
	freq := domain.FrequencyMonthly
	instrument := &domain.CreditInstrument{
		InstrumentID:       42,
		InstrumentType:     domain.FixedTermLoan,
		TotalLimit:         decimal.RequireFromString("50000"),
		AnnualInterestRate: decimalPtr("12"),
		TermMonths:         &term,
		PaymentFrequency:   &freq,
		StartDate:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockRepo.On("FindInstrumentByID", ctx, int64(42)).Return(instrument, nil).Once()

	result, err := suite.service.Amortization(ctx, 42)

	suite.Require().NoError(err)
	suite.Len(result.Schedule, 60)
	suite.InDelta(1112.22, result.PeriodicPayment.InexactFloat64(), 0.01)
}

func (suite *InstrumentServiceTestSuite) TestMetrics_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindInstrumentByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Metrics(ctx, 99)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- MaturityScanner Tests ---
func (suite *InstrumentServiceTestSuite) TestInstrumentsMaturingBy() {
	ctx := context.Background()
	cutoff := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	expiring := []domain.CreditInstrument{{InstrumentID: 1, Name: "Expiring line"}}

	suite.mockRepo.On("ListInstrumentsEndingBefore", ctx, cutoff).Return(expiring, nil).Once()

	scanner := suite.service.(portssvc.MaturityScannerSvc)
	instruments, err := scanner.InstrumentsMaturingBy(ctx, cutoff)

	suite.Require().NoError(err)
	suite.Len(instruments, 1)
	suite.Equal("Expiring line", instruments[0].Name)
}

func TestInstrumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstrumentServiceTestSuite))
}
