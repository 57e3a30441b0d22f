package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/core/services"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
	"github.com/FinObraDev/credit_instruments_app/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

// --- Test Suite ---
type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	authService  portssvc.AuthSvcFacade
	userService  portssvc.UserSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.authService = services.NewAuthService(suite.mockUserRepo, services.AuthConfig{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "credit-instruments-test",
	})
	suite.userService = services.NewUserService(suite.mockUserRepo)
}

// --- Login Tests ---
func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	user := &domain.User{UserID: "user-1", Name: "Ana", Username: "ana", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "ana").Return(user, nil).Once()

	resp, err := suite.authService.Login(ctx, dto.LoginRequest{Username: "ana", Password: "correct-horse"})

	suite.Require().NoError(err)
	suite.Equal("user-1", resp.UserID)
	suite.NotEmpty(resp.AccessToken)
	suite.WithinDuration(time.Now().Add(time.Hour), resp.ExpiresAt, 5*time.Second)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	user := &domain.User{UserID: "user-1", Username: "ana", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "ana").Return(user, nil).Once()

	resp, err := suite.authService.Login(ctx, dto.LoginRequest{Username: "ana", Password: "wrong"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUsername() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.authService.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "whatever"})

	suite.Require().Error(err)
	suite.Nil(resp)
	// Indistinguishable from a wrong password.
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- RegisterUser Tests ---
func (suite *AuthServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Name: "Ana", Username: "ana", Password: "long-enough-pw"}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "ana").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == "ana" && user.PasswordHash != "" && user.PasswordHash != req.Password
	})).Return(nil).Once()

	created, err := suite.userService.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(created.UserID)
	suite.NotEqual(req.Password, created.PasswordHash)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegisterUser_DuplicateUsername() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Name: "Ana", Username: "ana", Password: "long-enough-pw"}
	existing := &domain.User{UserID: "user-1", Username: "ana"}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "ana").Return(existing, nil).Once()

	created, err := suite.userService.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
