package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
	"github.com/FinObraDev/credit_instruments_app/internal/utils"
)

// AuthConfig holds the token-issuing parameters for the auth service.
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
	Issuer      string
}

// authService implements the AuthSvcFacade interface.
type authService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	cfg      AuthConfig
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, cfg AuthConfig) portssvc.AuthSvcFacade {
	return &authService{userRepo: userRepo, cfg: cfg}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		// Same error for unknown user and bad password.
		s.LogWarn(ctx, "Login attempt for unknown username", slog.String("username", req.Username))
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.LogWarn(ctx, "Login attempt with wrong password", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
	}

	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.TokenExpiry, s.cfg.Issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		UserID:      user.UserID,
		Name:        user.Name,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.cfg.TokenExpiry),
	}, nil
}
