package services

import (
	"context"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
)

// UserSvcFacade defines user lookup and registration operations.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// AuthSvcFacade authenticates credentials and issues access tokens.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
