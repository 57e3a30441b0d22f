package services

import (
	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Instrument = NewInstrumentService(
		repos.InstrumentRepo,
		WithInstrumentProjectionCache(repos.ProjectionCache),
	)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.InstrumentRepo,
		WithTransactionProjectionCache(repos.ProjectionCache),
	)

	container.Projection = NewProjectionService(
		repos.InstrumentRepo,
		repos.TransactionRepo,
		WithProjectionCache(repos.ProjectionCache),
	)

	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(repos.UserRepo, AuthConfig{
		JWTSecret:   cfg.JWTSecret,
		TokenExpiry: cfg.JWTExpiryDuration,
		Issuer:      cfg.JWTIssuer,
	})

	return container
}
