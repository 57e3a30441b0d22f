package services

import (
	"context"
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
)

// ProjectionSvcFacade builds rolling monthly cash-flow projections.
type ProjectionSvcFacade interface {
	// ConsolidatedProjection projects across every instrument in the
	// workspace. A failed transaction fetch for one instrument substitutes an
	// empty ledger and surfaces a warning on the result instead of failing
	// the whole projection.
	ConsolidatedProjection(ctx context.Context, workspaceID string, anchor time.Time, monthsAfter int) (*domain.ProjectionResult, error)

	// InstrumentProjection projects a single instrument over a longer
	// planning horizon.
	InstrumentProjection(ctx context.Context, instrumentID int64, anchor time.Time, monthsAfter int) (*domain.ProjectionResult, error)
}
