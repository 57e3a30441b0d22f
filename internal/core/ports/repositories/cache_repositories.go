package repositories

import (
	"context"
	"time"
)

// ProjectionCache is a read-through cache for serialized projection results.
// Implementations must treat a miss and an unavailable backend identically:
// return ok == false and let the caller recompute.
type ProjectionCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Invalidate drops every cached projection for a workspace, called after
	// any instrument or transaction write.
	Invalidate(ctx context.Context, workspaceID string) error
}
