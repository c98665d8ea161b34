package mongo

import (
	"context"
	"time"
)

// WithTimeout bounds a single repository call. Inside a transaction the
// session context is returned unchanged with a no-op cancel; the transaction
// owns the deadline.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if IsSessionContext(ctx) {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	if remaining := time.Until(deadline); remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
