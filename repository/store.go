package repository

import (
	"context"
	"time"
)

const defaultQueryTimeout = 10 * time.Second

// withTimeout bounds a single store query.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
