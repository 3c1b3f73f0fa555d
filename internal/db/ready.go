package db

import (
	"context"
	"fmt"
	"time"
)

// WaitForReady polls ping until it succeeds or timeout expires.
func WaitForReady(ctx context.Context, timeout time.Duration, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := ping(ctx); err == nil {
				return nil
			}
		}
	}
}
