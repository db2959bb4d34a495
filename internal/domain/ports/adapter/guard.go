package adapter

import (
	"context"
	"time"
)

// EventGuard deduplicates externally delivered events. Once returns true the
// first time a key is seen within the ttl window and false afterwards.
type EventGuard interface {
	Once(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
