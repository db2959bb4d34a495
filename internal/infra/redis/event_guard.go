package redis

import (
	"context"
	"fmt"
	"time"

	"telegram-payment-relay/internal/domain/ports/adapter"
)

var _ adapter.EventGuard = (*EventGuard)(nil)

// EventGuard deduplicates chat-platform events with a SETNX marker so a
// redelivered chosen-result event cannot issue a second invoice.
type EventGuard struct {
	client *Client
}

func NewEventGuard(client *Client) *EventGuard {
	return &EventGuard{client: client}
}

func (g *EventGuard) Once(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, eventKey(key), 1, ttl)
}

func eventKey(key string) string {
	return fmt.Sprintf("event_guard:%s", key)
}
