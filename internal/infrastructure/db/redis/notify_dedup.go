package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const deliveryTTL = 24 * time.Hour

// NotifyDedup guards against re-delivering the same escalation broadcast
// when a sweep is retried after a partial failure.
// Key format: notified:<shift_id>
type NotifyDedup struct {
	client *redis.Client
}

// NewNotifyDedup creates a NotifyDedup wrapping the given Redis client.
func NewNotifyDedup(client *redis.Client) *NotifyDedup {
	return &NotifyDedup{client: client}
}

// IsDelivered reports whether this shift's escalation alert already went out.
func (d *NotifyDedup) IsDelivered(ctx context.Context, shiftID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(shiftID)).Result()
	if err != nil {
		return false, fmt.Errorf("delivery dedup check: %w", err)
	}
	return n > 0, nil
}

// MarkDelivered records a successful hand-off (expires after deliveryTTL).
func (d *NotifyDedup) MarkDelivered(ctx context.Context, shiftID string) error {
	return d.client.Set(ctx, d.key(shiftID), "1", deliveryTTL).Err()
}

func (d *NotifyDedup) key(shiftID string) string {
	return "notified:" + shiftID
}
