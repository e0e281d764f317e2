// Package cache provides a read-through Redis cache for checkout
// configuration snapshots. Settlement math never changes a snapshot, so a
// short TTL is safe and spares one multi-table load per preview.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-vitrine/internal/tenant"
)

// Source loads snapshots on cache miss.
type Source interface {
	Snapshot(ctx context.Context, checkoutID string) (tenant.Snapshot, error)
}

// SnapshotCache caches tenant snapshots in Redis. Cache failures fail open:
// the underlying source is always authoritative.
type SnapshotCache struct {
	Source Source
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func (c *SnapshotCache) key(checkoutID string) string {
	prefix := c.Prefix
	if prefix == "" {
		prefix = "snapshot"
	}
	return prefix + ":" + checkoutID
}

func (c *SnapshotCache) ttl() time.Duration {
	if c.TTL <= 0 {
		return 5 * time.Minute
	}
	return c.TTL
}

// Snapshot returns the cached snapshot or loads and stores it.
func (c *SnapshotCache) Snapshot(ctx context.Context, checkoutID string) (tenant.Snapshot, error) {
	if c == nil || c.Source == nil {
		return tenant.Snapshot{}, errors.New("snapshot cache not configured")
	}
	if c.Client != nil {
		raw, err := c.Client.Get(ctx, c.key(checkoutID)).Bytes()
		if err == nil {
			var snap tenant.Snapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				return snap, nil
			}
		}
	}

	snap, err := c.Source.Snapshot(ctx, checkoutID)
	if err != nil {
		return tenant.Snapshot{}, err
	}
	if c.Client != nil {
		if raw, err := json.Marshal(snap); err == nil {
			_ = c.Client.Set(ctx, c.key(checkoutID), raw, c.ttl()).Err()
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot for one checkout.
func (c *SnapshotCache) Invalidate(ctx context.Context, checkoutID string) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Del(ctx, c.key(checkoutID)).Err()
}
