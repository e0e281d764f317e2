// Package attribution is the edge of the tracking collaborator: it records
// referral click events per checkout and session, and replays them as the
// read-only event stream the settlement engine consumes. It never decides who
// earns commission; that stays inside the settlement resolver.
package attribution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-vitrine/internal/settlement"
)

// DefaultWindow bounds how long a referral click can still earn attribution.
const DefaultWindow = 30 * 24 * time.Hour

// Store keeps attribution events in a Redis sorted set per checkout+session,
// scored by click time so replay order is stable.
type Store struct {
	Client *redis.Client
	Prefix string
	Window time.Duration
}

func (s *Store) key(checkoutID, sessionID string) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "attr"
	}
	return fmt.Sprintf("%s:%s:%s", prefix, checkoutID, sessionID)
}

func (s *Store) window() time.Duration {
	if s.Window <= 0 {
		return DefaultWindow
	}
	return s.Window
}

// Record registers one referral click. Members carry a random suffix so
// repeated clicks from the same affiliate keep their individual timestamps.
func (s *Store) Record(ctx context.Context, checkoutID, sessionID, affiliateID string, at time.Time) error {
	if s == nil || s.Client == nil {
		return errors.New("attribution store not configured")
	}
	if checkoutID == "" || sessionID == "" || affiliateID == "" {
		return errors.New("checkout, session and affiliate ids are required")
	}
	if at.IsZero() {
		at = time.Now()
	}
	member := uuid.NewString() + "|" + affiliateID
	key := s.key(checkoutID, sessionID)

	pipe := s.Client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixMilli()), Member: member})
	pipe.Expire(ctx, key, s.window())
	_, err := pipe.Exec(ctx)
	return err
}

// Events replays the recorded stream for one checkout+session as settlement
// attribution events, oldest first. Clicks older than the window are dropped.
func (s *Store) Events(ctx context.Context, checkoutID, sessionID string) ([]settlement.AttributionEvent, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("attribution store not configured")
	}
	key := s.key(checkoutID, sessionID)
	cutoff := time.Now().Add(-s.window()).UnixMilli()
	if err := s.Client.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff)).Err(); err != nil {
		return nil, err
	}
	members, err := s.Client.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	events := make([]settlement.AttributionEvent, 0, len(members))
	for _, m := range members {
		raw, ok := m.Member.(string)
		if !ok {
			continue
		}
		_, affiliateID, found := strings.Cut(raw, "|")
		if !found || affiliateID == "" {
			continue
		}
		events = append(events, settlement.AttributionEvent{
			AffiliateID: affiliateID,
			SessionID:   sessionID,
			OccurredAt:  time.UnixMilli(int64(m.Score)).UTC(),
		})
	}
	return events, nil
}
