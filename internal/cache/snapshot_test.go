package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-vitrine/internal/settlement"
	"github.com/noah-isme/backend-vitrine/internal/tenant"
)

type countingSource struct {
	snap  tenant.Snapshot
	err   error
	loads int
}

func (s *countingSource) Snapshot(context.Context, string) (tenant.Snapshot, error) {
	s.loads++
	return s.snap, s.err
}

func sampleSnapshot() tenant.Snapshot {
	return tenant.Snapshot{
		CheckoutID:       "chk-1",
		TenantID:         "tnt-1",
		MaxInstallments:  12,
		FeePassedToBuyer: true,
		PixDiscountBps:   500,
		Model:            settlement.LastClick,
		FeeTable:         settlement.FeeTable{2: 299, 3: 429},
		Affiliates: []settlement.AffiliateLink{
			{AffiliateID: "aff-1", Terms: settlement.CommissionTerms{Kind: settlement.CommissionPercentage, PercentBps: 1_000}},
		},
		Partners: settlement.PartnerTerms{
			Industry: &settlement.CommissionTerms{Kind: settlement.CommissionFixed, FixedCents: 500},
		},
	}
}

func TestSnapshotCacheReadThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := &countingSource{snap: sampleSnapshot()}
	c := &SnapshotCache{Source: source, Client: client, TTL: time.Minute}

	first, err := c.Snapshot(context.Background(), "chk-1")
	require.NoError(t, err)
	require.Equal(t, 1, source.loads)

	second, err := c.Snapshot(context.Background(), "chk-1")
	require.NoError(t, err)
	require.Equal(t, 1, source.loads, "second read must come from cache")
	require.Equal(t, first, second)
	require.Equal(t, int64(429), second.FeeTable[3])
	require.NotNil(t, second.Partners.Industry)
}

func TestSnapshotCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := &countingSource{snap: sampleSnapshot()}
	c := &SnapshotCache{Source: source, Client: client, TTL: time.Second}

	_, err := c.Snapshot(context.Background(), "chk-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = c.Snapshot(context.Background(), "chk-1")
	require.NoError(t, err)
	require.Equal(t, 2, source.loads)
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := &countingSource{snap: sampleSnapshot()}
	c := &SnapshotCache{Source: source, Client: client}

	_, err := c.Snapshot(context.Background(), "chk-1")
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(context.Background(), "chk-1"))

	_, err = c.Snapshot(context.Background(), "chk-1")
	require.NoError(t, err)
	require.Equal(t, 2, source.loads)
}

func TestSnapshotCacheFailsOpenWithoutRedis(t *testing.T) {
	source := &countingSource{snap: sampleSnapshot()}
	c := &SnapshotCache{Source: source}

	snap, err := c.Snapshot(context.Background(), "chk-1")
	require.NoError(t, err)
	require.Equal(t, "chk-1", snap.CheckoutID)
	require.Equal(t, 1, source.loads)
}
