package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"stockbook/internal/domain"
	"stockbook/internal/inventory"
)

func TestNoopSnapshotCacheNeverHits(t *testing.T) {
	var c SnapshotCache = NoopSnapshotCache{}
	ctx := context.Background()
	if err := c.Set(ctx, "k", &inventory.Snapshot{}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedisSnapshotCacheSetNilSkipsServer(t *testing.T) {
	c := NewRedisSnapshotCache("127.0.0.1:1", "", 0)
	defer c.Close()
	if err := c.Set(context.Background(), "k", nil, time.Minute); err != nil {
		t.Fatalf("expected nil snapshot to be ignored, got %v", err)
	}
}

func TestRedisSnapshotCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("STOCKBOOK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set STOCKBOOK_TEST_REDIS_ADDR to run redis cache test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := NewRedisSnapshotCache(addr, "", 0)
	defer c.Close()
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	key := "stockbook:test:" + time.Now().Format("150405.000000")
	defer c.Delete(ctx, key)

	snap := &inventory.Snapshot{Items: []domain.Item{{
		Name:     "Green Tea",
		Sku:      "gt-1",
		Price:    domain.MustPrice("3.50"),
		Quantity: domain.NewQuantity(12),
	}}}
	if err := c.Set(ctx, key, snap, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got.Items) != 1 || !got.Items[0].Equal(snap.Items[0]) {
		t.Fatalf("unexpected snapshot %+v", got)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatalf("expected miss after delete")
	}
}
