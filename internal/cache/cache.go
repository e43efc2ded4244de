package cache

import (
	"context"
	"time"

	"stockbook/internal/inventory"
)

// SnapshotCache keeps the latest saved inventory close to the process so a restart
// does not have to hit the primary storage.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*inventory.Snapshot, bool, error)
	Set(ctx context.Context, key string, value *inventory.Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type NoopSnapshotCache struct{}

func (NoopSnapshotCache) Get(_ context.Context, _ string) (*inventory.Snapshot, bool, error) {
	return nil, false, nil
}

func (NoopSnapshotCache) Set(_ context.Context, _ string, _ *inventory.Snapshot, _ time.Duration) error {
	return nil
}

func (NoopSnapshotCache) Delete(_ context.Context, _ string) error {
	return nil
}
