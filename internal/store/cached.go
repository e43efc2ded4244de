package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stockbook/internal/cache"
	"stockbook/internal/inventory"
)

const DefaultCacheKey = "stockbook:inventory:latest"

// Cached reads through a snapshot cache in front of another Storage. Cache failures
// are logged and never fail a load or a save.
type Cached struct {
	next   Storage
	cache  cache.SnapshotCache
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(next Storage, c cache.SnapshotCache, ttl time.Duration, logger *zap.Logger) *Cached {
	if c == nil {
		c = cache.NoopSnapshotCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, cache: c, key: DefaultCacheKey, ttl: ttl, logger: logger}
}

func (s *Cached) Load(ctx context.Context) (inventory.Snapshot, error) {
	snap, ok, err := s.cache.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("snapshot cache get failed", zap.Error(err))
	}
	if ok && snap != nil {
		return *snap, nil
	}

	loaded, err := s.next.Load(ctx)
	if err != nil {
		return inventory.Snapshot{}, err
	}
	s.remember(ctx, loaded)
	return loaded, nil
}

func (s *Cached) Save(ctx context.Context, snap inventory.Snapshot) error {
	if err := s.next.Save(ctx, snap); err != nil {
		if derr := s.cache.Delete(ctx, s.key); derr != nil {
			s.logger.Warn("snapshot cache delete failed", zap.Error(derr))
		}
		return err
	}
	s.remember(ctx, snap)
	return nil
}

func (s *Cached) remember(ctx context.Context, snap inventory.Snapshot) {
	if err := s.cache.Set(ctx, s.key, &snap, s.ttl); err != nil {
		s.logger.Warn("snapshot cache set failed", zap.Error(err))
	}
}
