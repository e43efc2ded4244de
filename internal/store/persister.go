package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"stockbook/internal/model"
)

// Persister writes every committed state to a Storage. It is meant to be registered
// with model.Manager.Subscribe. A failed save keeps the in-memory commit and is
// reported through LastError.
type Persister struct {
	storage Storage
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	lastErr error
	saves   int
}

func NewPersister(storage Storage, logger *zap.Logger, timeout time.Duration) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Persister{storage: storage, logger: logger, timeout: timeout}
}

func (p *Persister) Observe(n model.ChangeNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.storage.Save(ctx, n.Snapshot)

	p.mu.Lock()
	p.lastErr = err
	if err == nil {
		p.saves++
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("persist inventory failed", zap.String("reason", string(n.Reason)), zap.Error(err))
		return
	}
	p.logger.Debug("inventory persisted",
		zap.String("reason", string(n.Reason)),
		zap.Int("items", len(n.Snapshot.Items)),
		zap.Int("sales", len(n.Snapshot.Sales)),
	)
}

// LastError is the result of the most recent save, nil when it succeeded.
func (p *Persister) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Persister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
