package store

import (
	"context"
	"errors"

	"stockbook/internal/inventory"
)

var ErrNotFound = errors.New("not found")

// Storage persists whole inventory snapshots. Load returns ErrNotFound when nothing
// has been saved yet.
type Storage interface {
	Load(ctx context.Context) (inventory.Snapshot, error)
	Save(ctx context.Context, snap inventory.Snapshot) error
}
