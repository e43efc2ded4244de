package memory

import (
	"context"
	"errors"
	"testing"

	"stockbook/internal/domain"
	"stockbook/internal/inventory"
	"stockbook/internal/store"
)

func TestLoadBeforeSave(t *testing.T) {
	s := New()
	if _, err := s.Load(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveKeepsACopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	snap := inventory.Snapshot{Items: []domain.Item{{
		Name:     "Soap",
		Sku:      "sp-1",
		Price:    domain.MustPrice("2"),
		Quantity: domain.NewQuantity(4),
		Tags:     []domain.Tag{"bath"},
	}}}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	snap.Items[0].Tags[0] = "kitchen"

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Items[0].Tags[0] != "bath" {
		t.Fatalf("expected stored snapshot to be isolated, got %v", got.Items[0].Tags)
	}
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Save(ctx, inventory.Snapshot{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
