package model

import (
	"errors"
	"testing"
	"time"

	"stockbook/internal/auth"
	"stockbook/internal/domain"
	"stockbook/internal/inventory"
)

func newTestModel(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := New(inventory.New(), opts...)
	if err != nil {
		t.Fatalf("new model failed: %v", err)
	}
	return m
}

func item(sku string, qty int64) domain.Item {
	return domain.Item{Name: "Thing", Sku: domain.Sku(sku), Price: domain.MustPrice("1"), Quantity: domain.NewQuantity(qty)}
}

func TestNewRejectsDuplicateSeed(t *testing.T) {
	seed := inventory.Snapshot{Items: []domain.Item{item("a1", 1), item("a1", 2)}}
	if _, err := New(seed.View()); !errors.Is(err, inventory.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPassthroughsPropagateCollectionErrors(t *testing.T) {
	m := newTestModel(t)
	if err := m.AddItem(item("a1", 1)); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := m.AddItem(item("a1", 1)); !errors.Is(err, inventory.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := m.DeleteItem(item("zz", 1)); !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilteredListsFollowPredicate(t *testing.T) {
	m := newTestModel(t)
	_ = m.AddItem(item("a1", 1))
	_ = m.AddItem(item("b2", 50))

	m.UpdateFilteredItemList(func(i domain.Item) bool { return i.Quantity.Cmp(domain.NewQuantity(10)) > 0 })
	if got := m.FilteredItemList(); len(got) != 1 || got[0].Sku != "b2" {
		t.Fatalf("expected only b2, got %v", got)
	}

	// The view is live: later changes show up without re-filtering.
	_ = m.AddItem(item("c3", 99))
	if got := len(m.FilteredItemList()); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}

	m.UpdateFilteredItemList(nil)
	if got := len(m.FilteredItemList()); got != 3 {
		t.Fatalf("expected nil predicate to show all, got %d", got)
	}
}

func TestCommitUndoRedoDelegate(t *testing.T) {
	m := newTestModel(t)
	if m.CanUndoInventory() {
		t.Fatalf("expected nothing to undo")
	}
	_ = m.AddItem(item("a1", 1))
	m.CommitInventory()
	if m.HistoryLength() != 2 || m.HistoryCursor() != 1 {
		t.Fatalf("unexpected history %d/%d", m.HistoryLength(), m.HistoryCursor())
	}
	if err := m.UndoInventory(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if _, ok := m.ItemBySku("a1"); ok {
		t.Fatalf("expected a1 to be gone after undo")
	}
	if err := m.UndoInventory(); !errors.Is(err, inventory.ErrNoUndoableState) {
		t.Fatalf("expected ErrNoUndoableState, got %v", err)
	}
	if err := m.RedoInventory(); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if _, ok := m.ItemBySku("a1"); !ok {
		t.Fatalf("expected a1 after redo")
	}
}

func TestSessionExpires(t *testing.T) {
	a := auth.NewEphemeralManager(time.Nanosecond)
	m := newTestModel(t, WithAuth(a))

	if err := m.AuthenticateUser(domain.Staff{Username: "admin", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if m.IsUserLoggedIn() {
		t.Fatalf("expected session to expire")
	}
}

func TestCurrentUser(t *testing.T) {
	m := newTestModel(t)
	if _, ok := m.CurrentUser(); ok {
		t.Fatalf("expected no current user")
	}
	_ = m.AuthenticateUser(domain.Staff{Username: "alice", Role: domain.RoleManager})
	actor, ok := m.CurrentUser()
	if !ok || actor.Username != "alice" || actor.Role != domain.RoleManager {
		t.Fatalf("unexpected actor %+v", actor)
	}
	m.LogoutUser()
	if m.IsUserLoggedIn() {
		t.Fatalf("expected logout to end the session")
	}
}

func TestNotificationListsChangedKinds(t *testing.T) {
	m := newTestModel(t)
	var got []ChangeNotification
	m.Subscribe(func(n ChangeNotification) { got = append(got, n) })

	_ = m.AddItem(item("a1", 5))
	_ = m.AddSale(domain.Sale{ID: "1", Item: item("a1", 5), Quantity: domain.NewQuantity(1), Date: domain.Today()})
	m.CommitInventory()

	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	kinds := got[0].Kinds
	if len(kinds) != 2 || kinds[0] != inventory.KindItems || kinds[1] != inventory.KindSales {
		t.Fatalf("expected items and sales to change, got %v", kinds)
	}
}
