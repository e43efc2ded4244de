package inventory

import (
	"errors"
	"fmt"
	"testing"
)

func newVersioned(t *testing.T, limit int) *Versioned {
	t.Helper()
	v, err := NewVersioned(New(), limit)
	if err != nil {
		t.Fatalf("new versioned failed: %v", err)
	}
	return v
}

func commitItem(t *testing.T, v *Versioned, sku string) {
	t.Helper()
	if err := v.Live().AddItem(mustItem(t, sku, 1)); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	v.Commit()
}

func TestNewVersionedStartsWithOneEntry(t *testing.T) {
	v := newVersioned(t, 0)
	if v.Len() != 1 || v.Cursor() != 0 {
		t.Fatalf("expected history length 1 at cursor 0, got %d at %d", v.Len(), v.Cursor())
	}
	if v.CanUndo() || v.CanRedo() {
		t.Fatalf("expected nothing to undo or redo")
	}
	if err := v.Undo(); !errors.Is(err, ErrNoUndoableState) {
		t.Fatalf("expected ErrNoUndoableState, got %v", err)
	}
	if err := v.Redo(); !errors.Is(err, ErrNoRedoableState) {
		t.Fatalf("expected ErrNoRedoableState, got %v", err)
	}
}

func TestUndoRedoRestoresState(t *testing.T) {
	v := newVersioned(t, 0)
	commitItem(t, v, "a1")
	after := v.Live().Clone()

	if err := v.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if len(v.Live().Items()) != 0 {
		t.Fatalf("expected empty inventory after undo")
	}
	if err := v.Redo(); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if !v.Live().Equal(after) {
		t.Fatalf("expected redo to restore the committed state")
	}
}

func TestRedoAfterFreshCommitFails(t *testing.T) {
	v := newVersioned(t, 0)
	commitItem(t, v, "a1")
	if err := v.Redo(); !errors.Is(err, ErrNoRedoableState) {
		t.Fatalf("expected ErrNoRedoableState, got %v", err)
	}
}

func TestCommitAfterUndoTruncatesHistory(t *testing.T) {
	v := newVersioned(t, 0)
	commitItem(t, v, "s1")
	commitItem(t, v, "s2")

	_ = v.Undo()
	if _, ok := v.Live().ItemBySku("s2"); ok {
		t.Fatalf("expected live state S1")
	}
	_ = v.Undo()
	if len(v.Live().Items()) != 0 {
		t.Fatalf("expected live state S0")
	}

	commitItem(t, v, "s3")
	if v.Len() != 2 || v.Cursor() != 1 {
		t.Fatalf("expected history [S0 S3], got length %d cursor %d", v.Len(), v.Cursor())
	}
	if v.CanRedo() {
		t.Fatalf("expected redo to be impossible after commit")
	}
	if err := v.Redo(); !errors.Is(err, ErrNoRedoableState) {
		t.Fatalf("expected ErrNoRedoableState, got %v", err)
	}
}

func TestHistoryEntriesAreIndependent(t *testing.T) {
	v := newVersioned(t, 0)
	commitItem(t, v, "a1")

	// Uncommitted edits never leak into history.
	_ = v.Live().AddItem(mustItem(t, "draft", 1))
	if _, ok := v.Committed().(*Inventory).ItemBySku("draft"); ok {
		t.Fatalf("expected committed entry to be isolated from live edits")
	}

	_ = v.Undo()
	_ = v.Redo()
	if _, ok := v.Live().ItemBySku("draft"); ok {
		t.Fatalf("expected uncommitted edit to be discarded by undo")
	}
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	v := newVersioned(t, 3)
	for i := range 5 {
		commitItem(t, v, fmt.Sprintf("sku%d", i))
	}
	if v.Len() != 3 || v.Cursor() != 2 {
		t.Fatalf("expected 3 entries with cursor 2, got %d and %d", v.Len(), v.Cursor())
	}

	_ = v.Undo()
	_ = v.Undo()
	if v.CanUndo() {
		t.Fatalf("expected oldest entries to be gone")
	}
	if got := len(v.Live().Items()); got != 3 {
		t.Fatalf("expected the oldest kept state to hold 3 items, got %d", got)
	}
}
