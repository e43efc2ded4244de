package inventory

import "errors"

var (
	ErrNoUndoableState = errors.New("no undoable state")
	ErrNoRedoableState = errors.New("no redoable state")
)

// Versioned keeps a linear history of committed inventories and a cursor into it.
// The live inventory is a working copy of history[cursor] plus any uncommitted changes.
type Versioned struct {
	live    *Inventory
	history []*Inventory
	cursor  int
	limit   int
}

// NewVersioned starts a history holding a copy of initial. A positive limit caps the
// number of retained entries; older ones are dropped first.
func NewVersioned(initial ReadOnly, limit int) (*Versioned, error) {
	base, err := From(initial)
	if err != nil {
		return nil, err
	}
	return &Versioned{
		live:    base.Clone(),
		history: []*Inventory{base},
		limit:   limit,
	}, nil
}

func (v *Versioned) Live() *Inventory {
	return v.live
}

// Committed is history[cursor]. Callers must not modify it.
func (v *Versioned) Committed() ReadOnly {
	return v.history[v.cursor]
}

func (v *Versioned) Commit() {
	clear(v.history[v.cursor+1:])
	v.history = append(v.history[:v.cursor+1], v.live.Clone())
	v.cursor++

	if v.limit > 0 && len(v.history) > v.limit {
		drop := len(v.history) - v.limit
		clear(v.history[:drop])
		v.history = v.history[drop:]
		v.cursor -= drop
	}
}

func (v *Versioned) CanUndo() bool {
	return v.cursor > 0
}

func (v *Versioned) CanRedo() bool {
	return v.cursor < len(v.history)-1
}

func (v *Versioned) Undo() error {
	if !v.CanUndo() {
		return ErrNoUndoableState
	}
	v.cursor--
	v.live = v.history[v.cursor].Clone()
	return nil
}

func (v *Versioned) Redo() error {
	if !v.CanRedo() {
		return ErrNoRedoableState
	}
	v.cursor++
	v.live = v.history[v.cursor].Clone()
	return nil
}

func (v *Versioned) Len() int {
	return len(v.history)
}

func (v *Versioned) Cursor() int {
	return v.cursor
}
