package model

import (
	"stockbook/internal/inventory"
)

type Reason string

const (
	ReasonCommit Reason = "commit"
	ReasonUndo   Reason = "undo"
	ReasonRedo   Reason = "redo"
)

// ChangeNotification is sent to observers after the committed state moves.
type ChangeNotification struct {
	Reason   Reason
	Kinds    []inventory.Kind
	Snapshot inventory.Snapshot
}

type Observer func(ChangeNotification)

func (m *Manager) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *Manager) notify(reason Reason, before inventory.ReadOnly) {
	if len(m.observers) == 0 {
		return
	}
	n := ChangeNotification{
		Reason:   reason,
		Kinds:    inventory.Changed(before, m.live()),
		Snapshot: inventory.ToSnapshot(m.live()),
	}
	for _, o := range m.observers {
		o(n)
	}
}
