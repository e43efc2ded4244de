package command

import (
	"stockbook/internal/inventory"
	"stockbook/internal/model"
)

type Undo struct{}

func (Undo) Execute(m model.Model) (Result, error) {
	if !m.CanUndoInventory() {
		return Result{}, fail(KindPrecondition, MessageNothingToUndo)
	}
	if err := m.UndoInventory(); err != nil {
		return Result{}, fail(KindPrecondition, MessageNothingToUndo)
	}
	m.UpdateFilteredItemList(model.PredicateShowAllItems)
	m.UpdateFilteredStaffList(model.PredicateShowAllStaff)
	return Result{Feedback: "Undo success!", View: ViewItems}, nil
}

type Redo struct{}

func (Redo) Execute(m model.Model) (Result, error) {
	if !m.CanRedoInventory() {
		return Result{}, fail(KindPrecondition, MessageNothingToRedo)
	}
	if err := m.RedoInventory(); err != nil {
		return Result{}, fail(KindPrecondition, MessageNothingToRedo)
	}
	m.UpdateFilteredItemList(model.PredicateShowAllItems)
	m.UpdateFilteredStaffList(model.PredicateShowAllStaff)
	return Result{Feedback: "Redo success!", View: ViewItems}, nil
}

// Clear empties items, purchase orders and sales, and restores the default staff.
type Clear struct{}

func (Clear) Execute(m model.Model) (Result, error) {
	cleared := inventory.Snapshot{Staff: m.DefaultStaff()}
	if err := m.ResetData(cleared.View()); err != nil {
		return Result{}, &Error{Kind: KindDuplicate, Message: err.Error()}
	}
	m.CommitInventory()
	return Result{Feedback: "Inventory has been cleared!", View: ViewItems}, nil
}
