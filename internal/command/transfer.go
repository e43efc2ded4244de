package command

import (
	"errors"
	"fmt"

	"stockbook/internal/csvio"
	"stockbook/internal/inventory"
	"stockbook/internal/model"
)

func importFailure(err error) error {
	if errors.Is(err, inventory.ErrDuplicate) {
		return &Error{Kind: KindDuplicate, Message: fmt.Sprintf("Import aborted: %v", err)}
	}
	return &Error{Kind: KindIO, Message: fmt.Sprintf("Import aborted: %v", err)}
}

// ImportItems replaces the whole catalogue with the contents of a CSV file.
type ImportItems struct {
	Path string
}

func (c ImportItems) Execute(m model.Model) (Result, error) {
	items, err := csvio.ReadItems(c.Path)
	if err != nil {
		return Result{}, importFailure(err)
	}
	if err := m.SetItems(items); err != nil {
		return Result{}, importFailure(err)
	}
	m.CommitInventory()
	m.UpdateFilteredItemList(model.PredicateShowAllItems)
	return Result{Feedback: fmt.Sprintf("Imported %d items from %s", len(items), c.Path), View: ViewItems}, nil
}

// ImportSales replaces every sale record with the contents of a CSV file.
type ImportSales struct {
	Path string
}

func (c ImportSales) Execute(m model.Model) (Result, error) {
	sales, err := csvio.ReadSales(c.Path)
	if err != nil {
		return Result{}, importFailure(err)
	}
	if err := m.SetSales(sales); err != nil {
		return Result{}, importFailure(err)
	}
	m.CommitInventory()
	m.UpdateFilteredSaleList(model.PredicateShowAllSales)
	return Result{Feedback: fmt.Sprintf("Imported %d sales from %s", len(sales), c.Path), View: ViewSales}, nil
}

type ExportItems struct {
	Path string
}

func (c ExportItems) Execute(m model.Model) (Result, error) {
	items := m.Inventory().Items()
	if err := csvio.ExportItems(c.Path, items); err != nil {
		return Result{}, &Error{Kind: KindIO, Message: fmt.Sprintf("Export failed: %v", err)}
	}
	return Result{Feedback: fmt.Sprintf("Exported %d items to %s", len(items), c.Path)}, nil
}

type ExportSales struct {
	Path string
}

func (c ExportSales) Execute(m model.Model) (Result, error) {
	sales := m.Inventory().Sales()
	if err := csvio.ExportSales(c.Path, sales); err != nil {
		return Result{}, &Error{Kind: KindIO, Message: fmt.Sprintf("Export failed: %v", err)}
	}
	return Result{Feedback: fmt.Sprintf("Exported %d sales to %s", len(sales), c.Path)}, nil
}
