package command

import (
	"errors"
	"fmt"

	"stockbook/internal/domain"
	"stockbook/internal/inventory"
	"stockbook/internal/model"
)

type AddSale struct {
	Sku      domain.Sku
	Quantity domain.Quantity
	Date     domain.Date
}

func (c AddSale) Execute(m model.Model) (Result, error) {
	item, ok := m.ItemBySku(c.Sku)
	if !ok {
		return Result{}, fail(KindNotFound, MessageItemNotFound, c.Sku)
	}
	if item.Quantity.Cmp(c.Quantity) < 0 {
		return Result{}, fail(KindPrecondition, MessageInsufficientQuantity, item.Sku, item.Quantity)
	}

	sale := domain.Sale{
		ID:       m.NextSaleID(),
		Item:     item,
		Quantity: c.Quantity,
		Date:     c.Date,
	}
	if err := m.AddSale(sale); err != nil {
		switch {
		case errors.Is(err, inventory.ErrInsufficientQuantity):
			return Result{}, fail(KindPrecondition, MessageInsufficientQuantity, item.Sku, item.Quantity)
		case errors.Is(err, inventory.ErrNotFound):
			return Result{}, fail(KindNotFound, MessageItemNotFound, c.Sku)
		default:
			return Result{}, &Error{Kind: KindDuplicate, Message: err.Error()}
		}
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("New sale added: %s", sale), View: ViewSales}, nil
}

type DeleteSale struct {
	ID domain.SaleID
}

func (c DeleteSale) Execute(m model.Model) (Result, error) {
	sale, ok := m.SaleByID(c.ID)
	if !ok {
		return Result{}, fail(KindNotFound, MessageSaleNotFound, c.ID)
	}
	if err := m.DeleteSale(sale); err != nil {
		return Result{}, fail(KindNotFound, MessageSaleNotFound, c.ID)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("Deleted sale: %s", sale), View: ViewSales}, nil
}

type ListSales struct{}

func (ListSales) Execute(m model.Model) (Result, error) {
	m.UpdateFilteredSaleList(model.PredicateShowAllSales)
	return Result{Feedback: "Listed all sales", View: ViewSales}, nil
}
