package command

import (
	"errors"
	"fmt"

	"stockbook/internal/domain"
	"stockbook/internal/inventory"
	"stockbook/internal/model"
	"stockbook/internal/xid"
)

type AddPurchaseOrder struct {
	Sku          domain.Sku
	Quantity     domain.Quantity
	RequiredDate domain.Date
	Supplier     domain.Supplier
}

func (c AddPurchaseOrder) Execute(m model.Model) (Result, error) {
	if _, ok := m.ItemBySku(c.Sku); !ok {
		return Result{}, fail(KindNotFound, MessageItemNotFound, c.Sku)
	}
	po := domain.PurchaseOrder{
		ID:           xid.New("po"),
		Sku:          c.Sku,
		Quantity:     c.Quantity,
		RequiredDate: c.RequiredDate,
		Supplier:     c.Supplier,
		Status:       domain.StatusPending,
	}
	m.AddPurchaseOrder(po)
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("New purchase order added: %s", po), View: ViewPurchaseOrders}, nil
}

func pickPendingOrder(m model.Model, idx domain.Index) (domain.PurchaseOrder, error) {
	po, ok := pick(m.FilteredPurchaseOrderList(), idx)
	if !ok {
		return domain.PurchaseOrder{}, fail(KindNotFound, MessageInvalidPurchaseOrderIndex)
	}
	if !po.IsPending() {
		return domain.PurchaseOrder{}, fail(KindPrecondition, MessageNotPending)
	}
	return po, nil
}

func orderFailure(err error, sku domain.Sku) error {
	switch {
	case errors.Is(err, inventory.ErrNotPending):
		return fail(KindPrecondition, MessageNotPending)
	case errors.Is(err, inventory.ErrNotFound):
		return fail(KindNotFound, MessageItemNotFound, sku)
	default:
		return &Error{Kind: KindPrecondition, Message: err.Error()}
	}
}

type ApprovePurchaseOrder struct {
	Index domain.Index
}

func (c ApprovePurchaseOrder) Execute(m model.Model) (Result, error) {
	po, err := pickPendingOrder(m, c.Index)
	if err != nil {
		return Result{}, err
	}
	if _, ok := m.ItemBySku(po.Sku); !ok {
		return Result{}, fail(KindNotFound, MessageItemNotFound, po.Sku)
	}
	if err := m.ApprovePurchaseOrder(po); err != nil {
		return Result{}, orderFailure(err, po.Sku)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("Purchase order approved: %s", po.WithStatus(domain.StatusApproved)), View: ViewPurchaseOrders}, nil
}

type RejectPurchaseOrder struct {
	Index domain.Index
}

func (c RejectPurchaseOrder) Execute(m model.Model) (Result, error) {
	po, err := pickPendingOrder(m, c.Index)
	if err != nil {
		return Result{}, err
	}
	if err := m.RejectPurchaseOrder(po); err != nil {
		return Result{}, orderFailure(err, po.Sku)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("Purchase order rejected: %s", po.WithStatus(domain.StatusRejected)), View: ViewPurchaseOrders}, nil
}

type DeletePurchaseOrder struct {
	Index domain.Index
}

func (c DeletePurchaseOrder) Execute(m model.Model) (Result, error) {
	po, ok := pick(m.FilteredPurchaseOrderList(), c.Index)
	if !ok {
		return Result{}, fail(KindNotFound, MessageInvalidPurchaseOrderIndex)
	}
	if err := m.DeletePurchaseOrder(po); err != nil {
		return Result{}, fail(KindNotFound, MessageInvalidPurchaseOrderIndex)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("Deleted purchase order: %s", po), View: ViewPurchaseOrders}, nil
}

// EditPurchaseOrderDescriptor holds the fields to change on a pending order.
type EditPurchaseOrderDescriptor struct {
	Quantity     *domain.Quantity
	RequiredDate *domain.Date
	Supplier     *domain.Supplier
}

func (d EditPurchaseOrderDescriptor) IsAnyFieldEdited() bool {
	return d.Quantity != nil || d.RequiredDate != nil || d.Supplier != nil
}

type EditPurchaseOrder struct {
	Index      domain.Index
	Descriptor EditPurchaseOrderDescriptor
}

func (c EditPurchaseOrder) Execute(m model.Model) (Result, error) {
	po, err := pickPendingOrder(m, c.Index)
	if err != nil {
		return Result{}, err
	}
	edited := po
	if c.Descriptor.Quantity != nil {
		edited.Quantity = *c.Descriptor.Quantity
	}
	if c.Descriptor.RequiredDate != nil {
		edited.RequiredDate = *c.Descriptor.RequiredDate
	}
	if c.Descriptor.Supplier != nil {
		edited.Supplier = *c.Descriptor.Supplier
	}
	if err := m.UpdatePurchaseOrder(po, edited); err != nil {
		return Result{}, fail(KindNotFound, MessageInvalidPurchaseOrderIndex)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("Edited purchase order: %s", edited), View: ViewPurchaseOrders}, nil
}

// ListPurchaseOrders shows every order, or only those with Status when it is set.
type ListPurchaseOrders struct {
	Status *domain.Status
}

func (c ListPurchaseOrders) Execute(m model.Model) (Result, error) {
	if c.Status == nil {
		m.UpdateFilteredPurchaseOrderList(model.PredicateShowAllPurchaseOrders)
		return Result{Feedback: "Listed all purchase orders", View: ViewPurchaseOrders}, nil
	}
	status := *c.Status
	m.UpdateFilteredPurchaseOrderList(func(po domain.PurchaseOrder) bool { return po.Status == status })
	return Result{
		Feedback: fmt.Sprintf("%d %s purchase orders listed!", len(m.FilteredPurchaseOrderList()), status),
		View:     ViewPurchaseOrders,
	}, nil
}
