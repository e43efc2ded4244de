package inventory

import (
	"errors"
	"slices"

	"stockbook/internal/domain"
)

var ErrMissingID = errors.New("purchase order has no id")

// PurchaseOrderList allows orders that are equal by value. Orders are matched by ID.
type PurchaseOrderList struct {
	orders []domain.PurchaseOrder
}

func (l *PurchaseOrderList) indexOf(po domain.PurchaseOrder) int {
	return slices.IndexFunc(l.orders, func(existing domain.PurchaseOrder) bool {
		return existing.ID == po.ID
	})
}

func (l *PurchaseOrderList) Contains(po domain.PurchaseOrder) bool {
	return l.indexOf(po) >= 0
}

func (l *PurchaseOrderList) Get(po domain.PurchaseOrder) (domain.PurchaseOrder, bool) {
	idx := l.indexOf(po)
	if idx < 0 {
		return domain.PurchaseOrder{}, false
	}
	return l.orders[idx], true
}

func (l *PurchaseOrderList) Add(po domain.PurchaseOrder) {
	l.orders = append(l.orders, po)
}

func (l *PurchaseOrderList) Set(target, edited domain.PurchaseOrder) error {
	idx := l.indexOf(target)
	if idx < 0 {
		return ErrNotFound
	}
	l.orders[idx] = edited
	return nil
}

func (l *PurchaseOrderList) Remove(po domain.PurchaseOrder) error {
	idx := l.indexOf(po)
	if idx < 0 {
		return ErrNotFound
	}
	l.orders = slices.Delete(l.orders, idx, idx+1)
	return nil
}

// SetAll replaces the orders. Every order needs a distinct, non-empty ID; nothing changes on error.
func (l *PurchaseOrderList) SetAll(list []domain.PurchaseOrder) error {
	seen := make(map[string]struct{}, len(list))
	for _, po := range list {
		if po.ID == "" {
			return ErrMissingID
		}
		if _, ok := seen[po.ID]; ok {
			return ErrDuplicate
		}
		seen[po.ID] = struct{}{}
	}
	l.orders = slices.Clone(list)
	return nil
}

func (l *PurchaseOrderList) Len() int {
	return len(l.orders)
}

func (l *PurchaseOrderList) Items() []domain.PurchaseOrder {
	return slices.Clone(l.orders)
}
