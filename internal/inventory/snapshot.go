package inventory

import (
	"slices"

	"stockbook/internal/domain"
)

// Snapshot is the serialisable form of an inventory.
type Snapshot struct {
	Items          []domain.Item          `json:"items"`
	PurchaseOrders []domain.PurchaseOrder `json:"purchase_orders"`
	Sales          []domain.Sale          `json:"sales"`
	Staff          []domain.Staff         `json:"staff"`
}

func ToSnapshot(data ReadOnly) Snapshot {
	return Snapshot{
		Items:          data.Items(),
		PurchaseOrders: data.PurchaseOrders(),
		Sales:          data.Sales(),
		Staff:          data.Staff(),
	}
}

func FromSnapshot(s Snapshot) (*Inventory, error) {
	return From(s.View())
}

func (s Snapshot) Clone() Snapshot {
	return ToSnapshot(s.View())
}

// View exposes the snapshot through the ReadOnly interface.
func (s Snapshot) View() ReadOnly {
	return snapshotView{s}
}

type snapshotView struct {
	s Snapshot
}

func (v snapshotView) Items() []domain.Item {
	out := make([]domain.Item, 0, len(v.s.Items))
	for _, item := range v.s.Items {
		out = append(out, item.Clone())
	}
	return out
}

func (v snapshotView) PurchaseOrders() []domain.PurchaseOrder {
	return slices.Clone(v.s.PurchaseOrders)
}

func (v snapshotView) Sales() []domain.Sale {
	out := make([]domain.Sale, 0, len(v.s.Sales))
	for _, sale := range v.s.Sales {
		out = append(out, sale.Clone())
	}
	return out
}

func (v snapshotView) Staff() []domain.Staff {
	return slices.Clone(v.s.Staff)
}
