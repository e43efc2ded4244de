package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"stockbook/internal/domain"
)

var (
	ErrNotPending           = errors.New("purchase order is not pending")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)

// ReadOnly is the read side of an inventory handed to display, export and persistence code.
type ReadOnly interface {
	Items() []domain.Item
	PurchaseOrders() []domain.PurchaseOrder
	Sales() []domain.Sale
	Staff() []domain.Staff
}

// Inventory aggregates the item catalogue, purchase orders, sales and staff accounts.
// Operations that touch two collections check everything before changing anything.
type Inventory struct {
	items          *UniqueList[domain.Item]
	purchaseOrders *PurchaseOrderList
	sales          *UniqueList[domain.Sale]
	staff          *UniqueList[domain.Staff]
}

func New() *Inventory {
	return &Inventory{
		items:          NewUniqueList(domain.Item.SameIdentity, domain.Item.Clone),
		purchaseOrders: &PurchaseOrderList{},
		sales:          NewUniqueList(domain.Sale.SameIdentity, domain.Sale.Clone),
		staff:          NewUniqueList(domain.Staff.SameIdentity, nil),
	}
}

// From builds an inventory holding a copy of data.
func From(data ReadOnly) (*Inventory, error) {
	inv := New()
	if err := inv.ResetData(data); err != nil {
		return nil, err
	}
	return inv, nil
}

// ResetData replaces every collection with the contents of data. Nothing changes on error.
func (inv *Inventory) ResetData(data ReadOnly) error {
	next := New()
	if err := next.items.SetAll(data.Items()); err != nil {
		return fmt.Errorf("items: %w", err)
	}
	if err := next.sales.SetAll(data.Sales()); err != nil {
		return fmt.Errorf("sales: %w", err)
	}
	if err := next.staff.SetAll(data.Staff()); err != nil {
		return fmt.Errorf("staff: %w", err)
	}
	if err := next.purchaseOrders.SetAll(data.PurchaseOrders()); err != nil {
		return fmt.Errorf("purchase orders: %w", err)
	}
	*inv = *next
	return nil
}

func (inv *Inventory) Items() []domain.Item                  { return inv.items.Items() }
func (inv *Inventory) PurchaseOrders() []domain.PurchaseOrder { return inv.purchaseOrders.Items() }
func (inv *Inventory) Sales() []domain.Sale                  { return inv.sales.Items() }
func (inv *Inventory) Staff() []domain.Staff                 { return inv.staff.Items() }

func (inv *Inventory) SetItems(items []domain.Item) error {
	if err := inv.items.SetAll(items); err != nil {
		return fmt.Errorf("items: %w", err)
	}
	return nil
}

func (inv *Inventory) SetPurchaseOrders(orders []domain.PurchaseOrder) error {
	if err := inv.purchaseOrders.SetAll(orders); err != nil {
		return fmt.Errorf("purchase orders: %w", err)
	}
	return nil
}

func (inv *Inventory) SetSales(sales []domain.Sale) error {
	if err := inv.sales.SetAll(sales); err != nil {
		return fmt.Errorf("sales: %w", err)
	}
	return nil
}

func (inv *Inventory) SetStaff(staff []domain.Staff) error {
	if err := inv.staff.SetAll(staff); err != nil {
		return fmt.Errorf("staff: %w", err)
	}
	return nil
}

// Items

func (inv *Inventory) HasItem(item domain.Item) bool {
	return inv.items.Contains(item)
}

func (inv *Inventory) ItemBySku(sku domain.Sku) (domain.Item, bool) {
	return inv.items.Find(func(item domain.Item) bool { return item.Sku == sku })
}

func (inv *Inventory) AddItem(item domain.Item) error {
	if err := inv.items.Add(item); err != nil {
		return fmt.Errorf("item %s: %w", item.Sku, err)
	}
	return nil
}

func (inv *Inventory) UpdateItem(target, edited domain.Item) error {
	if err := inv.items.Set(target, edited); err != nil {
		return fmt.Errorf("item %s: %w", target.Sku, err)
	}
	return nil
}

func (inv *Inventory) RemoveItem(item domain.Item) error {
	if err := inv.items.Remove(item); err != nil {
		return fmt.Errorf("item %s: %w", item.Sku, err)
	}
	return nil
}

// Purchase orders

func (inv *Inventory) HasPurchaseOrder(po domain.PurchaseOrder) bool {
	return inv.purchaseOrders.Contains(po)
}

// AddPurchaseOrder does nothing when po refers to a Sku that is not in the catalogue.
func (inv *Inventory) AddPurchaseOrder(po domain.PurchaseOrder) {
	if _, ok := inv.ItemBySku(po.Sku); !ok {
		return
	}
	inv.purchaseOrders.Add(po)
}

func (inv *Inventory) UpdatePurchaseOrder(target, edited domain.PurchaseOrder) error {
	if err := inv.purchaseOrders.Set(target, edited); err != nil {
		return fmt.Errorf("purchase order %s: %w", target.ID, err)
	}
	return nil
}

func (inv *Inventory) RemovePurchaseOrder(po domain.PurchaseOrder) error {
	if err := inv.purchaseOrders.Remove(po); err != nil {
		return fmt.Errorf("purchase order %s: %w", po.ID, err)
	}
	return nil
}

func (inv *Inventory) pendingOrder(po domain.PurchaseOrder) (domain.PurchaseOrder, error) {
	current, ok := inv.purchaseOrders.Get(po)
	if !ok {
		return domain.PurchaseOrder{}, fmt.Errorf("purchase order %s: %w", po.ID, ErrNotFound)
	}
	if !current.IsPending() {
		return domain.PurchaseOrder{}, fmt.Errorf("purchase order %s: %w", po.ID, ErrNotPending)
	}
	return current, nil
}

// ApprovePurchaseOrder marks po approved and adds its quantity to the referenced item.
func (inv *Inventory) ApprovePurchaseOrder(po domain.PurchaseOrder) error {
	current, err := inv.pendingOrder(po)
	if err != nil {
		return err
	}
	item, ok := inv.ItemBySku(current.Sku)
	if !ok {
		return fmt.Errorf("item %s: %w", current.Sku, ErrNotFound)
	}

	restocked := item.WithQuantity(item.Quantity.Add(current.Quantity))
	if err := inv.items.Set(item, restocked); err != nil {
		return fmt.Errorf("item %s: %w", item.Sku, err)
	}
	return inv.purchaseOrders.Set(current, current.WithStatus(domain.StatusApproved))
}

func (inv *Inventory) RejectPurchaseOrder(po domain.PurchaseOrder) error {
	current, err := inv.pendingOrder(po)
	if err != nil {
		return err
	}
	return inv.purchaseOrders.Set(current, current.WithStatus(domain.StatusRejected))
}

// Sales

func (inv *Inventory) SaleByID(id domain.SaleID) (domain.Sale, bool) {
	return inv.sales.Find(func(sale domain.Sale) bool { return sale.ID.Equal(id) })
}

// NextSaleID is one more than the largest recorded sale id, starting at 1.
func (inv *Inventory) NextSaleID() domain.SaleID {
	highest := decimal.Zero
	for _, sale := range inv.sales.elems {
		if n := sale.ID.Number(); n.GreaterThan(highest) {
			highest = n
		}
	}
	return domain.SaleIDFrom(highest.Add(decimal.NewFromInt(1)))
}

// AddSale records sale and takes the sold quantity off the item with the same Sku.
func (inv *Inventory) AddSale(sale domain.Sale) error {
	item, ok := inv.ItemBySku(sale.Item.Sku)
	if !ok {
		return fmt.Errorf("item %s: %w", sale.Item.Sku, ErrNotFound)
	}
	left, ok := item.Quantity.Sub(sale.Quantity)
	if !ok {
		return fmt.Errorf("item %s: %w", item.Sku, ErrInsufficientQuantity)
	}
	if inv.sales.Contains(sale) {
		return fmt.Errorf("sale %s: %w", sale.ID, ErrDuplicate)
	}

	if err := inv.items.Set(item, item.WithQuantity(left)); err != nil {
		return fmt.Errorf("item %s: %w", item.Sku, err)
	}
	return inv.sales.Add(sale)
}

// RemoveSale deletes sale and returns its quantity to the item if the item still exists.
func (inv *Inventory) RemoveSale(sale domain.Sale) error {
	stored, ok := inv.SaleByID(sale.ID)
	if !ok {
		return fmt.Errorf("sale %s: %w", sale.ID, ErrNotFound)
	}
	if err := inv.sales.Remove(stored); err != nil {
		return fmt.Errorf("sale %s: %w", sale.ID, err)
	}
	if item, ok := inv.ItemBySku(stored.Item.Sku); ok {
		return inv.items.Set(item, item.WithQuantity(item.Quantity.Add(stored.Quantity)))
	}
	return nil
}

// Staff

func (inv *Inventory) HasStaff(staff domain.Staff) bool {
	return inv.staff.Contains(staff)
}

func (inv *Inventory) StaffByUsername(username domain.Username) (domain.Staff, bool) {
	return inv.staff.Find(func(s domain.Staff) bool { return s.Username == username })
}

func (inv *Inventory) AddStaff(staff domain.Staff) error {
	if err := inv.staff.Add(staff); err != nil {
		return fmt.Errorf("staff %s: %w", staff.Username, err)
	}
	return nil
}

func (inv *Inventory) UpdateStaff(target, edited domain.Staff) error {
	if err := inv.staff.Set(target, edited); err != nil {
		return fmt.Errorf("staff %s: %w", target.Username, err)
	}
	return nil
}

func (inv *Inventory) RemoveStaff(staff domain.Staff) error {
	if err := inv.staff.Remove(staff); err != nil {
		return fmt.Errorf("staff %s: %w", staff.Username, err)
	}
	return nil
}

// Clone returns a deep copy that shares no state with inv.
func (inv *Inventory) Clone() *Inventory {
	return &Inventory{
		items:          inv.items.clone(),
		purchaseOrders: &PurchaseOrderList{orders: inv.purchaseOrders.Items()},
		sales:          inv.sales.clone(),
		staff:          inv.staff.clone(),
	}
}

func (inv *Inventory) Equal(other *Inventory) bool {
	return len(Changed(inv, other)) == 0
}

// Kind names one of the inventory's collections.
type Kind string

const (
	KindItems          Kind = "items"
	KindPurchaseOrders Kind = "purchase_orders"
	KindSales          Kind = "sales"
	KindStaff          Kind = "staff"
)

// Changed lists the collections whose contents differ between a and b.
func Changed(a, b ReadOnly) []Kind {
	var kinds []Kind
	if !equalSlices(a.Items(), b.Items(), domain.Item.Equal) {
		kinds = append(kinds, KindItems)
	}
	if !equalSlices(a.PurchaseOrders(), b.PurchaseOrders(), domain.PurchaseOrder.Equal) {
		kinds = append(kinds, KindPurchaseOrders)
	}
	if !equalSlices(a.Sales(), b.Sales(), domain.Sale.Equal) {
		kinds = append(kinds, KindSales)
	}
	if !equalSlices(a.Staff(), b.Staff(), domain.Staff.Equal) {
		kinds = append(kinds, KindStaff)
	}
	return kinds
}
