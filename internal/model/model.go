package model

import (
	"errors"

	"go.uber.org/zap"

	"stockbook/internal/auth"
	"stockbook/internal/domain"
	"stockbook/internal/inventory"
)

var ErrNoSession = errors.New("no user is logged in")

// Predicate selects the entries shown in a filtered list.
type Predicate[T any] func(T) bool

func ShowAll[T any](T) bool { return true }

var (
	PredicateShowAllItems          Predicate[domain.Item]          = ShowAll[domain.Item]
	PredicateShowAllPurchaseOrders Predicate[domain.PurchaseOrder] = ShowAll[domain.PurchaseOrder]
	PredicateShowAllSales          Predicate[domain.Sale]          = ShowAll[domain.Sale]
	PredicateShowAllStaff          Predicate[domain.Staff]         = ShowAll[domain.Staff]
)

// Model is the session state commands operate on.
type Model interface {
	Inventory() inventory.ReadOnly

	FilteredItemList() []domain.Item
	FilteredPurchaseOrderList() []domain.PurchaseOrder
	FilteredSaleList() []domain.Sale
	FilteredStaffList() []domain.Staff
	UpdateFilteredItemList(Predicate[domain.Item])
	UpdateFilteredPurchaseOrderList(Predicate[domain.PurchaseOrder])
	UpdateFilteredSaleList(Predicate[domain.Sale])
	UpdateFilteredStaffList(Predicate[domain.Staff])

	HasItem(domain.Item) bool
	ItemBySku(domain.Sku) (domain.Item, bool)
	AddItem(domain.Item) error
	UpdateItem(target, edited domain.Item) error
	DeleteItem(domain.Item) error
	SetItems([]domain.Item) error

	HasPurchaseOrder(domain.PurchaseOrder) bool
	AddPurchaseOrder(domain.PurchaseOrder)
	UpdatePurchaseOrder(target, edited domain.PurchaseOrder) error
	DeletePurchaseOrder(domain.PurchaseOrder) error
	ApprovePurchaseOrder(domain.PurchaseOrder) error
	RejectPurchaseOrder(domain.PurchaseOrder) error

	SaleByID(domain.SaleID) (domain.Sale, bool)
	NextSaleID() domain.SaleID
	AddSale(domain.Sale) error
	DeleteSale(domain.Sale) error
	SetSales([]domain.Sale) error

	HasStaff(domain.Staff) bool
	StaffByUsername(domain.Username) (domain.Staff, bool)
	AddStaff(domain.Staff) error
	UpdateStaff(target, edited domain.Staff) error
	DeleteStaff(domain.Staff) error

	ResetData(inventory.ReadOnly) error
	DefaultStaff() []domain.Staff

	CommitInventory()
	UndoInventory() error
	RedoInventory() error
	CanUndoInventory() bool
	CanRedoInventory() bool

	AuthenticateUser(domain.Staff) error
	IsUserLoggedIn() bool
	CurrentUser() (domain.Actor, bool)
	LogoutUser()
}

// Manager is the Model backed by a versioned inventory.
type Manager struct {
	versioned *inventory.Versioned
	auth      *auth.Manager
	session   *auth.Session
	logger    *zap.Logger

	itemFilter          Predicate[domain.Item]
	purchaseOrderFilter Predicate[domain.PurchaseOrder]
	saleFilter          Predicate[domain.Sale]
	staffFilter         Predicate[domain.Staff]

	defaultStaff []domain.Staff
	observers    []Observer
	historyLimit int
}

type Option func(*Manager)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithAuth(a *auth.Manager) Option {
	return func(m *Manager) { m.auth = a }
}

func WithHistoryLimit(limit int) Option {
	return func(m *Manager) { m.historyLimit = limit }
}

// WithDefaultStaff sets the accounts restored by a clear.
func WithDefaultStaff(staff []domain.Staff) Option {
	return func(m *Manager) { m.defaultStaff = append([]domain.Staff(nil), staff...) }
}

// New seeds the history with data as its only entry.
func New(data inventory.ReadOnly, opts ...Option) (*Manager, error) {
	m := &Manager{
		logger:              zap.NewNop(),
		itemFilter:          PredicateShowAllItems,
		purchaseOrderFilter: PredicateShowAllPurchaseOrders,
		saleFilter:          PredicateShowAllSales,
		staffFilter:         PredicateShowAllStaff,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.auth == nil {
		m.auth = auth.NewEphemeralManager(0)
	}

	versioned, err := inventory.NewVersioned(data, m.historyLimit)
	if err != nil {
		return nil, err
	}
	m.versioned = versioned
	return m, nil
}

func (m *Manager) live() *inventory.Inventory {
	return m.versioned.Live()
}

func (m *Manager) Inventory() inventory.ReadOnly {
	return m.live()
}

func filter[T any](all []T, keep Predicate[T]) []T {
	out := make([]T, 0, len(all))
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (m *Manager) FilteredItemList() []domain.Item {
	return filter(m.live().Items(), m.itemFilter)
}

func (m *Manager) FilteredPurchaseOrderList() []domain.PurchaseOrder {
	return filter(m.live().PurchaseOrders(), m.purchaseOrderFilter)
}

func (m *Manager) FilteredSaleList() []domain.Sale {
	return filter(m.live().Sales(), m.saleFilter)
}

func (m *Manager) FilteredStaffList() []domain.Staff {
	return filter(m.live().Staff(), m.staffFilter)
}

func (m *Manager) UpdateFilteredItemList(p Predicate[domain.Item]) {
	m.itemFilter = orShowAll(p)
}

func (m *Manager) UpdateFilteredPurchaseOrderList(p Predicate[domain.PurchaseOrder]) {
	m.purchaseOrderFilter = orShowAll(p)
}

func (m *Manager) UpdateFilteredSaleList(p Predicate[domain.Sale]) {
	m.saleFilter = orShowAll(p)
}

func (m *Manager) UpdateFilteredStaffList(p Predicate[domain.Staff]) {
	m.staffFilter = orShowAll(p)
}

func orShowAll[T any](p Predicate[T]) Predicate[T] {
	if p == nil {
		return ShowAll[T]
	}
	return p
}

func (m *Manager) HasItem(item domain.Item) bool { return m.live().HasItem(item) }

func (m *Manager) ItemBySku(sku domain.Sku) (domain.Item, bool) { return m.live().ItemBySku(sku) }

func (m *Manager) AddItem(item domain.Item) error { return m.live().AddItem(item) }

func (m *Manager) UpdateItem(target, edited domain.Item) error {
	return m.live().UpdateItem(target, edited)
}

func (m *Manager) DeleteItem(item domain.Item) error { return m.live().RemoveItem(item) }

func (m *Manager) SetItems(items []domain.Item) error { return m.live().SetItems(items) }

func (m *Manager) HasPurchaseOrder(po domain.PurchaseOrder) bool {
	return m.live().HasPurchaseOrder(po)
}

func (m *Manager) AddPurchaseOrder(po domain.PurchaseOrder) { m.live().AddPurchaseOrder(po) }

func (m *Manager) UpdatePurchaseOrder(target, edited domain.PurchaseOrder) error {
	return m.live().UpdatePurchaseOrder(target, edited)
}

func (m *Manager) DeletePurchaseOrder(po domain.PurchaseOrder) error {
	return m.live().RemovePurchaseOrder(po)
}

func (m *Manager) ApprovePurchaseOrder(po domain.PurchaseOrder) error {
	return m.live().ApprovePurchaseOrder(po)
}

func (m *Manager) RejectPurchaseOrder(po domain.PurchaseOrder) error {
	return m.live().RejectPurchaseOrder(po)
}

func (m *Manager) SaleByID(id domain.SaleID) (domain.Sale, bool) { return m.live().SaleByID(id) }

func (m *Manager) NextSaleID() domain.SaleID { return m.live().NextSaleID() }

func (m *Manager) AddSale(sale domain.Sale) error { return m.live().AddSale(sale) }

func (m *Manager) DeleteSale(sale domain.Sale) error { return m.live().RemoveSale(sale) }

func (m *Manager) SetSales(sales []domain.Sale) error { return m.live().SetSales(sales) }

func (m *Manager) HasStaff(staff domain.Staff) bool { return m.live().HasStaff(staff) }

func (m *Manager) StaffByUsername(username domain.Username) (domain.Staff, bool) {
	return m.live().StaffByUsername(username)
}

func (m *Manager) AddStaff(staff domain.Staff) error { return m.live().AddStaff(staff) }

func (m *Manager) UpdateStaff(target, edited domain.Staff) error {
	return m.live().UpdateStaff(target, edited)
}

func (m *Manager) DeleteStaff(staff domain.Staff) error { return m.live().RemoveStaff(staff) }

func (m *Manager) ResetData(data inventory.ReadOnly) error { return m.live().ResetData(data) }

func (m *Manager) DefaultStaff() []domain.Staff {
	return append([]domain.Staff(nil), m.defaultStaff...)
}

func (m *Manager) CommitInventory() {
	before := m.versioned.Committed()
	m.versioned.Commit()
	m.logger.Debug("inventory committed",
		zap.Int("history", m.versioned.Len()),
		zap.Int("cursor", m.versioned.Cursor()))
	m.notify(ReasonCommit, before)
}

func (m *Manager) UndoInventory() error {
	before := m.versioned.Committed()
	if err := m.versioned.Undo(); err != nil {
		return err
	}
	m.logger.Debug("inventory undone", zap.Int("cursor", m.versioned.Cursor()))
	m.notify(ReasonUndo, before)
	return nil
}

func (m *Manager) RedoInventory() error {
	before := m.versioned.Committed()
	if err := m.versioned.Redo(); err != nil {
		return err
	}
	m.logger.Debug("inventory redone", zap.Int("cursor", m.versioned.Cursor()))
	m.notify(ReasonRedo, before)
	return nil
}

func (m *Manager) CanUndoInventory() bool { return m.versioned.CanUndo() }

func (m *Manager) CanRedoInventory() bool { return m.versioned.CanRedo() }

// HistoryLength and HistoryCursor expose the version history position.
func (m *Manager) HistoryLength() int { return m.versioned.Len() }

func (m *Manager) HistoryCursor() int { return m.versioned.Cursor() }

func (m *Manager) AuthenticateUser(staff domain.Staff) error {
	session, err := m.auth.Issue(staff)
	if err != nil {
		return err
	}
	m.session = &session
	m.logger.Info("user logged in", zap.String("username", staff.Username.String()))
	return nil
}

func (m *Manager) IsUserLoggedIn() bool {
	_, ok := m.CurrentUser()
	return ok
}

// CurrentUser is the actor behind a session whose token still verifies.
func (m *Manager) CurrentUser() (domain.Actor, bool) {
	if m.session == nil {
		return domain.Actor{}, false
	}
	actor, err := m.auth.Verify(m.session.Token)
	if err != nil {
		return domain.Actor{}, false
	}
	return actor, true
}

func (m *Manager) LogoutUser() {
	if m.session != nil {
		m.logger.Info("user logged out", zap.String("username", m.session.Username.String()))
	}
	m.session = nil
}
