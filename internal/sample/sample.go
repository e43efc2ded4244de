package sample

import (
	"go.uber.org/zap"

	"stockbook/internal/auth"
	"stockbook/internal/domain"
	"stockbook/internal/inventory"
	"stockbook/internal/xid"
)

// DevAdminPassword is used for the seed admin when no password is configured.
const DevAdminPassword = "admin123"

// DefaultStaff is the account set restored by a clear. It holds a single admin whose
// password comes from password, falling back to DevAdminPassword with a warning.
func DefaultStaff(password string, logger *zap.Logger) ([]domain.Staff, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if password == "" {
		password = DevAdminPassword
		logger.Warn("using default dev admin password, set SEED_ADMIN_PASSWORD to override")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return []domain.Staff{{
		Username: "admin",
		Password: hash,
		Name:     "Administrator",
		Role:     domain.RoleAdmin,
	}}, nil
}

type seedItem struct {
	name, sku, price string
	qty              int64
	tags             []string
}

var catalogue = []seedItem{
	{"Arabica Coffee Beans", "COF-ARB-250", "12.90", 40, []string{"coffee", "beans"}},
	{"Green Tea Bags", "TEA-GRN-50", "4.50", 120, []string{"tea"}},
	{"Oat Milk", "MLK-OAT-1L", "3.20", 36, []string{"dairyfree", "milk"}},
	{"Sourdough Loaf", "BRD-SRD-01", "5.80", 15, []string{"bakery"}},
	{"Dark Chocolate Bar", "CHO-DRK-100", "2.75", 80, []string{"snack"}},
	{"Sparkling Water", "WTR-SPK-500", "1.10", 200, []string{"drink"}},
}

// Snapshot is the catalogue loaded on a first start with empty storage. Staff is
// filled in by the caller.
func Snapshot() inventory.Snapshot {
	items := make([]domain.Item, 0, len(catalogue))
	for _, s := range catalogue {
		tags := make([]domain.Tag, 0, len(s.tags))
		for _, t := range s.tags {
			tags = append(tags, domain.Tag(t))
		}
		items = append(items, domain.Item{
			Name:     domain.Name(s.name),
			Sku:      domain.Sku(s.sku),
			Price:    domain.MustPrice(s.price),
			Quantity: domain.NewQuantity(s.qty),
			Tags:     domain.NewTags(tags...),
		})
	}

	orders := []domain.PurchaseOrder{
		{
			ID:           xid.New("po"),
			Sku:          "COF-ARB-250",
			Quantity:     domain.NewQuantity(20),
			RequiredDate: domain.DateOf(domain.Today().Time().AddDate(0, 0, 7)),
			Supplier:     "Highland Roasters",
			Status:       domain.StatusPending,
		},
		{
			ID:           xid.New("po"),
			Sku:          "BRD-SRD-01",
			Quantity:     domain.NewQuantity(30),
			RequiredDate: domain.DateOf(domain.Today().Time().AddDate(0, 0, 2)),
			Supplier:     "Corner Bakery",
			Status:       domain.StatusPending,
		},
	}

	return inventory.Snapshot{Items: items, PurchaseOrders: orders}
}
