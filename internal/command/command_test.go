package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"stockbook/internal/auth"
	"stockbook/internal/domain"
	"stockbook/internal/inventory"
	"stockbook/internal/model"
)

func newTestModel(t *testing.T) *model.Manager {
	t.Helper()
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := domain.Staff{Username: "admin", Password: hash, Name: "Admin", Role: domain.RoleAdmin}
	m, err := model.New(inventory.Snapshot{Staff: []domain.Staff{admin}}.View(),
		model.WithDefaultStaff([]domain.Staff{admin}))
	if err != nil {
		t.Fatalf("new model failed: %v", err)
	}
	return m
}

func mustItem(sku string, qty int64) domain.Item {
	return domain.Item{
		Name:     domain.Name("Item " + sku),
		Sku:      domain.Sku(sku),
		Price:    domain.MustPrice("1.00"),
		Quantity: domain.NewQuantity(qty),
		Tags:     domain.NewTags("stock"),
	}
}

func run(t *testing.T, m model.Model, cmd Command) Result {
	t.Helper()
	res, err := cmd.Execute(m)
	if err != nil {
		t.Fatalf("%T failed: %v", cmd, err)
	}
	return res
}

func expectKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var cmdErr *Error
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *command.Error of kind %s, got %v", kind, err)
	}
	if cmdErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%s)", kind, cmdErr.Kind, cmdErr.Message)
	}
}

// expectUnchanged runs a failing command and checks that neither state nor history moved.
func expectUnchanged(t *testing.T, m *model.Manager, cmd Command, kind ErrorKind) {
	t.Helper()
	before, err := inventory.From(m.Inventory())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	length := m.HistoryLength()

	_, err = cmd.Execute(m)
	expectKind(t, err, kind)

	after, _ := inventory.From(m.Inventory())
	if !after.Equal(before) {
		t.Fatalf("%T changed the inventory despite failing", cmd)
	}
	if m.HistoryLength() != length {
		t.Fatalf("%T committed despite failing", cmd)
	}
}

func quantityOf(t *testing.T, m model.Model, sku string) string {
	t.Helper()
	item, ok := m.ItemBySku(domain.Sku(sku))
	if !ok {
		t.Fatalf("item %s not found", sku)
	}
	return item.Quantity.String()
}

func TestSaleScenario(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})
	run(t, m, AddSale{Sku: "a1", Quantity: domain.NewQuantity(5), Date: domain.Today()})

	if got := quantityOf(t, m, "a1"); got != "25" {
		t.Fatalf("expected quantity 25, got %s", got)
	}
	sales := m.FilteredSaleList()
	if len(sales) != 1 || sales[0].ID != "1" {
		t.Fatalf("expected a single sale with id 1, got %v", sales)
	}
	if !sales[0].Item.Quantity.Equal(domain.NewQuantity(30)) {
		t.Fatalf("expected sale to record the item as it was before the sale")
	}

	run(t, m, DeleteSale{ID: "1"})
	if got := quantityOf(t, m, "a1"); got != "30" {
		t.Fatalf("expected quantity 30, got %s", got)
	}
	if len(m.FilteredSaleList()) != 0 {
		t.Fatalf("expected sale list to be empty")
	}
}

func TestAddSaleFailuresDoNotCommit(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 3)})

	expectUnchanged(t, m, AddSale{Sku: "a1", Quantity: domain.NewQuantity(4), Date: domain.Today()}, KindPrecondition)
	expectUnchanged(t, m, AddSale{Sku: "zz", Quantity: domain.NewQuantity(1), Date: domain.Today()}, KindNotFound)
	expectUnchanged(t, m, DeleteSale{ID: "9"}, KindNotFound)
}

func TestPurchaseOrderScenario(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})
	run(t, m, AddPurchaseOrder{Sku: "a1", Quantity: domain.NewQuantity(10), RequiredDate: domain.Today(), Supplier: "Acme"})

	first := domain.IndexFromOne(1)
	run(t, m, ApprovePurchaseOrder{Index: first})
	if got := quantityOf(t, m, "a1"); got != "40" {
		t.Fatalf("expected quantity 40, got %s", got)
	}
	if status := m.FilteredPurchaseOrderList()[0].Status; status != domain.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", status)
	}

	expectUnchanged(t, m, ApprovePurchaseOrder{Index: first}, KindPrecondition)
	expectUnchanged(t, m, RejectPurchaseOrder{Index: first}, KindPrecondition)
	if got := quantityOf(t, m, "a1"); got != "40" {
		t.Fatalf("expected quantity to stay 40, got %s", got)
	}
}

func TestAddPurchaseOrderRequiresItem(t *testing.T) {
	m := newTestModel(t)
	expectUnchanged(t, m, AddPurchaseOrder{Sku: "ghost", Quantity: domain.NewQuantity(1), RequiredDate: domain.Today(), Supplier: "Acme"}, KindNotFound)
}

func TestApproveAfterItemDeletedFails(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})
	run(t, m, AddPurchaseOrder{Sku: "a1", Quantity: domain.NewQuantity(10), RequiredDate: domain.Today(), Supplier: "Acme"})
	run(t, m, DeleteItem{Index: domain.IndexFromOne(1)})

	expectUnchanged(t, m, ApprovePurchaseOrder{Index: domain.IndexFromOne(1)}, KindNotFound)
}

func TestEditAndDeletePurchaseOrder(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})
	run(t, m, AddPurchaseOrder{Sku: "a1", Quantity: domain.NewQuantity(10), RequiredDate: domain.Today(), Supplier: "Acme"})

	supplier := domain.Supplier("Globex")
	run(t, m, EditPurchaseOrder{Index: domain.IndexFromOne(1), Descriptor: EditPurchaseOrderDescriptor{Supplier: &supplier}})
	if got := m.FilteredPurchaseOrderList()[0].Supplier; got != "Globex" {
		t.Fatalf("expected supplier Globex, got %s", got)
	}

	run(t, m, DeletePurchaseOrder{Index: domain.IndexFromOne(1)})
	if len(m.FilteredPurchaseOrderList()) != 0 {
		t.Fatalf("expected no purchase orders")
	}
	expectUnchanged(t, m, DeletePurchaseOrder{Index: domain.IndexFromOne(1)}, KindNotFound)
}

func TestListPurchaseOrdersByStatus(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})
	for range 3 {
		run(t, m, AddPurchaseOrder{Sku: "a1", Quantity: domain.NewQuantity(1), RequiredDate: domain.Today(), Supplier: "Acme"})
	}
	run(t, m, RejectPurchaseOrder{Index: domain.IndexFromOne(2)})

	pending := domain.StatusPending
	run(t, m, ListPurchaseOrders{Status: &pending})
	if got := len(m.FilteredPurchaseOrderList()); got != 2 {
		t.Fatalf("expected 2 pending orders, got %d", got)
	}
	run(t, m, ListPurchaseOrders{})
	if got := len(m.FilteredPurchaseOrderList()); got != 3 {
		t.Fatalf("expected 3 orders, got %d", got)
	}
}

func TestAddItemDuplicate(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})

	other := mustItem("a1", 1)
	other.Name = "Something Else"
	expectUnchanged(t, m, AddItem{Item: other}, KindDuplicate)
	if got := len(m.FilteredItemList()); got != 1 {
		t.Fatalf("expected exactly one item, got %d", got)
	}
}

func TestEditItemOverlaysFields(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})
	run(t, m, AddItem{Item: mustItem("b2", 5)})

	price := domain.MustPrice("9.99")
	run(t, m, EditItem{Index: domain.IndexFromOne(1), Descriptor: EditItemDescriptor{Price: &price}})
	edited, _ := m.ItemBySku("a1")
	if edited.Price.String() != "9.99" || edited.Quantity.String() != "30" || edited.Name != "Item a1" {
		t.Fatalf("unexpected edited item %v", edited)
	}

	taken := domain.Sku("b2")
	expectUnchanged(t, m, EditItem{Index: domain.IndexFromOne(1), Descriptor: EditItemDescriptor{Sku: &taken}}, KindDuplicate)
	expectUnchanged(t, m, EditItem{Index: domain.IndexFromOne(5), Descriptor: EditItemDescriptor{Price: &price}}, KindNotFound)
}

func TestIndexResolvesAgainstFilteredList(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: domain.Item{Name: "Red Apple", Sku: "a1", Price: domain.MustPrice("1"), Quantity: domain.NewQuantity(1)}})
	run(t, m, AddItem{Item: domain.Item{Name: "Green Pear", Sku: "p1", Price: domain.MustPrice("1"), Quantity: domain.NewQuantity(1)}})

	run(t, m, FindItems{Keywords: []string{"pear"}})
	if got := len(m.FilteredItemList()); got != 1 {
		t.Fatalf("expected 1 match, got %d", got)
	}
	expectUnchanged(t, m, DeleteItem{Index: domain.IndexFromOne(2)}, KindNotFound)

	res := run(t, m, SelectItem{Index: domain.IndexFromOne(1)})
	if res.Selected == nil || res.Selected.Sku != "p1" {
		t.Fatalf("expected p1 to be selected, got %v", res.Selected)
	}

	run(t, m, DeleteItem{Index: domain.IndexFromOne(1)})
	if _, ok := m.ItemBySku("p1"); ok {
		t.Fatalf("expected p1 to be deleted")
	}
	if _, ok := m.ItemBySku("a1"); !ok {
		t.Fatalf("expected a1 to remain")
	}
}

func TestFilterItemsByBounds(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("low", 2)})
	run(t, m, AddItem{Item: mustItem("mid", 20)})
	run(t, m, AddItem{Item: mustItem("high", 200)})

	lo, hi := domain.NewQuantity(10), domain.NewQuantity(100)
	run(t, m, FilterItems{MinQuantity: &lo, MaxQuantity: &hi})
	items := m.FilteredItemList()
	if len(items) != 1 || items[0].Sku != "mid" {
		t.Fatalf("expected only mid, got %v", items)
	}
}

func TestUndoRedoCommands(t *testing.T) {
	m := newTestModel(t)
	_, err := Undo{}.Execute(m)
	expectKind(t, err, KindPrecondition)

	run(t, m, AddItem{Item: mustItem("a1", 30)})
	run(t, m, FindItems{Keywords: []string{"nothing"}})

	run(t, m, Undo{})
	if len(m.FilteredItemList()) != 0 {
		t.Fatalf("expected no items after undo")
	}
	run(t, m, Redo{})
	if got := len(m.FilteredItemList()); got != 1 {
		t.Fatalf("expected filter reset and 1 item after redo, got %d", got)
	}

	_, err = Redo{}.Execute(m)
	expectKind(t, err, KindPrecondition)
}

func TestCommitAfterUndoDropsRedo(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("s1", 1)})
	run(t, m, AddItem{Item: mustItem("s2", 1)})
	run(t, m, Undo{})
	run(t, m, Undo{})
	run(t, m, AddItem{Item: mustItem("s3", 1)})

	if m.HistoryLength() != 2 {
		t.Fatalf("expected history of 2, got %d", m.HistoryLength())
	}
	_, err := Redo{}.Execute(m)
	expectKind(t, err, KindPrecondition)
}

func TestClearKeepsDefaultStaff(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})
	run(t, m, AddSale{Sku: "a1", Quantity: domain.NewQuantity(1), Date: domain.Today()})

	run(t, m, Clear{})
	inv := m.Inventory()
	if len(inv.Items()) != 0 || len(inv.Sales()) != 0 || len(inv.PurchaseOrders()) != 0 {
		t.Fatalf("expected empty inventory after clear")
	}
	if staff := inv.Staff(); len(staff) != 1 || staff[0].Username != "admin" {
		t.Fatalf("expected default admin to remain, got %v", staff)
	}

	run(t, m, Undo{})
	if len(m.Inventory().Items()) != 1 {
		t.Fatalf("expected clear to be undoable")
	}
}

func TestLoginFlow(t *testing.T) {
	m := newTestModel(t)

	_, err := Login{Username: "admin", Password: "wrong"}.Execute(m)
	expectKind(t, err, KindIllegalAuth)
	_, err = Login{Username: "nobody", Password: "admin123"}.Execute(m)
	expectKind(t, err, KindIllegalAuth)

	length := m.HistoryLength()
	run(t, m, Login{Username: "admin", Password: "admin123"})
	if !m.IsUserLoggedIn() {
		t.Fatalf("expected to be logged in")
	}
	if m.HistoryLength() != length {
		t.Fatalf("login must not commit")
	}

	_, err = Login{Username: "admin", Password: "admin123"}.Execute(m)
	expectKind(t, err, KindPrecondition)

	run(t, m, Logout{})
	if m.IsUserLoggedIn() {
		t.Fatalf("expected to be logged out")
	}
	_, err = Logout{}.Execute(m)
	expectKind(t, err, KindIllegalAuth)
}

func TestStaffManagementRequiresAdmin(t *testing.T) {
	m := newTestModel(t)
	add := AddStaff{Username: "bob", Password: "bobpass", Name: "Bob", Role: domain.RoleUser}

	expectUnchanged(t, m, add, KindIllegalAuth)

	run(t, m, Login{Username: "admin", Password: "admin123"})
	run(t, m, add)
	bob, ok := m.StaffByUsername("bob")
	if !ok || bob.Password == "bobpass" || !auth.VerifyPassword(bob.Password, "bobpass") {
		t.Fatalf("expected bob to be stored with a hashed password")
	}
	expectUnchanged(t, m, add, KindDuplicate)
	expectUnchanged(t, m, DeleteStaff{Index: domain.IndexFromOne(1)}, KindPrecondition)

	run(t, m, Logout{})
	run(t, m, Login{Username: "bob", Password: "bobpass"})
	expectUnchanged(t, m, DeleteStaff{Index: domain.IndexFromOne(1)}, KindIllegalAuth)

	run(t, m, ChangePassword{Current: "bobpass", New: "newpass"})
	bob, _ = m.StaffByUsername("bob")
	if !auth.VerifyPassword(bob.Password, "newpass") {
		t.Fatalf("expected password to change")
	}
	expectUnchanged(t, m, ChangePassword{Current: "wrong", New: "another"}, KindIllegalAuth)
}

func TestEditStaff(t *testing.T) {
	m := newTestModel(t)
	run(t, m, Login{Username: "admin", Password: "admin123"})
	run(t, m, AddStaff{Username: "bob", Password: "bobpass", Name: "Bob", Role: domain.RoleUser})

	role := domain.RoleManager
	run(t, m, EditStaff{Index: domain.IndexFromOne(2), Descriptor: EditStaffDescriptor{Role: &role}})
	bob, _ := m.StaffByUsername("bob")
	if bob.Role != domain.RoleManager || !auth.VerifyPassword(bob.Password, "bobpass") {
		t.Fatalf("unexpected staff after edit %+v", bob)
	}

	taken := domain.Username("admin")
	expectUnchanged(t, m, EditStaff{Index: domain.IndexFromOne(2), Descriptor: EditStaffDescriptor{Username: &taken}}, KindDuplicate)
}

func TestSessionFollowsStoredAccount(t *testing.T) {
	m := newTestModel(t)
	run(t, m, Login{Username: "admin", Password: "admin123"})

	renamed := domain.Username("root")
	run(t, m, EditStaff{Index: domain.IndexFromOne(1), Descriptor: EditStaffDescriptor{Username: &renamed}})
	actor, ok := m.CurrentUser()
	if !ok || actor.Username != "root" {
		t.Fatalf("expected session to follow the rename, got %+v", actor)
	}
	expectUnchanged(t, m, DeleteStaff{Index: domain.IndexFromOne(1)}, KindPrecondition)

	demoted := domain.RoleUser
	run(t, m, EditStaff{Index: domain.IndexFromOne(1), Descriptor: EditStaffDescriptor{Role: &demoted}})
	expectUnchanged(t, m, AddStaff{Username: "bob", Password: "bobpass", Name: "Bob", Role: domain.RoleUser}, KindIllegalAuth)
}

func TestSessionEndsWhenAccountRemoved(t *testing.T) {
	m := newTestModel(t)
	run(t, m, Login{Username: "admin", Password: "admin123"})
	run(t, m, AddStaff{Username: "bob", Password: "bobpass", Name: "Bob", Role: domain.RoleAdmin})
	run(t, m, Logout{})
	run(t, m, Login{Username: "bob", Password: "bobpass"})

	run(t, m, Clear{})
	_, err := ListStaff{}.Execute(m)
	expectKind(t, err, KindIllegalAuth)
	if m.IsUserLoggedIn() {
		t.Fatalf("expected session of a removed account to end")
	}
	run(t, m, Login{Username: "admin", Password: "admin123"})
}

func TestImportItemsIsAllOrNothing(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("keep", 1)})

	dir := t.TempDir()
	dup := filepath.Join(dir, "dup.csv")
	content := "name,sku,price,quantity,image,tags\nApple,a1,1.00,3,,\nPear,a1,2.00,4,,\n"
	if err := os.WriteFile(dup, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture failed: %v", err)
	}
	expectUnchanged(t, m, ImportItems{Path: dup}, KindDuplicate)
	expectUnchanged(t, m, ImportItems{Path: filepath.Join(dir, "missing.csv")}, KindIO)

	good := filepath.Join(dir, "good.csv")
	content = "name,sku,price,quantity,image,tags\nApple,a1,1.00,3,,fruit\nPear,p1,2.00,4,,\n"
	if err := os.WriteFile(good, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture failed: %v", err)
	}
	run(t, m, ImportItems{Path: good})
	if got := len(m.FilteredItemList()); got != 2 {
		t.Fatalf("expected 2 items after import, got %d", got)
	}
	if _, ok := m.ItemBySku("keep"); ok {
		t.Fatalf("expected import to replace the catalogue")
	}
}

func TestExportDoesNotCommit(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 30)})
	run(t, m, AddSale{Sku: "a1", Quantity: domain.NewQuantity(2), Date: domain.Today()})
	length := m.HistoryLength()

	dir := t.TempDir()
	run(t, m, ExportItems{Path: filepath.Join(dir, "items.csv")})
	run(t, m, ExportSales{Path: filepath.Join(dir, "sales.xlsx")})
	if m.HistoryLength() != length {
		t.Fatalf("export must not commit")
	}

	csvPath := filepath.Join(dir, "sales.csv")
	run(t, m, ExportSales{Path: csvPath})
	run(t, m, DeleteSale{ID: "1"})
	run(t, m, ImportSales{Path: csvPath})
	sales := m.FilteredSaleList()
	if len(sales) != 1 || !sales[0].Quantity.Equal(domain.NewQuantity(2)) {
		t.Fatalf("expected the exported sale to be imported back, got %v", sales)
	}
}

func TestObserversSeeCommittedChanges(t *testing.T) {
	m := newTestModel(t)
	var got []model.ChangeNotification
	m.Subscribe(func(n model.ChangeNotification) { got = append(got, n) })

	run(t, m, AddItem{Item: mustItem("a1", 30)})
	_, _ = AddItem{Item: mustItem("a1", 30)}.Execute(m)
	run(t, m, Undo{})

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].Reason != model.ReasonCommit || len(got[0].Kinds) != 1 || got[0].Kinds[0] != inventory.KindItems {
		t.Fatalf("unexpected first notification %+v", got[0])
	}
	if len(got[0].Snapshot.Items) != 1 {
		t.Fatalf("expected snapshot to carry the new item")
	}
	if got[1].Reason != model.ReasonUndo || len(got[1].Snapshot.Items) != 0 {
		t.Fatalf("unexpected undo notification %+v", got[1])
	}
}

func TestExecutorSerialisesSubmissions(t *testing.T) {
	m := newTestModel(t)
	run(t, m, AddItem{Item: mustItem("a1", 50)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exec := NewExecutor(m)
	go exec.Run(ctx)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := exec.Submit(ctx, AddSale{Sku: "a1", Quantity: domain.NewQuantity(2), Date: domain.Today()})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	res, err := exec.Submit(ctx, ListSales{})
	if err != nil || res.View != ViewSales {
		t.Fatalf("list sales failed: %v", err)
	}
	if got := quantityOf(t, m, "a1"); got != "10" {
		t.Fatalf("expected quantity 10, got %s", got)
	}
	if got := len(m.FilteredSaleList()); got != 20 {
		t.Fatalf("expected 20 sales, got %d", got)
	}
	if next := m.NextSaleID(); next != "21" {
		t.Fatalf("expected next id 21, got %s", next)
	}
}

func TestExecutorStopsWithContext(t *testing.T) {
	m := newTestModel(t)
	ctx, cancel := context.WithCancel(context.Background())
	exec := NewExecutor(m)
	done := make(chan struct{})
	go func() {
		exec.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if _, err := exec.Submit(context.Background(), ListItems{}); !errors.Is(err, ErrExecutorStopped) {
		t.Fatalf("expected ErrExecutorStopped, got %v", err)
	}
}
