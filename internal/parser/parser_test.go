package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stockbook/internal/command"
	"stockbook/internal/domain"
)

func TestTokenize(t *testing.T) {
	a := tokenize("3 n/Green Tea s/gt-1 t/drink t/hot", prefixName, prefixSku, prefixTag)
	if a.preamble != "3" {
		t.Fatalf("expected preamble 3, got %q", a.preamble)
	}
	if got := a.get(prefixName); got != "Green Tea" {
		t.Fatalf("expected name with spaces, got %q", got)
	}
	if got := a.all(prefixTag); len(got) != 2 || got[0] != "drink" || got[1] != "hot" {
		t.Fatalf("unexpected tags %v", got)
	}
}

func TestTokenizePrefersLongestPrefix(t *testing.T) {
	a := tokenize("min/5 minp/2.50", prefixMinQuantity, prefixMinPrice)
	if a.get(prefixMinQuantity) != "5" || a.get(prefixMinPrice) != "2.50" {
		t.Fatalf("unexpected values %v", a.values)
	}
}

func TestParseAddItem(t *testing.T) {
	img := filepath.Join(t.TempDir(), "tea.png")
	if err := os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o600); err != nil {
		t.Fatalf("write image failed: %v", err)
	}

	cmd, err := Parse("add-item n/Green Tea s/gt-1 p/3.5 q/12 i/" + img + " t/drink")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	add, ok := cmd.(command.AddItem)
	if !ok {
		t.Fatalf("expected AddItem, got %T", cmd)
	}
	if add.Item.Name != "Green Tea" || add.Item.Sku != "gt-1" || add.Item.Price.String() != "3.50" {
		t.Fatalf("unexpected item %v", add.Item)
	}
}

func TestParseAddItemMissingField(t *testing.T) {
	_, err := Parse("add-item n/Tea s/t1 p/1")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected parser error, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidValue) {
		t.Fatalf("expected parser error to match ErrInvalidValue")
	}
}

func TestParseEditItemNeedsAField(t *testing.T) {
	_, err := Parse("edit-item 1")
	var perr *Error
	if !errors.As(err, &perr) || perr.Message != MessageNotEdited {
		t.Fatalf("expected not-edited error, got %v", err)
	}

	cmd, err := Parse("edit-item 2 q/7 t/")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	edit := cmd.(command.EditItem)
	if edit.Index.OneBased() != 2 || edit.Descriptor.Quantity == nil || !edit.Descriptor.SetTags || len(edit.Descriptor.Tags) != 0 {
		t.Fatalf("unexpected edit %+v", edit)
	}
}

func TestParseIndexedCommands(t *testing.T) {
	cases := map[string]command.Command{
		"delete-item 1":  command.DeleteItem{Index: domain.IndexFromOne(1)},
		"select-item 2":  command.SelectItem{Index: domain.IndexFromOne(2)},
		"approve-po 3":   command.ApprovePurchaseOrder{Index: domain.IndexFromOne(3)},
		"reject-po 1":    command.RejectPurchaseOrder{Index: domain.IndexFromOne(1)},
		"delete-po 4":    command.DeletePurchaseOrder{Index: domain.IndexFromOne(4)},
		"delete-staff 2": command.DeleteStaff{Index: domain.IndexFromOne(2)},
	}
	for line, want := range cases {
		got, err := Parse(line)
		if err != nil {
			t.Fatalf("parse %q failed: %v", line, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %#v, got %#v", line, want, got)
		}
	}

	if _, err := Parse("delete-item 0"); !errors.Is(err, domain.ErrInvalidValue) {
		t.Fatalf("expected invalid index, got %v", err)
	}
	if _, err := Parse("delete-item"); err == nil {
		t.Fatalf("expected missing index to fail")
	}
}

func TestParseAddSaleDefaultsDate(t *testing.T) {
	cmd, err := Parse("add-sale s/a1 q/5")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	sale := cmd.(command.AddSale)
	if !sale.Date.Equal(domain.Today()) || sale.Quantity.String() != "5" {
		t.Fatalf("unexpected sale %+v", sale)
	}

	if _, err := Parse("add-sale s/a1 q/0"); err == nil {
		t.Fatalf("expected zero quantity to be rejected")
	}
}

func TestParseDeleteSaleNormalisesID(t *testing.T) {
	cmd, err := Parse("delete-sale 01")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if del := cmd.(command.DeleteSale); del.ID != "1" {
		t.Fatalf("expected id 1, got %q", del.ID)
	}
}

func TestParsePurchaseOrderCommands(t *testing.T) {
	cmd, err := Parse("add-po s/a1 q/10 d/2024-05-01 r/Acme Foods")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	po := cmd.(command.AddPurchaseOrder)
	if po.Supplier != "Acme Foods" || po.RequiredDate.String() != "2024-05-01" {
		t.Fatalf("unexpected purchase order %+v", po)
	}

	cmd, err = Parse("list-po st/approved")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	list := cmd.(command.ListPurchaseOrders)
	if list.Status == nil || *list.Status != domain.StatusApproved {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestParseSessionCommands(t *testing.T) {
	cmd, err := Parse("login u/admin w/admin123")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if login := cmd.(command.Login); login.Username != "admin" || login.Password != "admin123" {
		t.Fatalf("unexpected login %+v", login)
	}

	cmd, err = Parse("change-password w/old123 nw/new456")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if change := cmd.(command.ChangePassword); change.Current != "old123" || change.New != "new456" {
		t.Fatalf("unexpected change %+v", change)
	}
	if _, err := Parse("change-password w/old123 nw/abc"); err == nil {
		t.Fatalf("expected short new password to be rejected")
	}
}

func TestParseTransfer(t *testing.T) {
	cmd, err := Parse("export-items f/out/items.xlsx")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if exp := cmd.(command.ExportItems); exp.Path != "out/items.xlsx" {
		t.Fatalf("unexpected path %q", exp.Path)
	}
	if _, err := Parse("import-items"); err == nil {
		t.Fatalf("expected missing file to fail")
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("launch-rocket")
	var perr *Error
	if !errors.As(err, &perr) || perr.Message != MessageUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}
