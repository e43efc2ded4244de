package sample

import (
	"testing"

	"stockbook/internal/auth"
	"stockbook/internal/inventory"
)

func TestSnapshotIsValidInventory(t *testing.T) {
	snap := Snapshot()
	inv, err := inventory.FromSnapshot(snap)
	if err != nil {
		t.Fatalf("sample catalogue rejected: %v", err)
	}
	if len(inv.Items()) != len(catalogue) {
		t.Fatalf("expected %d items, got %d", len(catalogue), len(inv.Items()))
	}
	for _, po := range inv.PurchaseOrders() {
		if _, ok := inv.ItemBySku(po.Sku); !ok {
			t.Fatalf("purchase order %s points at unknown sku %s", po.ID, po.Sku)
		}
	}
}

func TestDefaultStaffHashesPassword(t *testing.T) {
	staff, err := DefaultStaff("s3cret-pass", nil)
	if err != nil {
		t.Fatalf("default staff failed: %v", err)
	}
	if len(staff) != 1 || staff[0].Username != "admin" {
		t.Fatalf("unexpected staff %v", staff)
	}
	if !auth.IsPasswordHash(staff[0].Password) || !auth.VerifyPassword(staff[0].Password, "s3cret-pass") {
		t.Fatalf("expected stored password to be a matching hash")
	}
}

func TestDefaultStaffFallsBackToDevPassword(t *testing.T) {
	staff, err := DefaultStaff("", nil)
	if err != nil {
		t.Fatalf("default staff failed: %v", err)
	}
	if !auth.VerifyPassword(staff[0].Password, DevAdminPassword) {
		t.Fatalf("expected dev password to verify")
	}
}
