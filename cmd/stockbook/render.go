package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"stockbook/internal/command"
	"stockbook/internal/domain"
	"stockbook/internal/model"
)

// renderView draws a filtered list. It runs through the executor like any other
// command so it never reads the model while a mutation is in flight.
type renderView struct {
	view     command.View
	selected *domain.Item
}

func (r renderView) Execute(m model.Model) (command.Result, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	switch r.view {
	case command.ViewItems:
		writeItems(w, m.FilteredItemList())
	case command.ViewPurchaseOrders:
		writePurchaseOrders(w, m.FilteredPurchaseOrderList())
	case command.ViewSales:
		writeSales(w, m.FilteredSaleList())
	case command.ViewStaff:
		writeStaff(w, m.FilteredStaffList())
	}
	if err := w.Flush(); err != nil {
		return command.Result{}, err
	}

	if r.selected != nil {
		buf.WriteByte('\n')
		writeSelected(&buf, *r.selected)
	}
	return command.Result{Feedback: strings.TrimRight(buf.String(), "\n")}, nil
}

func writeItems(w *tabwriter.Writer, items []domain.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "(no items)")
		return
	}
	fmt.Fprintln(w, "#\tNAME\tSKU\tPRICE\tQTY\tTAGS")
	for i, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, item.Name, item.Sku, item.Price, item.Quantity, joinTags(item.Tags))
	}
}

func writePurchaseOrders(w *tabwriter.Writer, orders []domain.PurchaseOrder) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "(no purchase orders)")
		return
	}
	fmt.Fprintln(w, "#\tSKU\tQTY\tREQUIRED\tSUPPLIER\tSTATUS")
	for i, po := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, po.Sku, po.Quantity, po.RequiredDate, po.Supplier, po.Status)
	}
}

func writeSales(w *tabwriter.Writer, sales []domain.Sale) {
	if len(sales) == 0 {
		fmt.Fprintln(w, "(no sales)")
		return
	}
	fmt.Fprintln(w, "ID\tDATE\tSKU\tNAME\tQTY\tUNIT PRICE")
	for _, s := range sales {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Date, s.Item.Sku, s.Item.Name, s.Quantity, s.Item.Price)
	}
}

func writeStaff(w *tabwriter.Writer, staff []domain.Staff) {
	if len(staff) == 0 {
		fmt.Fprintln(w, "(no staff)")
		return
	}
	fmt.Fprintln(w, "#\tUSERNAME\tNAME\tROLE")
	for i, s := range staff {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, s.Username, s.Name, s.Role)
	}
}

func writeSelected(buf *bytes.Buffer, item domain.Item) {
	fmt.Fprintf(buf, "Name:     %s\n", item.Name)
	fmt.Fprintf(buf, "SKU:      %s\n", item.Sku)
	fmt.Fprintf(buf, "Price:    %s\n", item.Price)
	fmt.Fprintf(buf, "Quantity: %s\n", item.Quantity)
	if item.Image != "" {
		fmt.Fprintf(buf, "Image:    %s\n", item.Image)
	}
	if len(item.Tags) > 0 {
		fmt.Fprintf(buf, "Tags:     %s\n", joinTags(item.Tags))
	}
}

func joinTags(tags []domain.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
