package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stockbook/internal/domain"
)

var (
	itemHeader = []string{"name", "sku", "price", "quantity", "image", "tags"}
	saleHeader = []string{"sale_id", "date", "quantity", "sku", "name", "price", "item_quantity", "image", "tags"}
)

const tagSeparator = ";"

// ReadItems loads a catalogue from a CSV file. Any malformed row fails the whole read.
func ReadItems(filename string) ([]domain.Item, error) {
	records, err := readRecords(filename, "items", itemHeader)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(records))
	for i, record := range records {
		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ReadSales loads sale records from a CSV file. Any malformed row fails the whole read.
func ReadSales(filename string) ([]domain.Sale, error) {
	records, err := readRecords(filename, "sales", saleHeader)
	if err != nil {
		return nil, err
	}

	sales := make([]domain.Sale, 0, len(records))
	for i, record := range records {
		sale, err := parseSale(record)
		if err != nil {
			return nil, fmt.Errorf("sales CSV row %d: %w", i+2, err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(expectedHeader)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, records[0])
	}
	return records[1:], nil
}

func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, h := range header {
		if strings.TrimSpace(strings.ToLower(h)) != expected[i] {
			return false
		}
	}
	return true
}

func parseItem(record []string) (domain.Item, error) {
	name, err := domain.ParseName(record[0])
	if err != nil {
		return domain.Item{}, err
	}
	sku, err := domain.ParseSku(record[1])
	if err != nil {
		return domain.Item{}, err
	}
	price, err := domain.ParsePrice(record[2])
	if err != nil {
		return domain.Item{}, err
	}
	quantity, err := domain.ParseQuantity(record[3])
	if err != nil {
		return domain.Item{}, err
	}
	var image domain.Image
	if strings.TrimSpace(record[4]) != "" {
		if image, err = domain.ParseImage(record[4]); err != nil {
			return domain.Item{}, err
		}
	}
	tags, err := parseTags(record[5])
	if err != nil {
		return domain.Item{}, err
	}
	return domain.Item{Name: name, Sku: sku, Price: price, Quantity: quantity, Image: image, Tags: tags}, nil
}

// parseSale reads the item columns as recorded at sale time, so the image path is
// kept as written rather than checked against the disk.
func parseSale(record []string) (domain.Sale, error) {
	id, err := domain.ParseSaleID(record[0])
	if err != nil {
		return domain.Sale{}, err
	}
	date, err := domain.ParseDate(record[1])
	if err != nil {
		return domain.Sale{}, err
	}
	quantity, err := domain.ParsePositiveQuantity(record[2])
	if err != nil {
		return domain.Sale{}, err
	}
	sku, err := domain.ParseSku(record[3])
	if err != nil {
		return domain.Sale{}, err
	}
	name, err := domain.ParseName(record[4])
	if err != nil {
		return domain.Sale{}, err
	}
	price, err := domain.ParsePrice(record[5])
	if err != nil {
		return domain.Sale{}, err
	}
	itemQuantity, err := domain.ParseQuantity(record[6])
	if err != nil {
		return domain.Sale{}, err
	}
	tags, err := parseTags(record[8])
	if err != nil {
		return domain.Sale{}, err
	}
	item := domain.Item{
		Name:     name,
		Sku:      sku,
		Price:    price,
		Quantity: itemQuantity,
		Image:    domain.Image(strings.TrimSpace(record[7])),
		Tags:     tags,
	}
	return domain.Sale{ID: id, Item: item, Quantity: quantity, Date: date}, nil
}

func parseTags(raw string) ([]domain.Tag, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return domain.ParseTags(strings.Split(raw, tagSeparator))
}

func joinTags(tags []domain.Tag) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, tagSeparator)
}

func itemRows(items []domain.Item) [][]string {
	rows := [][]string{itemHeader}
	for _, item := range items {
		rows = append(rows, []string{
			item.Name.String(),
			item.Sku.String(),
			item.Price.String(),
			item.Quantity.String(),
			item.Image.String(),
			joinTags(item.Tags),
		})
	}
	return rows
}

func saleRows(sales []domain.Sale) [][]string {
	rows := [][]string{saleHeader}
	for _, sale := range sales {
		rows = append(rows, []string{
			sale.ID.String(),
			sale.Date.String(),
			sale.Quantity.String(),
			sale.Item.Sku.String(),
			sale.Item.Name.String(),
			sale.Item.Price.String(),
			sale.Item.Quantity.String(),
			sale.Item.Image.String(),
			joinTags(sale.Item.Tags),
		})
	}
	return rows
}

func WriteItems(filename string, items []domain.Item) error {
	return writeCSV(filename, itemRows(items))
}

func WriteSales(filename string, sales []domain.Sale) error {
	return writeCSV(filename, saleRows(sales))
}

func writeCSV(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}

// ExportItems writes CSV, or an XLSX workbook when filename ends in .xlsx.
func ExportItems(filename string, items []domain.Item) error {
	if isWorkbook(filename) {
		return WriteItemsXLSX(filename, items)
	}
	return WriteItems(filename, items)
}

// ExportSales writes CSV, or an XLSX workbook when filename ends in .xlsx.
func ExportSales(filename string, sales []domain.Sale) error {
	if isWorkbook(filename) {
		return WriteSalesXLSX(filename, sales)
	}
	return WriteSales(filename, sales)
}

func isWorkbook(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".xlsx")
}
