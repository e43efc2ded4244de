package parser

import (
	"fmt"
	"sort"
	"strings"

	"stockbook/internal/command"
	"stockbook/internal/domain"
)

// Error is a malformed command line. It matches domain.ErrInvalidValue.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == domain.ErrInvalidValue
}

const (
	MessageUnknownCommand = "Unknown command"
	MessageInvalidFormat  = "Invalid command format!\n%s"
	MessageNotEdited      = "At least one field to edit must be provided."
)

var usages = map[string]string{
	"add-item":        "add-item n/NAME s/SKU p/PRICE q/QUANTITY i/IMAGE [t/TAG]...",
	"edit-item":       "edit-item INDEX [n/NAME] [s/SKU] [p/PRICE] [q/QUANTITY] [i/IMAGE] [t/TAG]...",
	"delete-item":     "delete-item INDEX",
	"select-item":     "select-item INDEX",
	"list-item":       "list-item",
	"find-item":       "find-item KEYWORD [MORE_KEYWORDS]...",
	"filter-item":     "filter-item [min/QUANTITY] [max/QUANTITY] [minp/PRICE] [maxp/PRICE] [t/TAG]",
	"add-po":          "add-po s/SKU q/QUANTITY d/REQUIRED_DATE r/SUPPLIER",
	"edit-po":         "edit-po INDEX [q/QUANTITY] [d/REQUIRED_DATE] [r/SUPPLIER]",
	"approve-po":      "approve-po INDEX",
	"reject-po":       "reject-po INDEX",
	"delete-po":       "delete-po INDEX",
	"list-po":         "list-po [st/STATUS]",
	"add-sale":        "add-sale s/SKU q/QUANTITY [d/DATE]",
	"delete-sale":     "delete-sale SALE_ID",
	"list-sale":       "list-sale",
	"add-staff":       "add-staff u/USERNAME w/PASSWORD n/NAME o/ROLE",
	"edit-staff":      "edit-staff INDEX [u/USERNAME] [w/PASSWORD] [n/NAME] [o/ROLE]",
	"delete-staff":    "delete-staff INDEX",
	"list-staff":      "list-staff",
	"change-password": "change-password w/CURRENT_PASSWORD nw/NEW_PASSWORD",
	"login":           "login u/USERNAME w/PASSWORD",
	"logout":          "logout",
	"undo":            "undo",
	"redo":            "redo",
	"clear":           "clear",
	"import-items":    "import-items f/FILE.csv",
	"import-sales":    "import-sales f/FILE.csv",
	"export-items":    "export-items f/FILE.(csv|xlsx)",
	"export-sales":    "export-sales f/FILE.(csv|xlsx)",
	"help":            "help",
	"exit":            "exit",
}

// Usage lists the syntax of every command word.
func Usage() string {
	words := make([]string, 0, len(usages))
	for w := range usages {
		words = append(words, w)
	}
	sort.Strings(words)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(usages[w])
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func invalidFormat(word string) error {
	return &Error{Message: fmt.Sprintf(MessageInvalidFormat, usages[word])}
}

// Parse turns one input line into a command.
func Parse(line string) (command.Command, error) {
	word, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	word = strings.ToLower(word)

	switch word {
	case "add-item":
		return parseAddItem(args)
	case "edit-item":
		return parseEditItem(args)
	case "delete-item", "select-item", "approve-po", "reject-po", "delete-po", "delete-staff":
		return parseIndexed(word, args)
	case "list-item":
		return command.ListItems{}, nil
	case "find-item":
		keywords := strings.Fields(args)
		if len(keywords) == 0 {
			return nil, invalidFormat(word)
		}
		return command.FindItems{Keywords: keywords}, nil
	case "filter-item":
		return parseFilterItems(args)
	case "add-po":
		return parseAddPurchaseOrder(args)
	case "edit-po":
		return parseEditPurchaseOrder(args)
	case "list-po":
		return parseListPurchaseOrders(args)
	case "add-sale":
		return parseAddSale(args)
	case "delete-sale":
		if strings.TrimSpace(args) == "" {
			return nil, invalidFormat(word)
		}
		id, err := domain.ParseSaleID(args)
		if err != nil {
			return nil, err
		}
		return command.DeleteSale{ID: id}, nil
	case "list-sale":
		return command.ListSales{}, nil
	case "add-staff":
		return parseAddStaff(args)
	case "edit-staff":
		return parseEditStaff(args)
	case "list-staff":
		return command.ListStaff{}, nil
	case "change-password":
		return parseChangePassword(args)
	case "login":
		return parseLogin(args)
	case "logout":
		return command.Logout{}, nil
	case "undo":
		return command.Undo{}, nil
	case "redo":
		return command.Redo{}, nil
	case "clear":
		return command.Clear{}, nil
	case "import-items", "import-sales", "export-items", "export-sales":
		return parseTransfer(word, args)
	case "help":
		return command.Help{Usage: Usage()}, nil
	case "exit":
		return command.Exit{}, nil
	default:
		return nil, &Error{Message: MessageUnknownCommand}
	}
}

// parseIndexed handles the commands whose only argument is a list index.
func parseIndexed(word, args string) (command.Command, error) {
	if strings.TrimSpace(args) == "" {
		return nil, invalidFormat(word)
	}
	idx, err := domain.ParseIndex(args)
	if err != nil {
		return nil, err
	}
	switch word {
	case "delete-item":
		return command.DeleteItem{Index: idx}, nil
	case "select-item":
		return command.SelectItem{Index: idx}, nil
	case "approve-po":
		return command.ApprovePurchaseOrder{Index: idx}, nil
	case "reject-po":
		return command.RejectPurchaseOrder{Index: idx}, nil
	case "delete-po":
		return command.DeletePurchaseOrder{Index: idx}, nil
	default:
		return command.DeleteStaff{Index: idx}, nil
	}
}

func parseAddItem(args string) (command.Command, error) {
	a := tokenize(args, prefixName, prefixSku, prefixPrice, prefixQuantity, prefixImage, prefixTag)
	if a.preamble != "" || !a.hasAll(prefixName, prefixSku, prefixPrice, prefixQuantity, prefixImage) {
		return nil, invalidFormat("add-item")
	}
	name, err := domain.ParseName(a.get(prefixName))
	if err != nil {
		return nil, err
	}
	sku, err := domain.ParseSku(a.get(prefixSku))
	if err != nil {
		return nil, err
	}
	price, err := domain.ParsePrice(a.get(prefixPrice))
	if err != nil {
		return nil, err
	}
	quantity, err := domain.ParseQuantity(a.get(prefixQuantity))
	if err != nil {
		return nil, err
	}
	image, err := domain.ParseImage(a.get(prefixImage))
	if err != nil {
		return nil, err
	}
	tags, err := domain.ParseTags(a.all(prefixTag))
	if err != nil {
		return nil, err
	}
	return command.AddItem{Item: domain.Item{
		Name:     name,
		Sku:      sku,
		Price:    price,
		Quantity: quantity,
		Image:    image,
		Tags:     tags,
	}}, nil
}

func parseEditItem(args string) (command.Command, error) {
	a := tokenize(args, prefixName, prefixSku, prefixPrice, prefixQuantity, prefixImage, prefixTag)
	if a.preamble == "" {
		return nil, invalidFormat("edit-item")
	}
	idx, err := domain.ParseIndex(a.preamble)
	if err != nil {
		return nil, err
	}

	var d command.EditItemDescriptor
	if v, ok := a.value(prefixName); ok {
		name, err := domain.ParseName(v)
		if err != nil {
			return nil, err
		}
		d.Name = &name
	}
	if v, ok := a.value(prefixSku); ok {
		sku, err := domain.ParseSku(v)
		if err != nil {
			return nil, err
		}
		d.Sku = &sku
	}
	if v, ok := a.value(prefixPrice); ok {
		price, err := domain.ParsePrice(v)
		if err != nil {
			return nil, err
		}
		d.Price = &price
	}
	if v, ok := a.value(prefixQuantity); ok {
		quantity, err := domain.ParseQuantity(v)
		if err != nil {
			return nil, err
		}
		d.Quantity = &quantity
	}
	if v, ok := a.value(prefixImage); ok {
		image, err := domain.ParseImage(v)
		if err != nil {
			return nil, err
		}
		d.Image = &image
	}
	if a.has(prefixTag) {
		tags, err := parseTagsForEdit(a.all(prefixTag))
		if err != nil {
			return nil, err
		}
		d.Tags, d.SetTags = tags, true
	}

	if !d.IsAnyFieldEdited() {
		return nil, &Error{Message: MessageNotEdited}
	}
	return command.EditItem{Index: idx, Descriptor: d}, nil
}

// parseTagsForEdit treats a single empty "t/" as clearing all tags.
func parseTagsForEdit(raw []string) ([]domain.Tag, error) {
	if len(raw) == 1 && raw[0] == "" {
		return nil, nil
	}
	return domain.ParseTags(raw)
}

func parseFilterItems(args string) (command.Command, error) {
	a := tokenize(args, prefixMinQuantity, prefixMaxQuantity, prefixMinPrice, prefixMaxPrice, prefixTag)
	if a.preamble != "" || len(a.values) == 0 {
		return nil, invalidFormat("filter-item")
	}

	var c command.FilterItems
	if v, ok := a.value(prefixMinQuantity); ok {
		q, err := domain.ParseQuantity(v)
		if err != nil {
			return nil, err
		}
		c.MinQuantity = &q
	}
	if v, ok := a.value(prefixMaxQuantity); ok {
		q, err := domain.ParseQuantity(v)
		if err != nil {
			return nil, err
		}
		c.MaxQuantity = &q
	}
	if v, ok := a.value(prefixMinPrice); ok {
		p, err := domain.ParsePrice(v)
		if err != nil {
			return nil, err
		}
		c.MinPrice = &p
	}
	if v, ok := a.value(prefixMaxPrice); ok {
		p, err := domain.ParsePrice(v)
		if err != nil {
			return nil, err
		}
		c.MaxPrice = &p
	}
	if v, ok := a.value(prefixTag); ok {
		tag, err := domain.ParseTag(v)
		if err != nil {
			return nil, err
		}
		c.Tag = &tag
	}
	return c, nil
}

func parseAddPurchaseOrder(args string) (command.Command, error) {
	a := tokenize(args, prefixSku, prefixQuantity, prefixDate, prefixSupplier)
	if a.preamble != "" || !a.hasAll(prefixSku, prefixQuantity, prefixDate, prefixSupplier) {
		return nil, invalidFormat("add-po")
	}

	sku, err := domain.ParseSku(a.get(prefixSku))
	if err != nil {
		return nil, err
	}
	quantity, err := domain.ParsePositiveQuantity(a.get(prefixQuantity))
	if err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(a.get(prefixDate))
	if err != nil {
		return nil, err
	}
	supplier, err := domain.ParseSupplier(a.get(prefixSupplier))
	if err != nil {
		return nil, err
	}
	return command.AddPurchaseOrder{Sku: sku, Quantity: quantity, RequiredDate: date, Supplier: supplier}, nil
}

func parseEditPurchaseOrder(args string) (command.Command, error) {
	a := tokenize(args, prefixQuantity, prefixDate, prefixSupplier)
	if a.preamble == "" {
		return nil, invalidFormat("edit-po")
	}
	idx, err := domain.ParseIndex(a.preamble)
	if err != nil {
		return nil, err
	}

	var d command.EditPurchaseOrderDescriptor
	if v, ok := a.value(prefixQuantity); ok {
		q, err := domain.ParsePositiveQuantity(v)
		if err != nil {
			return nil, err
		}
		d.Quantity = &q
	}
	if v, ok := a.value(prefixDate); ok {
		date, err := domain.ParseDate(v)
		if err != nil {
			return nil, err
		}
		d.RequiredDate = &date
	}
	if v, ok := a.value(prefixSupplier); ok {
		supplier, err := domain.ParseSupplier(v)
		if err != nil {
			return nil, err
		}
		d.Supplier = &supplier
	}
	if !d.IsAnyFieldEdited() {
		return nil, &Error{Message: MessageNotEdited}
	}
	return command.EditPurchaseOrder{Index: idx, Descriptor: d}, nil
}

func parseListPurchaseOrders(args string) (command.Command, error) {
	a := tokenize(args, prefixStatus)
	if a.preamble != "" {
		return nil, invalidFormat("list-po")
	}
	v, ok := a.value(prefixStatus)
	if !ok {
		return command.ListPurchaseOrders{}, nil
	}
	status, err := domain.ParseStatus(v)
	if err != nil {
		return nil, err
	}
	return command.ListPurchaseOrders{Status: &status}, nil
}

func parseAddSale(args string) (command.Command, error) {
	a := tokenize(args, prefixSku, prefixQuantity, prefixDate)
	if a.preamble != "" || !a.hasAll(prefixSku, prefixQuantity) {
		return nil, invalidFormat("add-sale")
	}

	sku, err := domain.ParseSku(a.get(prefixSku))
	if err != nil {
		return nil, err
	}
	quantity, err := domain.ParsePositiveQuantity(a.get(prefixQuantity))
	if err != nil {
		return nil, err
	}
	date := domain.Today()
	if v, ok := a.value(prefixDate); ok {
		if date, err = domain.ParseDate(v); err != nil {
			return nil, err
		}
	}
	return command.AddSale{Sku: sku, Quantity: quantity, Date: date}, nil
}

func parseAddStaff(args string) (command.Command, error) {
	a := tokenize(args, prefixUsername, prefixPassword, prefixName, prefixRole)
	if a.preamble != "" || !a.hasAll(prefixUsername, prefixPassword, prefixName, prefixRole) {
		return nil, invalidFormat("add-staff")
	}

	username, err := domain.ParseUsername(a.get(prefixUsername))
	if err != nil {
		return nil, err
	}
	password, err := domain.ParsePassword(a.get(prefixPassword))
	if err != nil {
		return nil, err
	}
	name, err := domain.ParseStaffName(a.get(prefixName))
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(a.get(prefixRole))
	if err != nil {
		return nil, err
	}
	return command.AddStaff{Username: username, Password: password, Name: name, Role: role}, nil
}

func parseEditStaff(args string) (command.Command, error) {
	a := tokenize(args, prefixUsername, prefixPassword, prefixName, prefixRole)
	if a.preamble == "" {
		return nil, invalidFormat("edit-staff")
	}
	idx, err := domain.ParseIndex(a.preamble)
	if err != nil {
		return nil, err
	}

	var d command.EditStaffDescriptor
	if v, ok := a.value(prefixUsername); ok {
		username, err := domain.ParseUsername(v)
		if err != nil {
			return nil, err
		}
		d.Username = &username
	}
	if v, ok := a.value(prefixPassword); ok {
		password, err := domain.ParsePassword(v)
		if err != nil {
			return nil, err
		}
		d.Password = &password
	}
	if v, ok := a.value(prefixName); ok {
		name, err := domain.ParseStaffName(v)
		if err != nil {
			return nil, err
		}
		d.Name = &name
	}
	if v, ok := a.value(prefixRole); ok {
		role, err := domain.ParseRole(v)
		if err != nil {
			return nil, err
		}
		d.Role = &role
	}
	if !d.IsAnyFieldEdited() {
		return nil, &Error{Message: MessageNotEdited}
	}
	return command.EditStaff{Index: idx, Descriptor: d}, nil
}

func parseChangePassword(args string) (command.Command, error) {
	a := tokenize(args, prefixPassword, prefixNewPassword)
	if a.preamble != "" || !a.hasAll(prefixPassword, prefixNewPassword) {
		return nil, invalidFormat("change-password")
	}
	current, _ := a.value(prefixPassword)
	next, _ := a.value(prefixNewPassword)
	if _, err := domain.ParsePassword(next); err != nil {
		return nil, err
	}
	return command.ChangePassword{Current: current, New: next}, nil
}

func parseLogin(args string) (command.Command, error) {
	a := tokenize(args, prefixUsername, prefixPassword)
	if a.preamble != "" || !a.hasAll(prefixUsername, prefixPassword) {
		return nil, invalidFormat("login")
	}
	raw, _ := a.value(prefixUsername)
	username, err := domain.ParseUsername(raw)
	if err != nil {
		return nil, err
	}
	password, _ := a.value(prefixPassword)
	return command.Login{Username: username, Password: password}, nil
}

func parseTransfer(word, args string) (command.Command, error) {
	a := tokenize(args, prefixFile)
	path, ok := a.value(prefixFile)
	if a.preamble != "" || !ok || path == "" {
		return nil, invalidFormat(word)
	}
	switch word {
	case "import-items":
		return command.ImportItems{Path: path}, nil
	case "import-sales":
		return command.ImportSales{Path: path}, nil
	case "export-items":
		return command.ExportItems{Path: path}, nil
	default:
		return command.ExportSales{Path: path}, nil
	}
}
