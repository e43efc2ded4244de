package domain

import (
	"encoding/json"
	"errors"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
)

var ErrInvalidValue = errors.New("invalid value")

// ValidationError reports a malformed field value. It matches ErrInvalidValue.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidValue
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

const (
	MessageSkuConstraints       = "SKU should only contain alphanumeric characters, hyphens or underscores, and it should not be blank"
	MessageNameConstraints      = "Names should only contain alphanumeric characters and spaces, and it should not be blank"
	MessagePriceConstraints     = "Price should be a non-negative number with at most 8 digits before and 2 digits after the decimal point"
	MessageQuantityConstraints  = "Quantity should be a non-negative integer"
	MessagePositiveQuantity     = "Quantity should be a positive integer"
	MessageImageConstraints     = "Image should be the path to an existing image file"
	MessageTagConstraints       = "Tags should be alphanumeric"
	MessageSupplierConstraints  = "Supplier should not be blank"
	MessageDateConstraints      = "Date should be in the format YYYY-MM-DD"
	MessageSaleIDConstraints    = "Sale ID should be a positive integer"
	MessageUsernameConstraints  = "Username should be 3 to 32 characters of letters, digits, dots or underscores"
	MessagePasswordConstraints  = "Password should be at least 6 characters long and contain no spaces"
	MessageStaffNameConstraints = "Staff names should only contain alphanumeric characters and spaces, and it should not be blank"
	MessageRoleConstraints      = "Role should be one of admin, manager or user"
	MessageStatusConstraints    = "Status should be one of PENDING, APPROVED or REJECTED"
	MessageIndexConstraints     = "Index should be a positive integer"
)

var (
	skuPattern      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ]*$`)
	pricePattern    = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)
	quantityPattern = regexp.MustCompile(`^\d+$`)
	tagPattern      = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,32}$`)
)

type Sku string

func ParseSku(raw string) (Sku, error) {
	value := strings.TrimSpace(raw)
	if !skuPattern.MatchString(value) {
		return "", invalid("sku", MessageSkuConstraints)
	}
	return Sku(value), nil
}

func (s Sku) String() string { return string(s) }

type Name string

func ParseName(raw string) (Name, error) {
	value := strings.TrimSpace(raw)
	if !namePattern.MatchString(value) {
		return "", invalid("name", MessageNameConstraints)
	}
	return Name(value), nil
}

func (n Name) String() string { return string(n) }

// Price is a non-negative amount with two decimal places.
type Price struct {
	amount decimal.Decimal
}

func ParsePrice(raw string) (Price, error) {
	value := strings.TrimSpace(raw)
	if !pricePattern.MatchString(value) {
		return Price{}, invalid("price", MessagePriceConstraints)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return Price{}, invalid("price", MessagePriceConstraints)
	}
	return Price{amount: amount.Round(2)}, nil
}

func MustPrice(raw string) Price {
	p, err := ParsePrice(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) Decimal() decimal.Decimal { return p.amount }

func (p Price) Cmp(other Price) int { return p.amount.Cmp(other.amount) }

func (p Price) Equal(other Price) bool { return p.amount.Equal(other.amount) }

func (p Price) String() string { return p.amount.StringFixed(2) }

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Quantity is a non-negative integer of arbitrary size.
type Quantity struct {
	value decimal.Decimal
}

func ParseQuantity(raw string) (Quantity, error) {
	value := strings.TrimSpace(raw)
	if !quantityPattern.MatchString(value) {
		return Quantity{}, invalid("quantity", MessageQuantityConstraints)
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return Quantity{}, invalid("quantity", MessageQuantityConstraints)
	}
	return Quantity{value: parsed}, nil
}

// ParsePositiveQuantity is ParseQuantity that also rejects zero.
func ParsePositiveQuantity(raw string) (Quantity, error) {
	q, err := ParseQuantity(raw)
	if err != nil {
		return Quantity{}, err
	}
	if q.IsZero() {
		return Quantity{}, invalid("quantity", MessagePositiveQuantity)
	}
	return q, nil
}

func NewQuantity(n int64) Quantity {
	if n < 0 {
		n = 0
	}
	return Quantity{value: decimal.NewFromInt(n)}
}

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value)}
}

// Sub returns q - other, or false when the result would be negative.
func (q Quantity) Sub(other Quantity) (Quantity, bool) {
	if q.value.LessThan(other.value) {
		return Quantity{}, false
	}
	return Quantity{value: q.value.Sub(other.value)}, true
}

func (q Quantity) Cmp(other Quantity) int { return q.value.Cmp(other.value) }

func (q Quantity) Equal(other Quantity) bool { return q.value.Equal(other.value) }

func (q Quantity) IsZero() bool { return q.value.IsZero() }

func (q Quantity) String() string { return q.value.String() }

func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseQuantity(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Image is a path to an image file on disk.
type Image string

func ParseImage(raw string) (Image, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return "", invalid("image", MessageImageConstraints)
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", invalid("image", MessageImageConstraints)
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil || !strings.HasPrefix(mtype.String(), "image/") {
		return "", invalid("image", MessageImageConstraints)
	}
	return Image(path), nil
}

func (i Image) String() string { return string(i) }

type Tag string

func ParseTag(raw string) (Tag, error) {
	value := strings.TrimSpace(raw)
	if !tagPattern.MatchString(value) {
		return "", invalid("tag", MessageTagConstraints)
	}
	return Tag(value), nil
}

func ParseTags(raw []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(raw))
	for _, r := range raw {
		tag, err := ParseTag(r)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return NewTags(tags...), nil
}

// NewTags returns the tags as a sorted set.
func NewTags(tags ...Tag) []Tag {
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}

type Supplier string

func ParseSupplier(raw string) (Supplier, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", invalid("supplier", MessageSupplierConstraints)
	}
	return Supplier(value), nil
}

func (s Supplier) String() string { return string(s) }

const dateLayout = "2006-01-02"

// Date is a calendar day without a time of day.
type Date struct {
	t time.Time
}

func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, invalid("date", MessageDateConstraints)
	}
	return Date{t: t}, nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func Today() Date { return DateOf(time.Now()) }

func (d Date) Time() time.Time { return d.t }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SaleID is a decimal sale number kept in canonical form, so "01" and "1" are the same id.
type SaleID string

func ParseSaleID(raw string) (SaleID, error) {
	value := strings.TrimSpace(raw)
	if !quantityPattern.MatchString(value) {
		return "", invalid("sale id", MessageSaleIDConstraints)
	}
	n, err := decimal.NewFromString(value)
	if err != nil {
		return "", invalid("sale id", MessageSaleIDConstraints)
	}
	return SaleIDFrom(n), nil
}

// Equal compares ids by number, falling back to a case-insensitive match for non-numeric ids.
func (id SaleID) Equal(other SaleID) bool {
	a, errA := decimal.NewFromString(string(id))
	b, errB := decimal.NewFromString(string(other))
	if errA == nil && errB == nil {
		return a.Equal(b)
	}
	return strings.EqualFold(string(id), string(other))
}

func (id SaleID) String() string { return string(id) }

// Number returns the numeric value of the id; non-numeric ids count as zero.
func (id SaleID) Number() decimal.Decimal {
	n, err := decimal.NewFromString(string(id))
	if err != nil {
		return decimal.Zero
	}
	return n
}

func SaleIDFrom(n decimal.Decimal) SaleID {
	return SaleID(n.Truncate(0).String())
}

type Username string

func ParseUsername(raw string) (Username, error) {
	value := strings.TrimSpace(raw)
	if !usernamePattern.MatchString(value) {
		return "", invalid("username", MessageUsernameConstraints)
	}
	return Username(value), nil
}

func (u Username) String() string { return string(u) }

// ParsePassword validates a plain-text password. Passwords are hashed before storage.
func ParsePassword(raw string) (string, error) {
	if len(raw) < 6 || strings.ContainsAny(raw, " \t\r\n") {
		return "", invalid("password", MessagePasswordConstraints)
	}
	return raw, nil
}

type StaffName string

func ParseStaffName(raw string) (StaffName, error) {
	value := strings.TrimSpace(raw)
	if !namePattern.MatchString(value) {
		return "", invalid("staff name", MessageStaffNameConstraints)
	}
	return StaffName(value), nil
}

func (n StaffName) String() string { return string(n) }

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func ParseRole(raw string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleAdmin, RoleManager, RoleUser:
		return role, nil
	default:
		return "", invalid("role", MessageRoleConstraints)
	}
}

func (r Role) String() string { return string(r) }

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func ParseStatus(raw string) (Status, error) {
	switch status := Status(strings.ToUpper(strings.TrimSpace(raw))); status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, nil
	default:
		return "", invalid("status", MessageStatusConstraints)
	}
}

func (s Status) String() string { return string(s) }

// Index is a position in a displayed list, shown to users starting at 1.
type Index struct {
	zero int
}

func ParseIndex(raw string) (Index, error) {
	value := strings.TrimSpace(raw)
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return Index{}, invalid("index", MessageIndexConstraints)
	}
	return Index{zero: n - 1}, nil
}

func IndexFromOne(n int) Index { return Index{zero: n - 1} }

func IndexFromZero(n int) Index { return Index{zero: n} }

func (i Index) ZeroBased() int { return i.zero }

func (i Index) OneBased() int { return i.zero + 1 }
