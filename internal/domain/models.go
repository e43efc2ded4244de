package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Item struct {
	Name     Name     `json:"name"`
	Sku      Sku      `json:"sku"`
	Price    Price    `json:"price"`
	Quantity Quantity `json:"quantity"`
	Image    Image    `json:"image"`
	Tags     []Tag    `json:"tags"`
}

func (i Item) SameIdentity(other Item) bool {
	return i.Sku == other.Sku
}

func (i Item) Equal(other Item) bool {
	return i.Name == other.Name &&
		i.Sku == other.Sku &&
		i.Price.Equal(other.Price) &&
		i.Quantity.Equal(other.Quantity) &&
		i.Image == other.Image &&
		slices.Equal(i.Tags, other.Tags)
}

func (i Item) Clone() Item {
	dup := i
	dup.Tags = slices.Clone(i.Tags)
	return dup
}

func (i Item) WithQuantity(q Quantity) Item {
	dup := i.Clone()
	dup.Quantity = q
	return dup
}

func (i Item) String() string {
	var tags strings.Builder
	for _, tag := range i.Tags {
		fmt.Fprintf(&tags, "[%s]", tag)
	}
	return fmt.Sprintf("%s; SKU: %s; Price: %s; Quantity: %s; Image: %s; Tags: %s",
		i.Name, i.Sku, i.Price, i.Quantity, i.Image, tags.String())
}

// PurchaseOrder requests more stock of an item. ID distinguishes orders that are otherwise equal.
type PurchaseOrder struct {
	ID           string   `json:"id"`
	Sku          Sku      `json:"sku"`
	Quantity     Quantity `json:"quantity"`
	RequiredDate Date     `json:"required_date"`
	Supplier     Supplier `json:"supplier"`
	Status       Status   `json:"status"`
}

func (p PurchaseOrder) IsPending() bool {
	return p.Status == StatusPending
}

func (p PurchaseOrder) WithStatus(status Status) PurchaseOrder {
	dup := p
	dup.Status = status
	return dup
}

func (p PurchaseOrder) Equal(other PurchaseOrder) bool {
	return p.ID == other.ID &&
		p.Sku == other.Sku &&
		p.Quantity.Equal(other.Quantity) &&
		p.RequiredDate.Equal(other.RequiredDate) &&
		p.Supplier == other.Supplier &&
		p.Status == other.Status
}

func (p PurchaseOrder) String() string {
	return fmt.Sprintf("SKU: %s; Quantity: %s; Required by: %s; Supplier: %s; Status: %s",
		p.Sku, p.Quantity, p.RequiredDate, p.Supplier, p.Status)
}

// Sale records a sold quantity together with the item as it was at the time of sale.
type Sale struct {
	ID       SaleID   `json:"id"`
	Item     Item     `json:"item"`
	Quantity Quantity `json:"quantity"`
	Date     Date     `json:"date"`
}

func (s Sale) SameIdentity(other Sale) bool {
	return s.ID.Equal(other.ID)
}

func (s Sale) Equal(other Sale) bool {
	return s.ID == other.ID &&
		s.Item.Equal(other.Item) &&
		s.Quantity.Equal(other.Quantity) &&
		s.Date.Equal(other.Date)
}

func (s Sale) Clone() Sale {
	dup := s
	dup.Item = s.Item.Clone()
	return dup
}

func (s Sale) String() string {
	return fmt.Sprintf("#%s; %s (SKU: %s); Quantity: %s; Date: %s",
		s.ID, s.Item.Name, s.Item.Sku, s.Quantity, s.Date)
}

type Staff struct {
	Username Username  `json:"username"`
	Password string    `json:"password_hash"`
	Name     StaffName `json:"name"`
	Role     Role      `json:"role"`
}

func (s Staff) SameIdentity(other Staff) bool {
	return s.Username == other.Username
}

func (s Staff) Equal(other Staff) bool {
	return s == other
}

func (s Staff) String() string {
	return fmt.Sprintf("%s (%s); Role: %s", s.Name, s.Username, s.Role)
}

// Actor is the authenticated staff member behind a session.
type Actor struct {
	Username Username `json:"username"`
	Role     Role     `json:"role"`
}
