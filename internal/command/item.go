package command

import (
	"errors"
	"fmt"
	"strings"

	"stockbook/internal/domain"
	"stockbook/internal/inventory"
	"stockbook/internal/model"
)

type AddItem struct {
	Item domain.Item
}

func (c AddItem) Execute(m model.Model) (Result, error) {
	if m.HasItem(c.Item) {
		return Result{}, fail(KindDuplicate, MessageDuplicateItem)
	}
	if err := m.AddItem(c.Item); err != nil {
		return Result{}, fail(KindDuplicate, MessageDuplicateItem)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("New item added: %s", c.Item), View: ViewItems}, nil
}

// EditItemDescriptor holds the fields to change. Nil fields keep their current value.
type EditItemDescriptor struct {
	Name     *domain.Name
	Sku      *domain.Sku
	Price    *domain.Price
	Quantity *domain.Quantity
	Image    *domain.Image
	Tags     []domain.Tag
	SetTags  bool
}

func (d EditItemDescriptor) IsAnyFieldEdited() bool {
	return d.Name != nil || d.Sku != nil || d.Price != nil || d.Quantity != nil || d.Image != nil || d.SetTags
}

func (d EditItemDescriptor) apply(item domain.Item) domain.Item {
	edited := item.Clone()
	if d.Name != nil {
		edited.Name = *d.Name
	}
	if d.Sku != nil {
		edited.Sku = *d.Sku
	}
	if d.Price != nil {
		edited.Price = *d.Price
	}
	if d.Quantity != nil {
		edited.Quantity = *d.Quantity
	}
	if d.Image != nil {
		edited.Image = *d.Image
	}
	if d.SetTags {
		edited.Tags = domain.NewTags(d.Tags...)
	}
	return edited
}

type EditItem struct {
	Index      domain.Index
	Descriptor EditItemDescriptor
}

func (c EditItem) Execute(m model.Model) (Result, error) {
	target, ok := pick(m.FilteredItemList(), c.Index)
	if !ok {
		return Result{}, fail(KindNotFound, MessageInvalidItemIndex)
	}
	edited := c.Descriptor.apply(target)
	if !target.SameIdentity(edited) && m.HasItem(edited) {
		return Result{}, fail(KindDuplicate, MessageDuplicateItem)
	}
	if err := m.UpdateItem(target, edited); err != nil {
		return Result{}, collectionFailure(err, MessageDuplicateItem, MessageInvalidItemIndex)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("Edited item: %s", edited), View: ViewItems}, nil
}

type DeleteItem struct {
	Index domain.Index
}

func (c DeleteItem) Execute(m model.Model) (Result, error) {
	target, ok := pick(m.FilteredItemList(), c.Index)
	if !ok {
		return Result{}, fail(KindNotFound, MessageInvalidItemIndex)
	}
	if err := m.DeleteItem(target); err != nil {
		return Result{}, fail(KindNotFound, MessageInvalidItemIndex)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("Deleted item: %s", target), View: ViewItems}, nil
}

type SelectItem struct {
	Index domain.Index
}

func (c SelectItem) Execute(m model.Model) (Result, error) {
	target, ok := pick(m.FilteredItemList(), c.Index)
	if !ok {
		return Result{}, fail(KindNotFound, MessageInvalidItemIndex)
	}
	return Result{
		Feedback: fmt.Sprintf("Selected item %d: %s", c.Index.OneBased(), target.Name),
		View:     ViewItems,
		Selected: &target,
	}, nil
}

type ListItems struct{}

func (ListItems) Execute(m model.Model) (Result, error) {
	m.UpdateFilteredItemList(model.PredicateShowAllItems)
	return Result{Feedback: "Listed all items", View: ViewItems}, nil
}

// FindItems shows items whose name contains any of the keywords as a whole word.
type FindItems struct {
	Keywords []string
}

func (c FindItems) Execute(m model.Model) (Result, error) {
	keywords := make([]string, 0, len(c.Keywords))
	for _, k := range c.Keywords {
		keywords = append(keywords, strings.ToLower(k))
	}
	m.UpdateFilteredItemList(func(item domain.Item) bool {
		for _, word := range strings.Fields(strings.ToLower(item.Name.String())) {
			for _, k := range keywords {
				if word == k {
					return true
				}
			}
		}
		return false
	})
	return Result{Feedback: fmt.Sprintf("%d items listed!", len(m.FilteredItemList())), View: ViewItems}, nil
}

// FilterItems shows items within the given bounds. Nil bounds are open.
type FilterItems struct {
	MinQuantity *domain.Quantity
	MaxQuantity *domain.Quantity
	MinPrice    *domain.Price
	MaxPrice    *domain.Price
	Tag         *domain.Tag
}

func (c FilterItems) Execute(m model.Model) (Result, error) {
	m.UpdateFilteredItemList(func(item domain.Item) bool {
		if c.MinQuantity != nil && item.Quantity.Cmp(*c.MinQuantity) < 0 {
			return false
		}
		if c.MaxQuantity != nil && item.Quantity.Cmp(*c.MaxQuantity) > 0 {
			return false
		}
		if c.MinPrice != nil && item.Price.Cmp(*c.MinPrice) < 0 {
			return false
		}
		if c.MaxPrice != nil && item.Price.Cmp(*c.MaxPrice) > 0 {
			return false
		}
		if c.Tag != nil {
			for _, tag := range item.Tags {
				if tag == *c.Tag {
					return true
				}
			}
			return false
		}
		return true
	})
	return Result{Feedback: fmt.Sprintf("%d items listed!", len(m.FilteredItemList())), View: ViewItems}, nil
}

// collectionFailure maps a collection error that slipped past a command's own checks.
func collectionFailure(err error, duplicate, notFound string) error {
	switch {
	case errors.Is(err, inventory.ErrDuplicate):
		return &Error{Kind: KindDuplicate, Message: duplicate}
	case errors.Is(err, inventory.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: notFound}
	default:
		return &Error{Kind: KindPrecondition, Message: err.Error()}
	}
}
