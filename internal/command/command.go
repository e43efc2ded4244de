package command

import (
	"fmt"

	"stockbook/internal/domain"
	"stockbook/internal/model"
)

// Command is one user intent. Execute either applies a single mutation and commits,
// or returns an *Error and leaves the model untouched.
type Command interface {
	Execute(m model.Model) (Result, error)
}

// View names the list a result should be displayed with.
type View int

const (
	ViewNone View = iota
	ViewItems
	ViewPurchaseOrders
	ViewSales
	ViewStaff
)

type Result struct {
	Feedback string
	View     View
	Selected *domain.Item
	Exit     bool
}

type ErrorKind int

const (
	KindDuplicate ErrorKind = iota + 1
	KindNotFound
	KindPrecondition
	KindIllegalAuth
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not found"
	case KindPrecondition:
		return "precondition"
	case KindIllegalAuth:
		return "illegal auth"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a user-facing command failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fail(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

const (
	MessageDuplicateItem             = "This item already exists in the inventory"
	MessageDuplicateStaff            = "This staff member already exists"
	MessageInvalidItemIndex          = "The item index provided is invalid"
	MessageInvalidPurchaseOrderIndex = "The purchase order index provided is invalid"
	MessageInvalidStaffIndex         = "The staff index provided is invalid"
	MessageItemNotFound              = "No item with SKU %s exists in the inventory"
	MessageNotPending                = "Please select a pending purchase order"
	MessageInsufficientQuantity      = "Item %s only has %s left in stock"
	MessageSaleNotFound              = "No sale with ID %s exists"
	MessageAlreadyLoggedIn           = "You are already logged in"
	MessageInvalidCredentials        = "Invalid username or password"
	MessageNotLoggedIn               = "Please log in first"
	MessageAdminRequired             = "Only admins can manage staff accounts"
	MessageCannotDeleteSelf          = "You cannot delete your own account"
	MessageAccountRemoved            = "Your account no longer exists, please log in again"
	MessageNothingToUndo             = "No more commands to undo!"
	MessageNothingToRedo             = "No more commands to redo!"
)

type Help struct {
	Usage string
}

func (c Help) Execute(model.Model) (Result, error) {
	return Result{Feedback: c.Usage}, nil
}

type Exit struct{}

func (Exit) Execute(model.Model) (Result, error) {
	return Result{Feedback: "Exiting stockbook as requested ...", Exit: true}, nil
}

func pick[T any](list []T, idx domain.Index) (T, bool) {
	i := idx.ZeroBased()
	if i < 0 || i >= len(list) {
		var zero T
		return zero, false
	}
	return list[i], true
}

// requireLogin returns the signed-in account as currently stored. A session whose
// account no longer exists is ended.
func requireLogin(m model.Model) (domain.Actor, error) {
	actor, ok := m.CurrentUser()
	if !ok {
		return domain.Actor{}, fail(KindIllegalAuth, MessageNotLoggedIn)
	}
	staff, ok := m.StaffByUsername(actor.Username)
	if !ok {
		m.LogoutUser()
		return domain.Actor{}, fail(KindIllegalAuth, MessageAccountRemoved)
	}
	return domain.Actor{Username: staff.Username, Role: staff.Role}, nil
}

func requireAdmin(m model.Model) (domain.Actor, error) {
	actor, err := requireLogin(m)
	if err != nil {
		return domain.Actor{}, err
	}
	if actor.Role != domain.RoleAdmin {
		return domain.Actor{}, fail(KindIllegalAuth, MessageAdminRequired)
	}
	return actor, nil
}
