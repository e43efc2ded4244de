package command

import (
	"fmt"

	"stockbook/internal/auth"
	"stockbook/internal/domain"
	"stockbook/internal/model"
)

// AddStaff creates an account. Password is plain text and hashed before storage.
type AddStaff struct {
	Username domain.Username
	Password string
	Name     domain.StaffName
	Role     domain.Role
}

func (c AddStaff) Execute(m model.Model) (Result, error) {
	if _, err := requireAdmin(m); err != nil {
		return Result{}, err
	}
	staff := domain.Staff{Username: c.Username, Name: c.Name, Role: c.Role}
	if m.HasStaff(staff) {
		return Result{}, fail(KindDuplicate, MessageDuplicateStaff)
	}
	hashed, err := auth.HashPassword(c.Password)
	if err != nil {
		return Result{}, &Error{Kind: KindPrecondition, Message: err.Error()}
	}
	staff.Password = hashed
	if err := m.AddStaff(staff); err != nil {
		return Result{}, fail(KindDuplicate, MessageDuplicateStaff)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("New staff added: %s", staff), View: ViewStaff}, nil
}

type EditStaffDescriptor struct {
	Username *domain.Username
	Password *string
	Name     *domain.StaffName
	Role     *domain.Role
}

func (d EditStaffDescriptor) IsAnyFieldEdited() bool {
	return d.Username != nil || d.Password != nil || d.Name != nil || d.Role != nil
}

type EditStaff struct {
	Index      domain.Index
	Descriptor EditStaffDescriptor
}

func (c EditStaff) Execute(m model.Model) (Result, error) {
	actor, err := requireAdmin(m)
	if err != nil {
		return Result{}, err
	}
	target, ok := pick(m.FilteredStaffList(), c.Index)
	if !ok {
		return Result{}, fail(KindNotFound, MessageInvalidStaffIndex)
	}

	edited := target
	if c.Descriptor.Username != nil {
		edited.Username = *c.Descriptor.Username
	}
	if c.Descriptor.Name != nil {
		edited.Name = *c.Descriptor.Name
	}
	if c.Descriptor.Role != nil {
		edited.Role = *c.Descriptor.Role
	}
	if !target.SameIdentity(edited) && m.HasStaff(edited) {
		return Result{}, fail(KindDuplicate, MessageDuplicateStaff)
	}
	if c.Descriptor.Password != nil {
		hashed, err := auth.HashPassword(*c.Descriptor.Password)
		if err != nil {
			return Result{}, &Error{Kind: KindPrecondition, Message: err.Error()}
		}
		edited.Password = hashed
	}
	if err := m.UpdateStaff(target, edited); err != nil {
		return Result{}, collectionFailure(err, MessageDuplicateStaff, MessageInvalidStaffIndex)
	}
	m.CommitInventory()
	// Editing your own account moves the session to the new username and role.
	if target.Username == actor.Username {
		if err := m.AuthenticateUser(edited); err != nil {
			m.LogoutUser()
		}
	}
	return Result{Feedback: fmt.Sprintf("Edited staff: %s", edited), View: ViewStaff}, nil
}

type DeleteStaff struct {
	Index domain.Index
}

func (c DeleteStaff) Execute(m model.Model) (Result, error) {
	actor, err := requireAdmin(m)
	if err != nil {
		return Result{}, err
	}
	target, ok := pick(m.FilteredStaffList(), c.Index)
	if !ok {
		return Result{}, fail(KindNotFound, MessageInvalidStaffIndex)
	}
	if target.Username == actor.Username {
		return Result{}, fail(KindPrecondition, MessageCannotDeleteSelf)
	}
	if err := m.DeleteStaff(target); err != nil {
		return Result{}, fail(KindNotFound, MessageInvalidStaffIndex)
	}
	m.CommitInventory()
	return Result{Feedback: fmt.Sprintf("Deleted staff: %s", target), View: ViewStaff}, nil
}

type ListStaff struct{}

func (ListStaff) Execute(m model.Model) (Result, error) {
	if _, err := requireLogin(m); err != nil {
		return Result{}, err
	}
	m.UpdateFilteredStaffList(model.PredicateShowAllStaff)
	return Result{Feedback: "Listed all staff", View: ViewStaff}, nil
}

type ChangePassword struct {
	Current string
	New     string
}

func (c ChangePassword) Execute(m model.Model) (Result, error) {
	actor, err := requireLogin(m)
	if err != nil {
		return Result{}, err
	}
	staff, ok := m.StaffByUsername(actor.Username)
	if !ok || !auth.VerifyPassword(staff.Password, c.Current) {
		return Result{}, fail(KindIllegalAuth, MessageInvalidCredentials)
	}
	hashed, err := auth.HashPassword(c.New)
	if err != nil {
		return Result{}, &Error{Kind: KindPrecondition, Message: err.Error()}
	}
	updated := staff
	updated.Password = hashed
	if err := m.UpdateStaff(staff, updated); err != nil {
		return Result{}, collectionFailure(err, MessageDuplicateStaff, MessageInvalidCredentials)
	}
	m.CommitInventory()
	return Result{Feedback: "Password changed"}, nil
}
