package command

import (
	"fmt"

	"stockbook/internal/auth"
	"stockbook/internal/domain"
	"stockbook/internal/model"
)

type Login struct {
	Username domain.Username
	Password string
}

func (c Login) Execute(m model.Model) (Result, error) {
	if _, err := requireLogin(m); err == nil {
		return Result{}, fail(KindPrecondition, MessageAlreadyLoggedIn)
	}
	staff, ok := m.StaffByUsername(c.Username)
	if !ok || !auth.VerifyPassword(staff.Password, c.Password) {
		return Result{}, fail(KindIllegalAuth, MessageInvalidCredentials)
	}
	if err := m.AuthenticateUser(staff); err != nil {
		return Result{}, &Error{Kind: KindIllegalAuth, Message: err.Error()}
	}
	return Result{Feedback: fmt.Sprintf("Welcome, %s!", staff.Name)}, nil
}

type Logout struct{}

func (Logout) Execute(m model.Model) (Result, error) {
	if !m.IsUserLoggedIn() {
		return Result{}, fail(KindIllegalAuth, MessageNotLoggedIn)
	}
	m.LogoutUser()
	return Result{Feedback: "Logged out"}, nil
}
