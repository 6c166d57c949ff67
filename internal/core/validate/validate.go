// Package validate provides the account field checks shared by the login
// form, the register command and their criterio reports.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/foodverse/foodverse/internal/core/auth"
)

// MinPasswordLen is the shortest password the API accepts at sign up.
const MinPasswordLen = 6

// Email rejects blank input and strings without an "@".
func Email(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(s, "@") {
		return errors.New("enter a valid email")
	}
	return nil
}

// Password rejects empty passwords. Length is only enforced at sign up so
// older accounts can still log in.
func Password(s string) error {
	if s == "" {
		return errors.New("password is required")
	}
	return nil
}

// NewPassword enforces the sign up length rule.
func NewPassword(s string) error {
	if len(s) < MinPasswordLen {
		return fmt.Errorf("must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// Required returns a validator rejecting blank input for the named field.
func Required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// SignupRole rejects roles that cannot be chosen at sign up.
func SignupRole(r auth.Role) error {
	if r != auth.RoleConsumer && r != auth.RoleBusiness {
		return fmt.Errorf("must be %s or %s, got %q", auth.RoleConsumer, auth.RoleBusiness, r)
	}
	return nil
}

// Registration checks every field of r and reports all failures together.
func Registration(r auth.Registration) error {
	return criterio.ValidateStruct(
		criterio.Run("name", r.Name, Required("name")),
		criterio.Run("email", r.Email, Email),
		criterio.Run("password", r.Password, NewPassword),
		criterio.Run("role", r.Role, SignupRole),
	)
}
