package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/foodverse/foodverse/internal/core/auth"
	"github.com/foodverse/foodverse/internal/core/styles"
	"github.com/foodverse/foodverse/internal/core/validate"
)

const loginFormWidth = 44

// credentials backs the login form fields. It lives on the heap so copies of
// the Model keep pointing at the same values.
type credentials struct {
	email    string
	password string
}

func newLoginForm(creds *credentials) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("you@example.com").
				Validate(validate.Email).
				Value(&creds.email),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validate.Password).
				Value(&creds.password),
		).Title("Sign in to FoodVerse"),
	).
		WithTheme(styles.FormTheme()).
		WithShowHelp(false).
		WithWidth(loginFormWidth)
}

type loginDoneMsg struct {
	email string
	name  string
	err   error
}

func loginCmd(svc *auth.Service, email, password string) tea.Cmd {
	return func() tea.Msg {
		err := svc.Login(context.Background(), email, password)

		name := email
		if u, ok := svc.Current(); ok && err == nil && u.Name != "" {
			name = u.Name
		}
		return loginDoneMsg{email: email, name: name, err: err}
	}
}
