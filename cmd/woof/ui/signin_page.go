package ui

import (
	"context"
	"net/mail"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"woofinder/internal/store"
)

const (
	fieldName = iota
	fieldEmail
)

// SignInModel is the unauthenticated entry page: a name/email form that
// starts a session. Validation runs client-side and blocks submission;
// invalid input never reaches the network.
type SignInModel struct {
	deps   *Deps
	styles Styles

	inputs  [2]textinput.Model
	focus   int
	errors  [2]string
	busy    bool
	width   int
	height  int
}

// NewSignInModel creates the sign-in page.
func NewSignInModel(deps *Deps) SignInModel {
	name := textinput.New()
	name.Placeholder = "First Last"
	name.CharLimit = 100
	name.Focus()

	email := textinput.New()
	email.Placeholder = "name@email.com"
	email.CharLimit = 100

	return SignInModel{
		deps:   deps,
		styles: deps.Styles,
		inputs: [2]textinput.Model{name, email},
	}
}

// SetSize records the window size.
func (m *SignInModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles form input and submission.
func (m SignInModel) Update(msg tea.Msg) (SignInModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % 2
			for i := range m.inputs {
				if i == m.focus {
					m.inputs[i].Focus()
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.inputs[fieldName].Value())
			email := strings.TrimSpace(m.inputs[fieldEmail].Value())

			m.errors = validateSignIn(name, email)
			if m.errors[fieldName] != "" || m.errors[fieldEmail] != "" {
				return m, nil
			}

			m.busy = true
			return m, m.signInCmd(name, email)
		}

	case loginDoneMsg:
		m.busy = false
		return m, nil

	case errMsg:
		m.busy = false
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// validateSignIn returns per-field inline errors; empty means valid.
func validateSignIn(name, email string) [2]string {
	var errs [2]string
	if name == "" {
		errs[fieldName] = "Name is required"
	}
	if email == "" {
		errs[fieldEmail] = "Email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs[fieldEmail] = "Invalid email"
	}
	return errs
}

// signInCmd starts the session, fetches an avatar best-effort and stores
// the identity.
func (m SignInModel) signInCmd(name, email string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()
		if err := deps.Catalog.Login(ctx, name, email); err != nil {
			return errMsg{err: err}
		}

		user := &store.User{Name: name, Email: email}
		if svg, err := deps.Avatar.Fetch(ctx, name); err == nil {
			user.Avatar = svg
		}

		deps.Store.SetUser(user)
		return loginDoneMsg{user: user}
	}
}

// View renders the sign-in card.
func (m SignInModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("🐶 Woofinder") + "\n")
	sb.WriteString(m.styles.Muted.Render("Bringing Joy Home, One Pawsome Match at a Time") + "\n\n")

	sb.WriteString(m.styles.Header.Render("Sign In") + "\n")
	sb.WriteString(m.styles.Muted.Render("Enter your name and email below to sign into your account") + "\n\n")

	labels := [2]string{"Name", "Email"}
	for i := range m.inputs {
		sb.WriteString(m.styles.FieldLabel.Render(labels[i]) + "\n")
		sb.WriteString(m.inputs[i].View() + "\n")
		if m.errors[i] != "" {
			sb.WriteString(m.styles.Error.Render(m.errors[i]) + "\n")
		}
	}

	sb.WriteString("\n")
	if m.busy {
		sb.WriteString(m.styles.Muted.Render("Signing in..."))
	} else {
		sb.WriteString(m.styles.Help.Render("enter sign in • tab switch field • ctrl+c quit"))
	}

	return m.styles.Card.Render(sb.String())
}
