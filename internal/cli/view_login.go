package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/route"
	"github.com/okrdesk/okrdesk/internal/session"
)

// authView is the sign-in or sign-up screen. Both submit through the
// session store; a success replaces the whole stack with the company list.
type authView struct {
	state    *SharedState
	scope    viewScope
	form     textForm
	register bool
}

func newLoginView(state *SharedState) *authView {
	return &authView{
		state: state,
		scope: newViewScope(),
		form: newTextForm(state,
			fieldSpec{label: "Email", placeholder: "you@example.com", required: true},
			fieldSpec{label: "Password", required: true, secret: true},
		),
	}
}

func newRegisterView(state *SharedState) *authView {
	return &authView{
		state:    state,
		scope:    newViewScope(),
		register: true,
		form: newTextForm(state,
			fieldSpec{label: "Name", required: true},
			fieldSpec{label: "Email", placeholder: "you@example.com", required: true},
			fieldSpec{label: "Password", required: true, secret: true},
		),
	}
}

func (v *authView) ID() ViewID {
	if v.register {
		return ViewRegister
	}
	return ViewLogin
}

func (v *authView) Title() string {
	if v.register {
		return "Register"
	}
	return "Sign in"
}

func (v *authView) Route() route.Route {
	if v.register {
		return route.ToRegister()
	}
	return route.ToLogin()
}

func (v *authView) CapturesInput() bool { return true }
func (v *authView) Close()              { v.scope.Close() }

func (v *authView) ShortHelp() []key.Binding {
	other := key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register"))
	if v.register {
		other = key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "sign in"))
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		other,
	}
}

func (v *authView) Init() tea.Cmd {
	return v.form.Focus()
}

func (v *authView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionMsg:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		if msg.err != nil {
			v.form.Fail(msg.err)
			var aerr *session.AuthError
			if errors.As(msg.err, &aerr) && aerr.Field != "" {
				v.form.FocusField(aerr.Field)
			}
			return v, nil
		}
		return v, func() tea.Msg { return sessionStartedMsg{} }

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			if !v.register {
				return v, navigateReplace(route.ToRegister())
			}
		case "ctrl+l":
			if v.register {
				return v, navigateReplace(route.ToLogin())
			}
		}
		submit, cmd := v.form.Update(msg)
		if submit {
			v.form.Start()
			return v, v.submit()
		}
		return v, cmd
	}
	return v, nil
}

func (v *authView) submit() tea.Cmd {
	store := v.state.App.Session
	if v.register {
		name, email, password := v.form.Value(0), v.form.Value(1), v.form.Raw(2)
		return actionCmd(v.scope, "register", "", func(ctx context.Context) error {
			_, err := store.Register(ctx, name, email, password)
			return err
		})
	}
	email, password := v.form.Value(0), v.form.Raw(1)
	return actionCmd(v.scope, "login", "", func(ctx context.Context) error {
		_, err := store.Login(ctx, email, password)
		return err
	})
}

func (v *authView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Header(v.Title()) + "\n\n")
	b.WriteString(v.form.View())
	b.WriteString("\n")
	if v.register {
		b.WriteString("  " + formatter.Dim("Already have an account? ctrl+l to sign in.") + "\n")
	} else {
		b.WriteString("  " + formatter.Dim("No account yet? ctrl+r to register.") + "\n")
	}
	return b.String()
}
