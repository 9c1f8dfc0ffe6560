package cli

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/guard"
	"github.com/okrdesk/okrdesk/internal/progress"
	"github.com/okrdesk/okrdesk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShellArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`company list`, []string{"company", "list"}},
		{`  team   create  Platform `, []string{"team", "create", "Platform"}},
		{`company create "Umbrella Corp"`, []string{"company", "create", "Umbrella Corp"}},
		{`checkin create 7 -m 'it''s fine'`, []string{"checkin", "create", "7", "-m", "its fine"}},
		{`okr team create t --objective Ship\ it`, []string{"okr", "team", "create", "t", "--objective", "Ship it"}},
		{`role add ""`, []string{"role", "add", ""}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := splitShellArgs(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplitShellArgs_Unterminated(t *testing.T) {
	_, err := splitShellArgs(`company create "Acme`)
	assert.ErrorContains(t, err, "unterminated quoted string")

	_, err = splitShellArgs(`company create Acme\`)
	assert.ErrorContains(t, err, "unterminated escape")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", fmt.Errorf("submit: %w", &progress.ValidationError{Field: "comment", Message: "a comment is required"}), "a comment is required"},
		{"auth", &session.AuthError{Field: "email", Message: "enter a valid email address"}, "enter a valid email address"},
		{"creator", errors.Join(guard.ErrNotCreator, errors.New("boom")), "not the company creator"},
		{"timeout", fmt.Errorf("%w: %w: deadline", api.ErrNetwork, api.ErrTimeout), "the server took too long to answer"},
		{"network", fmt.Errorf("%w: refused", api.ErrNetwork), "cannot reach the server: check your connection"},
		{"api", &api.Error{Method: "POST", Path: "/check-ins", Status: 403, Message: "OKR is frozen"}, "OKR is frozen"},
		{"plain", errors.New("something else"), "something else"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, userMessage(tc.err))
		})
	}
}

func TestTextForm_RequiredAndSubmit(t *testing.T) {
	state := newSharedState(&App{})
	state.staticCursor = true
	f := newTextForm(state,
		fieldSpec{label: "Name", required: true},
		fieldSpec{label: "Description"},
	)
	f.Focus()

	// Enter on a non-final field advances.
	submit, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submit)
	assert.Equal(t, 1, f.focus)

	submit, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submit)
	assert.Equal(t, "Name is required", f.err)
	assert.Equal(t, 0, f.focus, "focus returns to the blank field")

	for _, r := range "Platform" {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	submit, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, submit)
	assert.Equal(t, "Platform", f.Value(0))

	f.Start()
	assert.False(t, f.CanSubmit())
	submit, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submit, "no second submission while one is in flight")

	f.Fail(errors.New("name taken"))
	assert.True(t, f.CanSubmit())
	assert.Contains(t, f.View(), "name taken")
	assert.Equal(t, "Platform", f.Value(0), "values survive a failure")

	f.Reset()
	assert.Empty(t, f.Value(0))
	assert.Equal(t, 0, f.focus)
}

func TestTextForm_ShiftTabWraps(t *testing.T) {
	state := newSharedState(&App{})
	f := newTextForm(state, fieldSpec{label: "A"}, fieldSpec{label: "B"}, fieldSpec{label: "C"})
	f.Focus()
	f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 2, f.focus)
	f.FocusField("b")
	assert.Equal(t, 1, f.focus)
}

func TestRowGuard(t *testing.T) {
	g := newRowGuard()

	require.True(t, g.Ask("team:1"))
	assert.Equal(t, "team:1", g.Confirming())
	g.Cancel()
	assert.Empty(t, g.Confirming())
	assert.False(t, g.Busy("team:1"))

	require.True(t, g.Ask("team:1"))
	assert.Equal(t, "team:1", g.Confirm())
	assert.True(t, g.Busy("team:1"))
	assert.False(t, g.Ask("team:1"), "a busy row cannot be asked again")
	assert.False(t, g.Start("team:1"))
	assert.True(t, g.Start("team:2"), "other rows stay enabled")

	g.Settle("team:1")
	assert.False(t, g.Busy("team:1"))
	assert.Empty(t, g.Confirm(), "confirm without a question is a no-op")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcde", padRight("abcde", 5))
	assert.Equal(t, "abcd…", padRight("abcdefgh", 5))
	assert.Equal(t, "héll…", padRight("héllo wörld", 5))
}
