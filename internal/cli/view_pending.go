package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/route"
)

// pendingView holds the place of a creator-only screen while the access
// check runs. The app model swaps it for the target or the redirect.
type pendingView struct {
	state  *SharedState
	target route.Route
	scope  viewScope
}

func newPendingView(state *SharedState, target route.Route) *pendingView {
	return &pendingView{state: state, target: target, scope: newViewScope()}
}

func (v *pendingView) ID() ViewID               { return ViewPending }
func (v *pendingView) Title() string            { return "…" }
func (v *pendingView) Route() route.Route       { return v.target }
func (v *pendingView) ShortHelp() []key.Binding { return nil }
func (v *pendingView) Close()                   { v.scope.Close() }

func (v *pendingView) Init() tea.Cmd {
	g, s, target := v.state.App.Guard, v.scope, v.target
	return safe(func() tea.Msg {
		return guardResultMsg{scope: s.id, route: target, decision: g.Check(s.ctx, target)}
	})
}

func (v *pendingView) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

func (v *pendingView) View() string {
	return "\n  " + formatter.Dim("Checking access...")
}
