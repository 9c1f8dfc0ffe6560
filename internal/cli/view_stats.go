package cli

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
)

// statsView renders a statistics snapshot for a company or a team. The
// snapshot is computed by the server and shown as returned.
type statsView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	teamID    string
	company   *domain.CompanyStats
	team      *domain.TeamStats
	loading   bool
	err       error
}

func newCompanyStatsView(state *SharedState, companyID string) *statsView {
	return &statsView{state: state, scope: newViewScope(), companyID: companyID, loading: true}
}

func newTeamStatsView(state *SharedState, companyID, teamID string) *statsView {
	return &statsView{state: state, scope: newViewScope(), companyID: companyID, teamID: teamID, loading: true}
}

func (v *statsView) ID() ViewID {
	if v.teamID != "" {
		return ViewTeamStats
	}
	return ViewCompanyStats
}

func (v *statsView) Route() route.Route {
	if v.teamID != "" {
		return route.ToTeamStats(v.companyID, v.teamID)
	}
	return route.ToCompanyStats(v.companyID)
}

func (v *statsView) Title() string { return "Statistics" }
func (v *statsView) Close()        { v.scope.Close() }

func (v *statsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *statsView) Init() tea.Cmd {
	stats := v.state.App.Stats
	if v.teamID != "" {
		id := v.teamID
		return loadCmd(v.scope, func(ctx context.Context) (*domain.TeamStats, error) {
			return stats.Team(ctx, id)
		})
	}
	id := v.companyID
	return loadCmd(v.scope, func(ctx context.Context) (*domain.CompanyStats, error) {
		return stats.Company(ctx, id)
	})
}

func (v *statsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[*domain.CompanyStats]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading, v.err, v.company = false, msg.err, msg.data
	case loadedMsg[*domain.TeamStats]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading, v.err, v.team = false, msg.err, msg.data
	case refreshViewMsg:
		return v, v.Init()
	case tea.KeyMsg:
		if msg.String() == "r" {
			v.loading = true
			return v, v.Init()
		}
	}
	return v, nil
}

func (v *statsView) View() string {
	if v.loading && v.company == nil && v.team == nil {
		return "\n  " + formatter.Dim("Loading statistics...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}
	if v.team != nil {
		return "\n" + formatter.FormatTeamStats(v.team)
	}
	if v.company != nil {
		return "\n" + formatter.FormatCompanyStats(v.company)
	}
	return "\n  " + formatter.Dim("No statistics found.")
}
