package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
	"golang.org/x/sync/errgroup"
)

type teamRolesData struct {
	team  *domain.Team
	roles []domain.Role
}

// teamRolesView adds and removes the roles a team requires.
type teamRolesView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	teamID    string
	data      teamRolesData
	loading   bool
	err       error

	list   roleChecklist
	rows   rowGuard
	status statusLine
}

func newTeamRolesView(state *SharedState, companyID, teamID string) *teamRolesView {
	return &teamRolesView{
		state:     state,
		scope:     newViewScope(),
		companyID: companyID,
		teamID:    teamID,
		loading:   true,
		rows:      newRowGuard(),
	}
}

func (v *teamRolesView) ID() ViewID         { return ViewTeamRoles }
func (v *teamRolesView) Route() route.Route { return route.ToTeamRoles(v.companyID, v.teamID) }
func (v *teamRolesView) Close()             { v.scope.Close() }

func (v *teamRolesView) Title() string {
	return v.state.TeamName(v.teamID, "Team") + " roles"
}

func (v *teamRolesView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "select")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "require selected")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "drop selected")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *teamRolesView) Init() tea.Cmd {
	app := v.state.App
	cid, tid := v.companyID, v.teamID
	return loadCmd(v.scope, func(ctx context.Context) (teamRolesData, error) {
		var data teamRolesData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			t, err := app.Teams.Get(gctx, tid)
			data.team = t
			return err
		})
		g.Go(func() error {
			roles, err := app.Roles.List(gctx, cid)
			data.roles = roles
			return err
		})
		return data, g.Wait()
	})
}

func (v *teamRolesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[teamRolesData]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.data = msg.data
			v.state.rememberTeam(v.teamID, v.data.team.Name)
			v.list.setNames(roleNames(v.data.roles))
		}
	case actionMsg:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.rows.Settle(msg.key)
		if msg.err != nil {
			v.status.fail(msg.err)
			return v, nil
		}
		v.status.ok(msg.done)
		v.list.clearSelection()
		return v, v.Init()
	case refreshViewMsg:
		return v, v.Init()
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.list.move(-1)
		case "down", "j":
			v.list.move(1)
		case " ", "space":
			v.list.toggle()
		case "a":
			return v, v.apply(true)
		case "x":
			return v, v.apply(false)
		}
	}
	return v, nil
}

func (v *teamRolesView) apply(add bool) tea.Cmd {
	roles := v.list.picked()
	if len(roles) == 0 {
		v.status.fail(errNoneSelected)
		return nil
	}
	if !v.rows.Start("roles") {
		return nil
	}
	teams := v.state.App.Teams
	tid := v.teamID
	if add {
		return actionCmd(v.scope, "roles", "Required roles added", func(ctx context.Context) error {
			return teams.AddRoles(ctx, tid, roles)
		})
	}
	return actionCmd(v.scope, "roles", "Required roles removed", func(ctx context.Context) error {
		return teams.RemoveRoles(ctx, tid, roles)
	})
}

func (v *teamRolesView) View() string {
	if v.loading && v.data.team == nil {
		return "\n  " + formatter.Dim("Loading roles...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n  " + formatter.Title(v.data.team.Name) + "  " + formatter.Dim("required roles") + "\n\n")
	if len(v.list.names) == 0 {
		b.WriteString("  " + formatter.Dim("No roles found.") + "\n")
	}
	required := v.data.team.RequiredRoles
	b.WriteString(v.list.view(func(n string) bool { return domain.ContainsStr(required, n) }, v.rows.Busy("roles")))
	b.WriteString(v.status.View())
	return b.String()
}
