package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
	"github.com/okrdesk/okrdesk/internal/service"
)

// teamsView lists the teams of a company.
type teamsView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	teams     []domain.Team
	cursor    int
	loading   bool
	err       error

	filtering bool
	filter    string
}

func newTeamsView(state *SharedState, companyID string) *teamsView {
	return &teamsView{state: state, scope: newViewScope(), companyID: companyID, loading: true}
}

func (v *teamsView) ID() ViewID          { return ViewTeams }
func (v *teamsView) Title() string       { return "Teams" }
func (v *teamsView) Route() route.Route  { return route.ToTeams(v.companyID) }
func (v *teamsView) CapturesInput() bool { return v.filtering }
func (v *teamsView) Close()              { v.scope.Close() }

func (v *teamsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *teamsView) Init() tea.Cmd {
	teams := v.state.App.Teams
	id := v.companyID
	return loadCmd(v.scope, func(ctx context.Context) ([]domain.Team, error) {
		return teams.List(ctx, id)
	})
}

func (v *teamsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[[]domain.Team]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.teams = msg.data
			for _, t := range v.teams {
				v.state.rememberTeam(t.ID, t.Name)
			}
			v.cursor = min(v.cursor, max(len(v.visible())-1, 0))
		}
	case refreshViewMsg:
		return v, v.Init()
	case tea.KeyMsg:
		if v.filtering {
			return v.updateFilter(msg)
		}
		visible := v.visible()
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(visible)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(visible) {
				return v, navigate(route.ToTeam(v.companyID, visible[v.cursor].ID))
			}
		case "s":
			if v.cursor < len(visible) {
				return v, navigate(route.ToTeamStats(v.companyID, visible[v.cursor].ID))
			}
		case "/":
			v.filtering = true
			v.filter = ""
		case "r":
			v.loading = true
			return v, v.Init()
		}
	}
	return v, nil
}

func (v *teamsView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.filter = ""
		v.cursor = 0
	case tea.KeyEnter:
		v.filtering = false
	case tea.KeyBackspace:
		if len(v.filter) > 0 {
			v.filter = v.filter[:len(v.filter)-1]
			v.cursor = 0
		}
	default:
		if len(msg.Runes) > 0 {
			v.filter += string(msg.Runes)
			v.cursor = 0
		}
	}
	return v, nil
}

func (v *teamsView) visible() []domain.Team {
	if v.filter == "" {
		return v.teams
	}
	names := make([]string, len(v.teams))
	for i, t := range v.teams {
		names[i] = t.Name
	}
	var out []domain.Team
	for _, i := range service.FilterIndexes(v.filter, names) {
		out = append(out, v.teams[i])
	}
	return out
}

func (v *teamsView) View() string {
	if v.loading && v.teams == nil {
		return "\n  " + formatter.Dim("Loading teams...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n")
	if v.filtering || v.filter != "" {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.filter + "█\n\n")
	}
	visible := v.visible()
	if len(visible) == 0 {
		b.WriteString("  " + formatter.Dim("No teams found.") + "\n")
		return b.String()
	}
	me := v.state.Session().User.ID
	for i, t := range visible {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		mine := ""
		if t.HasMember(me) {
			mine = formatter.StyleBlue.Render("● member")
		}
		b.WriteString(fmt.Sprintf("%s%s  %s  %s %s\n",
			cursor,
			nameStyle.Render(padRight(t.Name, 22)),
			formatter.Dim(padRight(fmt.Sprintf("%d members", len(t.Members)), 11)),
			formatter.Dim(formatter.Truncate(t.Description, 40)),
			mine,
		))
	}
	return b.String()
}
