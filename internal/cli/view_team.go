package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
	"golang.org/x/sync/errgroup"
)

type teamData struct {
	team     *domain.Team
	okrs     []domain.TeamOKR
	assigned []domain.AssignedKeyResult
}

// teamView shows a team's OKRs with the corporate key result each one is
// attached to.
type teamView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	teamID    string
	data      teamData
	loading   bool
	err       error
	cursor    int
	rows      rowGuard
	status    statusLine

	// wizard results
	statusChoice string
	parentChoice string
}

func newTeamView(state *SharedState, companyID, teamID string) *teamView {
	return &teamView{
		state:     state,
		scope:     newViewScope(),
		companyID: companyID,
		teamID:    teamID,
		loading:   true,
		rows:      newRowGuard(),
	}
}

func (v *teamView) ID() ViewID         { return ViewTeam }
func (v *teamView) Route() route.Route { return route.ToTeam(v.companyID, v.teamID) }
func (v *teamView) Close()             { v.scope.Close() }

func (v *teamView) Title() string {
	return v.state.TeamName(v.teamID, "Team")
}

func (v *teamView) ShortHelp() []key.Binding {
	keys := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "check-ins")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new OKR")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
	}
	if len(v.data.assigned) > 0 {
		keys = append(keys, key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "link")))
	}
	return append(keys,
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "freeze")),
		key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "stats")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	)
}

func (v *teamView) Init() tea.Cmd {
	app := v.state.App
	id := v.teamID
	return loadCmd(v.scope, func(ctx context.Context) (teamData, error) {
		var data teamData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			t, err := app.Teams.Get(gctx, id)
			data.team = t
			return err
		})
		g.Go(func() error {
			okrs, err := app.OKRs.ListTeam(gctx, id)
			data.okrs = okrs
			return err
		})
		g.Go(func() error {
			assigned, err := app.Teams.AssignedKeyResults(gctx, id)
			data.assigned = assigned
			return err
		})
		return data, g.Wait()
	})
}

func (v *teamView) selected() *domain.TeamOKR {
	if v.cursor < len(v.data.okrs) {
		return &v.data.okrs[v.cursor]
	}
	return nil
}

func (v *teamView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[teamData]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.data = msg.data
			v.state.rememberTeam(v.teamID, v.data.team.Name)
			v.cursor = min(v.cursor, max(len(v.data.okrs)-1, 0))
		}
		return v, nil

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
		return v, v.Init()

	case refreshViewMsg:
		return v, v.Init()

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *teamView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.data.okrs)-1 {
			v.cursor++
		}
	case "enter":
		if o := v.selected(); o != nil {
			return v, navigate(route.ToCheckIns(v.companyID, v.teamID, o.ID))
		}
	case "r":
		v.loading = true
		return v, v.Init()
	case "n":
		v.status.clear()
		return v, v.startCreate()
	case "s":
		return v, v.startStatus()
	case "l":
		return v, v.startLink()
	case "f":
		return v, v.toggleFreeze()
	case "S":
		return v, navigate(route.ToTeamStats(v.companyID, v.teamID))
	}
	return v, nil
}

func (v *teamView) startCreate() tea.Cmd {
	okrs := v.state.App.OKRs
	tid := v.teamID
	scope := v.scope
	return startObjectiveWizard(v.state, "New team OKR", v.data.assigned, func(in api.ObjectiveInput) tea.Cmd {
		v.rows.Start("create")
		return actionCmd(scope, "create", "Created "+in.Objective, func(ctx context.Context) error {
			_, err := okrs.CreateTeam(ctx, tid, in)
			return err
		})
	})
}

func (v *teamView) startStatus() tea.Cmd {
	o := v.selected()
	if o == nil || v.rows.Busy("okr:"+o.ID) {
		return nil
	}
	id, current := o.ID, o.Status
	okrs := v.state.App.OKRs
	scope := v.scope
	return startWizardCmd(v.state, "Status", wizardSelectStatus(current, &v.statusChoice), func() tea.Cmd {
		next := domain.OKRStatus(v.statusChoice)
		if next == current {
			return nil
		}
		rowKey := "okr:" + id
		v.rows.Start(rowKey)
		return actionCmd(scope, rowKey, "Status set to "+string(next), func(ctx context.Context) error {
			return okrs.SetStatus(ctx, id, next)
		})
	})
}

func (v *teamView) startLink() tea.Cmd {
	o := v.selected()
	if o == nil || v.rows.Busy("okr:"+o.ID) {
		return nil
	}
	if len(v.data.assigned) == 0 {
		v.status.fail(errors.New("no corporate key results are assigned to this team"))
		return nil
	}
	id := o.ID
	v.parentChoice = ""
	if o.IsLinked() {
		v.parentChoice = parentKey(o.ParentOKR, *o.ParentKRIndex)
	}
	okrs := v.state.App.OKRs
	scope := v.scope
	return startWizardCmd(v.state, "Link", wizardSelectParent(v.data.assigned, &v.parentChoice), func() tea.Cmd {
		parent, idx, ok := splitParentKey(v.parentChoice)
		if !ok {
			return nil
		}
		rowKey := "okr:" + id
		v.rows.Start(rowKey)
		return actionCmd(scope, rowKey, fmt.Sprintf("Linked to key result #%d", idx), func(ctx context.Context) error {
			return okrs.Link(ctx, id, parent, idx)
		})
	})
}

func (v *teamView) toggleFreeze() tea.Cmd {
	o := v.selected()
	if o == nil {
		return nil
	}
	rowKey := "okr:" + o.ID
	if !v.rows.Start(rowKey) {
		return nil
	}
	okrs := v.state.App.OKRs
	id, frozen := o.ID, !o.IsFrozen
	done := "Frozen"
	if !frozen {
		done = "Unfrozen"
	}
	return actionCmd(v.scope, rowKey, done, func(ctx context.Context) error {
		return okrs.SetFrozen(ctx, id, frozen, false)
	})
}

func (v *teamView) View() string {
	if v.loading && v.data.team == nil {
		return "\n  " + formatter.Dim("Loading team...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n  " + formatter.Title(v.data.team.Name))
	if v.data.team.Description != "" {
		b.WriteString("  " + formatter.Dim(v.data.team.Description))
	}
	b.WriteString("\n\n")

	if len(v.data.okrs) == 0 {
		b.WriteString("  " + formatter.Dim("No OKRs found.") + "\n")
	}
	for i := range v.data.okrs {
		o := &v.data.okrs[i]
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		if v.rows.Busy("okr:" + o.ID) {
			nameStyle = formatter.StyleDim
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s  %s %s %s\n",
			cursor,
			nameStyle.Render(padRight(o.Objective.Objective, 30)),
			formatter.RenderCompactBar(o.Progress, 12, o.IsFrozen),
			formatter.FormatPercent(o.Progress),
			formatter.StatusPill(o.Status),
			formatter.Deadline(o.Deadline),
			formatter.FrozenBadge(o.IsFrozen),
		))
		if o.Attached != nil {
			b.WriteString(fmt.Sprintf("      %s %s %s\n",
				formatter.Dim("↳"),
				formatter.StyleBlue.Render(o.Attached.KeyResult.Title),
				formatter.Dim(formatter.FormatPercent(o.Attached.KeyResult.Progress)),
			))
		}
	}

	if len(v.data.assigned) > 0 {
		b.WriteString("\n  " + formatter.Dim("Assigned corporate key results") + "\n")
		for _, a := range v.data.assigned {
			b.WriteString(fmt.Sprintf("    %s %s %s\n",
				padRight(a.Title, 28),
				formatter.RenderCompactBar(a.Progress, 8, false),
				formatter.Dim(a.CorporateOKR.Objective),
			))
		}
	}
	if v.rows.Busy("create") {
		b.WriteString("\n  " + formatter.Dim("Creating OKR...") + "\n")
	}
	b.WriteString(v.status.View())
	return b.String()
}
