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

type corporateData struct {
	okrs  []domain.Objective
	teams []domain.Team
}

// corporateOKRsView lists a company's corporate OKRs and manages their key
// result team assignments.
type corporateOKRsView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	data      corporateData
	loading   bool
	err       error
	cursor    int
	expanded  bool
	rows      rowGuard
	status    statusLine

	// wizard results
	krIndex int
	teamIDs []string
}

func newCorporateOKRsView(state *SharedState, companyID string) *corporateOKRsView {
	return &corporateOKRsView{
		state:     state,
		scope:     newViewScope(),
		companyID: companyID,
		loading:   true,
		rows:      newRowGuard(),
	}
}

func (v *corporateOKRsView) ID() ViewID         { return ViewCorporateOKRs }
func (v *corporateOKRsView) Title() string      { return "OKRs" }
func (v *corporateOKRsView) Route() route.Route { return route.ToCorporateOKRs(v.companyID) }
func (v *corporateOKRsView) Close()             { v.scope.Close() }

func (v *corporateOKRsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new OKR")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assign teams")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "linked OKRs")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "freeze")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *corporateOKRsView) Init() tea.Cmd {
	app := v.state.App
	id := v.companyID
	return loadCmd(v.scope, func(ctx context.Context) (corporateData, error) {
		var data corporateData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			okrs, err := app.OKRs.ListCorporate(gctx, id)
			data.okrs = okrs
			return err
		})
		g.Go(func() error {
			teams, err := app.Teams.List(gctx, id)
			data.teams = teams
			return err
		})
		return data, g.Wait()
	})
}

func (v *corporateOKRsView) selected() *domain.Objective {
	if v.cursor < len(v.data.okrs) {
		return &v.data.okrs[v.cursor]
	}
	return nil
}

func (v *corporateOKRsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[corporateData]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.data = msg.data
			for _, t := range v.data.teams {
				v.state.rememberTeam(t.ID, t.Name)
			}
			v.cursor = min(v.cursor, max(len(v.data.okrs)-1, 0))
		}
		return v, nil

	case loadedMsg[*domain.CorporateKeyResultView]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		if msg.err != nil {
			v.status.fail(msg.err)
			return v, nil
		}
		return v, outputCmd(formatter.FormatKeyResultView(msg.data))

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

func (v *corporateOKRsView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		v.expanded = !v.expanded
	case "r":
		v.loading = true
		return v, v.Init()
	case "n":
		v.status.clear()
		return v, v.startCreate()
	case "f":
		return v, v.toggleFreeze()
	case "a":
		return v, v.startAssign()
	case "v":
		return v, v.startKeyResultView()
	}
	return v, nil
}

func (v *corporateOKRsView) startCreate() tea.Cmd {
	okrs := v.state.App.OKRs
	cid := v.companyID
	scope := v.scope
	return startObjectiveWizard(v.state, "New corporate OKR", nil, func(in api.ObjectiveInput) tea.Cmd {
		v.rows.Start("create")
		return actionCmd(scope, "create", "Created "+in.Objective, func(ctx context.Context) error {
			_, err := okrs.CreateCorporate(ctx, cid, in)
			return err
		})
	})
}

// toggleFreeze sends the PATCH and reloads; the list is not updated until
// the server confirms.
func (v *corporateOKRsView) toggleFreeze() tea.Cmd {
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
		return okrs.SetFrozen(ctx, id, frozen, true)
	})
}

func (v *corporateOKRsView) startAssign() tea.Cmd {
	o := v.selected()
	if o == nil {
		return nil
	}
	if len(v.data.teams) == 0 {
		v.status.fail(errors.New("the company has no teams yet"))
		return nil
	}
	okr := *o
	v.krIndex = 0
	okrs := v.state.App.OKRs
	scope := v.scope
	teams := v.data.teams
	return startWizardCmd(v.state, "Assign teams", wizardSelectKeyResult(&okr, &v.krIndex), func() tea.Cmd {
		if v.krIndex < len(okr.KeyResults) {
			v.teamIDs = append([]string(nil), okr.KeyResults[v.krIndex].Teams...)
		}
		return startWizardCmd(v.state, "Assign teams", wizardSelectTeams(teams, &v.teamIDs), func() tea.Cmd {
			rowKey := "okr:" + okr.ID
			v.rows.Start(rowKey)
			idx, ids := v.krIndex, append([]string(nil), v.teamIDs...)
			return actionCmd(scope, rowKey, fmt.Sprintf("Assigned %d team(s) to key result #%d", len(ids), idx), func(ctx context.Context) error {
				return okrs.AssignTeams(ctx, okr.ID, idx, ids)
			})
		})
	})
}

func (v *corporateOKRsView) startKeyResultView() tea.Cmd {
	o := v.selected()
	if o == nil {
		return nil
	}
	okr := *o
	v.krIndex = 0
	okrs := v.state.App.OKRs
	scope := v.scope
	return startWizardCmd(v.state, "Linked OKRs", wizardSelectKeyResult(&okr, &v.krIndex), func() tea.Cmd {
		idx := v.krIndex
		return loadCmd(scope, func(ctx context.Context) (*domain.CorporateKeyResultView, error) {
			return okrs.KeyResult(ctx, okr.ID, idx)
		})
	})
}

func (v *corporateOKRsView) View() string {
	if v.loading && v.data.okrs == nil {
		return "\n  " + formatter.Dim("Loading OKRs...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n")
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
		b.WriteString(fmt.Sprintf("%s%s %s %s  %s %s\n",
			cursor,
			nameStyle.Render(padRight(o.Objective, 30)),
			formatter.RenderCompactBar(o.Progress, 12, o.IsFrozen),
			formatter.FormatPercent(o.Progress),
			formatter.Deadline(o.Deadline),
			formatter.FrozenBadge(o.IsFrozen),
		))
		if v.expanded && i == v.cursor {
			b.WriteString(v.renderKeyResults(o))
		}
	}
	if v.rows.Busy("create") {
		b.WriteString("\n  " + formatter.Dim("Creating OKR...") + "\n")
	}
	b.WriteString(v.status.View())
	return b.String()
}

func (v *corporateOKRsView) renderKeyResults(o *domain.Objective) string {
	var b strings.Builder
	for i, kr := range o.KeyResults {
		names := make([]string, 0, len(kr.Teams))
		for _, id := range kr.Teams {
			names = append(names, v.state.TeamName(id, formatter.Truncate(id, 8)))
		}
		b.WriteString(fmt.Sprintf("      %s %s %s  %s\n",
			formatter.Dim(fmt.Sprintf("#%d", i)),
			padRight(kr.Title, 26),
			formatter.RenderCompactBar(kr.Progress, 8, false),
			formatter.Dim("teams: ")+formatter.RoleList(names),
		))
	}
	return b.String()
}
