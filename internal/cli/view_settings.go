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
	"golang.org/x/sync/errgroup"
)

type settingsTab int

const (
	tabUsers settingsTab = iota
	tabTeams
	tabRoles
)

var settingsTabNames = []string{"Users", "Teams", "Roles"}

type settingsData struct {
	company *domain.Company
	teams   []domain.Team
}

// settingsView is the creator's management screen for users, teams and
// roles of one company.
type settingsView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	data      settingsData
	loading   bool
	err       error

	tab    settingsTab
	cursor [3]int
	rows   rowGuard
	status statusLine

	adding bool
	form   textForm

	// role being renamed through the wizard
	renameName, renameDesc string
}

func newSettingsView(state *SharedState, companyID string) *settingsView {
	return &settingsView{
		state:     state,
		scope:     newViewScope(),
		companyID: companyID,
		loading:   true,
		rows:      newRowGuard(),
	}
}

func (v *settingsView) ID() ViewID         { return ViewSettings }
func (v *settingsView) Title() string      { return "Settings" }
func (v *settingsView) Route() route.Route { return route.ToSettings(v.companyID) }
func (v *settingsView) Close()             { v.scope.Close() }

func (v *settingsView) CapturesInput() bool {
	return v.adding || v.rows.Confirming() != ""
}

func (v *settingsView) ShortHelp() []key.Binding {
	if v.adding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	if v.rows.Confirming() != "" {
		return []key.Binding{
			key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
			key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		}
	}
	keys := []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "section")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
	}
	switch v.tab {
	case tabUsers:
		keys = append(keys, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "roles")))
	case tabTeams:
		keys = append(keys,
			key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "members")),
			key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "required roles")),
		)
	case tabRoles:
		keys = append(keys, key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")))
	}
	return append(keys, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")))
}

func (v *settingsView) Init() tea.Cmd {
	app := v.state.App
	id := v.companyID
	return loadCmd(v.scope, func(ctx context.Context) (settingsData, error) {
		var data settingsData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			c, err := app.Companies.Get(gctx, id)
			data.company = c
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

func (v *settingsView) rowCount() int {
	if v.data.company == nil {
		return 0
	}
	switch v.tab {
	case tabUsers:
		return len(v.data.company.Users)
	case tabTeams:
		return len(v.data.teams)
	}
	return len(v.data.company.Roles)
}

// rowKey names the selected row for the in-flight guard.
func (v *settingsView) rowKey() (string, string, bool) {
	i := v.cursor[v.tab]
	if i >= v.rowCount() {
		return "", "", false
	}
	switch v.tab {
	case tabUsers:
		u := v.data.company.Users[i]
		return "user:" + u.ID, domain.CoalesceStr(u.Email, u.Name), true
	case tabTeams:
		t := v.data.teams[i]
		return "team:" + t.ID, t.Name, true
	}
	r := v.data.company.Roles[i]
	return "role:" + r.Name, r.Name, true
}

func (v *settingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[settingsData]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.data = msg.data
			v.state.rememberCompany(v.companyID, v.data.company.Name)
			for _, t := range v.data.teams {
				v.state.rememberTeam(t.ID, t.Name)
			}
			for tab := range v.cursor {
				v.cursor[tab] = min(v.cursor[tab], max(v.countFor(settingsTab(tab))-1, 0))
			}
		}
		return v, nil

	case actionMsg:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.rows.Settle(msg.key)
		if msg.err != nil {
			if v.adding && msg.key == "add" {
				v.form.Fail(msg.err)
			} else {
				v.status.fail(msg.err)
			}
			return v, nil
		}
		if msg.key == "add" {
			v.adding = false
		}
		v.status.ok(msg.done)
		return v, v.Init()

	case refreshViewMsg:
		return v, v.Init()

	case tea.KeyMsg:
		switch {
		case v.adding:
			return v.updateForm(msg)
		case v.rows.Confirming() != "":
			return v.updateConfirm(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *settingsView) countFor(tab settingsTab) int {
	saved := v.tab
	v.tab = tab
	n := v.rowCount()
	v.tab = saved
	return n
}

func (v *settingsView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cid := v.companyID
	i := v.cursor[v.tab]
	switch msg.String() {
	case "tab", "right", "l":
		v.tab = (v.tab + 1) % 3
	case "shift+tab", "left", "h":
		v.tab = (v.tab + 2) % 3
	case "up", "k":
		if i > 0 {
			v.cursor[v.tab]--
		}
	case "down", "j":
		if i < v.rowCount()-1 {
			v.cursor[v.tab]++
		}
	case "r":
		v.loading = true
		return v, v.Init()
	case "n":
		return v, v.openForm()
	case "d":
		if rk, _, ok := v.rowKey(); ok {
			v.status.clear()
			v.rows.Ask(rk)
		}
	case "enter":
		if i >= v.rowCount() {
			return v, nil
		}
		switch v.tab {
		case tabUsers:
			return v, navigate(route.ToUserRoles(cid, v.data.company.Users[i].ID))
		case tabTeams:
			return v, navigate(route.ToTeam(cid, v.data.teams[i].ID))
		}
	case "m":
		if v.tab == tabTeams && i < v.rowCount() {
			return v, navigate(route.ToTeamMembers(cid, v.data.teams[i].ID))
		}
	case "R":
		if v.tab == tabTeams && i < v.rowCount() {
			return v, navigate(route.ToTeamRoles(cid, v.data.teams[i].ID))
		}
	case "e":
		if v.tab == tabRoles && i < v.rowCount() {
			return v, v.startRename(v.data.company.Roles[i])
		}
	}
	return v, nil
}

func (v *settingsView) openForm() tea.Cmd {
	switch v.tab {
	case tabUsers:
		v.form = newTextForm(v.state, fieldSpec{label: "Email", placeholder: "user email or id", required: true})
	case tabTeams:
		v.form = newTextForm(v.state,
			fieldSpec{label: "Name", required: true},
			fieldSpec{label: "Description"},
		)
	case tabRoles:
		v.form = newTextForm(v.state,
			fieldSpec{label: "Name", required: true},
			fieldSpec{label: "Description"},
		)
	}
	v.adding = true
	v.status.clear()
	return v.form.Focus()
}

func (v *settingsView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		v.adding = false
		return v, nil
	}
	submit, cmd := v.form.Update(msg)
	if !submit {
		return v, cmd
	}
	v.form.Start()
	app := v.state.App
	cid := v.companyID
	switch v.tab {
	case tabUsers:
		ref := v.form.Value(0)
		return v, actionCmd(v.scope, "add", "Added "+ref, func(ctx context.Context) error {
			userID, err := resolveUserID(ctx, app, ref)
			if err != nil {
				return err
			}
			return app.Members.Add(ctx, cid, userID)
		})
	case tabTeams:
		name, desc := v.form.Value(0), v.form.Value(1)
		return v, actionCmd(v.scope, "add", "Team "+name+" created", func(ctx context.Context) error {
			_, err := app.Teams.Create(ctx, cid, name, desc)
			return err
		})
	}
	role := domain.Role{Name: v.form.Value(0), Description: v.form.Value(1)}
	return v, actionCmd(v.scope, "add", "Role "+role.Name+" created", func(ctx context.Context) error {
		return app.Roles.Create(ctx, cid, role)
	})
}

func (v *settingsView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return v, v.remove(v.rows.Confirm())
	case "n", "N", "esc":
		v.rows.Cancel()
	}
	return v, nil
}

func (v *settingsView) remove(rowKey string) tea.Cmd {
	app := v.state.App
	cid := v.companyID
	kind, id, _ := strings.Cut(rowKey, ":")
	switch kind {
	case "user":
		return actionCmd(v.scope, rowKey, "User removed", func(ctx context.Context) error {
			return app.Members.Remove(ctx, cid, id)
		})
	case "team":
		return actionCmd(v.scope, rowKey, "Team deleted", func(ctx context.Context) error {
			return app.Teams.Delete(ctx, id)
		})
	case "role":
		return actionCmd(v.scope, rowKey, "Role "+id+" deleted", func(ctx context.Context) error {
			return app.Roles.Delete(ctx, cid, id)
		})
	}
	return nil
}

func (v *settingsView) startRename(role domain.Role) tea.Cmd {
	rowKey := "role:" + role.Name
	if v.rows.Busy(rowKey) {
		return nil
	}
	form := wizardRenameRole(role, &v.renameName, &v.renameDesc)
	app := v.state.App
	cid := v.companyID
	scope := v.scope
	return startWizardCmd(v.state, "Rename role", form, func() tea.Cmd {
		next := domain.Role{Name: strings.TrimSpace(v.renameName), Description: strings.TrimSpace(v.renameDesc)}
		if next == role {
			return nil
		}
		v.rows.Start(rowKey)
		return actionCmd(scope, rowKey, "Role renamed to "+next.Name, func(ctx context.Context) error {
			return app.Roles.Rename(ctx, cid, role.Name, next)
		})
	})
}

func (v *settingsView) View() string {
	if v.loading && v.data.company == nil {
		return "\n  " + formatter.Dim("Loading settings...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n  ")
	for i, name := range settingsTabNames {
		if settingsTab(i) == v.tab {
			b.WriteString(formatter.StyleHeader.Render("["+name+"]") + "  ")
		} else {
			b.WriteString(formatter.Dim(" "+name+" ") + "  ")
		}
	}
	b.WriteString("\n\n")

	if v.adding {
		b.WriteString(v.form.View())
		b.WriteString("\n")
	}

	if v.rowCount() == 0 {
		b.WriteString("  " + formatter.Dim(fmt.Sprintf("No %s found.", strings.ToLower(settingsTabNames[v.tab]))) + "\n")
	}
	for i := 0; i < v.rowCount(); i++ {
		b.WriteString(v.renderRow(i))
	}

	if v.rows.Confirming() != "" {
		_, label, _ := v.rowKey()
		b.WriteString("\n  " + formatter.StyleYellow.Render(fmt.Sprintf("Remove %s? (y/n)", label)) + "\n")
	}
	b.WriteString(v.status.View())
	return b.String()
}

func (v *settingsView) renderRow(i int) string {
	cursor := "  "
	nameStyle := formatter.StyleFg
	if i == v.cursor[v.tab] {
		cursor = formatter.StyleGreen.Render("▸ ")
		nameStyle = formatter.StyleBold
	}

	var rowKey, name, detail string
	switch v.tab {
	case tabUsers:
		u := v.data.company.Users[i]
		rowKey = "user:" + u.ID
		name = domain.CoalesceStr(u.Name, u.Email)
		detail = formatter.Dim(padRight(u.Email, 28)) + " " + formatter.RoleList(u.Roles)
		if u.ID == v.data.company.CreatedBy {
			detail += " " + formatter.CreatorBadge(true)
		}
	case tabTeams:
		t := v.data.teams[i]
		rowKey = "team:" + t.ID
		name = t.Name
		detail = formatter.Dim(fmt.Sprintf("%d members", len(t.Members))) + "  " + formatter.RoleList(t.RequiredRoles)
	case tabRoles:
		r := v.data.company.Roles[i]
		rowKey = "role:" + r.Name
		name = r.Name
		detail = formatter.Dim(r.Description)
	}
	if v.rows.Busy(rowKey) {
		nameStyle = formatter.StyleDim
		detail = formatter.Dim("working...")
	}
	return fmt.Sprintf("%s%s  %s\n", cursor, nameStyle.Render(padRight(name, 22)), detail)
}
