package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
)

// roleChecklist is a cursor over role names with a selection set.
type roleChecklist struct {
	names    []string
	cursor   int
	selected map[string]bool
}

func (c *roleChecklist) setNames(names []string) {
	c.names = names
	c.cursor = min(c.cursor, max(len(names)-1, 0))
	if c.selected == nil {
		c.selected = map[string]bool{}
	}
}

func (c *roleChecklist) move(delta int) {
	c.cursor = max(0, min(c.cursor+delta, len(c.names)-1))
}

func (c *roleChecklist) toggle() {
	if c.cursor < len(c.names) {
		n := c.names[c.cursor]
		c.selected[n] = !c.selected[n]
	}
}

// picked returns the selected names in list order.
func (c *roleChecklist) picked() []string {
	var out []string
	for _, n := range c.names {
		if c.selected[n] {
			out = append(out, n)
		}
	}
	return out
}

func (c *roleChecklist) clearSelection() { c.selected = map[string]bool{} }

func (c *roleChecklist) view(held func(string) bool, busy bool) string {
	var b strings.Builder
	for i, n := range c.names {
		cursor := "  "
		if i == c.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		box := "[ ]"
		if c.selected[n] {
			box = formatter.StyleGreen.Render("[x]")
		}
		state := ""
		if held(n) {
			state = formatter.StyleBlue.Render("held")
		}
		name := padRight(n, 22)
		if busy {
			name = formatter.Dim(name)
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", cursor, box, name, state))
	}
	return b.String()
}

var errNoneSelected = errors.New("select at least one entry first")

func roleNames(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.Name
	}
	return out
}

// userRolesView assigns and removes company roles for one user.
type userRolesView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	userID    string
	company   *domain.Company
	loading   bool
	err       error

	list   roleChecklist
	rows   rowGuard
	status statusLine
}

func newUserRolesView(state *SharedState, companyID, userID string) *userRolesView {
	return &userRolesView{
		state:     state,
		scope:     newViewScope(),
		companyID: companyID,
		userID:    userID,
		loading:   true,
		rows:      newRowGuard(),
	}
}

func (v *userRolesView) ID() ViewID         { return ViewUserRoles }
func (v *userRolesView) Route() route.Route { return route.ToUserRoles(v.companyID, v.userID) }
func (v *userRolesView) Close()             { v.scope.Close() }

func (v *userRolesView) Title() string {
	if u, ok := v.member(); ok {
		return domain.CoalesceStr(u.Name, u.Email) + " roles"
	}
	return "User roles"
}

func (v *userRolesView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "select")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assign selected")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove selected")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *userRolesView) member() (domain.CompanyUser, bool) {
	if v.company == nil {
		return domain.CompanyUser{}, false
	}
	return v.company.Member(v.userID)
}

func (v *userRolesView) Init() tea.Cmd {
	companies := v.state.App.Companies
	id := v.companyID
	return loadCmd(v.scope, func(ctx context.Context) (*domain.Company, error) {
		return companies.Get(ctx, id)
	})
}

func (v *userRolesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[*domain.Company]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.company = msg.data
			v.list.setNames(roleNames(v.company.Roles))
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

func (v *userRolesView) apply(assign bool) tea.Cmd {
	roles := v.list.picked()
	if len(roles) == 0 {
		v.status.fail(errNoneSelected)
		return nil
	}
	if !v.rows.Start("roles") {
		return nil
	}
	members := v.state.App.Members
	cid, uid := v.companyID, v.userID
	if assign {
		return actionCmd(v.scope, "roles", "Roles assigned", func(ctx context.Context) error {
			return members.AssignRoles(ctx, cid, uid, roles)
		})
	}
	return actionCmd(v.scope, "roles", "Roles removed", func(ctx context.Context) error {
		return members.RemoveRoles(ctx, cid, uid, roles)
	})
}

func (v *userRolesView) View() string {
	if v.loading && v.company == nil {
		return "\n  " + formatter.Dim("Loading roles...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}
	u, ok := v.member()
	if !ok {
		return "\n  " + formatter.Dim("User is not a member of this company.")
	}

	var b strings.Builder
	b.WriteString("\n  " + formatter.Title(domain.CoalesceStr(u.Name, u.Email)) + "  " + formatter.Dim(u.Email) + "\n\n")
	if len(v.list.names) == 0 {
		b.WriteString("  " + formatter.Dim("No roles found.") + "\n")
	}
	b.WriteString(v.list.view(func(n string) bool { return domain.ContainsStr(u.Roles, n) }, v.rows.Busy("roles")))
	b.WriteString(v.status.View())
	return b.String()
}
