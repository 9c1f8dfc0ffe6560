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

// companiesView is the home screen: every company the user belongs to.
type companiesView struct {
	state   *SharedState
	scope   viewScope
	cards   []domain.CompanyCard
	cursor  int
	loading bool
	err     error
	status  statusLine

	creating bool
	form     textForm

	// Filtering
	filtering bool
	filter    string
}

func newCompaniesView(state *SharedState) *companiesView {
	return &companiesView{
		state:   state,
		scope:   newViewScope(),
		loading: true,
		form:    newTextForm(state, fieldSpec{label: "Name", placeholder: "company name", required: true}),
	}
}

func (v *companiesView) ID() ViewID          { return ViewCompanies }
func (v *companiesView) Title() string       { return "Companies" }
func (v *companiesView) Route() route.Route  { return route.ToCompanies() }
func (v *companiesView) CapturesInput() bool { return v.creating || v.filtering }
func (v *companiesView) Close()              { v.scope.Close() }

func (v *companiesView) ShortHelp() []key.Binding {
	if v.creating {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new company")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	}
}

func (v *companiesView) Init() tea.Cmd {
	return v.load()
}

func (v *companiesView) load() tea.Cmd {
	companies := v.state.App.Companies
	session := v.state.Session()
	return loadCmd(v.scope, func(ctx context.Context) ([]domain.CompanyCard, error) {
		return companies.Cards(ctx, session)
	})
}

func (v *companiesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[[]domain.CompanyCard]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.cards = msg.data
			for _, c := range v.cards {
				v.state.rememberCompany(c.ID, c.Name)
			}
			v.cursor = min(v.cursor, max(len(v.visible())-1, 0))
		}
		return v, nil

	case actionMsg:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		if msg.err != nil {
			v.form.Fail(msg.err)
			return v, nil
		}
		v.form.Reset()
		v.creating = false
		v.status.ok(msg.done)
		return v, v.load()

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch {
		case v.creating:
			return v.updateCreate(msg)
		case v.filtering:
			return v.updateFilter(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *companiesView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
			return v, navigate(route.ToCompany(visible[v.cursor].ID))
		}
	case "n":
		v.creating = true
		v.status.clear()
		return v, v.form.Focus()
	case "/":
		v.filtering = true
		v.filter = ""
	case "r":
		v.loading = true
		return v, v.load()
	case "L":
		store := v.state.App.Session
		return v, safe(func() tea.Msg {
			if err := store.Logout(context.Background()); err != nil {
				return bannerMsg{err: fmt.Errorf("logout: %w", err)}
			}
			return sessionEndedMsg{}
		})
	}
	return v, nil
}

func (v *companiesView) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		v.creating = false
		v.form.Reset()
		return v, nil
	}
	submit, cmd := v.form.Update(msg)
	if !submit {
		return v, cmd
	}
	v.form.Start()
	name := v.form.Value(0)
	companies := v.state.App.Companies
	return v, actionCmd(v.scope, "create", "Company "+name+" created", func(ctx context.Context) error {
		_, err := companies.Create(ctx, name)
		return err
	})
}

func (v *companiesView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

// visible returns the cards matching the filter, best match first.
func (v *companiesView) visible() []domain.CompanyCard {
	if v.filter == "" {
		return v.cards
	}
	names := make([]string, len(v.cards))
	for i, c := range v.cards {
		names[i] = c.Name
	}
	var out []domain.CompanyCard
	for _, i := range service.FilterIndexes(v.filter, names) {
		out = append(out, v.cards[i])
	}
	return out
}

func (v *companiesView) View() string {
	if v.loading && v.cards == nil {
		return "\n  " + formatter.Dim("Loading companies...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n")
	if v.creating {
		b.WriteString("  " + formatter.Header("New company") + "\n\n")
		b.WriteString(v.form.View())
		b.WriteString("\n")
	}
	if v.filtering || v.filter != "" {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.filter + "█\n\n")
	}

	visible := v.visible()
	if len(visible) == 0 {
		b.WriteString("  " + formatter.Dim("No companies found.") + "\n")
	}
	for i, c := range visible {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == v.cursor && !v.creating {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		b.WriteString(fmt.Sprintf("%s%s  %s  %s  %s\n",
			cursor,
			nameStyle.Render(padRight(c.Name, 24)),
			formatter.Dim(padRight(fmt.Sprintf("%d members", c.MemberCount), 11)),
			formatter.RoleList(c.Roles),
			formatter.CreatorBadge(c.IsCreator),
		))
	}
	b.WriteString(v.status.View())
	return b.String()
}
