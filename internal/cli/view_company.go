package cli

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
)

// companyView is the company overview with links to its sections.
type companyView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	company   *domain.Company
	loading   bool
	err       error
}

func newCompanyView(state *SharedState, companyID string) *companyView {
	return &companyView{state: state, scope: newViewScope(), companyID: companyID, loading: true}
}

func (v *companyView) ID() ViewID         { return ViewCompany }
func (v *companyView) Route() route.Route { return route.ToCompany(v.companyID) }
func (v *companyView) Close()             { v.scope.Close() }

func (v *companyView) Title() string {
	return v.state.CompanyName(v.companyID, "Company")
}

func (v *companyView) isCreator() bool {
	return domain.IsCreator(v.company, v.state.Session())
}

func (v *companyView) ShortHelp() []key.Binding {
	keys := []key.Binding{
		key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "OKRs")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "teams")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
	}
	if v.isCreator() {
		keys = append(keys, key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "settings")))
	}
	return append(keys, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")))
}

func (v *companyView) Init() tea.Cmd {
	companies := v.state.App.Companies
	id := v.companyID
	return loadCmd(v.scope, func(ctx context.Context) (*domain.Company, error) {
		return companies.Get(ctx, id)
	})
}

func (v *companyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[*domain.Company]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.company = msg.data
			v.state.rememberCompany(v.company.ID, v.company.Name)
		}
	case refreshViewMsg:
		return v, v.Init()
	case tea.KeyMsg:
		switch msg.String() {
		case "o":
			return v, navigate(route.ToCorporateOKRs(v.companyID))
		case "t":
			return v, navigate(route.ToTeams(v.companyID))
		case "s":
			return v, navigate(route.ToCompanyStats(v.companyID))
		case "S":
			// The guard re-checks on navigation; the key is only advertised to creators.
			if v.isCreator() {
				return v, navigate(route.ToSettings(v.companyID))
			}
		case "r":
			v.loading = true
			return v, v.Init()
		}
	}
	return v, nil
}

func (v *companyView) View() string {
	if v.loading && v.company == nil {
		return "\n  " + formatter.Dim("Loading company...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}
	return "\n" + formatter.FormatCompany(v.company, v.state.Session())
}
