package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/route"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewLogin ViewID = iota
	ViewRegister
	ViewCompanies
	ViewCompany
	ViewSettings
	ViewUserRoles
	ViewTeamMembers
	ViewTeamRoles
	ViewCorporateOKRs
	ViewTeams
	ViewTeam
	ViewCheckIns
	ViewCompanyStats
	ViewTeamStats
	ViewPending
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
	Route() route.Route       // address the view was opened at
}

// inputCapturer is implemented by views that sometimes own the keyboard,
// e.g. while a form or filter is open.
type inputCapturer interface {
	CapturesInput() bool
}

// closer is implemented by views holding a request scope.
type closer interface {
	Close()
}

// viewCapturesInput returns true if the active view has its own text input
// and should receive all key events (bypassing global keybindings like q/:/Esc).
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	if c, ok := v.(inputCapturer); ok {
		return c.CapturesInput()
	}
	return v.ID() == ViewForm
}

// viewFor builds the view for an allowed route.
func viewFor(state *SharedState, r route.Route) View {
	switch r.Name {
	case route.Login:
		return newLoginView(state)
	case route.Register:
		return newRegisterView(state)
	case route.Company:
		return newCompanyView(state, r.CompanyID)
	case route.Settings:
		return newSettingsView(state, r.CompanyID)
	case route.UserRoles:
		return newUserRolesView(state, r.CompanyID, r.UserID)
	case route.TeamMembers:
		return newTeamMembersView(state, r.CompanyID, r.TeamID)
	case route.TeamRoles:
		return newTeamRolesView(state, r.CompanyID, r.TeamID)
	case route.CorporateOKRs:
		return newCorporateOKRsView(state, r.CompanyID)
	case route.Teams:
		return newTeamsView(state, r.CompanyID)
	case route.Team:
		return newTeamView(state, r.CompanyID, r.TeamID)
	case route.CheckIns:
		return newCheckInsView(state, r.CompanyID, r.TeamID, r.OKRID)
	case route.CompanyStats:
		return newCompanyStatsView(state, r.CompanyID)
	case route.TeamStats:
		return newTeamStatsView(state, r.CompanyID, r.TeamID)
	}
	return newCompaniesView(state)
}
