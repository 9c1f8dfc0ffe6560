// Package route names the screens of the terminal UI with the same
// path-like addresses the web front end used, e.g. /companies/:id/okrs.
package route

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRoute is returned by Parse for paths that name no screen.
var ErrUnknownRoute = errors.New("unknown route")

// Name identifies a screen independent of its parameters.
type Name string

const (
	Login         Name = "login"
	Register      Name = "register"
	Companies     Name = "companies"
	Company       Name = "company"
	Settings      Name = "settings"
	UserRoles     Name = "user-roles"
	TeamMembers   Name = "team-members"
	TeamRoles     Name = "team-roles"
	CorporateOKRs Name = "corporate-okrs"
	Teams         Name = "teams"
	Team          Name = "team"
	CheckIns      Name = "check-ins"
	CompanyStats  Name = "company-stats"
	TeamStats     Name = "team-stats"
)

// Route is a screen address with its parameters filled in.
type Route struct {
	Name      Name
	CompanyID string
	TeamID    string
	UserID    string
	OKRID     string
}

func ToLogin() Route     { return Route{Name: Login} }
func ToRegister() Route  { return Route{Name: Register} }
func ToCompanies() Route { return Route{Name: Companies} }

func ToCompany(companyID string) Route {
	return Route{Name: Company, CompanyID: companyID}
}
func ToSettings(companyID string) Route {
	return Route{Name: Settings, CompanyID: companyID}
}
func ToUserRoles(companyID, userID string) Route {
	return Route{Name: UserRoles, CompanyID: companyID, UserID: userID}
}
func ToTeamMembers(companyID, teamID string) Route {
	return Route{Name: TeamMembers, CompanyID: companyID, TeamID: teamID}
}
func ToTeamRoles(companyID, teamID string) Route {
	return Route{Name: TeamRoles, CompanyID: companyID, TeamID: teamID}
}
func ToCorporateOKRs(companyID string) Route {
	return Route{Name: CorporateOKRs, CompanyID: companyID}
}
func ToTeams(companyID string) Route {
	return Route{Name: Teams, CompanyID: companyID}
}
func ToTeam(companyID, teamID string) Route {
	return Route{Name: Team, CompanyID: companyID, TeamID: teamID}
}
func ToCheckIns(companyID, teamID, okrID string) Route {
	return Route{Name: CheckIns, CompanyID: companyID, TeamID: teamID, OKRID: okrID}
}
func ToCompanyStats(companyID string) Route {
	return Route{Name: CompanyStats, CompanyID: companyID}
}
func ToTeamStats(companyID, teamID string) Route {
	return Route{Name: TeamStats, CompanyID: companyID, TeamID: teamID}
}

// Public reports whether the screen is reachable without a session.
func (r Route) Public() bool {
	return r.Name == Login || r.Name == Register
}

// CreatorOnly reports whether the screen is in the company settings
// subtree, which only the company creator may open.
func (r Route) CreatorOnly() bool {
	switch r.Name {
	case Settings, UserRoles, TeamMembers, TeamRoles:
		return true
	}
	return false
}

// Path renders the route back to its address.
func (r Route) Path() string {
	c := "/companies/" + r.CompanyID
	switch r.Name {
	case Login:
		return "/login"
	case Register:
		return "/register"
	case Companies:
		return "/"
	case Company:
		return c
	case Settings:
		return c + "/settings"
	case UserRoles:
		return c + "/settings/users/" + r.UserID + "/roles"
	case TeamMembers:
		return c + "/settings/teams/" + r.TeamID + "/members"
	case TeamRoles:
		return c + "/settings/teams/" + r.TeamID + "/roles"
	case CorporateOKRs:
		return c + "/okrs"
	case Teams:
		return c + "/teams"
	case Team:
		return c + "/teams/" + r.TeamID
	case CheckIns:
		return c + "/teams/" + r.TeamID + "/okrs/" + r.OKRID
	case CompanyStats:
		return c + "/statistics"
	case TeamStats:
		return c + "/teams/" + r.TeamID + "/statistics"
	}
	return "/"
}

func (r Route) String() string { return r.Path() }

// Parse turns an address into a Route. Trailing slashes are ignored.
func Parse(path string) (Route, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return ToCompanies(), nil
	}
	parts := strings.Split(trimmed, "/")
	for _, p := range parts {
		if p == "" {
			return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
		}
	}

	switch {
	case len(parts) == 1 && parts[0] == "login":
		return ToLogin(), nil
	case len(parts) == 1 && parts[0] == "register":
		return ToRegister(), nil
	case parts[0] != "companies" || len(parts) < 2:
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	id, rest := parts[1], parts[2:]
	switch len(rest) {
	case 0:
		return ToCompany(id), nil
	case 1:
		switch rest[0] {
		case "settings":
			return ToSettings(id), nil
		case "okrs":
			return ToCorporateOKRs(id), nil
		case "teams":
			return ToTeams(id), nil
		case "statistics":
			return ToCompanyStats(id), nil
		}
	case 2:
		if rest[0] == "teams" {
			return ToTeam(id, rest[1]), nil
		}
	case 3:
		if rest[0] == "teams" && rest[2] == "statistics" {
			return ToTeamStats(id, rest[1]), nil
		}
	case 4:
		switch {
		case rest[0] == "settings" && rest[1] == "users" && rest[3] == "roles":
			return ToUserRoles(id, rest[2]), nil
		case rest[0] == "settings" && rest[1] == "teams" && rest[3] == "members":
			return ToTeamMembers(id, rest[2]), nil
		case rest[0] == "settings" && rest[1] == "teams" && rest[3] == "roles":
			return ToTeamRoles(id, rest[2]), nil
		case rest[0] == "teams" && rest[2] == "okrs":
			return ToCheckIns(id, rest[1], rest[3]), nil
		}
	}
	return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}
