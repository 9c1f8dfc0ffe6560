package service

import (
	"context"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
)

// API is the subset of the REST client the services call. *api.Client
// satisfies it.
type API interface {
	ListCompanies(ctx context.Context) ([]domain.CompanySummary, error)
	CreateCompany(ctx context.Context, name string) (*domain.Company, error)
	GetCompany(ctx context.Context, id string) (*domain.Company, error)

	ListCompanyRoles(ctx context.Context, companyID string) ([]domain.Role, error)
	CreateCompanyRole(ctx context.Context, companyID string, role domain.Role) error
	DeleteCompanyRole(ctx context.Context, companyID, name string) error

	ListCompanyUsers(ctx context.Context, companyID string) ([]domain.CompanyUser, error)
	AddCompanyUser(ctx context.Context, companyID, userID string) error
	RemoveCompanyUser(ctx context.Context, companyID, userID string) error
	AssignUserRoles(ctx context.Context, companyID, userID string, roles []string) error
	RemoveUserRoles(ctx context.Context, companyID, userID string, roles []string) error

	ListTeams(ctx context.Context, companyID string) ([]domain.Team, error)
	CreateTeam(ctx context.Context, companyID, name, description string) (*domain.Team, error)
	GetTeam(ctx context.Context, id string) (*domain.Team, error)
	DeleteTeam(ctx context.Context, id string) error
	ListTeamMembers(ctx context.Context, teamID string) ([]domain.UserDetail, error)
	AddTeamMembers(ctx context.Context, teamID string, userIDs []string) error
	RemoveTeamMembers(ctx context.Context, teamID string, userIDs []string) error
	AddTeamRoles(ctx context.Context, teamID string, roles []string) error
	RemoveTeamRoles(ctx context.Context, teamID string, roles []string) error
	ListAssignedKeyResults(ctx context.Context, teamID string) ([]domain.AssignedKeyResult, error)

	ListCorporateOKRs(ctx context.Context, companyID string) ([]domain.Objective, error)
	CreateCorporateOKR(ctx context.Context, companyID string, in api.ObjectiveInput) (*domain.Objective, error)
	ListTeamOKRs(ctx context.Context, teamID string) ([]domain.Objective, error)
	CreateTeamOKR(ctx context.Context, teamID string, in api.ObjectiveInput) (*domain.Objective, error)
	GetOKR(ctx context.Context, id string) (*domain.Objective, error)
	FreezeCorporateOKR(ctx context.Context, id string, frozen bool) error
	FreezeOKR(ctx context.Context, id string, frozen bool) error
	SetOKRStatus(ctx context.Context, id string, status domain.OKRStatus) error
	AssignKeyResultTeams(ctx context.Context, corporateOKRID string, krIndex int, teamIDs []string) error
	GetCorporateKeyResult(ctx context.Context, corporateOKRID string, krIndex int) (*domain.CorporateKeyResultView, error)
	LinkToCorporate(ctx context.Context, okrID, corporateOKRID string, krIndex int) error

	ListCheckIns(ctx context.Context, okrID string) ([]domain.CheckIn, error)
	CreateCheckIn(ctx context.Context, req domain.CheckInRequest) (*domain.CheckIn, error)

	CompanyStats(ctx context.Context, companyID string) (*domain.CompanyStats, error)
	TeamStats(ctx context.Context, teamID string) (*domain.TeamStats, error)

	SearchUsers(ctx context.Context, partial string) ([]domain.UserDetail, error)
	GetUser(ctx context.Context, id string) (*domain.UserDetail, error)
	ListUsersByCompany(ctx context.Context, companyID string) ([]domain.UserDetail, error)
}

var _ API = (*api.Client)(nil)

type CompanyService interface {
	// Cards lists the user's companies with member counts. Details are
	// fetched concurrently and one failure fails the whole list. Creator
	// status is derived from each detail record and the session user.
	Cards(ctx context.Context, session domain.Session) ([]domain.CompanyCard, error)
	List(ctx context.Context) ([]domain.CompanySummary, error)
	Create(ctx context.Context, name string) (*domain.Company, error)
	Get(ctx context.Context, id string) (*domain.Company, error)
	// Resolve accepts a company id or a (fuzzy) name.
	Resolve(ctx context.Context, ref string) (*domain.CompanySummary, error)
}

type RoleService interface {
	List(ctx context.Context, companyID string) ([]domain.Role, error)
	Create(ctx context.Context, companyID string, role domain.Role) error
	Delete(ctx context.Context, companyID, name string) error
	// Rename deletes the old role and creates the new one; role identity is
	// the name.
	Rename(ctx context.Context, companyID, oldName string, role domain.Role) error
}

type MemberService interface {
	List(ctx context.Context, companyID string) ([]domain.CompanyUser, error)
	Add(ctx context.Context, companyID, userID string) error
	Remove(ctx context.Context, companyID, userID string) error
	AssignRoles(ctx context.Context, companyID, userID string, roles []string) error
	RemoveRoles(ctx context.Context, companyID, userID string, roles []string) error
	Search(ctx context.Context, partial string) ([]domain.UserDetail, error)
	Candidates(ctx context.Context, companyID string) ([]domain.UserDetail, error)
	User(ctx context.Context, id string) (*domain.UserDetail, error)
}

// TeamDetail is a team together with its member profiles.
type TeamDetail struct {
	Team    domain.Team
	Members []domain.UserDetail
}

type TeamService interface {
	List(ctx context.Context, companyID string) ([]domain.Team, error)
	Get(ctx context.Context, teamID string) (*domain.Team, error)
	Detail(ctx context.Context, teamID string) (*TeamDetail, error)
	Create(ctx context.Context, companyID, name, description string) (*domain.Team, error)
	Delete(ctx context.Context, teamID string) error
	AddMembers(ctx context.Context, teamID string, userIDs []string) error
	RemoveMembers(ctx context.Context, teamID string, userIDs []string) error
	AddRoles(ctx context.Context, teamID string, roles []string) error
	RemoveRoles(ctx context.Context, teamID string, roles []string) error
	AssignedKeyResults(ctx context.Context, teamID string) ([]domain.AssignedKeyResult, error)
}

type OKRService interface {
	ListCorporate(ctx context.Context, companyID string) ([]domain.Objective, error)
	CreateCorporate(ctx context.Context, companyID string, in api.ObjectiveInput) (*domain.Objective, error)
	// ListTeam returns the team's OKRs, each enriched with its attached
	// corporate key result when that lookup succeeds.
	ListTeam(ctx context.Context, teamID string) ([]domain.TeamOKR, error)
	CreateTeam(ctx context.Context, teamID string, in api.ObjectiveInput) (*domain.TeamOKR, error)
	Get(ctx context.Context, okrID string) (*domain.Objective, error)
	SetFrozen(ctx context.Context, okrID string, frozen, corporate bool) error
	SetStatus(ctx context.Context, okrID string, status domain.OKRStatus) error
	Link(ctx context.Context, okrID, corporateOKRID string, krIndex int) error
	AssignTeams(ctx context.Context, corporateOKRID string, krIndex int, teamIDs []string) error
	KeyResult(ctx context.Context, corporateOKRID string, krIndex int) (*domain.CorporateKeyResultView, error)
}

type CheckInService interface {
	List(ctx context.Context, okrID string) ([]domain.CheckIn, error)
	// Draft fetches the OKR and seeds a check-in draft from it.
	Draft(ctx context.Context, okrID string) (*progress.Draft, error)
	// Submit validates locally and only then posts the check-in.
	Submit(ctx context.Context, draft *progress.Draft) (*domain.CheckIn, error)
}

type StatsService interface {
	Company(ctx context.Context, companyID string) (*domain.CompanyStats, error)
	Team(ctx context.Context, teamID string) (*domain.TeamStats, error)
}
