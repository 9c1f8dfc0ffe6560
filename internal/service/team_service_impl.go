package service

import (
	"context"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
	"golang.org/x/sync/errgroup"
)

type teamService struct {
	api      API
	observer UseCaseObserver
}

func NewTeamService(client API, observers ...UseCaseObserver) TeamService {
	return &teamService{api: client, observer: useCaseObserverOrNoop(observers)}
}

func (s *teamService) List(ctx context.Context, companyID string) ([]domain.Team, error) {
	return s.api.ListTeams(ctx, companyID)
}

func (s *teamService) Get(ctx context.Context, teamID string) (*domain.Team, error) {
	return s.api.GetTeam(ctx, teamID)
}

// Detail loads the team and its member profiles concurrently.
func (s *teamService) Detail(ctx context.Context, teamID string) (*TeamDetail, error) {
	var (
		team    *domain.Team
		members []domain.UserDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		team, err = s.api.GetTeam(gctx, teamID)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.api.ListTeamMembers(gctx, teamID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &TeamDetail{Team: *team, Members: members}, nil
}

func (s *teamService) Create(ctx context.Context, companyID, name, description string) (team *domain.Team, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &progress.ValidationError{Field: "name", Message: "name is required"}
	}
	fields := map[string]any{"company_id": companyID, "name": name}
	err = observe(ctx, s.observer, "create-team", fields, func() error {
		team, err = s.api.CreateTeam(ctx, companyID, name, strings.TrimSpace(description))
		return err
	})
	return team, err
}

func (s *teamService) Delete(ctx context.Context, teamID string) error {
	return observe(ctx, s.observer, "delete-team", map[string]any{"team_id": teamID}, func() error {
		return s.api.DeleteTeam(ctx, teamID)
	})
}

func (s *teamService) AddMembers(ctx context.Context, teamID string, userIDs []string) error {
	return s.bulk(ctx, "add-team-members", "users", teamID, userIDs, s.api.AddTeamMembers)
}

func (s *teamService) RemoveMembers(ctx context.Context, teamID string, userIDs []string) error {
	return s.bulk(ctx, "remove-team-members", "users", teamID, userIDs, s.api.RemoveTeamMembers)
}

func (s *teamService) AddRoles(ctx context.Context, teamID string, roles []string) error {
	return s.bulk(ctx, "add-team-roles", "roles", teamID, roles, s.api.AddTeamRoles)
}

func (s *teamService) RemoveRoles(ctx context.Context, teamID string, roles []string) error {
	return s.bulk(ctx, "remove-team-roles", "roles", teamID, roles, s.api.RemoveTeamRoles)
}

func (s *teamService) bulk(ctx context.Context, name, field, teamID string, values []string,
	call func(context.Context, string, []string) error) error {
	values = cleanNames(values)
	if len(values) == 0 {
		return &progress.ValidationError{Field: field, Message: "select at least one entry"}
	}
	fields := map[string]any{"team_id": teamID, "count": len(values)}
	return observe(ctx, s.observer, name, fields, func() error {
		return call(ctx, teamID, values)
	})
}

func (s *teamService) AssignedKeyResults(ctx context.Context, teamID string) ([]domain.AssignedKeyResult, error) {
	return s.api.ListAssignedKeyResults(ctx, teamID)
}
