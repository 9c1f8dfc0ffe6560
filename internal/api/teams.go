package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/okrdesk/okrdesk/internal/domain"
)

func (c *Client) ListTeams(ctx context.Context, companyID string) ([]domain.Team, error) {
	var out struct {
		Teams []domain.Team `json:"teams"`
	}
	q := url.Values{"companyId": {companyID}}
	if err := c.do(ctx, http.MethodGet, "/teams", q, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Teams), nil
}

func (c *Client) CreateTeam(ctx context.Context, companyID, name, description string) (*domain.Team, error) {
	var out domain.Team
	body := TeamRequest{Name: name, CompanyID: companyID, Description: description}
	if err := c.do(ctx, http.MethodPost, "/teams", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	var out domain.Team
	if err := c.do(ctx, http.MethodGet, "/teams/"+seg(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/teams/"+seg(id), nil, nil, nil)
}

func (c *Client) ListTeamMembers(ctx context.Context, teamID string) ([]domain.UserDetail, error) {
	var out struct {
		Members []domain.UserDetail `json:"members"`
	}
	if err := c.do(ctx, http.MethodGet, "/teams/"+seg(teamID)+"/members", nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Members), nil
}

func (c *Client) AddTeamMembers(ctx context.Context, teamID string, userIDs []string) error {
	return c.do(ctx, http.MethodPost, "/teams/"+seg(teamID)+"/users/bulk", nil, UserIDsRequest{UserIDs: userIDs}, nil)
}

func (c *Client) RemoveTeamMembers(ctx context.Context, teamID string, userIDs []string) error {
	return c.do(ctx, http.MethodPost, "/teams/"+seg(teamID)+"/users/bulk-remove", nil, UserIDsRequest{UserIDs: userIDs}, nil)
}

func (c *Client) AddTeamRoles(ctx context.Context, teamID string, roles []string) error {
	return c.do(ctx, http.MethodPost, "/teams/"+seg(teamID)+"/roles/bulk", nil, RolesRequest{Roles: roles}, nil)
}

func (c *Client) RemoveTeamRoles(ctx context.Context, teamID string, roles []string) error {
	return c.do(ctx, http.MethodPost, "/teams/"+seg(teamID)+"/roles/bulk-remove", nil, RoleNamesRequest{RoleNames: roles}, nil)
}

// ListAssignedKeyResults returns the corporate key results the team may
// attach OKRs to.
func (c *Client) ListAssignedKeyResults(ctx context.Context, teamID string) ([]domain.AssignedKeyResult, error) {
	var out struct {
		AssignedKeyResults []domain.AssignedKeyResult `json:"assignedKeyResults"`
	}
	if err := c.do(ctx, http.MethodGet, "/teams/"+seg(teamID)+"/assigned-key-results", nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.AssignedKeyResults), nil
}
