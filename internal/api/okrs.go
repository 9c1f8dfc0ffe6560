package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/okrdesk/okrdesk/internal/domain"
)

func (c *Client) ListCorporateOKRs(ctx context.Context, companyID string) ([]domain.Objective, error) {
	var out struct {
		CorporateOKRs []domain.Objective `json:"corporateOKRs"`
	}
	if err := c.do(ctx, http.MethodGet, "/companies/"+seg(companyID)+"/corporate-okrs", nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.CorporateOKRs), nil
}

func (c *Client) CreateCorporateOKR(ctx context.Context, companyID string, in ObjectiveInput) (*domain.Objective, error) {
	return c.createObjective(ctx, "/companies/"+seg(companyID)+"/corporate-okrs", in)
}

func (c *Client) ListTeamOKRs(ctx context.Context, teamID string) ([]domain.Objective, error) {
	var out struct {
		OKRs []domain.Objective `json:"okrs"`
	}
	if err := c.do(ctx, http.MethodGet, "/teams/"+seg(teamID)+"/okrs", nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.OKRs), nil
}

func (c *Client) CreateTeamOKR(ctx context.Context, teamID string, in ObjectiveInput) (*domain.Objective, error) {
	return c.createObjective(ctx, "/teams/"+seg(teamID)+"/okrs", in)
}

func (c *Client) createObjective(ctx context.Context, path string, in ObjectiveInput) (*domain.Objective, error) {
	raw, err := c.doRaw(ctx, http.MethodPost, path, nil, in)
	if err != nil {
		return nil, err
	}
	var env objectiveEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding POST %s response: %w", path, err)
	}
	switch {
	case env.OKR != nil:
		return env.OKR, nil
	case env.CorporateOKR != nil:
		return env.CorporateOKR, nil
	}
	var bare domain.Objective
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, fmt.Errorf("decoding POST %s response: %w", path, err)
	}
	return &bare, nil
}

// GetOKR fetches a single objective, corporate or team.
func (c *Client) GetOKR(ctx context.Context, id string) (*domain.Objective, error) {
	var out domain.Objective
	if err := c.do(ctx, http.MethodGet, "/okrs/"+seg(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FreezeCorporateOKR(ctx context.Context, id string, frozen bool) error {
	return c.do(ctx, http.MethodPatch, "/corporate-okrs/"+seg(id)+"/freeze", nil, FreezeRequest{IsFrozen: frozen}, nil)
}

func (c *Client) FreezeOKR(ctx context.Context, id string, frozen bool) error {
	return c.do(ctx, http.MethodPatch, "/okrs/"+seg(id)+"/freeze", nil, FreezeRequest{IsFrozen: frozen}, nil)
}

func (c *Client) SetOKRStatus(ctx context.Context, id string, status domain.OKRStatus) error {
	return c.do(ctx, http.MethodPatch, "/okrs/"+seg(id)+"/status", nil, StatusRequest{Status: status}, nil)
}

// AssignKeyResultTeams sets which teams may attach OKRs to corporate key
// result krIndex.
func (c *Client) AssignKeyResultTeams(ctx context.Context, corporateOKRID string, krIndex int, teamIDs []string) error {
	path := "/corporate-okrs/" + seg(corporateOKRID) + "/key-results/" + strconv.Itoa(krIndex) + "/teams"
	return c.do(ctx, http.MethodPost, path, nil, TeamsRequest{Teams: teamIDs}, nil)
}

func (c *Client) GetCorporateKeyResult(ctx context.Context, corporateOKRID string, krIndex int) (*domain.CorporateKeyResultView, error) {
	var out domain.CorporateKeyResultView
	path := "/corporate-okrs/" + seg(corporateOKRID) + "/key-results/" + strconv.Itoa(krIndex)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LinkToCorporate(ctx context.Context, okrID, corporateOKRID string, krIndex int) error {
	body := LinkRequest{CorporateOKRID: corporateOKRID, KRIndex: krIndex}
	return c.do(ctx, http.MethodPost, "/okrs/"+seg(okrID)+"/link-to-corporate", nil, body, nil)
}
