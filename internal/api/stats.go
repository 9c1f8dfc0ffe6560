package api

import (
	"context"
	"net/http"

	"github.com/okrdesk/okrdesk/internal/domain"
)

func (c *Client) CompanyStats(ctx context.Context, companyID string) (*domain.CompanyStats, error) {
	var out domain.CompanyStats
	if err := c.do(ctx, http.MethodGet, "/companies/"+seg(companyID)+"/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TeamStats(ctx context.Context, teamID string) (*domain.TeamStats, error) {
	var out domain.TeamStats
	if err := c.do(ctx, http.MethodGet, "/teams/"+seg(teamID)+"/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
