package api

import (
	"context"
	"net/http"

	"github.com/okrdesk/okrdesk/internal/domain"
)

// SearchUsers finds users whose email contains partial.
func (c *Client) SearchUsers(ctx context.Context, partial string) ([]domain.UserDetail, error) {
	var out []domain.UserDetail
	if err := c.do(ctx, http.MethodGet, "/users/email/"+seg(partial), nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*domain.UserDetail, error) {
	var out domain.UserDetail
	if err := c.do(ctx, http.MethodGet, "/users/"+seg(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsersByCompany(ctx context.Context, companyID string) ([]domain.UserDetail, error) {
	var out struct {
		Users []domain.UserDetail `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/company/"+seg(companyID), nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Users), nil
}
