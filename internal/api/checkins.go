package api

import (
	"context"
	"net/http"

	"github.com/okrdesk/okrdesk/internal/domain"
)

// ListCheckIns returns the check-in history of one OKR.
func (c *Client) ListCheckIns(ctx context.Context, okrID string) ([]domain.CheckIn, error) {
	var out []domain.CheckIn
	if err := c.do(ctx, http.MethodGet, "/check-ins/"+seg(okrID), nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) CreateCheckIn(ctx context.Context, req domain.CheckInRequest) (*domain.CheckIn, error) {
	var out domain.CheckIn
	if err := c.do(ctx, http.MethodPost, "/check-ins", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
