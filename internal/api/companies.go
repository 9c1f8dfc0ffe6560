package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/okrdesk/okrdesk/internal/domain"
)

// ListCompanies returns the companies the user created or belongs to. The
// endpoint answers with either a bare array or a created/member envelope;
// both decode to one slice, created companies first.
func (c *Client) ListCompanies(ctx context.Context) ([]domain.CompanySummary, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/companies", nil, nil)
	if err != nil {
		return nil, err
	}
	return DecodeCompanyList(raw)
}

// DecodeCompanyList decodes either company list shape.
func DecodeCompanyList(raw []byte) ([]domain.CompanySummary, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []domain.CompanySummary{}, nil
	}
	if raw[0] == '[' {
		var list []domain.CompanySummary
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decoding company list: %w", err)
		}
		return list, nil
	}
	var env CompanyListEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding company list: %w", err)
	}
	out := make([]domain.CompanySummary, 0, len(env.CreatedCompanies)+len(env.MemberCompanies))
	out = append(out, env.CreatedCompanies...)
	out = append(out, env.MemberCompanies...)
	return out, nil
}

func (c *Client) CreateCompany(ctx context.Context, name string) (*domain.Company, error) {
	var out domain.Company
	if err := c.do(ctx, http.MethodPost, "/companies", nil, NameRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	var out domain.Company
	if err := c.do(ctx, http.MethodGet, "/companies/"+seg(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCompanyRoles(ctx context.Context, companyID string) ([]domain.Role, error) {
	var out struct {
		Roles []domain.Role `json:"roles"`
	}
	if err := c.do(ctx, http.MethodGet, "/companies/"+seg(companyID)+"/roles", nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Roles), nil
}

func (c *Client) CreateCompanyRole(ctx context.Context, companyID string, role domain.Role) error {
	body := RoleRequest{Name: role.Name, Description: role.Description}
	return c.do(ctx, http.MethodPost, "/companies/"+seg(companyID)+"/roles", nil, body, nil)
}

// DeleteCompanyRole removes a role by name; roles have no other identity.
func (c *Client) DeleteCompanyRole(ctx context.Context, companyID, name string) error {
	return c.do(ctx, http.MethodDelete, "/companies/"+seg(companyID)+"/roles/"+seg(name), nil, nil, nil)
}

func (c *Client) ListCompanyUsers(ctx context.Context, companyID string) ([]domain.CompanyUser, error) {
	var out struct {
		Users []domain.CompanyUser `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/companies/"+seg(companyID)+"/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Users), nil
}

func (c *Client) AddCompanyUser(ctx context.Context, companyID, userID string) error {
	return c.do(ctx, http.MethodPost, "/companies/"+seg(companyID)+"/users", nil, UserIDRequest{UserID: userID}, nil)
}

func (c *Client) RemoveCompanyUser(ctx context.Context, companyID, userID string) error {
	return c.do(ctx, http.MethodDelete, "/companies/"+seg(companyID)+"/users/"+seg(userID), nil, nil, nil)
}

func (c *Client) AssignUserRoles(ctx context.Context, companyID, userID string, roles []string) error {
	path := "/companies/" + seg(companyID) + "/users/" + seg(userID) + "/roles/bulk-assign"
	return c.do(ctx, http.MethodPost, path, nil, RolesRequest{Roles: roles}, nil)
}

func (c *Client) RemoveUserRoles(ctx context.Context, companyID, userID string, roles []string) error {
	path := "/companies/" + seg(companyID) + "/users/" + seg(userID) + "/roles/bulk-remove"
	return c.do(ctx, http.MethodPost, path, nil, RolesRequest{Roles: roles}, nil)
}

// nonNil turns a missing collection into an empty one so callers can tell
// "loaded, nothing there" from "not loaded".
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
