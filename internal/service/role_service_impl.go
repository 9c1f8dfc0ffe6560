package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
)

type roleService struct {
	api      API
	observer UseCaseObserver
}

func NewRoleService(client API, observers ...UseCaseObserver) RoleService {
	return &roleService{api: client, observer: useCaseObserverOrNoop(observers)}
}

func (s *roleService) List(ctx context.Context, companyID string) ([]domain.Role, error) {
	return s.api.ListCompanyRoles(ctx, companyID)
}

func (s *roleService) Create(ctx context.Context, companyID string, role domain.Role) error {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return &progress.ValidationError{Field: "name", Message: "name is required"}
	}
	fields := map[string]any{"company_id": companyID, "role": role.Name}
	return observe(ctx, s.observer, "create-role", fields, func() error {
		return s.api.CreateCompanyRole(ctx, companyID, role)
	})
}

func (s *roleService) Delete(ctx context.Context, companyID, name string) error {
	fields := map[string]any{"company_id": companyID, "role": name}
	return observe(ctx, s.observer, "delete-role", fields, func() error {
		return s.api.DeleteCompanyRole(ctx, companyID, name)
	})
}

func (s *roleService) Rename(ctx context.Context, companyID, oldName string, role domain.Role) error {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return &progress.ValidationError{Field: "name", Message: "name is required"}
	}
	fields := map[string]any{"company_id": companyID, "from": oldName, "to": role.Name}
	return observe(ctx, s.observer, "rename-role", fields, func() error {
		if err := s.api.DeleteCompanyRole(ctx, companyID, oldName); err != nil {
			return err
		}
		if err := s.api.CreateCompanyRole(ctx, companyID, role); err != nil {
			return fmt.Errorf("role %q was removed but %q could not be created: %w", oldName, role.Name, err)
		}
		return nil
	})
}
