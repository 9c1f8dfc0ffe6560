package service

import (
	"context"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
)

type memberService struct {
	api      API
	observer UseCaseObserver
}

func NewMemberService(client API, observers ...UseCaseObserver) MemberService {
	return &memberService{api: client, observer: useCaseObserverOrNoop(observers)}
}

func (s *memberService) List(ctx context.Context, companyID string) ([]domain.CompanyUser, error) {
	return s.api.ListCompanyUsers(ctx, companyID)
}

func (s *memberService) Add(ctx context.Context, companyID, userID string) error {
	fields := map[string]any{"company_id": companyID, "user_id": userID}
	return observe(ctx, s.observer, "add-member", fields, func() error {
		return s.api.AddCompanyUser(ctx, companyID, userID)
	})
}

func (s *memberService) Remove(ctx context.Context, companyID, userID string) error {
	fields := map[string]any{"company_id": companyID, "user_id": userID}
	return observe(ctx, s.observer, "remove-member", fields, func() error {
		return s.api.RemoveCompanyUser(ctx, companyID, userID)
	})
}

func (s *memberService) AssignRoles(ctx context.Context, companyID, userID string, roles []string) error {
	roles = cleanNames(roles)
	if len(roles) == 0 {
		return &progress.ValidationError{Field: "roles", Message: "select at least one role"}
	}
	fields := map[string]any{"company_id": companyID, "user_id": userID, "count": len(roles)}
	return observe(ctx, s.observer, "assign-user-roles", fields, func() error {
		return s.api.AssignUserRoles(ctx, companyID, userID, roles)
	})
}

func (s *memberService) RemoveRoles(ctx context.Context, companyID, userID string, roles []string) error {
	roles = cleanNames(roles)
	if len(roles) == 0 {
		return &progress.ValidationError{Field: "roles", Message: "select at least one role"}
	}
	fields := map[string]any{"company_id": companyID, "user_id": userID, "count": len(roles)}
	return observe(ctx, s.observer, "remove-user-roles", fields, func() error {
		return s.api.RemoveUserRoles(ctx, companyID, userID, roles)
	})
}

// Search finds users by partial email. Blank queries return nothing
// without a request.
func (s *memberService) Search(ctx context.Context, partial string) ([]domain.UserDetail, error) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return []domain.UserDetail{}, nil
	}
	return s.api.SearchUsers(ctx, partial)
}

func (s *memberService) Candidates(ctx context.Context, companyID string) ([]domain.UserDetail, error) {
	return s.api.ListUsersByCompany(ctx, companyID)
}

func (s *memberService) User(ctx context.Context, id string) (*domain.UserDetail, error) {
	return s.api.GetUser(ctx, id)
}

// cleanNames trims entries and drops blanks and duplicates, keeping order.
func cleanNames(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
