package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/okrdesk/okrdesk/internal/domain"
)

var fixtureCounter atomic.Int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, fixtureCounter.Add(1))
}

// ObjectiveOption customises NewTestObjective.
type ObjectiveOption func(*domain.Objective)

func WithFrozen() ObjectiveOption {
	return func(o *domain.Objective) { o.IsFrozen = true }
}

func WithProgress(p float64) ObjectiveOption {
	return func(o *domain.Objective) { o.Progress = p }
}

func WithStatus(s domain.OKRStatus) ObjectiveOption {
	return func(o *domain.Objective) { o.Status = s }
}

func WithKeyResults(krs ...domain.KeyResult) ObjectiveOption {
	return func(o *domain.Objective) { o.KeyResults = krs }
}

func WithParent(corporateOKRID string, krIndex int) ObjectiveOption {
	return func(o *domain.Objective) {
		o.ParentOKR = corporateOKRID
		o.ParentKRIndex = &krIndex
	}
}

// NewTestObjective builds an objective with one numeric key result 0→100.
func NewTestObjective(title string, opts ...ObjectiveOption) *domain.Objective {
	o := &domain.Objective{
		ID:        nextID("okr"),
		Objective: title,
		KeyResults: []domain.KeyResult{
			NewTestKeyResult("Ship", domain.MetricNumber, 0, 100, 0),
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewTestKeyResult builds a key result with progress consistent with actual.
func NewTestKeyResult(title string, metric domain.MetricType, start, target, actual float64) domain.KeyResult {
	kr := domain.KeyResult{
		Title:       title,
		MetricType:  metric,
		StartValue:  start,
		TargetValue: target,
		ActualValue: actual,
		Unit:        "tasks",
	}
	if target != start {
		kr.Progress = (actual - start) / (target - start) * 100
	}
	return kr
}

// CompanyOption customises NewTestCompany.
type CompanyOption func(*domain.Company)

func WithMembers(users ...domain.CompanyUser) CompanyOption {
	return func(c *domain.Company) { c.Users = append(c.Users, users...) }
}

func WithRoles(names ...string) CompanyOption {
	return func(c *domain.Company) {
		for _, n := range names {
			c.Roles = append(c.Roles, domain.Role{Name: n})
		}
	}
}

// NewTestCompany builds a company created by creatorID, who is also its
// first member.
func NewTestCompany(name, creatorID string, opts ...CompanyOption) *domain.Company {
	c := &domain.Company{
		ID:        nextID("company"),
		Name:      name,
		CreatedBy: creatorID,
		Users:     []domain.CompanyUser{{ID: creatorID, Roles: []string{}}},
		Roles:     []domain.Role{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTestSession returns a session for a user with the given id.
func NewTestSession(userID string) domain.Session {
	return domain.Session{
		Token: "token-" + userID,
		User:  domain.User{ID: userID, Name: "User " + userID, Email: userID + "@example.com"},
	}
}
