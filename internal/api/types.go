package api

import "github.com/okrdesk/okrdesk/internal/domain"

// Request and response bodies shared by the client and the test backend.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type CompanyListEnvelope struct {
	CreatedCompanies []domain.CompanySummary `json:"createdCompanies"`
	MemberCompanies  []domain.CompanySummary `json:"memberCompanies"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type RoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UserIDRequest struct {
	UserID string `json:"userId"`
}

type UserIDsRequest struct {
	UserIDs []string `json:"userIds"`
}

type RolesRequest struct {
	Roles []string `json:"roles"`
}

type RoleNamesRequest struct {
	RoleNames []string `json:"roleNames"`
}

type TeamRequest struct {
	Name        string `json:"name"`
	CompanyID   string `json:"companyId"`
	Description string `json:"description,omitempty"`
}

// KeyResultInput is a key result as submitted on OKR creation.
type KeyResultInput struct {
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	MetricType  domain.MetricType `json:"metricType" yaml:"metricType"`
	StartValue  float64           `json:"startValue" yaml:"startValue"`
	TargetValue float64           `json:"targetValue" yaml:"targetValue"`
	Unit        string            `json:"unit" yaml:"unit"`
	Teams       []string          `json:"teams,omitempty" yaml:"teams"`
}

// ObjectiveInput is the body for corporate and team OKR creation.
type ObjectiveInput struct {
	Objective     string           `json:"objective" yaml:"objective"`
	Description   string           `json:"description" yaml:"description"`
	Deadline      string           `json:"deadline,omitempty" yaml:"deadline"`
	KeyResults    []KeyResultInput `json:"keyResults" yaml:"keyResults"`
	ParentOKR     string           `json:"parentOKR,omitempty" yaml:"-"`
	ParentKRIndex *int             `json:"parentKRIndex,omitempty" yaml:"-"`
}

type FreezeRequest struct {
	IsFrozen bool `json:"isFrozen"`
}

type StatusRequest struct {
	Status domain.OKRStatus `json:"status"`
}

type TeamsRequest struct {
	Teams []string `json:"teams"`
}

type LinkRequest struct {
	CorporateOKRID string `json:"corporateOKRId"`
	KRIndex        int    `json:"krIndex"`
}

// objectiveEnvelope accepts {okr}, {corporateOKR} or a bare objective.
type objectiveEnvelope struct {
	OKR          *domain.Objective `json:"okr"`
	CorporateOKR *domain.Objective `json:"corporateOKR"`
}
