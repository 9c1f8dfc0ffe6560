package domain

// Role is identified by its name within a company.
type Role struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CompanyUser is a company member together with the company roles it holds.
type CompanyUser struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type Company struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedBy string        `json:"createdBy"`
	Roles     []Role        `json:"roles"`
	Users     []CompanyUser `json:"users"`
}

// IsCreator reports whether the session's user created the company.
// It is derived on every call and never stored.
func IsCreator(c *Company, s Session) bool {
	if c == nil || s.User.ID == "" {
		return false
	}
	return c.CreatedBy == s.User.ID
}

// Member returns the company user with the given id.
func (c *Company) Member(userID string) (CompanyUser, bool) {
	for _, u := range c.Users {
		if u.ID == userID {
			return u, true
		}
	}
	return CompanyUser{}, false
}

// HasRole reports whether the company defines a role with the given name.
func (c *Company) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// CompanySummary is one entry of the company list endpoint.
type CompanySummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	UserRoles []string `json:"userRoles,omitempty"`
	UserRole  string   `json:"userRole,omitempty"`
	IsCreator bool     `json:"isCreator"`
}

// Roles returns the summary's roles, accepting either the list or the
// single-role form.
func (s CompanySummary) Roles() []string {
	if len(s.UserRoles) > 0 {
		return s.UserRoles
	}
	if s.UserRole != "" {
		return []string{s.UserRole}
	}
	return []string{}
}

// CompanyCard is what the companies screen renders for each company.
type CompanyCard struct {
	ID          string
	Name        string
	Roles       []string
	IsCreator   bool
	MemberCount int
}
