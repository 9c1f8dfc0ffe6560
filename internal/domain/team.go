package domain

type TeamMember struct {
	UserID string `json:"userId"`
	ID     string `json:"id"`
}

type Team struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	CompanyID     string       `json:"companyId"`
	CreatedBy     string       `json:"createdBy"`
	Members       []TeamMember `json:"members"`
	RequiredRoles []string     `json:"requiredRoles"`
}

// HasMember reports whether userID belongs to the team.
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TeamRef is the short team form embedded in key-result views.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
