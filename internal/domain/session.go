package domain

// User is the cached profile of the signed-in user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session pairs the bearer token with the profile returned at login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether both halves of the pair are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != ""
}

// UserDetail is the full user record returned by the user lookup endpoints.
type UserDetail struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// DisplayName returns the name, falling back to the email.
func (u UserDetail) DisplayName() string {
	return CoalesceStr(u.Name, u.Email, u.ID)
}
