package apitest

import (
	"net/http"
	"slices"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
)

func detail(u *user) domain.UserDetail {
	return domain.UserDetail{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (s *Server) searchUsers(w http.ResponseWriter, r *http.Request, _ string) {
	partial := strings.ToLower(r.PathValue("partial"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.UserDetail{}
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Email), partial) {
			out = append(out, detail(u))
		}
	}
	slices.SortFunc(out, func(a, b domain.UserDetail) int { return strings.Compare(a.Email, b.Email) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, detail(u))
}

func (s *Server) usersByCompany(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	out := make([]domain.UserDetail, 0, len(c.members))
	for _, id := range c.members {
		if u, ok := s.users[id]; ok {
			d := detail(u)
			d.Roles = append([]string{}, c.memberRoles[id]...)
			out = append(out, d)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}
