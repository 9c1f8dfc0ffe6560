package apitest

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
)

func (s *Server) companyViewLocked(c *company) domain.Company {
	view := domain.Company{
		ID:        c.id,
		Name:      c.name,
		CreatedBy: c.createdBy,
		Roles:     append([]domain.Role{}, c.roles...),
		Users:     make([]domain.CompanyUser, 0, len(c.members)),
	}
	for _, id := range c.members {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		view.Users = append(view.Users, domain.CompanyUser{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Roles: append([]string{}, c.memberRoles[id]...),
		})
	}
	return view
}

// companyForLocked resolves the {id} path value and checks that uid may see
// the company. It writes the error response itself.
func (s *Server) companyForLocked(w http.ResponseWriter, id, uid string, creatorOnly bool) (*company, bool) {
	c, ok := s.companies[id]
	if !ok {
		writeError(w, http.StatusNotFound, "company not found")
		return nil, false
	}
	if !slices.Contains(c.members, uid) {
		writeError(w, http.StatusForbidden, "not a member of this company")
		return nil, false
	}
	if creatorOnly && c.createdBy != uid {
		writeError(w, http.StatusForbidden, "only the company creator can do that")
		return nil, false
	}
	return c, true
}

func (s *Server) listCompanies(w http.ResponseWriter, _ *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := api.CompanyListEnvelope{
		CreatedCompanies: []domain.CompanySummary{},
		MemberCompanies:  []domain.CompanySummary{},
	}
	for _, id := range s.order {
		c := s.companies[id]
		if !slices.Contains(c.members, uid) {
			continue
		}
		sum := domain.CompanySummary{
			ID:        c.id,
			Name:      c.name,
			UserRoles: append([]string{}, c.memberRoles[uid]...),
			IsCreator: c.createdBy == uid,
		}
		if sum.IsCreator {
			env.CreatedCompanies = append(env.CreatedCompanies, sum)
		} else {
			env.MemberCompanies = append(env.MemberCompanies, sum)
		}
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.NameRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "company name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &company{
		id:          uuid.NewString(),
		name:        req.Name,
		createdBy:   uid,
		members:     []string{uid},
		memberRoles: map[string][]string{},
	}
	s.companies[c.id] = c
	s.order = append(s.order, c.id)
	writeJSON(w, http.StatusCreated, s.companyViewLocked(c))
}

// CreateCompany seeds a company owned by creatorID with the given members.
func (s *Server) CreateCompany(name, creatorID string, memberIDs ...string) domain.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &company{
		id:          uuid.NewString(),
		name:        name,
		createdBy:   creatorID,
		members:     append([]string{creatorID}, memberIDs...),
		memberRoles: map[string][]string{},
	}
	s.companies[c.id] = c
	s.order = append(s.order, c.id)
	return s.companyViewLocked(c)
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.companyViewLocked(c))
}

func (s *Server) listRoles(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": append([]domain.Role{}, c.roles...)})
}

func (s *Server) createRole(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.RoleRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "role name is required")
		return
	}
	for _, role := range c.roles {
		if role.Name == req.Name {
			writeError(w, http.StatusConflict, "role already exists")
			return
		}
	}
	c.roles = append(c.roles, domain.Role{Name: req.Name, Description: req.Description})
	writeJSON(w, http.StatusCreated, map[string]any{"roles": c.roles})
}

func (s *Server) deleteRole(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	name := r.PathValue("name")
	i := slices.IndexFunc(c.roles, func(role domain.Role) bool { return role.Name == name })
	if i < 0 {
		writeError(w, http.StatusNotFound, "role not found")
		return
	}
	c.roles = slices.Delete(c.roles, i, i+1)
	for id, held := range c.memberRoles {
		c.memberRoles[id] = slices.DeleteFunc(held, func(h string) bool { return h == name })
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "role deleted"})
}

func (s *Server) listCompanyUsers(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": s.companyViewLocked(c).Users})
}

func (s *Server) addCompanyUser(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.UserIDRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	if _, known := s.users[req.UserID]; !known {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if slices.Contains(c.members, req.UserID) {
		writeError(w, http.StatusConflict, "user is already a member")
		return
	}
	c.members = append(c.members, req.UserID)
	writeJSON(w, http.StatusOK, s.companyViewLocked(c))
}

func (s *Server) removeCompanyUser(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	target := r.PathValue("userId")
	if target == c.createdBy {
		writeError(w, http.StatusBadRequest, "the creator cannot be removed")
		return
	}
	i := slices.Index(c.members, target)
	if i < 0 {
		writeError(w, http.StatusNotFound, "user is not a member")
		return
	}
	c.members = slices.Delete(c.members, i, i+1)
	delete(c.memberRoles, target)
	for _, t := range s.teams {
		if t.CompanyID == c.id {
			t.Members = slices.DeleteFunc(t.Members, func(m domain.TeamMember) bool { return m.UserID == target })
		}
	}
	writeJSON(w, http.StatusOK, s.companyViewLocked(c))
}

func (s *Server) assignUserRoles(w http.ResponseWriter, r *http.Request, uid string) {
	s.editUserRoles(w, r, uid, func(held, roles []string) []string {
		for _, role := range roles {
			if !slices.Contains(held, role) {
				held = append(held, role)
			}
		}
		return held
	})
}

func (s *Server) removeUserRoles(w http.ResponseWriter, r *http.Request, uid string) {
	s.editUserRoles(w, r, uid, func(held, roles []string) []string {
		return slices.DeleteFunc(held, func(h string) bool { return slices.Contains(roles, h) })
	})
}

func (s *Server) editUserRoles(w http.ResponseWriter, r *http.Request, uid string, apply func(held, roles []string) []string) {
	var req api.RolesRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	target := r.PathValue("userId")
	if !slices.Contains(c.members, target) {
		writeError(w, http.StatusNotFound, "user is not a member")
		return
	}
	for _, role := range req.Roles {
		if !slices.ContainsFunc(c.roles, func(cr domain.Role) bool { return cr.Name == role }) {
			writeError(w, http.StatusBadRequest, "unknown role "+role)
			return
		}
	}
	c.memberRoles[target] = apply(c.memberRoles[target], req.Roles)
	writeJSON(w, http.StatusOK, s.companyViewLocked(c))
}
