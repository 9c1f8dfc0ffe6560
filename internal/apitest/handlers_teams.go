package apitest

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
)

// teamForLocked resolves a team and checks company membership. Mutations
// additionally require the company creator.
func (s *Server) teamForLocked(w http.ResponseWriter, id, uid string, creatorOnly bool) (*domain.Team, *company, bool) {
	t, ok := s.teams[id]
	if !ok {
		writeError(w, http.StatusNotFound, "team not found")
		return nil, nil, false
	}
	c, ok := s.companyForLocked(w, t.CompanyID, uid, creatorOnly)
	if !ok {
		return nil, nil, false
	}
	return t, c, true
}

func cloneTeam(t *domain.Team) domain.Team {
	out := *t
	out.Members = append([]domain.TeamMember{}, t.Members...)
	out.RequiredRoles = append([]string{}, t.RequiredRoles...)
	return out
}

// CreateTeam seeds a team with the given members.
func (s *Server) CreateTeam(companyID, name string, memberIDs ...string) domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.companies[companyID]
	t := &domain.Team{ID: uuid.NewString(), Name: name, CompanyID: companyID, RequiredRoles: []string{}}
	if c != nil {
		t.CreatedBy = c.createdBy
	}
	for _, id := range memberIDs {
		t.Members = append(t.Members, domain.TeamMember{ID: uuid.NewString(), UserID: id})
	}
	s.teams[t.ID] = t
	return cloneTeam(t)
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request, uid string) {
	companyID := r.URL.Query().Get("companyId")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companyForLocked(w, companyID, uid, false); !ok {
		return
	}
	teams := []domain.Team{}
	for _, t := range s.teams {
		if t.CompanyID == companyID {
			teams = append(teams, cloneTeam(t))
		}
	}
	slices.SortFunc(teams, func(a, b domain.Team) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	writeJSON(w, http.StatusOK, map[string]any{"teams": teams})
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.TeamRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companyForLocked(w, req.CompanyID, uid, true); !ok {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "team name is required")
		return
	}
	t := &domain.Team{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Description:   req.Description,
		CompanyID:     req.CompanyID,
		CreatedBy:     uid,
		Members:       []domain.TeamMember{},
		RequiredRoles: []string{},
	}
	s.teams[t.ID] = t
	writeJSON(w, http.StatusCreated, cloneTeam(t))
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.teamForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cloneTeam(t))
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.teamForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	delete(s.teams, t.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "team deleted"})
}

func (s *Server) listTeamMembers(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, c, ok := s.teamForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	members := make([]domain.UserDetail, 0, len(t.Members))
	for _, m := range t.Members {
		if u, ok := s.users[m.UserID]; ok {
			members = append(members, domain.UserDetail{
				ID:    u.ID,
				Name:  u.Name,
				Email: u.Email,
				Roles: append([]string{}, c.memberRoles[u.ID]...),
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (s *Server) addTeamMembers(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.UserIDsRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, c, ok := s.teamForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	for _, id := range req.UserIDs {
		if !slices.Contains(c.members, id) {
			writeError(w, http.StatusBadRequest, "user "+id+" is not a company member")
			return
		}
	}
	for _, id := range req.UserIDs {
		if !t.HasMember(id) {
			t.Members = append(t.Members, domain.TeamMember{ID: uuid.NewString(), UserID: id})
		}
	}
	writeJSON(w, http.StatusOK, cloneTeam(t))
}

func (s *Server) removeTeamMembers(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.UserIDsRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.teamForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	t.Members = slices.DeleteFunc(t.Members, func(m domain.TeamMember) bool {
		return slices.Contains(req.UserIDs, m.UserID)
	})
	writeJSON(w, http.StatusOK, cloneTeam(t))
}

func (s *Server) addTeamRoles(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.RolesRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, c, ok := s.teamForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	view := domain.Company{Roles: c.roles}
	for _, role := range req.Roles {
		if !view.HasRole(role) {
			writeError(w, http.StatusBadRequest, "unknown role "+role)
			return
		}
	}
	for _, role := range req.Roles {
		if !slices.Contains(t.RequiredRoles, role) {
			t.RequiredRoles = append(t.RequiredRoles, role)
		}
	}
	writeJSON(w, http.StatusOK, cloneTeam(t))
}

func (s *Server) removeTeamRoles(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.RoleNamesRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.teamForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	t.RequiredRoles = slices.DeleteFunc(t.RequiredRoles, func(role string) bool {
		return slices.Contains(req.RoleNames, role)
	})
	writeJSON(w, http.StatusOK, cloneTeam(t))
}

func (s *Server) assignedKeyResults(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.teamForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	out := []domain.AssignedKeyResult{}
	for _, id := range s.okrOrder {
		o := s.okrs[id]
		if !o.corporate || o.companyID != t.CompanyID {
			continue
		}
		for i, kr := range o.KeyResults {
			if !slices.Contains(kr.Teams, t.ID) {
				continue
			}
			out = append(out, domain.AssignedKeyResult{
				Title:          kr.Title,
				Description:    kr.Description,
				Progress:       kr.Progress,
				Teams:          append([]string{}, kr.Teams...),
				CorporateOKRID: o.ID,
				CorporateOKR: domain.CorporateOKRRef{
					ID:          o.ID,
					Objective:   o.Objective.Objective,
					Description: o.Description,
				},
				KRIndex: i,
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignedKeyResults": out})
}
