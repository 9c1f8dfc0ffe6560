package apitest

import (
	"net/http"
	"strings"

	"github.com/okrdesk/okrdesk/internal/api"
)

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/register", s.register)

	mux.HandleFunc("GET /companies", s.authed(s.listCompanies))
	mux.HandleFunc("POST /companies", s.authed(s.createCompany))
	mux.HandleFunc("GET /companies/{id}", s.authed(s.getCompany))
	mux.HandleFunc("GET /companies/{id}/roles", s.authed(s.listRoles))
	mux.HandleFunc("POST /companies/{id}/roles", s.authed(s.createRole))
	mux.HandleFunc("DELETE /companies/{id}/roles/{name}", s.authed(s.deleteRole))
	mux.HandleFunc("GET /companies/{id}/users", s.authed(s.listCompanyUsers))
	mux.HandleFunc("POST /companies/{id}/users", s.authed(s.addCompanyUser))
	mux.HandleFunc("DELETE /companies/{id}/users/{userId}", s.authed(s.removeCompanyUser))
	mux.HandleFunc("POST /companies/{id}/users/{userId}/roles/bulk-assign", s.authed(s.assignUserRoles))
	mux.HandleFunc("POST /companies/{id}/users/{userId}/roles/bulk-remove", s.authed(s.removeUserRoles))
	mux.HandleFunc("GET /companies/{id}/corporate-okrs", s.authed(s.listCorporateOKRs))
	mux.HandleFunc("POST /companies/{id}/corporate-okrs", s.authed(s.createCorporateOKR))
	mux.HandleFunc("GET /companies/{id}/stats", s.authed(s.companyStats))

	mux.HandleFunc("GET /teams", s.authed(s.listTeams))
	mux.HandleFunc("POST /teams", s.authed(s.createTeam))
	mux.HandleFunc("GET /teams/{id}", s.authed(s.getTeam))
	mux.HandleFunc("DELETE /teams/{id}", s.authed(s.deleteTeam))
	mux.HandleFunc("GET /teams/{id}/members", s.authed(s.listTeamMembers))
	mux.HandleFunc("POST /teams/{id}/users/bulk", s.authed(s.addTeamMembers))
	mux.HandleFunc("POST /teams/{id}/users/bulk-remove", s.authed(s.removeTeamMembers))
	mux.HandleFunc("POST /teams/{id}/roles/bulk", s.authed(s.addTeamRoles))
	mux.HandleFunc("POST /teams/{id}/roles/bulk-remove", s.authed(s.removeTeamRoles))
	mux.HandleFunc("GET /teams/{id}/assigned-key-results", s.authed(s.assignedKeyResults))
	mux.HandleFunc("GET /teams/{id}/okrs", s.authed(s.listTeamOKRs))
	mux.HandleFunc("POST /teams/{id}/okrs", s.authed(s.createTeamOKR))
	mux.HandleFunc("GET /teams/{id}/stats", s.authed(s.teamStats))

	mux.HandleFunc("GET /okrs/{id}", s.authed(s.getOKR))
	mux.HandleFunc("PATCH /okrs/{id}/freeze", s.authed(s.freezeTeamOKR))
	mux.HandleFunc("PATCH /okrs/{id}/status", s.authed(s.setStatus))
	mux.HandleFunc("POST /okrs/{id}/link-to-corporate", s.authed(s.linkToCorporate))
	mux.HandleFunc("PATCH /corporate-okrs/{id}/freeze", s.authed(s.freezeCorporateOKR))
	mux.HandleFunc("GET /corporate-okrs/{id}/key-results/{index}", s.authed(s.corporateKeyResult))
	mux.HandleFunc("POST /corporate-okrs/{id}/key-results/{index}/teams", s.authed(s.assignKeyResultTeams))

	mux.HandleFunc("GET /check-ins/{okrId}", s.authed(s.listCheckIns))
	mux.HandleFunc("POST /check-ins", s.authed(s.createCheckIn))

	mux.HandleFunc("GET /users/email/{partial}", s.authed(s.searchUsers))
	mux.HandleFunc("GET /users/company/{id}", s.authed(s.usersByCompany))
	mux.HandleFunc("GET /users/{id}", s.authed(s.getUser))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			found = u
			break
		}
	}
	s.mu.Unlock()

	switch {
	case found == nil:
		writeError(w, http.StatusNotFound, "user not found")
	case found.password != req.Password:
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		writeJSON(w, http.StatusOK, api.AuthResponse{Token: s.TokenFor(found.ID), User: found.User})
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "name, email and a password of at least 6 characters are required")
		return
	}
	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
	}
	created := s.addUserLocked(req.Name, req.Email, req.Password)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, api.AuthResponse{Token: s.TokenFor(created.ID), User: created})
}
