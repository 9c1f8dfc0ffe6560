// Package apitest is an in-memory implementation of the OKR REST API served
// through httptest. Tests point an api.Client at it to exercise the whole
// client stack against realistic responses.
package apitest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/okrdesk/okrdesk/internal/domain"
)

// APIPrefix is where the fake mounts the API, mirroring a real deployment.
const APIPrefix = "/api"

// Request is one request the fake received.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

type failure struct {
	method, path string
	status       int
	message      string
}

type user struct {
	domain.User
	password string
}

type company struct {
	id, name, createdBy string
	roles               []domain.Role
	members             []string
	memberRoles         map[string][]string
}

type okrRecord struct {
	domain.Objective
	corporate bool
	companyID string
	teamID    string
	history   []domain.ProgressPoint
}

// Server is the fake backend. All state is guarded by mu.
type Server struct {
	*httptest.Server

	secret []byte
	now    func() time.Time

	mu        sync.Mutex
	users     map[string]*user
	companies map[string]*company
	order     []string
	teams     map[string]*domain.Team
	okrs      map[string]*okrRecord
	okrOrder  []string
	checkIns  map[string][]domain.CheckIn
	requests  []Request
	failures  []failure
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:    []byte("apitest-" + uuid.NewString()),
		now:       func() time.Time { return time.Now().UTC() },
		users:     map[string]*user{},
		companies: map[string]*company{},
		teams:     map[string]*domain.Team{},
		okrs:      map[string]*okrRecord{},
		checkIns:  map[string][]domain.CheckIn{},
	}
	s.Server = httptest.NewServer(s.handler())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to configure clients with.
func (s *Server) BaseURL() string { return s.URL + APIPrefix }

// SeedUser registers an account directly.
func (s *Server) SeedUser(name, email, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password)
}

func (s *Server) addUserLocked(name, email, password string) domain.User {
	u := &user{User: domain.User{ID: uuid.NewString(), Name: name, Email: email}, password: password}
	s.users[u.ID] = u
	return u.User
}

// TokenFor mints a bearer token for userID.
func (s *Server) TokenFor(userID string) string {
	now := s.now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	}).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("signing token: %v", err))
	}
	return tok
}

// FailNext makes the next request matching method and path (relative to
// the API root) fail with status and message.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status, message: message})
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns how many requests arrived.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// CountRequests returns how many requests matched method and path.
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Company returns a snapshot of a stored company.
func (s *Server) Company(id string) (domain.Company, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[id]
	if !ok {
		return domain.Company{}, false
	}
	return s.companyViewLocked(c), true
}

// OKR returns a snapshot of a stored objective.
func (s *Server) OKR(id string) (domain.Objective, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.okrs[id]
	if !ok {
		return domain.Objective{}, false
	}
	return cloneObjective(o.Objective), true
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)

	return http.StripPrefix(APIPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		f, failed := s.takeFailureLocked(r.Method, r.URL.Path)
		s.mu.Unlock()

		if failed {
			writeError(w, f.status, f.message)
			return
		}
		mux.ServeHTTP(w, r)
	}))
}

func (s *Server) takeFailureLocked(method, path string) (failure, bool) {
	for i, f := range s.failures {
		if f.method == method && f.path == path {
			s.failures = append(s.failures[:i], s.failures[i+1:]...)
			return f, true
		}
	}
	return failure{}, false
}

// authed wraps a handler that needs the caller's user id.
func (s *Server) authed(next func(w http.ResponseWriter, r *http.Request, uid string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		s.mu.Lock()
		_, known := s.users[claims.Subject]
		s.mu.Unlock()
		if !known {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r, claims.Subject)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func cloneObjective(o domain.Objective) domain.Objective {
	krs := make([]domain.KeyResult, len(o.KeyResults))
	for i, kr := range o.KeyResults {
		kr.Teams = append([]string(nil), kr.Teams...)
		krs[i] = kr
	}
	o.KeyResults = krs
	if o.ParentKRIndex != nil {
		idx := *o.ParentKRIndex
		o.ParentKRIndex = &idx
	}
	return o
}
