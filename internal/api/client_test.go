package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []CallEvent
}

func (r *recordingObserver) OnCall(e CallEvent) { r.events = append(r.events, e) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SendsHeadersAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/companies/c1", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, domain.Company{ID: "c1", Name: "Acme", CreatedBy: "u1"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api/"}, WithTokenSource(TokenFunc(func() string { return "tok-1" })))
	company, err := c.GetCompany(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	assert.Equal(t, "u1", company.CreatedBy)
}

func TestClient_NoTokenNoAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, AuthResponse{Token: "t", User: domain.User{ID: "u1"}})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	resp, err := c.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "t", resp.Token)
}

func TestClient_ErrorBodyBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "role already exists"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	err := c.CreateCompanyRole(context.Background(), "c1", domain.Role{Name: "dev"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "role already exists", apiErr.Message)
	assert.Equal(t, http.MethodPost, apiErr.Method)
	assert.Equal(t, "/companies/c1/roles", apiErr.Path)
	assert.Equal(t, "role already exists", MessageOf(err))
	assert.Equal(t, http.StatusConflict, StatusOf(err))
}

func TestClient_NotFoundHelpers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.GetTeam(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Not Found")
}

func TestClient_NetworkError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.ListCompanies(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, 0, StatusOf(err))
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.GetCompany(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_RetriesGETOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"teams": []domain.Team{{ID: "t1", Name: "Eng"}}})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: 1}, WithObserver(obs))
	teams, err := c.ListTeams(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, teams, 1)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, obs.events, 2)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, 2, obs.events[1].Attempt)
	assert.NotEqual(t, obs.events[0].RequestID, obs.events[1].RequestID)
}

func TestClient_NeverRetriesMutations(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: 3})
	_, err := c.CreateCompany(context.Background(), "Acme")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ListTeamsSendsCompanyQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c-9", r.URL.Query().Get("companyId"))
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	teams, err := c.ListTeams(context.Background(), "c-9")
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
}

func TestClient_BulkBodies(t *testing.T) {
	type captured struct {
		path string
		body map[string]any
	}
	var got []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		got = append(got, captured{path: r.URL.Path, body: body})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	ctx := context.Background()
	require.NoError(t, c.AssignUserRoles(ctx, "c1", "u1", []string{"dev"}))
	require.NoError(t, c.AddTeamMembers(ctx, "t1", []string{"u1", "u2"}))
	require.NoError(t, c.RemoveTeamRoles(ctx, "t1", []string{"qa"}))
	require.NoError(t, c.LinkToCorporate(ctx, "o1", "corp1", 2))

	require.Len(t, got, 4)
	assert.Equal(t, "/companies/c1/users/u1/roles/bulk-assign", got[0].path)
	assert.Equal(t, []any{"dev"}, got[0].body["roles"])
	assert.Equal(t, "/teams/t1/users/bulk", got[1].path)
	assert.Equal(t, []any{"u1", "u2"}, got[1].body["userIds"])
	assert.Equal(t, "/teams/t1/roles/bulk-remove", got[2].path)
	assert.Equal(t, []any{"qa"}, got[2].body["roleNames"])
	assert.Equal(t, "/okrs/o1/link-to-corporate", got[3].path)
	assert.Equal(t, "corp1", got[3].body["corporateOKRId"])
	assert.Equal(t, float64(2), got[3].body["krIndex"])
}

func TestClient_RoleNameIsPathEscaped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/companies/c1/roles/tech%20lead", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, c.DeleteCompanyRole(context.Background(), "c1", "tech lead"))
}

func TestClient_CreateObjectiveEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"okr envelope", map[string]any{"okr": domain.Objective{ID: "o1", Objective: "Grow"}}},
		{"corporate envelope", map[string]any{"corporateOKR": domain.Objective{ID: "o1", Objective: "Grow"}}},
		{"bare", domain.Objective{ID: "o1", Objective: "Grow"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusCreated, tc.body)
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL})
			okr, err := c.CreateTeamOKR(context.Background(), "t1", ObjectiveInput{Objective: "Grow"})
			require.NoError(t, err)
			assert.Equal(t, "o1", okr.ID)
			assert.Equal(t, "Grow", okr.Objective)
		})
	}
}

func TestDecodeCompanyList(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		list, err := DecodeCompanyList([]byte(`[{"id":"c1","name":"Acme","isCreator":true,"userRoles":["owner"]}]`))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].IsCreator)
		assert.Equal(t, []string{"owner"}, list[0].Roles())
	})

	t.Run("envelope keeps created first", func(t *testing.T) {
		raw := `{"memberCompanies":[{"id":"m1","name":"Beta","userRole":"dev"}],
			"createdCompanies":[{"id":"c1","name":"Acme","isCreator":true}]}`
		list, err := DecodeCompanyList([]byte(raw))
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "c1", list[0].ID)
		assert.Equal(t, "m1", list[1].ID)
		assert.Equal(t, []string{"dev"}, list[1].Roles())
	})

	t.Run("empty", func(t *testing.T) {
		list, err := DecodeCompanyList(bytes.TrimSpace([]byte("  null ")))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeCompanyList([]byte(`{"createdCompanies": 5}`))
		assert.Error(t, err)
	})
}

func TestLogObserver_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)
	obs.OnCall(CallEvent{Method: "GET", Path: "/companies", Status: 200, Attempt: 1, RequestID: "r1", Success: true})

	out := buf.String()
	assert.Contains(t, out, "msg=api_call")
	assert.Contains(t, out, "path=/companies")
	assert.Contains(t, out, "request_id=r1")
}
