package apitest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientFor(s *Server, token string) *api.Client {
	return api.NewClient(api.Config{BaseURL: s.BaseURL(), Timeout: 5 * time.Second},
		api.WithTokenSource(api.TokenFunc(func() string { return token })))
}

func TestServer_LoginStatuses(t *testing.T) {
	s := NewServer(t)
	s.SeedUser("Ana", "a@b.com", "secret1")
	c := clientFor(s, "")
	ctx := context.Background()

	resp, err := c.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Ana", resp.User.Name)

	_, err = c.Login(ctx, "a@b.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, api.StatusOf(err))

	_, err = c.Login(ctx, "nobody@b.com", "secret1")
	assert.True(t, api.IsNotFound(err))
}

func TestServer_RegisterRejectsDuplicateEmail(t *testing.T) {
	s := NewServer(t)
	s.SeedUser("Ana", "a@b.com", "secret1")

	_, err := clientFor(s, "").Register(context.Background(), "Other", "a@b.com", "secret2")
	assert.Equal(t, http.StatusConflict, api.StatusOf(err))
}

func TestServer_RequiresToken(t *testing.T) {
	s := NewServer(t)
	_, err := clientFor(s, "").ListCompanies(context.Background())
	assert.True(t, api.IsUnauthorized(err))
}

func TestServer_CompanyListEnvelope(t *testing.T) {
	s := NewServer(t)
	owner := s.SeedUser("Owner", "o@b.com", "secret1")
	member := s.SeedUser("Member", "m@b.com", "secret1")
	co := s.CreateCompany("Acme", owner.ID, member.ID)

	list, err := clientFor(s, s.TokenFor(member.ID)).ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, co.ID, list[0].ID)
	assert.False(t, list[0].IsCreator)

	list, err = clientFor(s, s.TokenFor(owner.ID)).ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsCreator)
}

func TestServer_SettingsMutationsAreCreatorOnly(t *testing.T) {
	s := NewServer(t)
	owner := s.SeedUser("Owner", "o@b.com", "secret1")
	member := s.SeedUser("Member", "m@b.com", "secret1")
	co := s.CreateCompany("Acme", owner.ID, member.ID)
	ctx := context.Background()

	err := clientFor(s, s.TokenFor(member.ID)).CreateCompanyRole(ctx, co.ID, domain.Role{Name: "lead"})
	assert.True(t, api.IsForbidden(err))

	require.NoError(t, clientFor(s, s.TokenFor(owner.ID)).CreateCompanyRole(ctx, co.ID, domain.Role{Name: "lead"}))
	got, ok := s.Company(co.ID)
	require.True(t, ok)
	assert.True(t, got.HasRole("lead"))
}

func TestServer_CheckInRecomputesProgress(t *testing.T) {
	s := NewServer(t)
	owner := s.SeedUser("Owner", "o@b.com", "secret1")
	co := s.CreateCompany("Acme", owner.ID)
	team := s.CreateTeam(co.ID, "Eng")
	c := clientFor(s, s.TokenFor(owner.ID))
	ctx := context.Background()

	okr, err := c.CreateCorporateOKR(ctx, co.ID, api.ObjectiveInput{
		Objective: "Ship",
		KeyResults: []api.KeyResultInput{{
			Title: "Tasks", MetricType: domain.MetricNumber, StartValue: 0, TargetValue: 100, Unit: "tasks",
			Teams: []string{team.ID},
		}},
	})
	require.NoError(t, err)

	ci, err := c.CreateCheckIn(ctx, domain.CheckInRequest{
		OKRID:   okr.ID,
		Updates: []domain.CheckInValue{{Index: 0, NewActualValue: 50, NewProgress: 50}},
		Comment: "halfway",
	})
	require.NoError(t, err)
	require.Len(t, ci.Updates, 1)
	assert.Equal(t, 0.0, ci.Updates[0].PreviousProgress)
	assert.Equal(t, 50.0, ci.Updates[0].NewProgress)

	stored, ok := s.OKR(okr.ID)
	require.True(t, ok)
	assert.Equal(t, 50.0, stored.Progress)
	assert.Equal(t, 50.0, stored.KeyResults[0].ActualValue)

	history, err := c.ListCheckIns(ctx, okr.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestServer_FrozenOKRRejectsCheckIn(t *testing.T) {
	s := NewServer(t)
	owner := s.SeedUser("Owner", "o@b.com", "secret1")
	co := s.CreateCompany("Acme", owner.ID)
	c := clientFor(s, s.TokenFor(owner.ID))
	ctx := context.Background()

	okr, err := c.CreateCorporateOKR(ctx, co.ID, api.ObjectiveInput{
		Objective:  "Ship",
		KeyResults: []api.KeyResultInput{{Title: "Tasks", TargetValue: 10}},
	})
	require.NoError(t, err)
	require.NoError(t, c.FreezeCorporateOKR(ctx, okr.ID, true))

	_, err = c.CreateCheckIn(ctx, domain.CheckInRequest{
		OKRID:   okr.ID,
		Updates: []domain.CheckInValue{{Index: 0, NewActualValue: 5}},
		Comment: "x",
	})
	assert.True(t, api.IsForbidden(err))
}

func TestServer_FailNextIsOneShot(t *testing.T) {
	s := NewServer(t)
	owner := s.SeedUser("Owner", "o@b.com", "secret1")
	c := clientFor(s, s.TokenFor(owner.ID))
	s.FailNext(http.MethodGet, "/companies", http.StatusInternalServerError, "boom")

	_, err := c.ListCompanies(context.Background())
	assert.Equal(t, "boom", api.MessageOf(err))

	_, err = c.ListCompanies(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, s.CountRequests(http.MethodGet, "/companies"))
}
