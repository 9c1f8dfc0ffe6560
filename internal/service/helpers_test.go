package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/apitest"
	"github.com/okrdesk/okrdesk/internal/domain"
)

// backend is a fake API server plus a client signed in as one user.
type backend struct {
	srv    *apitest.Server
	client *api.Client
	user   domain.User
}

func setupBackend(t *testing.T) *backend {
	t.Helper()
	srv := apitest.NewServer(t)
	u := srv.SeedUser("Ana", "a@b.com", "secret1")
	token := srv.TokenFor(u.ID)
	client := api.NewClient(api.Config{BaseURL: srv.BaseURL(), Timeout: 5 * time.Second},
		api.WithTokenSource(api.TokenFunc(func() string { return token })))
	return &backend{srv: srv, client: client, user: u}
}

// as returns a client signed in as another seeded user.
func (b *backend) as(u domain.User) *api.Client {
	token := b.srv.TokenFor(u.ID)
	return api.NewClient(api.Config{BaseURL: b.srv.BaseURL(), Timeout: 5 * time.Second},
		api.WithTokenSource(api.TokenFunc(func() string { return token })))
}

// session is the session pair matching client.
func (b *backend) session() domain.Session {
	return domain.Session{Token: b.srv.TokenFor(b.user.ID), User: b.user}
}

func logObserver() (UseCaseObserver, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogUseCaseObserver(&buf), &buf
}

func numberKR(title string, target float64, teams ...string) api.KeyResultInput {
	return api.KeyResultInput{
		Title:       title,
		MetricType:  domain.MetricNumber,
		TargetValue: target,
		Unit:        "tasks",
		Teams:       teams,
	}
}
