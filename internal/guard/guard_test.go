package guard

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"testing"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct{ sess domain.Session }

func (f fakeIdentity) IsAuthenticated() bool   { return f.sess.Token != "" }
func (f fakeIdentity) Current() domain.Session { return f.sess }

type fakeCompanies struct {
	company *domain.Company
	err     error
	calls   int
}

func (f *fakeCompanies) GetCompany(_ context.Context, _ string) (*domain.Company, error) {
	f.calls++
	return f.company, f.err
}

func signedIn(userID string) fakeIdentity {
	return fakeIdentity{sess: domain.Session{Token: "t", User: domain.User{ID: userID}}}
}

func TestRequireAuth(t *testing.T) {
	g := New(fakeIdentity{}, &fakeCompanies{})
	d := g.RequireAuth()
	assert.False(t, d.Allowed())
	assert.Equal(t, route.ToLogin(), d.Target)
	assert.ErrorIs(t, d.Err(), ErrNotAuthenticated)

	g = New(signedIn("u1"), &fakeCompanies{})
	assert.True(t, g.RequireAuth().Allowed())
	assert.NoError(t, g.RequireAuth().Err())
}

func TestRequireCreator(t *testing.T) {
	companies := &fakeCompanies{company: &domain.Company{ID: "c1", CreatedBy: "u1"}}

	d := New(signedIn("u1"), companies).RequireCreator(context.Background(), "c1")
	assert.True(t, d.Allowed())

	d = New(signedIn("u2"), companies).RequireCreator(context.Background(), "c1")
	assert.False(t, d.Allowed())
	assert.Equal(t, route.ToCompany("c1"), d.Target)
	assert.ErrorIs(t, d.Err(), ErrNotCreator)
}

func TestRequireCreator_FetchesEveryTime(t *testing.T) {
	companies := &fakeCompanies{company: &domain.Company{ID: "c1", CreatedBy: "u1"}}
	g := New(signedIn("u1"), companies)

	g.RequireCreator(context.Background(), "c1")
	g.RequireCreator(context.Background(), "c1")
	assert.Equal(t, 2, companies.calls)
}

// Every fetch failure redirects to the overview, never allows.
func TestRequireCreator_FailsClosed(t *testing.T) {
	failures := []error{
		api.ErrNetwork,
		&api.Error{Status: http.StatusNotFound},
		&api.Error{Status: http.StatusInternalServerError},
		&api.Error{Status: http.StatusForbidden},
		errors.New("decode failure"),
		context.DeadlineExceeded,
	}
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		fetchErr := failures[rng.Intn(len(failures))]
		// The company payload is ignored when the fetch fails, even if it
		// would have matched.
		companies := &fakeCompanies{company: &domain.Company{ID: "c1", CreatedBy: "u1"}, err: fetchErr}
		d := New(signedIn("u1"), companies).RequireCreator(context.Background(), "c1")

		require.False(t, d.Allowed(), "trial %d: %v", trial, fetchErr)
		assert.Equal(t, route.ToCompany("c1"), d.Target)
		assert.ErrorIs(t, d.Err(), ErrNotCreator)
		assert.ErrorIs(t, d.Err(), fetchErr)
	}
}

func TestCheck(t *testing.T) {
	creatorCo := &fakeCompanies{company: &domain.Company{ID: "c1", CreatedBy: "u1"}}

	tests := []struct {
		name     string
		identity fakeIdentity
		target   route.Route
		allowed  bool
		redirect route.Route
	}{
		{"public while logged out", fakeIdentity{}, route.ToLogin(), true, route.Route{}},
		{"private while logged out", fakeIdentity{}, route.ToCompanies(), false, route.ToLogin()},
		{"settings while logged out", fakeIdentity{}, route.ToSettings("c1"), false, route.ToLogin()},
		{"overview as member", signedIn("u2"), route.ToCompany("c1"), true, route.Route{}},
		{"settings as member", signedIn("u2"), route.ToSettings("c1"), false, route.ToCompany("c1")},
		{"team roles as member", signedIn("u2"), route.ToTeamRoles("c1", "t1"), false, route.ToCompany("c1")},
		{"settings as creator", signedIn("u1"), route.ToSettings("c1"), true, route.Route{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := New(tc.identity, creatorCo).Check(context.Background(), tc.target)
			assert.Equal(t, tc.allowed, d.Allowed())
			if !tc.allowed {
				assert.Equal(t, tc.redirect, d.Target)
			}
		})
	}
}

func TestNeedsFetch(t *testing.T) {
	g := New(signedIn("u1"), &fakeCompanies{})
	assert.True(t, g.NeedsFetch(route.ToSettings("c1")))
	assert.False(t, g.NeedsFetch(route.ToCompany("c1")))
	assert.False(t, New(fakeIdentity{}, &fakeCompanies{}).NeedsFetch(route.ToSettings("c1")))
}
