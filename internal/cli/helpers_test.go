package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/apitest"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/guard"
	"github.com/okrdesk/okrdesk/internal/repository"
	"github.com/okrdesk/okrdesk/internal/service"
	"github.com/okrdesk/okrdesk/internal/session"
	"github.com/okrdesk/okrdesk/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret1"

// testEnv is a fake backend plus an App wired to it the way main does,
// with the session persisted in an in-memory database.
type testEnv struct {
	srv  *apitest.Server
	app  *App
	user domain.User
}

// newTestEnv seeds one user, Ana, without signing in.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := apitest.NewServer(t)
	u := srv.SeedUser("Ana", "ana@example.com", testPassword)
	return &testEnv{srv: srv, app: wireApp(t, srv), user: u}
}

// testApp returns an environment signed in as Ana.
func testApp(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.login(t, env.user)
	return env
}

func wireApp(t *testing.T, srv *apitest.Server) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	client := api.NewClient(api.Config{BaseURL: srv.BaseURL(), Timeout: 5 * time.Second})
	store := session.NewStore(client, repository.NewSQLiteStateRepo(database), testutil.NewTestUoW(database))
	require.NoError(t, store.Init(context.Background()))
	client.SetTokenSource(store)

	return &App{
		Session:   store,
		Guard:     guard.New(store, client),
		Companies: service.NewCompanyService(client),
		Roles:     service.NewRoleService(client),
		Members:   service.NewMemberService(client),
		Teams:     service.NewTeamService(client),
		OKRs:      service.NewOKRService(client),
		CheckIns:  service.NewCheckInService(client),
		Stats:     service.NewStatsService(client),
	}
}

func (e *testEnv) login(t *testing.T, u domain.User) {
	t.Helper()
	_, err := e.app.Session.Login(context.Background(), u.Email, testPassword)
	require.NoError(t, err)
}

// seedUser registers another account on the fake backend.
func (e *testEnv) seedUser(name, email string) domain.User {
	return e.srv.SeedUser(name, email, testPassword)
}

// companyWithTeam seeds a company created by Ana with one team she belongs to.
func (e *testEnv) companyWithTeam(t *testing.T) (domain.Company, domain.Team) {
	t.Helper()
	co := e.srv.CreateCompany("Acme", e.user.ID)
	team := e.srv.CreateTeam(co.ID, "Platform", e.user.ID)
	return co, team
}

// corporateOKR creates a corporate OKR with one number key result assigned
// to teamIDs.
func (e *testEnv) corporateOKR(t *testing.T, companyID, title string, teamIDs ...string) *domain.Objective {
	t.Helper()
	o, err := e.app.OKRs.CreateCorporate(context.Background(), companyID, api.ObjectiveInput{
		Objective: title,
		KeyResults: []api.KeyResultInput{{
			Title:       "Ship features",
			MetricType:  domain.MetricNumber,
			TargetValue: 10,
			Teams:       teamIDs,
		}},
	})
	require.NoError(t, err)
	return o
}

// teamOKR creates a team OKR with a number key result (0 → 10) and a
// percentage key result (0 → 100).
func (e *testEnv) teamOKR(t *testing.T, teamID, title string) *domain.TeamOKR {
	t.Helper()
	o, err := e.app.OKRs.CreateTeam(context.Background(), teamID, api.ObjectiveInput{
		Objective: title,
		KeyResults: []api.KeyResultInput{
			{Title: "Close tickets", MetricType: domain.MetricNumber, TargetValue: 10, Unit: "tickets"},
			{Title: "Test coverage", MetricType: domain.MetricPercentage, TargetValue: 100},
		},
	})
	require.NoError(t, err)
	return o
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}
