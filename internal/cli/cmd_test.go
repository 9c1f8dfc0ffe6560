package cli

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/guard"
	"github.com/okrdesk/okrdesk/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Root and auth ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCmd(t, env.app)
	require.NoError(t, err)
	assert.Contains(t, out, "okrdesk")
	assert.Contains(t, out, "Available Commands")
}

func TestCommands_RequireSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env.app, "company", "list")
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Zero(t, env.srv.RequestCount(), "no request leaves without a session")
}

func TestTUICmd_NeedsTerminal(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env.app, "tui")
	assert.ErrorContains(t, err, "terminal")
}

func TestAuthLogin_StoresSession(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCmd(t, env.app, "auth", "login", "--email", "ana@example.com", "--password", testPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ana")
	assert.True(t, env.app.Session.IsAuthenticated())
	assert.Equal(t, env.user.ID, env.app.Session.User().ID)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env.app, "auth", "login", "--email", "ana@example.com", "--password", "nope-nope")
	assert.ErrorContains(t, err, "invalid email or password")
	assert.False(t, env.app.Session.IsAuthenticated())
}

func TestAuthRegister_ShortPasswordNeverReachesServer(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env.app, "auth", "register", "--name", "Bo", "--email", "bo@example.com", "--password", "123")
	assert.ErrorContains(t, err, "at least 6 characters")
	assert.Zero(t, env.srv.CountRequests(http.MethodPost, "/auth/register"))
}

func TestAuthRegister_SignsIn(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCmd(t, env.app, "auth", "register", "--name", "Bo", "--email", "bo@example.com", "--password", "longenough")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Bo")
	assert.Equal(t, "bo@example.com", env.app.Session.User().Email)
}

func TestAuthLogout_ClearsSession(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	assert.False(t, env.app.Session.IsAuthenticated())
}

func TestAuthWhoAmI(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, env.user.ID)
}

// --- Companies, roles, members ---

func TestCompanyCreateAndList(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "company", "create", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Created company Acme")

	out, err = executeCmd(t, env.app, "company", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "creator")
}

func TestCompanyList_Empty(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "company", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No companies found.")
}

func TestCompanyShow_ByName(t *testing.T) {
	env := testApp(t)
	co := env.srv.CreateCompany("Acme", env.user.ID)

	out, err := executeCmd(t, env.app, "company", "show", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, co.ID)
}

func TestRoleAdd_CreatorOnly(t *testing.T) {
	env := testApp(t)
	owner := env.seedUser("Owner", "owner@example.com")
	co := env.srv.CreateCompany("Globex", owner.ID, env.user.ID)

	_, err := executeCmd(t, env.app, "role", "add", "lead", "--company", co.ID)
	assert.ErrorIs(t, err, guard.ErrNotCreator)
	assert.Zero(t, env.srv.CountRequests(http.MethodPost, "/companies/"+co.ID+"/roles"))
}

func TestRoleAddRenameRemove(t *testing.T) {
	env := testApp(t)
	co := env.srv.CreateCompany("Acme", env.user.ID)

	_, err := executeCmd(t, env.app, "role", "add", "lead", "--company", co.ID, "--description", "Leads a team")
	require.NoError(t, err)

	out, err := executeCmd(t, env.app, "role", "rename", "lead", "captain", "--company", co.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "captain")

	out, err = executeCmd(t, env.app, "role", "list", "--company", co.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "captain")

	_, err = executeCmd(t, env.app, "role", "remove", "captain", "--company", co.ID)
	require.NoError(t, err)
	got, _ := env.srv.Company(co.ID)
	assert.Empty(t, got.Roles)
}

func TestMemberAddByEmailAndAssignRoles(t *testing.T) {
	env := testApp(t)
	co := env.srv.CreateCompany("Acme", env.user.ID)
	bo := env.seedUser("Bo", "bo@example.com")
	_, err := executeCmd(t, env.app, "role", "add", "dev", "--company", co.ID)
	require.NoError(t, err)

	out, err := executeCmd(t, env.app, "member", "add", "bo@example.com", "--company", co.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Added bo@example.com")

	_, err = executeCmd(t, env.app, "member", "assign-roles", bo.ID, "--company", co.ID, "--roles", "dev")
	require.NoError(t, err)

	got, _ := env.srv.Company(co.ID)
	m, ok := got.Member(bo.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"dev"}, m.Roles)
}

func TestMemberAdd_UnknownEmail(t *testing.T) {
	env := testApp(t)
	co := env.srv.CreateCompany("Acme", env.user.ID)

	_, err := executeCmd(t, env.app, "member", "add", "ghost@example.com", "--company", co.ID)
	assert.ErrorContains(t, err, "no user with email")
}

func TestMemberRemove_NonInteractiveSkipsPrompt(t *testing.T) {
	env := testApp(t)
	bo := env.seedUser("Bo", "bo@example.com")
	co := env.srv.CreateCompany("Acme", env.user.ID, bo.ID)

	_, err := executeCmd(t, env.app, "member", "remove", bo.ID, "--company", co.ID)
	require.NoError(t, err)
	got, _ := env.srv.Company(co.ID)
	_, ok := got.Member(bo.ID)
	assert.False(t, ok)
}

// --- Teams ---

func TestTeamCreateListDelete(t *testing.T) {
	env := testApp(t)
	env.srv.CreateCompany("Acme", env.user.ID)

	out, err := executeCmd(t, env.app, "team", "create", "Platform", "--company", "Acme", "--description", "Core services")
	require.NoError(t, err)
	assert.Contains(t, out, "Created team Platform")

	teams, err := env.app.Teams.List(context.Background(), mustCompanyID(t, env, "Acme"))
	require.NoError(t, err)
	require.Len(t, teams, 1)

	out, err = executeCmd(t, env.app, "team", "list", "--company", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "Core services")

	_, err = executeCmd(t, env.app, "team", "delete", teams[0].ID, "--yes")
	require.NoError(t, err)

	out, err = executeCmd(t, env.app, "team", "list", "--company", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "No teams found.")
}

func TestTeamAddMembers(t *testing.T) {
	env := testApp(t)
	bo := env.seedUser("Bo", "bo@example.com")
	co := env.srv.CreateCompany("Acme", env.user.ID, bo.ID)
	team := env.srv.CreateTeam(co.ID, "Platform")

	_, err := executeCmd(t, env.app, "team", "add-members", team.ID, "--users", bo.ID)
	require.NoError(t, err)

	out, err := executeCmd(t, env.app, "team", "members", team.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "bo@example.com")
}

func mustCompanyID(t *testing.T, env *testEnv, name string) string {
	t.Helper()
	c, err := env.app.Companies.Resolve(context.Background(), name)
	require.NoError(t, err)
	return c.ID
}

// --- OKRs ---

func TestCorporateOKRCreate_FromFlags(t *testing.T) {
	env := testApp(t)
	co, team := env.companyWithTeam(t)

	out, err := executeCmd(t, env.app, "okr", "corporate", "create",
		"--company", co.ID,
		"--objective", "Grow revenue",
		"--deadline", "2030-12-31",
		"--kr", "ARR:0:1000000:EUR:currency:"+team.ID,
	)
	require.NoError(t, err)
	assert.Contains(t, out, `Created corporate OKR "Grow revenue"`)

	okrs, err := env.app.OKRs.ListCorporate(context.Background(), co.ID)
	require.NoError(t, err)
	require.Len(t, okrs, 1)
	require.Len(t, okrs[0].KeyResults, 1)
	kr := okrs[0].KeyResults[0]
	assert.Equal(t, domain.MetricCurrency, kr.MetricType)
	assert.Equal(t, []string{team.ID}, kr.Teams)

	out, err = executeCmd(t, env.app, "okr", "corporate", "list", "--company", co.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Grow revenue")
}

func TestCorporateOKRCreate_FromFile(t *testing.T) {
	env := testApp(t)
	co := env.srv.CreateCompany("Acme", env.user.ID)
	path := filepath.Join(t.TempDir(), "okr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`objective: Delight customers
keyResults:
  - title: NPS
    metricType: number
    targetValue: 60
`), 0o600))

	_, err := executeCmd(t, env.app, "okr", "corporate", "create", "--company", co.ID, "--file", path)
	require.NoError(t, err)

	okrs, err := env.app.OKRs.ListCorporate(context.Background(), co.ID)
	require.NoError(t, err)
	require.Len(t, okrs, 1)
	assert.Equal(t, "Delight customers", okrs[0].Objective)
}

func TestCorporateOKRCreate_RequiresKeyResult(t *testing.T) {
	env := testApp(t)
	co := env.srv.CreateCompany("Acme", env.user.ID)

	_, err := executeCmd(t, env.app, "okr", "corporate", "create", "--company", co.ID, "--objective", "Empty")
	assert.ErrorContains(t, err, "at least one key result")
}

func TestTeamOKR_CreateUnderCorporateAndStatus(t *testing.T) {
	env := testApp(t)
	co, team := env.companyWithTeam(t)
	corp := env.corporateOKR(t, co.ID, "Grow revenue", team.ID)

	out, err := executeCmd(t, env.app, "okr", "team", "create", team.ID,
		"--objective", "Ship billing",
		"--kr", "Invoices:0:100",
		"--parent", corp.ID, "--parent-kr", "0",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `Created team OKR "Ship billing"`)

	okrs, err := env.app.OKRs.ListTeam(context.Background(), team.ID)
	require.NoError(t, err)
	require.Len(t, okrs, 1)
	assert.True(t, okrs[0].IsLinked())

	_, err = executeCmd(t, env.app, "okr", "team", "status", okrs[0].ID, "active")
	require.NoError(t, err)
	got, _ := env.srv.OKR(okrs[0].ID)
	assert.Equal(t, domain.OKRActive, got.Status)

	_, err = executeCmd(t, env.app, "okr", "team", "status", okrs[0].ID, "paused")
	assert.ErrorContains(t, err, "unknown status")
}

func TestOKRFreeze_BlocksCheckIn(t *testing.T) {
	env := testApp(t)
	_, team := env.companyWithTeam(t)
	o := env.teamOKR(t, team.ID, "Stabilise")

	_, err := executeCmd(t, env.app, "okr", "freeze", o.ID)
	require.NoError(t, err)

	_, err = executeCmd(t, env.app, "checkin", "create", o.ID, "--set", "0=3", "-m", "progress")
	require.Error(t, err)
	assert.Equal(t, "OKR is frozen", userMessage(err))
}

// --- Check-ins and stats ---

func TestCheckInCreate_UpdatesProgress(t *testing.T) {
	env := testApp(t)
	_, team := env.companyWithTeam(t)
	o := env.teamOKR(t, team.ID, "Stabilise")

	out, err := executeCmd(t, env.app, "checkin", "create", o.ID, "--set", "0=5", "--set", "1=140", "-m", "Halfway")
	require.NoError(t, err)
	assert.Contains(t, out, "key result #1: clamped to 100")
	assert.Contains(t, out, "Check-in recorded")

	got, _ := env.srv.OKR(o.ID)
	assert.InDelta(t, 50, got.KeyResults[0].Progress, 0.001)
	assert.InDelta(t, 100, got.KeyResults[1].Progress, 0.001)

	out, err = executeCmd(t, env.app, "checkin", "list", o.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Halfway")
}

func TestCheckInCreate_RejectsDecrease(t *testing.T) {
	env := testApp(t)
	_, team := env.companyWithTeam(t)
	o := env.teamOKR(t, team.ID, "Stabilise")
	_, err := executeCmd(t, env.app, "checkin", "create", o.ID, "--set", "0=6", "-m", "first")
	require.NoError(t, err)
	before := env.srv.CountRequests(http.MethodPost, "/check-ins")

	_, err = executeCmd(t, env.app, "checkin", "create", o.ID, "--set", "0=4", "-m", "second")
	assert.ErrorContains(t, err, "below the current value 6")
	assert.Equal(t, before, env.srv.CountRequests(http.MethodPost, "/check-ins"))
}

func TestCheckInCreate_RequiresComment(t *testing.T) {
	env := testApp(t)
	_, team := env.companyWithTeam(t)
	o := env.teamOKR(t, team.ID, "Stabilise")

	before := env.srv.RequestCount()

	for _, blank := range []string{"", "   "} {
		_, err := executeCmd(t, env.app, "checkin", "create", o.ID, "--set", "0=2", "-m", blank)
		var verr *progress.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "comment", verr.Field)
	}
	assert.Equal(t, before, env.srv.RequestCount(), "a blank comment sends nothing, not even the OKR fetch")
}

func TestCheckInCreate_RejectsNonFiniteValues(t *testing.T) {
	env := testApp(t)
	_, team := env.companyWithTeam(t)
	o := env.teamOKR(t, team.ID, "Stabilise")

	for _, raw := range []string{"NaN", "Inf", "-inf"} {
		_, err := executeCmd(t, env.app, "checkin", "create", o.ID, "--set", "1="+raw, "-m", "x")
		var verr *progress.ValidationError
		require.ErrorAs(t, err, &verr, raw)
		assert.Equal(t, "value", verr.Field)
	}
	assert.Zero(t, env.srv.CountRequests(http.MethodPost, "/check-ins"))
	got, _ := env.srv.OKR(o.ID)
	assert.Zero(t, got.KeyResults[1].ActualValue)
}

func TestCheckInCreate_BadSetFlag(t *testing.T) {
	env := testApp(t)
	_, team := env.companyWithTeam(t)
	o := env.teamOKR(t, team.ID, "Stabilise")

	_, err := executeCmd(t, env.app, "checkin", "create", o.ID, "--set", "zero=2", "-m", "x")
	assert.ErrorContains(t, err, "index")
}

func TestStatsCommands(t *testing.T) {
	env := testApp(t)
	co, team := env.companyWithTeam(t)
	env.corporateOKR(t, co.ID, "Grow revenue", team.ID)
	env.teamOKR(t, team.ID, "Stabilise")

	out, err := executeCmd(t, env.app, "stats", "company", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "CORPORATE OKRS")
	assert.Contains(t, out, "Grow revenue")

	out, err = executeCmd(t, env.app, "stats", "team", team.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "TEAM OKRS")
	assert.Contains(t, out, "Stabilise")
}

func TestServerErrorsReachTheUser(t *testing.T) {
	env := testApp(t)
	env.srv.FailNext(http.MethodGet, "/companies", http.StatusInternalServerError, "database unavailable")

	_, err := executeCmd(t, env.app, "company", "list")
	require.Error(t, err)
	assert.Equal(t, "database unavailable", userMessage(err))
}
