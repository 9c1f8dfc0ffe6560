package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"A", "B"},
		[][]string{{StyleGreen.Render("xx"), "1"}, {"y", "22"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A   B", lines[0])
	assert.Equal(t, "xx  1", lines[2])
	assert.Equal(t, "y   22", lines[3])
}

func TestRenderTableOr_Empty(t *testing.T) {
	assert.Equal(t, "No teams found.\n", stripANSI(RenderTableOr("No teams found.", []string{"X"}, nil)))
}

func TestFormatCompanyCards(t *testing.T) {
	out := stripANSI(FormatCompanyCards([]domain.CompanyCard{
		{ID: "c1", Name: "Acme", Roles: []string{"admin"}, IsCreator: true, MemberCount: 1},
		{ID: "c2", Name: "Globex", MemberCount: 4},
	}))
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "★ creator")
	assert.Contains(t, out, "Globex")
	assert.Equal(t, 1, strings.Count(out, "creator"))

	assert.Contains(t, stripANSI(FormatCompanyCards(nil)), "No companies found.")
}

func TestFormatCompany_ShowsCurrentUserRoles(t *testing.T) {
	c := &domain.Company{
		ID: "c1", Name: "Acme", CreatedBy: "u1",
		Roles: []domain.Role{{Name: "lead", Description: "Leads a team"}},
		Users: []domain.CompanyUser{
			{ID: "u1", Name: "Ana", Email: "a@b.com", Roles: []string{"lead"}},
			{ID: "u2", Name: "Bo", Email: "bo@b.com"},
		},
	}
	out := stripANSI(FormatCompany(c, domain.Session{Token: "t", User: domain.User{ID: "u1"}}))
	assert.Contains(t, out, "Acme")
	assert.NotContains(t, out, "ACME", "the company name keeps its case")
	assert.Contains(t, out, "Your roles: lead")
	assert.Contains(t, out, "creator")
	assert.Contains(t, out, "MEMBERS (2)")
	assert.Contains(t, out, "Leads a team")

	other := stripANSI(FormatCompany(c, domain.Session{Token: "t", User: domain.User{ID: "u2"}}))
	assert.NotContains(t, other, "creator")
}

func TestFormatTeamOKRs_ShowsAttachedKeyResult(t *testing.T) {
	okrs := []domain.TeamOKR{
		{
			Objective: domain.Objective{ID: "o1", Objective: "Ship v2", Status: domain.OKRActive, Progress: 40},
			Attached: &domain.CorporateKeyResultView{
				KeyResult: domain.CorporateKeyResult{Title: "Grow revenue", Progress: 25},
			},
		},
		{Objective: domain.Objective{ID: "o2", Objective: "Hire", Status: domain.OKRDraft, IsFrozen: true}},
	}
	out := stripANSI(FormatTeamOKRs(okrs))
	assert.Contains(t, out, "Ship v2")
	assert.Contains(t, out, "↳ Grow revenue")
	assert.Contains(t, out, "Active")
	assert.Contains(t, out, "Draft")
	assert.Contains(t, out, "frozen")

	assert.Contains(t, stripANSI(FormatTeamOKRs(nil)), "No OKRs found.")
}

func TestFormatObjective(t *testing.T) {
	idx := 0
	o := &domain.Objective{
		ID: "o1", Objective: "Ship v2", Description: "Second release",
		Progress: 50, Status: domain.OKRActive, ParentOKR: "corp-1", ParentKRIndex: &idx,
		KeyResults: []domain.KeyResult{
			{Title: "Close tasks", MetricType: domain.MetricNumber, ActualValue: 50, TargetValue: 100, Unit: "tasks", Progress: 50},
		},
	}
	out := stripANSI(FormatObjective(o))
	assert.Contains(t, out, "SHIP V2")
	assert.Contains(t, out, "Second release")
	assert.Contains(t, out, "Linked to:")
	assert.Contains(t, out, "50 tasks / 100 tasks")
	assert.Contains(t, out, " 50%")
}

func TestFormatCheckIns(t *testing.T) {
	krs := []domain.KeyResult{{Title: "Close tasks"}}
	out := stripANSI(FormatCheckIns([]domain.CheckIn{
		{
			Comment:   "halfway",
			CreatedAt: time.Now(),
			Updates: []domain.CheckInUpdate{
				{Index: 0, PreviousProgress: 0, NewProgress: 50},
				{Index: 3, PreviousProgress: 10, NewProgress: 20},
			},
		},
	}, krs))
	assert.Contains(t, out, "halfway")
	assert.Contains(t, out, "Close tasks:   0% →  50%")
	assert.Contains(t, out, "#3:")

	assert.Contains(t, stripANSI(FormatCheckIns(nil, nil)), "No check-ins found.")
}

func TestFormatDraft_HighlightsPendingValues(t *testing.T) {
	d := progress.NewDraft(&domain.Objective{
		ID: "o1",
		KeyResults: []domain.KeyResult{
			{Title: "Close tasks", MetricType: domain.MetricNumber, StartValue: 0, TargetValue: 100, Unit: "tasks"},
		},
	})
	_, ok, err := d.Set(0, 50)
	require.NoError(t, err)
	require.True(t, ok)

	out := stripANSI(FormatDraft(d))
	assert.Contains(t, out, "50 tasks / 100 tasks")
	assert.Contains(t, out, " 50%")
}

func TestFormatCompanyStats(t *testing.T) {
	out := stripANSI(FormatCompanyStats(&domain.CompanyStats{
		TotalOKRs: 2, CompletedOKRs: 1, AtRiskOKRs: 1, TotalTeamOKRs: 3, ActiveTeamOKRs: 2,
		Stats: []domain.OKRStats{
			{
				OKR:      domain.StatsOKRRef{ID: "o1", Objective: "Grow revenue"},
				Progress: 100, Status: domain.HealthCompleted,
				KeyResultsProgress: []domain.KeyResultProgress{
					{Title: "ARR", Progress: 100, ActualValue: 10, TargetValue: 10, MetricType: domain.MetricCurrency},
				},
				ProgressHistory: []domain.ProgressPoint{{Value: 0}, {Value: 100}},
			},
			{OKR: domain.StatsOKRRef{ID: "o2", Objective: "Cut churn"}, Status: domain.HealthAtRisk},
		},
	}))
	assert.Contains(t, out, "2 total")
	assert.Contains(t, out, "1 completed")
	assert.Contains(t, out, "2 active")
	assert.Contains(t, out, "Grow revenue")
	assert.Contains(t, out, "COMPLETED")
	assert.Contains(t, out, "AT RISK")
	assert.Contains(t, out, "$10 / $10")
	assert.Contains(t, out, "▁█")
}

func TestFormatTeamStats_Empty(t *testing.T) {
	out := stripANSI(FormatTeamStats(&domain.TeamStats{}))
	assert.Contains(t, out, "0 total")
	assert.Contains(t, out, "No OKRs found.")
}

func TestFormatTeams(t *testing.T) {
	out := stripANSI(FormatTeams([]domain.Team{
		{ID: "t1", Name: "Eng", Members: []domain.TeamMember{{UserID: "u1"}}, RequiredRoles: []string{"dev"}},
	}))
	assert.Contains(t, out, "Eng")
	assert.Contains(t, out, "dev")
	assert.Contains(t, stripANSI(FormatTeams(nil)), "No teams found.")
}
