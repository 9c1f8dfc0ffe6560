package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_MembersAndRoles(t *testing.T) {
	b := setupBackend(t)
	bob := b.srv.SeedUser("Bob", "bob@b.com", "secret1")
	co := b.srv.CreateCompany("Acme", b.user.ID, bob.ID)
	ctx := context.Background()
	require.NoError(t, NewRoleService(b.client).Create(ctx, co.ID, domain.Role{Name: "lead"}))

	teams := NewTeamService(b.client)
	team, err := teams.Create(ctx, co.ID, "Eng", "builds things")
	require.NoError(t, err)

	require.NoError(t, teams.AddMembers(ctx, team.ID, []string{bob.ID, b.user.ID}))
	require.NoError(t, teams.AddRoles(ctx, team.ID, []string{"lead"}))

	detail, err := teams.Detail(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Members, 2)
	assert.Equal(t, []string{"lead"}, detail.Team.RequiredRoles)

	require.NoError(t, teams.RemoveMembers(ctx, team.ID, []string{bob.ID}))
	require.NoError(t, teams.RemoveRoles(ctx, team.ID, []string{"lead"}))
	detail, err = teams.Detail(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Members, 1)
	assert.Empty(t, detail.Team.RequiredRoles)

	require.NoError(t, teams.Delete(ctx, team.ID))
	list, err := teams.List(ctx, co.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTeamService_BulkNeedsEntries(t *testing.T) {
	b := setupBackend(t)
	err := NewTeamService(b.client).AddMembers(context.Background(), "t1", []string{" ", ""})

	var verr *progress.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, b.srv.RequestCount())
}

func TestTeamService_NonCreatorCannotCreate(t *testing.T) {
	b := setupBackend(t)
	member := b.srv.SeedUser("Bob", "bob@b.com", "secret1")
	co := b.srv.CreateCompany("Acme", b.user.ID, member.ID)

	_, err := NewTeamService(b.as(member)).Create(context.Background(), co.ID, "Eng", "")
	assert.True(t, api.IsForbidden(err))
}

func TestRoleService_RenameIsDeleteThenCreate(t *testing.T) {
	b := setupBackend(t)
	co := b.srv.CreateCompany("Acme", b.user.ID)
	roles := NewRoleService(b.client)
	ctx := context.Background()
	require.NoError(t, roles.Create(ctx, co.ID, domain.Role{Name: "lead"}))

	require.NoError(t, roles.Rename(ctx, co.ID, "lead", domain.Role{Name: "manager", Description: "runs the team"}))
	list, err := roles.List(ctx, co.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{{Name: "manager", Description: "runs the team"}}, list)
	assert.Equal(t, 1, b.srv.CountRequests(http.MethodDelete, "/companies/"+co.ID+"/roles/lead"))
}

func TestMemberService_AddAssignAndSearch(t *testing.T) {
	b := setupBackend(t)
	bob := b.srv.SeedUser("Bob", "bob@example.com", "secret1")
	co := b.srv.CreateCompany("Acme", b.user.ID)
	ctx := context.Background()
	require.NoError(t, NewRoleService(b.client).Create(ctx, co.ID, domain.Role{Name: "lead"}))

	members := NewMemberService(b.client)
	found, err := members.Search(ctx, "example")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bob.ID, found[0].ID)

	blank, err := members.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, blank)

	require.NoError(t, members.Add(ctx, co.ID, bob.ID))
	require.NoError(t, members.AssignRoles(ctx, co.ID, bob.ID, []string{"lead"}))

	list, err := members.List(ctx, co.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"lead"}, list[1].Roles)

	require.NoError(t, members.RemoveRoles(ctx, co.ID, bob.ID, []string{"lead"}))
	require.NoError(t, members.Remove(ctx, co.ID, bob.ID))
	list, err = members.List(ctx, co.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStatsService_CountsCompletedAndFrozen(t *testing.T) {
	b := setupBackend(t)
	co := b.srv.CreateCompany("Acme", b.user.ID)
	ctx := context.Background()
	okrs := NewOKRService(b.client)

	done, err := okrs.CreateCorporate(ctx, co.ID, api.ObjectiveInput{
		Objective: "Done", KeyResults: []api.KeyResultInput{numberKR("Tasks", 10)},
	})
	require.NoError(t, err)
	late, err := okrs.CreateCorporate(ctx, co.ID, api.ObjectiveInput{
		Objective: "Late", Deadline: "2000-01-01", KeyResults: []api.KeyResultInput{numberKR("Tasks", 10)},
	})
	require.NoError(t, err)

	checkIns := NewCheckInService(b.client)
	draft, err := checkIns.Draft(ctx, done.ID)
	require.NoError(t, err)
	_, _, err = draft.Set(0, 10)
	require.NoError(t, err)
	draft.SetComment("finished")
	_, err = checkIns.Submit(ctx, draft)
	require.NoError(t, err)
	require.NoError(t, okrs.SetFrozen(ctx, late.ID, true, true))

	stats, err := NewStatsService(b.client).Company(ctx, co.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOKRs)
	assert.Equal(t, 1, stats.CompletedOKRs)
	assert.Equal(t, 1, stats.AtRiskOKRs)
	assert.Equal(t, 1, stats.FrozenOKRs)
	require.Len(t, stats.Stats, 2)
	assert.Equal(t, domain.HealthCompleted, stats.Stats[0].Status)
	assert.Len(t, stats.Stats[0].ProgressHistory, 1)
}
