package service

import (
	"context"
	"testing"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckIn_TeamEngCorporateOKRFlow creates a team and a corporate OKR
// assigned to it, checks in halfway and reads back history and progress.
func TestCheckIn_TeamEngCorporateOKRFlow(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	co, err := NewCompanyService(b.client).Create(ctx, "X")
	require.NoError(t, err)
	team, err := NewTeamService(b.client).Create(ctx, co.ID, "Eng", "")
	require.NoError(t, err)

	okr, err := NewOKRService(b.client).CreateCorporate(ctx, co.ID, api.ObjectiveInput{
		Objective: "Deliver",
		KeyResults: []api.KeyResultInput{{
			Title: "Tasks", MetricType: domain.MetricNumber, StartValue: 0, TargetValue: 100, Unit: "tasks",
			Teams: []string{team.ID},
		}},
	})
	require.NoError(t, err)

	svc := NewCheckInService(b.client)
	draft, err := svc.Draft(ctx, okr.ID)
	require.NoError(t, err)
	_, _, err = draft.Set(0, 50)
	require.NoError(t, err)
	draft.SetComment("halfway there")

	_, err = svc.Submit(ctx, draft)
	require.NoError(t, err)

	history, err := svc.List(ctx, okr.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].Updates, 1)
	assert.Equal(t, 0.0, history[0].Updates[0].PreviousProgress)
	assert.Equal(t, 50.0, history[0].Updates[0].NewProgress)

	reloaded, err := NewOKRService(b.client).Get(ctx, okr.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, reloaded.KeyResults[0].Progress)
}

func TestCheckIn_EmptyCommentIsBlockedLocally(t *testing.T) {
	b := setupBackend(t)
	co := b.srv.CreateCompany("X", b.user.ID)
	ctx := context.Background()
	okr, err := NewOKRService(b.client).CreateCorporate(ctx, co.ID, api.ObjectiveInput{
		Objective: "Deliver", KeyResults: []api.KeyResultInput{numberKR("Tasks", 100)},
	})
	require.NoError(t, err)

	svc := NewCheckInService(b.client)
	draft, err := svc.Draft(ctx, okr.ID)
	require.NoError(t, err)
	_, _, err = draft.Set(0, 10)
	require.NoError(t, err)
	draft.SetComment("   ")

	before := b.srv.RequestCount()
	_, err = svc.Submit(ctx, draft)

	var verr *progress.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "comment", verr.Field)
	assert.NotEmpty(t, verr.Message)
	assert.Equal(t, before, b.srv.RequestCount(), "no request may be sent")
}

func TestCheckIn_FrozenOKRIsRejectedByServer(t *testing.T) {
	b := setupBackend(t)
	co := b.srv.CreateCompany("X", b.user.ID)
	ctx := context.Background()
	okrs := NewOKRService(b.client)
	okr, err := okrs.CreateCorporate(ctx, co.ID, api.ObjectiveInput{
		Objective: "Deliver", KeyResults: []api.KeyResultInput{numberKR("Tasks", 100)},
	})
	require.NoError(t, err)

	svc := NewCheckInService(b.client)
	draft, err := svc.Draft(ctx, okr.ID)
	require.NoError(t, err)
	require.NoError(t, okrs.SetFrozen(ctx, okr.ID, true, true))

	draft.SetComment("late")
	_, err = svc.Submit(ctx, draft)
	assert.True(t, api.IsForbidden(err))
}
