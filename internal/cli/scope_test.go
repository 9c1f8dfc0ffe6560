package cli

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewScope_CloseCancelsRequests(t *testing.T) {
	s := newViewScope()
	started := make(chan struct{})
	cmd := loadCmd(s, func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	<-started
	s.Close()

	msg := (<-done).(loadedMsg[int])
	assert.True(t, s.owns(msg.scope))
	assert.ErrorIs(t, msg.err, context.Canceled)
}

func TestViewScope_StaleResultIgnored(t *testing.T) {
	state := newSharedState(&App{})
	v := newCompanyStatsView(state, "c1")
	other := newViewScope()

	updated, _ := v.Update(loadedMsg[*domain.CompanyStats]{scope: other.id, data: &domain.CompanyStats{}})
	assert.True(t, updated.(*statsView).loading, "a result from another scope must not land")

	updated, _ = v.Update(loadedMsg[*domain.CompanyStats]{scope: v.scope.id, err: errors.New("boom")})
	sv := updated.(*statsView)
	assert.False(t, sv.loading)
	assert.Contains(t, sv.View(), "boom")
}

func TestSafe_RecoversPanics(t *testing.T) {
	cmd := safe(func() tea.Msg { panic("kaboom") })
	msg, ok := cmd().(bannerMsg)
	require.True(t, ok)
	assert.ErrorContains(t, msg.err, "kaboom")
	assert.Nil(t, safe(nil))
}
