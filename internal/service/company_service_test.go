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

func TestCompanyService_CreateThenCards(t *testing.T) {
	b := setupBackend(t)
	svc := NewCompanyService(b.client)
	ctx := context.Background()

	created, err := svc.Create(ctx, "  Acme ")
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)

	cards, err := svc.Cards(ctx, b.session())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Acme", cards[0].Name)
	assert.True(t, cards[0].IsCreator)
	assert.Equal(t, 1, cards[0].MemberCount)
}

func TestCompanyService_CardsForMemberCompany(t *testing.T) {
	b := setupBackend(t)
	owner := b.srv.SeedUser("Owner", "o@b.com", "secret1")
	b.srv.CreateCompany("Globex", owner.ID, b.user.ID)

	cards, err := NewCompanyService(b.client).Cards(context.Background(), b.session())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.False(t, cards[0].IsCreator)
	assert.Equal(t, 2, cards[0].MemberCount)
	assert.Empty(t, cards[0].Roles)
}

func TestCompanyService_CardsDeriveCreatorFromSession(t *testing.T) {
	b := setupBackend(t)
	b.srv.CreateCompany("Acme", b.user.ID)
	svc := NewCompanyService(b.client)

	other := domain.Session{Token: "t", User: domain.User{ID: "someone-else"}}
	cards, err := svc.Cards(context.Background(), other)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.False(t, cards[0].IsCreator, "the detail's creator is compared with the session user")

	cards, err = svc.Cards(context.Background(), domain.Session{})
	require.NoError(t, err)
	assert.False(t, cards[0].IsCreator)
}

func TestCompanyService_CardsFailWhenAnyDetailFails(t *testing.T) {
	b := setupBackend(t)
	b.srv.CreateCompany("Acme", b.user.ID)
	broken := b.srv.CreateCompany("Broken", b.user.ID)
	b.srv.FailNext(http.MethodGet, "/companies/"+broken.ID, http.StatusInternalServerError, "db down")

	cards, err := NewCompanyService(b.client).Cards(context.Background(), b.session())
	require.Error(t, err)
	assert.Nil(t, cards)
	assert.Equal(t, http.StatusInternalServerError, api.StatusOf(err))
}

func TestCompanyService_CreateRequiresName(t *testing.T) {
	b := setupBackend(t)
	_, err := NewCompanyService(b.client).Create(context.Background(), "   ")

	var verr *progress.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Zero(t, b.srv.RequestCount())
}

func TestCompanyService_Resolve(t *testing.T) {
	b := setupBackend(t)
	acme := b.srv.CreateCompany("Acme Corp", b.user.ID)
	b.srv.CreateCompany("Globex", b.user.ID)
	svc := NewCompanyService(b.client)
	ctx := context.Background()

	got, err := svc.Resolve(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)

	got, err = svc.Resolve(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, got.ID)

	_, err = svc.Resolve(ctx, "initech")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestCompanyService_ObserverLogsUseCase(t *testing.T) {
	b := setupBackend(t)
	obs, buf := logObserver()

	_, err := NewCompanyService(b.client, obs).Create(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "use_case=create-company")
	assert.Contains(t, buf.String(), "success=true")
}
