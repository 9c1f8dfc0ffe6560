// Package guard decides whether the current identity may open a screen.
// It reads the session and, for company settings, the company record; it
// never changes state.
package guard

import (
	"context"
	"errors"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
)

var (
	// ErrNotAuthenticated is the reason for redirects to the login screen.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrNotCreator is the reason for redirects out of company settings.
	ErrNotCreator = errors.New("not the company creator")
)

// Outcome is the verdict of a check.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

// Decision is the result of a guard check. Target is set for redirects.
type Decision struct {
	Outcome Outcome
	Target  route.Route
	Reason  error
}

func allow() Decision { return Decision{Outcome: Allow} }

func redirect(target route.Route, reason error) Decision {
	return Decision{Outcome: Redirect, Target: target, Reason: reason}
}

// Allowed reports whether the decision lets navigation proceed.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Err returns nil for Allow and the redirect reason otherwise.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return d.Reason
}

// Identity is the read side of the session store.
type Identity interface {
	IsAuthenticated() bool
	Current() domain.Session
}

// CompanyFetcher loads a company record.
type CompanyFetcher interface {
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
}

type Guard struct {
	identity  Identity
	companies CompanyFetcher
}

func New(identity Identity, companies CompanyFetcher) *Guard {
	return &Guard{identity: identity, companies: companies}
}

// RequireAuth allows when a token is held and redirects to /login otherwise.
func (g *Guard) RequireAuth() Decision {
	if !g.identity.IsAuthenticated() {
		return redirect(route.ToLogin(), ErrNotAuthenticated)
	}
	return allow()
}

// RequireCreator fetches the company on every call and allows only its
// creator. Any fetch failure redirects to the company overview.
func (g *Guard) RequireCreator(ctx context.Context, companyID string) Decision {
	overview := route.ToCompany(companyID)
	company, err := g.companies.GetCompany(ctx, companyID)
	if err != nil {
		return redirect(overview, errors.Join(ErrNotCreator, err))
	}
	if !domain.IsCreator(company, g.identity.Current()) {
		return redirect(overview, ErrNotCreator)
	}
	return allow()
}

// Check applies the auth gate to every non-public route and the creator
// gate to the settings subtree.
func (g *Guard) Check(ctx context.Context, r route.Route) Decision {
	if r.Public() {
		return allow()
	}
	if d := g.RequireAuth(); !d.Allowed() {
		return d
	}
	if r.CreatorOnly() {
		return g.RequireCreator(ctx, r.CompanyID)
	}
	return allow()
}

// NeedsFetch reports whether Check will issue a request for r, which the UI
// uses to decide whether to show a pending placeholder.
func (g *Guard) NeedsFetch(r route.Route) bool {
	return r.CreatorOnly() && g.identity.IsAuthenticated()
}
