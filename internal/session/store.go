// Package session owns the signed-in identity: the bearer token and the
// cached user profile. Nothing else reads or writes them.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/db"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/repository"
)

// MinPasswordLength is the shortest password registration accepts.
const MinPasswordLength = 6

// Authenticator is the part of the API the store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*api.AuthResponse, error)
}

// Store holds the current session in memory and persists it as one
// token+user pair.
type Store struct {
	auth Authenticator
	repo repository.StateRepo
	uow  db.UnitOfWork

	mu      sync.RWMutex
	current domain.Session
}

func NewStore(auth Authenticator, repo repository.StateRepo, uow db.UnitOfWork) *Store {
	return &Store{auth: auth, repo: repo, uow: uow}
}

// Init loads the persisted pair. A pair with one half missing or unreadable
// is treated as logged out and cleared.
func (s *Store) Init(ctx context.Context) error {
	token, tokErr := s.repo.Get(ctx, repository.KeyToken)
	userJSON, userErr := s.repo.Get(ctx, repository.KeyUser)

	for _, err := range []error{tokErr, userErr} {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("loading session: %w", err)
		}
	}
	if tokErr != nil && userErr != nil {
		s.set(domain.Session{})
		return nil
	}

	var sess domain.Session
	if tokErr == nil && userErr == nil {
		sess.Token = token
		if err := json.Unmarshal([]byte(userJSON), &sess.User); err != nil {
			sess = domain.Session{}
		}
	}
	if !sess.Valid() {
		s.set(domain.Session{})
		return s.clear(ctx)
	}
	s.set(sess)
	return nil
}

// Login authenticates and persists the session.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Session{}, &AuthError{Kind: KindValidation, Field: "email", Message: "email is required"}
	}
	if password == "" {
		return domain.Session{}, &AuthError{Kind: KindValidation, Field: "password", Message: "password is required"}
	}

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, mapLoginError(err)
	}
	return s.establish(ctx, resp)
}

// Register creates an account and persists the resulting session.
func (s *Store) Register(ctx context.Context, name, email, password string) (domain.Session, error) {
	if err := ValidateRegistration(name, email, password); err != nil {
		return domain.Session{}, err
	}

	resp, err := s.auth.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	if err != nil {
		return domain.Session{}, mapRegisterError(err)
	}
	return s.establish(ctx, resp)
}

// ValidateRegistration checks registration fields before any request.
func ValidateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return &AuthError{Kind: KindValidation, Field: "name", Message: "name is required"}
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return &AuthError{Kind: KindValidation, Field: "email", Message: "enter a valid email address"}
	}
	if len(password) < MinPasswordLength {
		return &AuthError{Kind: KindValidation, Field: "password",
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// Logout clears the persisted pair and the in-memory session.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	s.set(domain.Session{})
	return nil
}

func (s *Store) establish(ctx context.Context, resp *api.AuthResponse) (domain.Session, error) {
	sess := domain.Session{Token: resp.Token, User: resp.User}
	if !sess.Valid() {
		return domain.Session{}, &AuthError{Kind: KindOther, Message: "server returned an incomplete session"}
	}

	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encoding user: %w", err)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteStateRepo(tx)
		if err := repo.Set(ctx, repository.KeyToken, sess.Token); err != nil {
			return err
		}
		return repo.Set(ctx, repository.KeyUser, string(userJSON))
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("saving session: %w", err)
	}
	s.set(sess)
	return sess, nil
}

func (s *Store) clear(ctx context.Context) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteStateRepo(tx)
		if err := repo.Delete(ctx, repository.KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, repository.KeyUser)
	})
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func (s *Store) set(sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Token returns the bearer token, or "" when logged out. It satisfies
// api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// User returns the cached profile.
func (s *Store) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.User
}

// Current returns a copy of the whole session.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Claims is the displayable part of the bearer token.
type Claims struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Claims decodes the token without verifying it. The client never enforces
// expiry; the values are informational.
func (s *Store) Claims() (*Claims, error) {
	tok := s.Token()
	if tok == "" {
		return nil, ErrNotAuthenticated
	}
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &rc); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}
	out := &Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		t := rc.IssuedAt.Time
		out.IssuedAt = &t
	}
	if rc.ExpiresAt != nil {
		t := rc.ExpiresAt.Time
		out.ExpiresAt = &t
	}
	return out, nil
}

func mapLoginError(err error) error {
	switch {
	case errors.Is(err, api.ErrNetwork):
		return err
	case api.StatusOf(err) == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case api.StatusOf(err) == http.StatusNotFound:
		return ErrUserNotFound
	case api.StatusOf(err) != 0:
		return &AuthError{Kind: KindOther, Message: messageOr(err, "login failed")}
	}
	return fmt.Errorf("login: %w", err)
}

func mapRegisterError(err error) error {
	if errors.Is(err, api.ErrNetwork) {
		return err
	}
	if api.StatusOf(err) != 0 {
		return &AuthError{Kind: KindOther, Message: messageOr(err, "registration failed")}
	}
	return fmt.Errorf("register: %w", err)
}

func messageOr(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
