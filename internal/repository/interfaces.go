package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// StateKey names one entry of the persisted client state.
type StateKey string

const (
	KeyToken StateKey = "token"
	KeyUser  StateKey = "user"
)

// StateRepo stores the small set of values the client keeps between runs.
type StateRepo interface {
	Get(ctx context.Context, key StateKey) (string, error)
	Set(ctx context.Context, key StateKey, value string) error
	Delete(ctx context.Context, key StateKey) error
	Keys(ctx context.Context) ([]StateKey, error)
}
