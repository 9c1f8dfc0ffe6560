package cli

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

var scopeSeq atomic.Uint64

// viewScope ties a view's requests to its lifetime. Closing the scope
// cancels in-flight requests; their results carry the scope id and are
// ignored by every other view.
type viewScope struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func newViewScope() viewScope {
	ctx, cancel := context.WithCancel(context.Background())
	return viewScope{id: scopeSeq.Add(1), ctx: ctx, cancel: cancel}
}

// Close cancels the scope's context.
func (s viewScope) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// owns reports whether a result with the given scope id belongs here.
func (s viewScope) owns(id uint64) bool { return id == s.id }

// loadedMsg carries the result of a view's load.
type loadedMsg[T any] struct {
	scope uint64
	data  T
	err   error
}

// actionMsg carries the result of a mutation started by a view. key names
// the affected row so only that row is re-enabled.
type actionMsg struct {
	scope uint64
	key   string
	done  string
	err   error
}

// loadCmd runs fn within the scope and reports a loadedMsg.
func loadCmd[T any](s viewScope, fn func(ctx context.Context) (T, error)) tea.Cmd {
	return safe(func() tea.Msg {
		data, err := fn(s.ctx)
		return loadedMsg[T]{scope: s.id, data: data, err: err}
	})
}

// actionCmd runs a mutation within the scope and reports an actionMsg.
func actionCmd(s viewScope, key, done string, fn func(ctx context.Context) error) tea.Cmd {
	return safe(func() tea.Msg {
		err := fn(s.ctx)
		return actionMsg{scope: s.id, key: key, done: done, err: err}
	})
}

// safe converts a panic inside cmd into an error banner.
func safe(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = bannerMsg{err: fmt.Errorf("internal error: %v", r)}
			}
		}()
		return cmd()
	}
}
