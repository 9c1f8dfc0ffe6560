package cli

import (
	"errors"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/guard"
	"github.com/okrdesk/okrdesk/internal/progress"
	"github.com/okrdesk/okrdesk/internal/session"
)

// userMessage turns an error into the text shown next to a form or in a
// banner.
func userMessage(err error) string {
	var verr *progress.ValidationError
	var aerr *session.AuthError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &aerr):
		return aerr.Message
	case errors.Is(err, guard.ErrNotCreator):
		return guard.ErrNotCreator.Error()
	case errors.Is(err, api.ErrTimeout):
		return "the server took too long to answer"
	case errors.Is(err, api.ErrNetwork):
		return "cannot reach the server: check your connection"
	case api.StatusOf(err) != 0:
		return api.MessageOf(err)
	}
	return err.Error()
}

// ErrorMessage is the text main prints for a failed command.
func ErrorMessage(err error) string {
	return userMessage(err)
}
