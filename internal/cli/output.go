package cli

import (
	"fmt"
	"os"

	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func writeln(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}

// busy runs fn behind a spinner on stderr when attached to a terminal.
// Output redirected by the command bar never gets one.
func busy[T any](cmd *cobra.Command, app *App, message string, fn func() (T, error)) (T, error) {
	if app.IsInteractive && cmd.ErrOrStderr() == os.Stderr {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), message)
		defer stop()
	}
	return fn()
}
