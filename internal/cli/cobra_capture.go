package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/service"
	"github.com/spf13/cobra"
)

// captureCobraOutput runs a command through the Cobra tree and returns what
// it printed. Commands write to cmd.OutOrStdout, so nothing reaches the
// alternate screen directly.
func captureCobraOutput(app *App, args []string) string {
	// A terminal prompt or spinner inside the TUI would corrupt the screen.
	shell := *app
	shell.IsInteractive = false

	var buf bytes.Buffer
	root := NewRootCmd(&shell)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	if err := root.ExecuteContext(context.Background()); err != nil {
		if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteString("\n")
		}
		buf.WriteString(shellError(err))
		if strings.Contains(err.Error(), "unknown command") && len(args) > 0 {
			if hint := suggestAlternatives(root, args[0]); hint != "" {
				buf.WriteString("\n" + hint)
			}
		}
	}
	return buf.String()
}

// suggestAlternatives returns fuzzy-matched command suggestions for an unrecognized input.
func suggestAlternatives(root *cobra.Command, input string) string {
	var paths []string
	var shorts []string
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		for _, sub := range cmd.Commands() {
			if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
				continue
			}
			paths = append(paths, strings.TrimPrefix(sub.CommandPath(), root.Name()+" "))
			shorts = append(shorts, sub.Short)
			walk(sub)
		}
	}
	walk(root)

	ranks := service.RankFind(input, paths)
	if len(ranks) == 0 || strings.TrimSpace(input) == "" {
		return ""
	}
	if len(ranks) > 3 {
		ranks = ranks[:3]
	}
	var b strings.Builder
	b.WriteString(formatter.Dim("Did you mean:"))
	for _, r := range ranks {
		b.WriteString(fmt.Sprintf("\n  %s  %s",
			formatter.StyleGreen.Render(r.Target),
			formatter.Dim(shorts[r.OriginalIndex]),
		))
	}
	return b.String()
}
