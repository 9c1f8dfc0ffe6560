package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/route"
)

// shellResultMsg carries the captured output of a cobra command run from
// the command bar.
type shellResultMsg struct {
	output string
}

// executeCommand dispatches a text command and returns a tea.Cmd.
// Commands may return cmdOutputMsg for display, navigation messages
// for view transitions, or quitMsg for exit.
func (c *commandBar) executeCommand(input string) tea.Cmd {
	parts, err := splitShellArgs(input)
	if err != nil {
		return outputCmd(shellError(err))
	}
	if len(parts) == 0 {
		return nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "go", "cd":
		if len(args) != 1 {
			return outputCmd(formatter.StyleYellow.Render("Usage: go <path>, e.g. go /companies/<id>/okrs"))
		}
		r, err := route.Parse(args[0])
		if err != nil {
			return outputCmd(shellError(err))
		}
		c.Blur()
		return navigate(r)
	case "companies", "home":
		c.Blur()
		return navigate(route.ToCompanies())
	case "back":
		c.Blur()
		return popView()
	case "whoami":
		return c.cmdWhoAmI()
	case "logout":
		c.Blur()
		return c.cmdLogout()
	case "help":
		return outputCmd(formatter.FormatShellHelp())
	case "clear":
		return nil
	case "exit", "quit":
		return func() tea.Msg { return quitMsg{} }
	}

	app := c.state.App
	return tea.Batch(
		loadingCmd("Running "+cmd+"..."),
		safe(func() tea.Msg {
			return shellResultMsg{output: captureCobraOutput(app, parts)}
		}),
	)
}

func (c *commandBar) cmdWhoAmI() tea.Cmd {
	store := c.state.App.Session
	var subject, expires string
	if claims, err := store.Claims(); err == nil {
		subject = claims.Subject
		if claims.ExpiresAt != nil {
			expires = claims.ExpiresAt.Local().Format(time.RFC1123)
		}
	}
	return outputCmd(formatter.FormatWhoAmI(store.User(), subject, expires))
}

func (c *commandBar) cmdLogout() tea.Cmd {
	store := c.state.App.Session
	return safe(func() tea.Msg {
		if err := store.Logout(context.Background()); err != nil {
			return bannerMsg{err: fmt.Errorf("logout: %w", err)}
		}
		return sessionEndedMsg{}
	})
}

// shellError renders an error for the output area.
func shellError(err error) string {
	return formatter.StyleRed.Render("Error: " + userMessage(err))
}
