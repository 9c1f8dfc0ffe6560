package formatter

import (
	"fmt"
	"strings"
)

type helpCategory struct {
	title    string
	commands [][]string
}

func renderHelpCategory(cat helpCategory) string {
	var b strings.Builder
	b.WriteString("\n " + StyleHeader.Render(strings.ToUpper(cat.title)) + "\n")
	for _, c := range cat.commands {
		b.WriteString(fmt.Sprintf("  %-28s %s\n", StyleGreen.Render(c[0]), StyleDim.Render(c[1])))
	}
	return b.String()
}

// FormatShellHelp renders the command bar reference.
func FormatShellHelp() string {
	categories := []helpCategory{
		{
			title: "Navigation",
			commands: [][]string{
				{"go <path>", "Open a screen by path, e.g. go /companies/<id>/okrs"},
				{"companies", "Open the company list"},
				{"back", "Return to the previous screen"},
			},
		},
		{
			title: "Session",
			commands: [][]string{
				{"whoami", "Show the signed-in user"},
				{"logout", "Sign out and return to the login screen"},
			},
		},
		{
			title: "Commands",
			commands: [][]string{
				{"company list", "Any okrdesk subcommand runs here as well"},
				{"okr show <id>", "Show an objective with its key results"},
				{"stats company <company>", "Print a statistics snapshot"},
			},
		},
		{
			title: "Shell",
			commands: [][]string{
				{"help", "Show this reference"},
				{"clear", "Dismiss command output"},
				{"exit, quit", "Leave okrdesk"},
			},
		},
	}

	var b strings.Builder
	for _, cat := range categories {
		b.WriteString(renderHelpCategory(cat))
	}
	b.WriteString("\n " + Dim("↑/↓ browse history  ·  ctrl+n/ctrl+p cycle suggestions") + "\n")
	return b.String()
}
