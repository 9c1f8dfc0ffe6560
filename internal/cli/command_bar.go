package cli

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/route"
)

// commandBar is the persistent text input at the bottom of the TUI.
// It handles command entry, autocomplete suggestions, and history navigation.
type commandBar struct {
	input   textinput.Model
	state   *SharedState
	focused bool

	// route of the active view, for path suggestions
	current route.Route

	// command names for suggestions, read from the cobra tree
	commands    []string
	subcommands map[string][]string

	// history
	history    []string
	historyIdx int
}

func newCommandBar(state *SharedState) commandBar {
	ti := state.newTextInput("")
	ti.ShowSuggestions = true
	ti.CharLimit = 500
	ti.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	ti.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))

	hist := loadHistoryFromPath(state.historyPath)
	commands, subcommands := commandNames(state.App)

	return commandBar{
		input:       ti,
		state:       state,
		commands:    commands,
		subcommands: subcommands,
		history:     hist,
		historyIdx:  len(hist),
	}
}

// Focus gives focus to the command bar.
func (c *commandBar) Focus() {
	c.focused = true
	c.input.Focus()
}

// Blur removes focus from the command bar.
func (c *commandBar) Blur() {
	c.focused = false
	c.input.Blur()
}

// Focused returns whether the command bar has focus.
func (c *commandBar) Focused() bool {
	return c.focused
}

// SetWidth updates the input width for terminal resizing.
func (c *commandBar) SetWidth(w int) {
	c.input.Width = w - len(c.promptPrefixPlain()) - 1
}

// SetRoute records where the user is, for path suggestions.
func (c *commandBar) SetRoute(r route.Route) {
	c.current = r
}

// Update handles key messages when the command bar is focused.
// Returns a tea.Cmd that may include navigation or output messages.
func (c *commandBar) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(c.input.Value())
		c.input.Reset()
		c.input.SetSuggestions(nil)
		if input == "" {
			return nil
		}
		c.addHistory(input)
		return c.executeCommand(input)

	case tea.KeyUp:
		c.historyUp()
		return nil

	case tea.KeyDown:
		c.historyDown()
		return nil

	case tea.KeyEsc:
		c.Blur()
		return nil

	default:
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		c.updateSuggestions()
		return cmd
	}
}

// UpdateNonKey handles non-key messages (e.g., cursor blink).
func (c *commandBar) UpdateNonKey(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// View renders the command bar.
func (c *commandBar) View() string {
	if !c.focused {
		return c.promptPrefix() + formatter.Dim("press : to type a command")
	}
	return c.promptPrefix() + c.input.View()
}

func (c *commandBar) promptPrefix() string {
	return formatter.StylePurple.Render("okrdesk") + " " + formatter.Dim("❯") + " "
}

// promptPrefixPlain returns the plain-text prompt for width calculations.
func (c *commandBar) promptPrefixPlain() string {
	return "okrdesk > "
}

// ── history ──────────────────────────────────────────────────────────────────

func (c *commandBar) addHistory(line string) {
	if line == "" {
		return
	}
	c.history = append(c.history, line)
	c.historyIdx = len(c.history)
	appendHistoryToPath(c.state.historyPath, line)
}

func (c *commandBar) historyUp() {
	if c.historyIdx > 0 {
		c.historyIdx--
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	}
}

func (c *commandBar) historyDown() {
	if c.historyIdx < len(c.history)-1 {
		c.historyIdx++
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	} else {
		c.historyIdx = len(c.history)
		c.input.SetValue("")
	}
}

// ── suggestions ──────────────────────────────────────────────────────────────

// shellBuiltins are handled by the command bar itself.
var shellBuiltins = []string{"go", "back", "companies", "whoami", "logout", "help", "clear", "exit", "quit"}

// commandNames reads top-level and second-level command names from the
// cobra tree so suggestions never drift from the CLI.
func commandNames(app *App) ([]string, map[string][]string) {
	root := NewRootCmd(app)
	names := append([]string(nil), shellBuiltins...)
	subs := map[string][]string{}
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "tui" || cmd.Name() == "help" || cmd.Name() == "completion" {
			continue
		}
		names = append(names, cmd.Name())
		for _, sub := range cmd.Commands() {
			subs[cmd.Name()] = append(subs[cmd.Name()], sub.Name())
		}
	}
	sort.Strings(names)
	return names, subs
}

func (c *commandBar) updateSuggestions() {
	text := c.input.Value()
	if text == "" {
		c.input.SetSuggestions(nil)
		return
	}

	parts := strings.Fields(text)
	trailingSpace := strings.HasSuffix(text, " ")

	if len(parts) <= 1 && !trailingSpace {
		c.input.SetSuggestions(filterSuggestions(c.commands, parts[0]))
		return
	}

	cmd := strings.ToLower(parts[0])
	if len(parts) <= 2 && (!trailingSpace || len(parts) == 1) {
		prefix := ""
		if len(parts) == 2 {
			prefix = parts[1]
		}
		var pool []string
		if cmd == "go" {
			pool = routeSuggestions(c.current)
		} else {
			pool = c.subcommands[cmd]
		}
		// Suggestions replace the whole input, so they carry the command.
		full := make([]string, 0, len(pool))
		for _, s := range filterSuggestions(pool, prefix) {
			full = append(full, parts[0]+" "+s)
		}
		c.input.SetSuggestions(full)
		return
	}

	c.input.SetSuggestions(nil)
}

// routeSuggestions lists paths reachable from r.
func routeSuggestions(r route.Route) []string {
	out := []string{"/"}
	if r.CompanyID == "" {
		return out
	}
	c := route.ToCompany(r.CompanyID)
	out = append(out,
		c.Path(),
		route.ToCorporateOKRs(r.CompanyID).Path(),
		route.ToTeams(r.CompanyID).Path(),
		route.ToCompanyStats(r.CompanyID).Path(),
		route.ToSettings(r.CompanyID).Path(),
	)
	if r.TeamID != "" {
		out = append(out,
			route.ToTeam(r.CompanyID, r.TeamID).Path(),
			route.ToTeamStats(r.CompanyID, r.TeamID).Path(),
		)
	}
	return out
}

// filterSuggestions returns items from pool that start with prefix (case-insensitive).
func filterSuggestions(pool []string, prefix string) []string {
	if prefix == "" {
		return pool
	}
	lp := strings.ToLower(prefix)
	var result []string
	for _, s := range pool {
		if strings.HasPrefix(strings.ToLower(s), lp) {
			result = append(result, s)
		}
	}
	return result
}
