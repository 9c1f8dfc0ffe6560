package cli

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/okrdesk/okrdesk/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Terminal dimensions
	Width  int
	Height int

	// Company names seen in lists, used for breadcrumbs and suggestions.
	companyNames map[string]string
	teamNames    map[string]string

	// staticCursor disables cursor blinking in text inputs.
	staticCursor bool

	historyPath string
}

func newSharedState(app *App) *SharedState {
	return &SharedState{
		App:          app,
		companyNames: map[string]string{},
		teamNames:    map[string]string{},
		historyPath:  shellHistoryPath(),
	}
}

// Session returns the current session pair.
func (s *SharedState) Session() domain.Session {
	return s.App.Session.Current()
}

func (s *SharedState) rememberCompany(id, name string) {
	if id != "" && name != "" {
		s.companyNames[id] = name
	}
}

func (s *SharedState) rememberTeam(id, name string) {
	if id != "" && name != "" {
		s.teamNames[id] = name
	}
}

// CompanyName returns a known company name, or the fallback.
func (s *SharedState) CompanyName(id, fallback string) string {
	if n, ok := s.companyNames[id]; ok {
		return n
	}
	return fallback
}

// TeamName returns a known team name, or the fallback.
func (s *SharedState) TeamName(id, fallback string) string {
	if n, ok := s.teamNames[id]; ok {
		return n
	}
	return fallback
}

// newTextInput returns a text input configured for the TUI.
func (s *SharedState) newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	if s.staticCursor {
		ti.Cursor.SetMode(cursor.CursorStatic)
	}
	return ti
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator),
// status bar (2 lines: separator + hints), and command bar (1 line).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}
