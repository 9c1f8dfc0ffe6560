package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
)

// fieldSpec describes one input of a textForm.
type fieldSpec struct {
	label       string
	placeholder string
	required    bool
	secret      bool
}

type formField struct {
	fieldSpec
	input textinput.Model
}

// textForm is a small inline form used for sign-in and for entity
// creation. Submission is refused while a required field is blank or a
// previous submission is still in flight.
type textForm struct {
	fields     []formField
	focus      int
	submitting bool
	err        string
}

func newTextForm(state *SharedState, specs ...fieldSpec) textForm {
	f := textForm{fields: make([]formField, len(specs))}
	for i, spec := range specs {
		ti := state.newTextInput(spec.placeholder)
		if spec.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields[i] = formField{fieldSpec: spec, input: ti}
	}
	return f
}

// Focus focuses the first field.
func (f *textForm) Focus() tea.Cmd {
	f.focus = 0
	return f.focusCurrent()
}

func (f *textForm) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	return cmd
}

// FocusField moves focus to the field with the given label.
func (f *textForm) FocusField(label string) {
	for i, fl := range f.fields {
		if strings.EqualFold(fl.label, label) {
			f.focus = i
			f.focusCurrent()
			return
		}
	}
}

// Value returns the trimmed value of field i.
func (f *textForm) Value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

// Raw returns the untrimmed value of field i, for passwords.
func (f *textForm) Raw(i int) string {
	return f.fields[i].input.Value()
}

// SetValue prefills field i.
func (f *textForm) SetValue(i int, v string) {
	f.fields[i].input.SetValue(v)
}

// missing returns the label of the first blank required field.
func (f *textForm) missing() string {
	for i, fl := range f.fields {
		if fl.required && f.Value(i) == "" {
			return fl.label
		}
	}
	return ""
}

// CanSubmit reports whether a submission would be sent.
func (f *textForm) CanSubmit() bool {
	return !f.submitting && f.missing() == ""
}

// Update handles a key. submit is true when enter was pressed on the last
// field and the form may be sent; the caller then marks it submitting.
func (f *textForm) Update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % len(f.fields)
		return false, f.focusCurrent()
	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
		return false, f.focusCurrent()
	case tea.KeyEnter:
		if f.focus < len(f.fields)-1 {
			f.focus++
			return false, f.focusCurrent()
		}
		if f.submitting {
			return false, nil
		}
		if label := f.missing(); label != "" {
			f.err = label + " is required"
			f.FocusField(label)
			return false, nil
		}
		f.err = ""
		return true, nil
	}
	var c tea.Cmd
	f.fields[f.focus].input, c = f.fields[f.focus].input.Update(msg)
	return false, c
}

// Start marks the form as submitting.
func (f *textForm) Start() {
	f.submitting = true
	f.err = ""
}

// Fail ends a submission with an inline error, keeping the values.
func (f *textForm) Fail(err error) {
	f.submitting = false
	f.err = userMessage(err)
}

// Reset ends a successful submission and clears every field.
func (f *textForm) Reset() {
	f.submitting = false
	f.err = ""
	for i := range f.fields {
		f.fields[i].input.Reset()
	}
	f.focus = 0
	f.focusCurrent()
}

func (f *textForm) View() string {
	var b strings.Builder
	width := 0
	for _, fl := range f.fields {
		width = max(width, len(fl.label))
	}
	for i, fl := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = formatter.StyleGreen.Render("▸ ")
		}
		label := fl.label
		if fl.required {
			label += "*"
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", marker, formatter.Dim(padRight(label, width+1)), fl.input.View()))
	}
	switch {
	case f.submitting:
		b.WriteString("\n  " + formatter.Dim("Saving...") + "\n")
	case f.err != "":
		b.WriteString("\n  " + formatter.StyleRed.Render(f.err) + "\n")
	}
	return b.String()
}

// rowGuard tracks a confirmation prompt and the rows with a request in
// flight. Only the affected row is disabled; the disable lifts on settle.
type rowGuard struct {
	confirming string
	inflight   map[string]bool
}

func newRowGuard() rowGuard {
	return rowGuard{inflight: map[string]bool{}}
}

// Ask starts a confirmation for key unless a request for it is running.
func (g *rowGuard) Ask(key string) bool {
	if g.inflight[key] {
		return false
	}
	g.confirming = key
	return true
}

// Confirming returns the key awaiting confirmation, if any.
func (g *rowGuard) Confirming() string { return g.confirming }

// Cancel drops the pending confirmation.
func (g *rowGuard) Cancel() { g.confirming = "" }

// Confirm accepts the pending confirmation and marks its row busy.
func (g *rowGuard) Confirm() string {
	key := g.confirming
	g.confirming = ""
	if key != "" {
		g.inflight[key] = true
	}
	return key
}

// Start marks key busy without a confirmation.
func (g *rowGuard) Start(key string) bool {
	if g.inflight[key] {
		return false
	}
	g.inflight[key] = true
	return true
}

// Settle re-enables key.
func (g *rowGuard) Settle(key string) { delete(g.inflight, key) }

// Busy reports whether key has a request in flight.
func (g *rowGuard) Busy(key string) bool { return g.inflight[key] }

// padRight pads a string to a minimum width, truncating if needed.
func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}

// statusLine is the one-line outcome of a view's last mutation.
type statusLine struct {
	text string
	err  bool
}

func (s *statusLine) ok(text string) { s.text, s.err = text, false }

func (s *statusLine) fail(err error) { s.text, s.err = userMessage(err), true }

func (s *statusLine) clear() { s.text = "" }

func (s *statusLine) View() string {
	switch {
	case s.text == "":
		return ""
	case s.err:
		return "\n  " + formatter.StyleRed.Render("Error: "+s.text) + "\n"
	}
	return "\n  " + formatter.StyleGreen.Render(s.text) + "\n"
}
