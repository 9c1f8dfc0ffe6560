package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/okrdesk/okrdesk/internal/route"
	"github.com/okrdesk/okrdesk/internal/teatest"
)

// TestDriver wraps the generic teatest.Driver with helpers that know about
// the app model's view stack and command bar.
type TestDriver struct {
	*teatest.Driver
}

func newTestDriver(t *testing.T, app *App, start route.Route) *TestDriver {
	t.Helper()
	state := newSharedState(app)
	state.staticCursor = true
	state.historyPath = filepath.Join(t.TempDir(), "history")

	d := &TestDriver{Driver: teatest.New(t, newAppModelWithState(state, start),
		teatest.WithCmdTimeout(time.Second),
		teatest.WithSize(120, 40),
	)}
	d.DrainInit()
	return d
}

func (d *TestDriver) model() appModel {
	return d.Model.(appModel)
}

// Command focuses the command bar, types input and submits it.
func (d *TestDriver) Command(input string) {
	d.T.Helper()
	d.PressKey(':')
	d.Type(input)
	d.PressEnter()
}

func (d *TestDriver) ActiveViewID() ViewID {
	m := d.model()
	if v := m.activeView(); v != nil {
		return v.ID()
	}
	return -1
}

func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.model()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

func (d *TestDriver) LastOutput() string { return d.model().lastOutput }

func (d *TestDriver) Banner() string { return d.model().banner }

func (d *TestDriver) CmdBarFocused() bool {
	m := d.model()
	return m.cmdBar.Focused()
}

func (d *TestDriver) ActiveRoute() route.Route {
	m := d.model()
	return m.activeView().Route()
}

func (d *TestDriver) IsQuitting() bool { return d.Quitting || d.model().quitting }
