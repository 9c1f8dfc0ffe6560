package progress

import (
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
)

// Entry is the editable state of one key result inside a draft.
type Entry struct {
	KeyResult   domain.KeyResult
	NewActual   float64
	NewProgress float64
}

// Changed reports whether the entry differs from the server value.
func (e Entry) Changed() bool {
	return e.NewActual != e.KeyResult.ActualValue
}

// Draft collects key-result edits and the mandatory comment for a single
// check-in against one OKR.
type Draft struct {
	OKRID   string
	Comment string
	entries []Entry
}

// NewDraft seeds a draft from the OKR's current key-result values.
func NewDraft(okr *domain.Objective) *Draft {
	d := &Draft{OKRID: okr.ID, entries: make([]Entry, len(okr.KeyResults))}
	for i, kr := range okr.KeyResults {
		d.entries[i] = Entry{KeyResult: kr, NewActual: kr.ActualValue, NewProgress: kr.Progress}
	}
	return d
}

// Len returns the number of key results in the draft.
func (d *Draft) Len() int { return len(d.entries) }

// Entry returns the state of key result i.
func (d *Draft) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(d.entries) {
		return Entry{}, fmt.Errorf("%w: %d", ErrKeyResultIndex, i)
	}
	return d.entries[i], nil
}

// Entries returns a copy of every entry.
func (d *Draft) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Set proposes a new actual value for key result i. The proposal is checked
// against the draft's current value, so accepted values never decrease.
// It returns the value now held and whether the proposal was accepted.
func (d *Draft) Set(i int, value float64) (float64, bool, error) {
	if i < 0 || i >= len(d.entries) {
		return 0, false, fmt.Errorf("%w: %d", ErrKeyResultIndex, i)
	}
	e := &d.entries[i]
	kr := e.KeyResult
	accepted, ok := ClampEdit(kr.MetricType, value, e.NewActual, kr.StartValue, kr.TargetValue)
	if !ok {
		return e.NewActual, false, nil
	}
	e.NewActual = accepted
	e.NewProgress = ComputeProgress(accepted, kr.StartValue, kr.TargetValue, kr.MetricType)
	return accepted, true, nil
}

// Reset restores key result i to its server value.
func (d *Draft) Reset(i int) error {
	if i < 0 || i >= len(d.entries) {
		return fmt.Errorf("%w: %d", ErrKeyResultIndex, i)
	}
	e := &d.entries[i]
	e.NewActual = e.KeyResult.ActualValue
	e.NewProgress = e.KeyResult.Progress
	return nil
}

// SetComment replaces the check-in comment.
func (d *Draft) SetComment(c string) { d.Comment = c }

// Validate checks local preconditions. A blank comment blocks submission.
func (d *Draft) Validate() error {
	return RequireComment(d.Comment)
}

// RequireComment rejects a blank check-in comment.
func RequireComment(c string) error {
	if strings.TrimSpace(c) == "" {
		return &ValidationError{Field: "comment", Message: "a comment is required"}
	}
	return nil
}

// Request builds the submission payload. Every key result is included, as
// the server records previous and new progress per index.
func (d *Draft) Request() domain.CheckInRequest {
	req := domain.CheckInRequest{
		OKRID:   d.OKRID,
		Comment: strings.TrimSpace(d.Comment),
		Updates: make([]domain.CheckInValue, len(d.entries)),
	}
	for i, e := range d.entries {
		req.Updates[i] = domain.CheckInValue{Index: i, NewActualValue: e.NewActual, NewProgress: e.NewProgress}
	}
	return req
}
