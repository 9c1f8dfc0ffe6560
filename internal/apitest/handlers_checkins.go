package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
)

func (s *Server) listCheckIns(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.okrForLocked(w, r.PathValue("okrId"), uid, false)
	if !ok {
		return
	}
	out := append([]domain.CheckIn{}, s.checkIns[o.ID]...)
	writeJSON(w, http.StatusOK, out)
}

// createCheckIn applies the submitted actual values, recomputes key-result
// progress and the OKR aggregate, and appends the history entry.
func (s *Server) createCheckIn(w http.ResponseWriter, r *http.Request, uid string) {
	var req domain.CheckInRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.okrForLocked(w, req.OKRID, uid, false)
	if !ok {
		return
	}
	if o.IsFrozen {
		writeError(w, http.StatusForbidden, "OKR is frozen")
		return
	}
	if strings.TrimSpace(req.Comment) == "" {
		writeError(w, http.StatusBadRequest, "comment is required")
		return
	}
	for _, u := range req.Updates {
		if u.Index < 0 || u.Index >= len(o.KeyResults) {
			writeError(w, http.StatusBadRequest, "key result index out of range")
			return
		}
	}

	now := s.now()
	ci := domain.CheckIn{
		ID:        uuid.NewString(),
		OKR:       o.ID,
		User:      uid,
		Comment:   req.Comment,
		Updates:   make([]domain.CheckInUpdate, 0, len(req.Updates)),
		CreatedAt: now,
	}
	for _, u := range req.Updates {
		kr := &o.KeyResults[u.Index]
		prev := kr.Progress
		kr.ActualValue = u.NewActualValue
		kr.Progress = progress.ComputeProgress(kr.ActualValue, kr.StartValue, kr.TargetValue, kr.MetricType)
		ci.Updates = append(ci.Updates, domain.CheckInUpdate{Index: u.Index, PreviousProgress: prev, NewProgress: kr.Progress})
	}

	total := 0.0
	points := make([]domain.KeyResultPoint, len(o.KeyResults))
	for i, kr := range o.KeyResults {
		total += kr.Progress
		points[i] = domain.KeyResultPoint{Index: i, Value: kr.Progress}
	}
	o.Progress = total / float64(len(o.KeyResults))
	o.UpdatedAt = now
	o.history = append(o.history, domain.ProgressPoint{
		Date:               now.Format(time.RFC3339),
		Value:              o.Progress,
		KeyResultsProgress: points,
	})
	s.checkIns[o.ID] = append(s.checkIns[o.ID], ci)
	writeJSON(w, http.StatusCreated, ci)
}
