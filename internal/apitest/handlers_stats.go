package apitest

import (
	"net/http"

	"github.com/okrdesk/okrdesk/internal/domain"
)

func (s *Server) statsFor(o *okrRecord) domain.OKRStats {
	st := domain.OKRStats{
		OKR: domain.StatsOKRRef{
			ID:          o.ID,
			Objective:   o.Objective.Objective,
			Description: o.Description,
			Deadline:    o.Deadline,
		},
		Progress:           o.Progress,
		Status:             domain.HealthOnTrack,
		IsFrozen:           o.IsFrozen,
		Deadline:           o.Deadline,
		KeyResultsProgress: make([]domain.KeyResultProgress, len(o.KeyResults)),
		ProgressHistory:    append([]domain.ProgressPoint{}, o.history...),
	}
	switch deadline, ok := o.DeadlineTime(); {
	case o.Progress >= 100:
		st.Status = domain.HealthCompleted
	case ok && deadline.Before(s.now()):
		st.Status = domain.HealthAtRisk
	}
	for i, kr := range o.KeyResults {
		st.KeyResultsProgress[i] = domain.KeyResultProgress{
			Index:       i,
			Title:       kr.Title,
			Progress:    kr.Progress,
			ActualValue: kr.ActualValue,
			TargetValue: kr.TargetValue,
			MetricType:  kr.MetricType,
			Unit:        kr.Unit,
			Teams:       append([]string(nil), kr.Teams...),
		}
	}
	return st
}

// tallyLocked counts objectives matching keep and returns their snapshots.
func (s *Server) tallyLocked(keep func(*okrRecord) bool) (total, completed, atRisk, frozen int, stats []domain.OKRStats) {
	stats = []domain.OKRStats{}
	for _, id := range s.okrOrder {
		o := s.okrs[id]
		if !keep(o) {
			continue
		}
		st := s.statsFor(o)
		total++
		switch st.Status {
		case domain.HealthCompleted:
			completed++
		case domain.HealthAtRisk:
			atRisk++
		}
		if o.IsFrozen {
			frozen++
		}
		stats = append(stats, st)
	}
	return total, completed, atRisk, frozen, stats
}

func (s *Server) companyStats(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	out := domain.CompanyStats{CompanyID: c.id}
	out.TotalOKRs, out.CompletedOKRs, out.AtRiskOKRs, out.FrozenOKRs, out.Stats = s.tallyLocked(func(o *okrRecord) bool {
		return o.corporate && o.companyID == c.id
	})
	for _, o := range s.okrs {
		if o.corporate || o.companyID != c.id {
			continue
		}
		out.TotalTeamOKRs++
		if o.Status == domain.OKRActive {
			out.ActiveTeamOKRs++
		}
		if o.IsFrozen {
			out.FrozenTeamOKRs++
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) teamStats(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.teamForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	out := domain.TeamStats{TeamID: t.ID}
	out.TotalOKRs, out.CompletedOKRs, out.AtRiskOKRs, out.FrozenOKRs, out.Stats = s.tallyLocked(func(o *okrRecord) bool {
		return !o.corporate && o.teamID == t.ID
	})
	writeJSON(w, http.StatusOK, out)
}
