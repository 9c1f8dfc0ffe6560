package apitest

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
)

func keyResultsFromInput(in []api.KeyResultInput) []domain.KeyResult {
	krs := make([]domain.KeyResult, len(in))
	for i, kr := range in {
		metric := kr.MetricType
		if metric == "" {
			metric = domain.MetricNumber
		}
		krs[i] = domain.KeyResult{
			Title:       kr.Title,
			Description: kr.Description,
			MetricType:  metric,
			StartValue:  kr.StartValue,
			TargetValue: kr.TargetValue,
			ActualValue: kr.StartValue,
			Unit:        kr.Unit,
			Teams:       append([]string{}, kr.Teams...),
		}
	}
	return krs
}

func validInput(w http.ResponseWriter, in api.ObjectiveInput) bool {
	if in.Objective == "" {
		writeError(w, http.StatusBadRequest, "objective is required")
		return false
	}
	if len(in.KeyResults) == 0 {
		writeError(w, http.StatusBadRequest, "at least one key result is required")
		return false
	}
	for _, kr := range in.KeyResults {
		if kr.Title == "" {
			writeError(w, http.StatusBadRequest, "key result title is required")
			return false
		}
		if kr.MetricType != "" && !domain.ValidMetricTypes[string(kr.MetricType)] {
			writeError(w, http.StatusBadRequest, "invalid metric type "+string(kr.MetricType))
			return false
		}
	}
	return true
}

func (s *Server) storeOKRLocked(rec *okrRecord) {
	now := s.now()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.okrs[rec.ID] = rec
	s.okrOrder = append(s.okrOrder, rec.ID)
}

// okrForLocked resolves an objective and checks company membership.
func (s *Server) okrForLocked(w http.ResponseWriter, id, uid string, creatorOnly bool) (*okrRecord, bool) {
	o, ok := s.okrs[id]
	if !ok {
		writeError(w, http.StatusNotFound, "OKR not found")
		return nil, false
	}
	if _, ok := s.companyForLocked(w, o.companyID, uid, creatorOnly); !ok {
		return nil, false
	}
	return o, true
}

func (s *Server) listOKRsLocked(match func(*okrRecord) bool) []domain.Objective {
	out := []domain.Objective{}
	for _, id := range s.okrOrder {
		if o := s.okrs[id]; match(o) {
			out = append(out, cloneObjective(o.Objective))
		}
	}
	return out
}

func (s *Server) listCorporateOKRs(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	okrs := s.listOKRsLocked(func(o *okrRecord) bool { return o.corporate && o.companyID == c.id })
	writeJSON(w, http.StatusOK, map[string]any{"corporateOKRs": okrs})
}

func (s *Server) createCorporateOKR(w http.ResponseWriter, r *http.Request, uid string) {
	var in api.ObjectiveInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companyForLocked(w, r.PathValue("id"), uid, true)
	if !ok || !validInput(w, in) {
		return
	}
	for _, kr := range in.KeyResults {
		for _, teamID := range kr.Teams {
			if t, ok := s.teams[teamID]; !ok || t.CompanyID != c.id {
				writeError(w, http.StatusBadRequest, "unknown team "+teamID)
				return
			}
		}
	}
	rec := &okrRecord{
		Objective: domain.Objective{
			Objective:   in.Objective,
			Description: in.Description,
			Deadline:    in.Deadline,
			KeyResults:  keyResultsFromInput(in.KeyResults),
		},
		corporate: true,
		companyID: c.id,
	}
	s.storeOKRLocked(rec)
	writeJSON(w, http.StatusCreated, map[string]any{"corporateOKR": cloneObjective(rec.Objective)})
}

func (s *Server) listTeamOKRs(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.teamForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	okrs := s.listOKRsLocked(func(o *okrRecord) bool { return !o.corporate && o.teamID == t.ID })
	writeJSON(w, http.StatusOK, map[string]any{"okrs": okrs})
}

func (s *Server) createTeamOKR(w http.ResponseWriter, r *http.Request, uid string) {
	var in api.ObjectiveInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, c, ok := s.teamForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	if c.createdBy != uid && !t.HasMember(uid) {
		writeError(w, http.StatusForbidden, "not a member of this team")
		return
	}
	if !validInput(w, in) {
		return
	}
	rec := &okrRecord{
		Objective: domain.Objective{
			Objective:   in.Objective,
			Description: in.Description,
			Deadline:    in.Deadline,
			Status:      domain.OKRDraft,
			KeyResults:  keyResultsFromInput(in.KeyResults),
		},
		companyID: c.id,
		teamID:    t.ID,
	}
	for i := range rec.KeyResults {
		rec.KeyResults[i].Teams = nil
	}
	if in.ParentOKR != "" || in.ParentKRIndex != nil {
		if in.ParentKRIndex == nil || !s.teamMayAttachLocked(t.ID, in.ParentOKR, *in.ParentKRIndex) {
			writeError(w, http.StatusBadRequest, "team is not assigned to that corporate key result")
			return
		}
		idx := *in.ParentKRIndex
		rec.ParentOKR = in.ParentOKR
		rec.ParentKRIndex = &idx
	}
	s.storeOKRLocked(rec)
	writeJSON(w, http.StatusCreated, map[string]any{"okr": cloneObjective(rec.Objective)})
}

func (s *Server) teamMayAttachLocked(teamID, corporateID string, krIndex int) bool {
	parent, ok := s.okrs[corporateID]
	if !ok || !parent.corporate || krIndex < 0 || krIndex >= len(parent.KeyResults) {
		return false
	}
	return slices.Contains(parent.KeyResults[krIndex].Teams, teamID)
}

func (s *Server) getOKR(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.okrForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cloneObjective(o.Objective))
}

func (s *Server) freezeCorporateOKR(w http.ResponseWriter, r *http.Request, uid string) {
	s.freeze(w, r, uid, true)
}

func (s *Server) freezeTeamOKR(w http.ResponseWriter, r *http.Request, uid string) {
	s.freeze(w, r, uid, false)
}

func (s *Server) freeze(w http.ResponseWriter, r *http.Request, uid string, corporate bool) {
	var req api.FreezeRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.okrForLocked(w, r.PathValue("id"), uid, true)
	if !ok {
		return
	}
	if o.corporate != corporate {
		writeError(w, http.StatusNotFound, "OKR not found")
		return
	}
	o.IsFrozen = req.IsFrozen
	o.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, cloneObjective(o.Objective))
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.StatusRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.okrForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	if o.corporate {
		writeError(w, http.StatusBadRequest, "corporate OKRs have no status")
		return
	}
	if !domain.ValidOKRStatuses[string(req.Status)] {
		writeError(w, http.StatusBadRequest, "invalid status "+string(req.Status))
		return
	}
	o.Status = req.Status
	o.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, cloneObjective(o.Objective))
}

func (s *Server) linkToCorporate(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.LinkRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.okrForLocked(w, r.PathValue("id"), uid, false)
	if !ok {
		return
	}
	if o.corporate {
		writeError(w, http.StatusBadRequest, "only team OKRs can be linked")
		return
	}
	if !s.teamMayAttachLocked(o.teamID, req.CorporateOKRID, req.KRIndex) {
		writeError(w, http.StatusBadRequest, "team is not assigned to that corporate key result")
		return
	}
	idx := req.KRIndex
	o.ParentOKR = req.CorporateOKRID
	o.ParentKRIndex = &idx
	o.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, cloneObjective(o.Objective))
}

// corporateKRLocked resolves {id} and {index} to a corporate key result.
func (s *Server) corporateKRLocked(w http.ResponseWriter, r *http.Request, uid string, creatorOnly bool) (*okrRecord, int, bool) {
	o, ok := s.okrForLocked(w, r.PathValue("id"), uid, creatorOnly)
	if !ok {
		return nil, 0, false
	}
	idx, err := strconv.Atoi(r.PathValue("index"))
	if !o.corporate || err != nil || idx < 0 || idx >= len(o.KeyResults) {
		writeError(w, http.StatusNotFound, "key result not found")
		return nil, 0, false
	}
	return o, idx, true
}

func (s *Server) assignKeyResultTeams(w http.ResponseWriter, r *http.Request, uid string) {
	var req api.TeamsRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, idx, ok := s.corporateKRLocked(w, r, uid, true)
	if !ok {
		return
	}
	for _, teamID := range req.Teams {
		if t, ok := s.teams[teamID]; !ok || t.CompanyID != o.companyID {
			writeError(w, http.StatusBadRequest, "unknown team "+teamID)
			return
		}
	}
	o.KeyResults[idx].Teams = append([]string{}, req.Teams...)
	o.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, cloneObjective(o.Objective))
}

func (s *Server) corporateKeyResult(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, idx, ok := s.corporateKRLocked(w, r, uid, false)
	if !ok {
		return
	}
	kr := o.KeyResults[idx]
	view := domain.CorporateKeyResultView{
		KeyResult: domain.CorporateKeyResult{
			Title:       kr.Title,
			Description: kr.Description,
			Progress:    kr.Progress,
			Teams:       []domain.TeamRef{},
		},
		LinkedOKRs: []domain.LinkedOKR{},
	}
	for _, teamID := range kr.Teams {
		if t, ok := s.teams[teamID]; ok {
			view.KeyResult.Teams = append(view.KeyResult.Teams, domain.TeamRef{ID: t.ID, Name: t.Name})
		}
	}
	for _, id := range s.okrOrder {
		linked := s.okrs[id]
		if linked.corporate || linked.ParentOKR != o.ID || linked.ParentKRIndex == nil || *linked.ParentKRIndex != idx {
			continue
		}
		ref := domain.TeamRef{ID: linked.teamID}
		if t, ok := s.teams[linked.teamID]; ok {
			ref.Name = t.Name
		}
		view.LinkedOKRs = append(view.LinkedOKRs, domain.LinkedOKR{
			ID:        linked.ID,
			Objective: linked.Objective.Objective,
			Progress:  linked.Progress,
			Team:      ref,
		})
	}
	writeJSON(w, http.StatusOK, view)
}
