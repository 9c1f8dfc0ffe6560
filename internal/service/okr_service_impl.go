package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
	"golang.org/x/sync/errgroup"
)

const enrichLimit = 4

type okrService struct {
	api      API
	observer UseCaseObserver
}

func NewOKRService(client API, observers ...UseCaseObserver) OKRService {
	return &okrService{api: client, observer: useCaseObserverOrNoop(observers)}
}

func (s *okrService) ListCorporate(ctx context.Context, companyID string) ([]domain.Objective, error) {
	return s.api.ListCorporateOKRs(ctx, companyID)
}

func (s *okrService) CreateCorporate(ctx context.Context, companyID string, in api.ObjectiveInput) (okr *domain.Objective, err error) {
	in = normalizeObjective(in)
	if err := ValidateObjective(in); err != nil {
		return nil, err
	}
	fields := map[string]any{"company_id": companyID, "key_results": len(in.KeyResults)}
	err = observe(ctx, s.observer, "create-corporate-okr", fields, func() error {
		okr, err = s.api.CreateCorporateOKR(ctx, companyID, in)
		return err
	})
	return okr, err
}

func (s *okrService) ListTeam(ctx context.Context, teamID string) ([]domain.TeamOKR, error) {
	okrs, err := s.api.ListTeamOKRs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TeamOKR, len(okrs))
	for i := range okrs {
		out[i] = domain.TeamOKR{Objective: okrs[i]}
	}

	// Enrichment is best effort: an OKR whose corporate key result cannot
	// be loaded is shown without it.
	var g errgroup.Group
	g.SetLimit(enrichLimit)
	for i := range out {
		if !out[i].IsLinked() {
			continue
		}
		g.Go(func() error {
			out[i].Attached = s.attached(ctx, &out[i].Objective)
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

func (s *okrService) attached(ctx context.Context, o *domain.Objective) *domain.CorporateKeyResultView {
	view, err := s.api.GetCorporateKeyResult(ctx, o.ParentOKR, *o.ParentKRIndex)
	if err != nil {
		return nil
	}
	return view
}

func (s *okrService) CreateTeam(ctx context.Context, teamID string, in api.ObjectiveInput) (out *domain.TeamOKR, err error) {
	in = normalizeObjective(in)
	if err := ValidateObjective(in); err != nil {
		return nil, err
	}
	if (in.ParentOKR == "") != (in.ParentKRIndex == nil) {
		return nil, &progress.ValidationError{Field: "parent", Message: "a corporate OKR and key result index go together"}
	}
	fields := map[string]any{"team_id": teamID, "linked": in.ParentOKR != ""}
	err = observe(ctx, s.observer, "create-team-okr", fields, func() error {
		okr, err := s.api.CreateTeamOKR(ctx, teamID, in)
		if err != nil {
			return err
		}
		out = &domain.TeamOKR{Objective: *okr}
		if okr.IsLinked() {
			out.Attached = s.attached(ctx, okr)
		}
		return nil
	})
	return out, err
}

func (s *okrService) Get(ctx context.Context, okrID string) (*domain.Objective, error) {
	return s.api.GetOKR(ctx, okrID)
}

// SetFrozen toggles the freeze flag. Nothing is updated locally; callers
// reload to see the new state.
func (s *okrService) SetFrozen(ctx context.Context, okrID string, frozen, corporate bool) error {
	fields := map[string]any{"okr_id": okrID, "frozen": frozen, "corporate": corporate}
	return observe(ctx, s.observer, "freeze-okr", fields, func() error {
		if corporate {
			return s.api.FreezeCorporateOKR(ctx, okrID, frozen)
		}
		return s.api.FreezeOKR(ctx, okrID, frozen)
	})
}

func (s *okrService) SetStatus(ctx context.Context, okrID string, status domain.OKRStatus) error {
	if !domain.ValidOKRStatuses[string(status)] {
		return &progress.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q (want draft, active or done)", status)}
	}
	fields := map[string]any{"okr_id": okrID, "status": string(status)}
	return observe(ctx, s.observer, "set-okr-status", fields, func() error {
		return s.api.SetOKRStatus(ctx, okrID, status)
	})
}

func (s *okrService) Link(ctx context.Context, okrID, corporateOKRID string, krIndex int) error {
	if corporateOKRID == "" || krIndex < 0 {
		return &progress.ValidationError{Field: "parent", Message: "choose a corporate key result"}
	}
	fields := map[string]any{"okr_id": okrID, "corporate_okr_id": corporateOKRID, "kr_index": krIndex}
	return observe(ctx, s.observer, "link-okr", fields, func() error {
		return s.api.LinkToCorporate(ctx, okrID, corporateOKRID, krIndex)
	})
}

func (s *okrService) AssignTeams(ctx context.Context, corporateOKRID string, krIndex int, teamIDs []string) error {
	if krIndex < 0 {
		return fmt.Errorf("%w: %d", progress.ErrKeyResultIndex, krIndex)
	}
	teamIDs = cleanNames(teamIDs)
	fields := map[string]any{"corporate_okr_id": corporateOKRID, "kr_index": krIndex, "teams": len(teamIDs)}
	return observe(ctx, s.observer, "assign-kr-teams", fields, func() error {
		return s.api.AssignKeyResultTeams(ctx, corporateOKRID, krIndex, teamIDs)
	})
}

func (s *okrService) KeyResult(ctx context.Context, corporateOKRID string, krIndex int) (*domain.CorporateKeyResultView, error) {
	return s.api.GetCorporateKeyResult(ctx, corporateOKRID, krIndex)
}

func normalizeObjective(in api.ObjectiveInput) api.ObjectiveInput {
	in.Objective = strings.TrimSpace(in.Objective)
	in.Description = strings.TrimSpace(in.Description)
	in.Deadline = strings.TrimSpace(in.Deadline)
	krs := make([]api.KeyResultInput, len(in.KeyResults))
	for i, kr := range in.KeyResults {
		kr.Title = strings.TrimSpace(kr.Title)
		kr.Description = strings.TrimSpace(kr.Description)
		if kr.MetricType == "" {
			kr.MetricType = domain.MetricNumber
		}
		kr.Teams = cleanNames(kr.Teams)
		krs[i] = kr
	}
	in.KeyResults = krs
	return in
}

// ValidateObjective checks an OKR definition before it is submitted.
func ValidateObjective(in api.ObjectiveInput) error {
	if strings.TrimSpace(in.Objective) == "" {
		return &progress.ValidationError{Field: "objective", Message: "objective is required"}
	}
	if in.Deadline != "" {
		if _, err := time.Parse("2006-01-02", in.Deadline); err != nil {
			if _, err := time.Parse(time.RFC3339, in.Deadline); err != nil {
				return &progress.ValidationError{Field: "deadline", Message: "use YYYY-MM-DD"}
			}
		}
	}
	if len(in.KeyResults) == 0 {
		return &progress.ValidationError{Field: "keyResults", Message: "add at least one key result"}
	}
	for i, kr := range in.KeyResults {
		field := fmt.Sprintf("keyResults[%d]", i)
		if strings.TrimSpace(kr.Title) == "" {
			return &progress.ValidationError{Field: field + ".title", Message: "title is required"}
		}
		if kr.MetricType != "" && !domain.ValidMetricTypes[string(kr.MetricType)] {
			return &progress.ValidationError{Field: field + ".metricType",
				Message: fmt.Sprintf("unknown metric type %q", kr.MetricType)}
		}
		if kr.MetricType == domain.MetricPercentage && kr.TargetValue < kr.StartValue {
			return &progress.ValidationError{Field: field + ".targetValue",
				Message: "target must not be below start for a percentage"}
		}
	}
	return nil
}
