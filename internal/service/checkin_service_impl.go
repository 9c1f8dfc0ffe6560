package service

import (
	"context"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
)

type checkInService struct {
	api      API
	observer UseCaseObserver
}

func NewCheckInService(client API, observers ...UseCaseObserver) CheckInService {
	return &checkInService{api: client, observer: useCaseObserverOrNoop(observers)}
}

func (s *checkInService) List(ctx context.Context, okrID string) ([]domain.CheckIn, error) {
	return s.api.ListCheckIns(ctx, okrID)
}

func (s *checkInService) Draft(ctx context.Context, okrID string) (*progress.Draft, error) {
	okr, err := s.api.GetOKR(ctx, okrID)
	if err != nil {
		return nil, err
	}
	return progress.NewDraft(okr), nil
}

func (s *checkInService) Submit(ctx context.Context, draft *progress.Draft) (checkIn *domain.CheckIn, err error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	req := draft.Request()
	fields := map[string]any{"okr_id": req.OKRID, "updates": len(req.Updates)}
	err = observe(ctx, s.observer, "submit-check-in", fields, func() error {
		checkIn, err = s.api.CreateCheckIn(ctx, req)
		return err
	})
	return checkIn, err
}
