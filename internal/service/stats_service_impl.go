package service

import (
	"context"

	"github.com/okrdesk/okrdesk/internal/domain"
)

type statsService struct {
	api API
}

func NewStatsService(client API) StatsService {
	return &statsService{api: client}
}

func (s *statsService) Company(ctx context.Context, companyID string) (*domain.CompanyStats, error) {
	return s.api.CompanyStats(ctx, companyID)
}

func (s *statsService) Team(ctx context.Context, teamID string) (*domain.TeamStats, error) {
	return s.api.TeamStats(ctx, teamID)
}
