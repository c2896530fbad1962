package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/campaign-kpi-etl/infrastructure/repository"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

// Reporter expõe as views de KPIs para o dashboard e para a CLI
type Reporter interface {
	CampaignKPIs(ctx context.Context, campaignID string) ([]domain.CampaignAggregate, error)
	DailyKPIs(ctx context.Context, filters DailyFilters) ([]domain.DailyAggregate, error)
}

type DailyFilters struct {
	CampaignID string
	StartDate  *time.Time
	EndDate    *time.Time
}

// ErrInvalidPeriod indica data inicial posterior à final
var ErrInvalidPeriod = errors.New("data inicial posterior à data final")

type Service struct {
	repo repository.KPIViewRepository
}

func NewService(repo repository.KPIViewRepository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CampaignKPIs(ctx context.Context, campaignID string) ([]domain.CampaignAggregate, error) {
	aggregates, err := s.repo.GetCampaignKPIs(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar KPIs por campanha: %w", err)
	}
	return aggregates, nil
}

func (s *Service) DailyKPIs(ctx context.Context, filters DailyFilters) ([]domain.DailyAggregate, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, ErrInvalidPeriod
	}

	aggregates, err := s.repo.GetDailyKPIs(ctx, filters.CampaignID, filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar KPIs diários: %w", err)
	}
	return aggregates, nil
}
