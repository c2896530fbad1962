package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/migration"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

const kpiColumns = "impressions, clicks, spend, revenue, ctr_pct, cpc, cpm, roi"

//go:generate mockgen -source=kpi_views.go -destination=mocks/kpi_views.go -package=mocks

// KPIViewRepository lê as views de agregação; nunca escreve
type KPIViewRepository interface {
	GetCampaignKPIs(ctx context.Context, campaignID string) ([]domain.CampaignAggregate, error)
	GetDailyKPIs(ctx context.Context, campaignID string, startDate, endDate *time.Time) ([]domain.DailyAggregate, error)
}

type kpiViewRepository struct {
	conn sqldb.Conn
}

func NewKPIViewRepository(conn sqldb.Conn) KPIViewRepository {
	return &kpiViewRepository{
		conn: conn,
	}
}

func (r *kpiViewRepository) GetCampaignKPIs(ctx context.Context, campaignID string) ([]domain.CampaignAggregate, error) {
	builder := squirrel.
		Select("campaign_id, ads, " + kpiColumns).
		From(migration.CampaignKPIsView).
		OrderBy("campaign_id ASC").
		PlaceholderFormat(r.conn.Dialect().Placeholder())

	if campaignID != "" {
		builder = builder.Where(squirrel.Eq{"campaign_id": campaignID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	aggregates := make([]domain.CampaignAggregate, 0)
	if err := r.conn.SelectContext(ctx, &aggregates, query, args...); err != nil {
		return nil, sqldb.Classify("campaign-kpis", err)
	}

	return aggregates, nil
}

func (r *kpiViewRepository) GetDailyKPIs(ctx context.Context, campaignID string, startDate, endDate *time.Time) ([]domain.DailyAggregate, error) {
	dialect := r.conn.Dialect()
	dateColumn := dialect.QuoteIdent("date")

	builder := squirrel.
		Select("campaign_id, " + dateColumn + ", " + kpiColumns).
		From(migration.DailyKPIsView).
		OrderBy("campaign_id ASC", dateColumn+" ASC").
		PlaceholderFormat(dialect.Placeholder())

	if campaignID != "" {
		builder = builder.Where(squirrel.Eq{"campaign_id": campaignID})
	}
	if startDate != nil {
		builder = builder.Where(squirrel.GtOrEq{dateColumn: startDate.Format(time.DateOnly)})
	}
	if endDate != nil {
		builder = builder.Where(squirrel.LtOrEq{dateColumn: endDate.Format(time.DateOnly)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	aggregates := make([]domain.DailyAggregate, 0)
	if err := r.conn.SelectContext(ctx, &aggregates, query, args...); err != nil {
		return nil, sqldb.Classify("daily-kpis", err)
	}

	return aggregates, nil
}
