package enriching

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/pkg/utils"
)

// Escalas das razões: CTR em porcentagem, CPM por mil impressões, ROI em porcentagem
const (
	percentScale  = 100
	perMilleScale = 1000
	unitScale     = 1
)

// ComputeKPIs calcula os quatro KPIs a partir das métricas brutas.
// Denominador zero resulta em KPI nulo, nunca em erro.
func ComputeKPIs(impressions, clicks int64, spend, revenue decimal.Decimal) domain.KPIs {
	impressionsDec := decimal.NewFromInt(impressions)
	clicksDec := decimal.NewFromInt(clicks)

	return domain.KPIs{
		CTRPct: utils.SafeRatio(clicksDec, impressionsDec, percentScale),
		CPC:    utils.SafeRatio(spend, clicksDec, unitScale),
		CPM:    utils.SafeRatio(spend, impressionsDec, perMilleScale),
		ROI:    utils.SafeRatio(revenue.Sub(spend), spend, percentScale),
	}
}

// ComputeTotalsKPIs recalcula os KPIs a partir das somas (razão das somas)
func ComputeTotalsKPIs(t domain.Totals) domain.KPIs {
	return ComputeKPIs(t.Impressions, t.Clicks, t.Spend, t.Revenue)
}

// Enrich retorna a mesma tabela com os KPIs acrescentados e o total de KPIs nulos
func Enrich(records []domain.AdRecord) ([]domain.EnrichedAdRecord, int) {
	enriched := make([]domain.EnrichedAdRecord, len(records))
	guarded := 0

	for i, record := range records {
		kpis := ComputeKPIs(record.Impressions, record.Clicks, record.Spend, record.Revenue)
		guarded += kpis.NullCount()

		enriched[i] = domain.EnrichedAdRecord{
			AdRecord: record,
			KPIs:     kpis,
		}
	}

	return enriched, guarded
}

// AggregateByCampaign agrupa por campanha com a mesma fórmula da view v_campaign_kpis
func AggregateByCampaign(records []domain.EnrichedAdRecord) []domain.CampaignAggregate {
	index := make(map[string]*domain.CampaignAggregate)
	for _, record := range records {
		agg, ok := index[record.CampaignID]
		if !ok {
			agg = &domain.CampaignAggregate{CampaignID: record.CampaignID}
			index[record.CampaignID] = agg
		}
		agg.Ads++
		agg.Totals.Add(record.AdRecord)
	}

	result := make([]domain.CampaignAggregate, 0, len(index))
	for _, agg := range index {
		agg.KPIs = ComputeTotalsKPIs(agg.Totals)
		result = append(result, *agg)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CampaignID < result[j].CampaignID
	})

	return result
}

// AggregateByDay agrupa por campanha e data com a mesma fórmula da view v_daily_kpis
func AggregateByDay(records []domain.EnrichedAdRecord) []domain.DailyAggregate {
	type key struct {
		campaignID string
		date       string
	}

	index := make(map[key]*domain.DailyAggregate)
	for _, record := range records {
		k := key{campaignID: record.CampaignID, date: record.Date.String()}
		agg, ok := index[k]
		if !ok {
			agg = &domain.DailyAggregate{CampaignID: record.CampaignID, Date: record.Date}
			index[k] = agg
		}
		agg.Totals.Add(record.AdRecord)
	}

	result := make([]domain.DailyAggregate, 0, len(index))
	for _, agg := range index {
		agg.KPIs = ComputeTotalsKPIs(agg.Totals)
		result = append(result, *agg)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CampaignID != result[j].CampaignID {
			return result[i].CampaignID < result[j].CampaignID
		}
		return result[i].Date.Before(result[j].Date.Time)
	})

	return result
}
