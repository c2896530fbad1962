package domain

import (
	"github.com/shopspring/decimal"
)

// Totals são as somas das métricas brutas de um grupo de linhas
type Totals struct {
	Impressions int64           `json:"impressions" db:"impressions"`
	Clicks      int64           `json:"clicks" db:"clicks"`
	Spend       decimal.Decimal `json:"spend" db:"spend"`
	Revenue     decimal.Decimal `json:"revenue" db:"revenue"`
}

func (t *Totals) Add(r AdRecord) {
	t.Impressions += r.Impressions
	t.Clicks += r.Clicks
	t.Spend = t.Spend.Add(r.Spend)
	t.Revenue = t.Revenue.Add(r.Revenue)
}

// CampaignAggregate espelha uma linha da view v_campaign_kpis
type CampaignAggregate struct {
	CampaignID string `json:"campaign_id" db:"campaign_id"`
	Ads        int64  `json:"ads" db:"ads"`
	Totals
	KPIs
}

// DailyAggregate espelha uma linha da view v_daily_kpis
type DailyAggregate struct {
	CampaignID string `json:"campaign_id" db:"campaign_id"`
	Date       Date   `json:"date" db:"date"`
	Totals
	KPIs
}
