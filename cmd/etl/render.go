package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

const nullKPI = "NULL"

func renderCampaigns(out io.Writer, aggregates []domain.CampaignAggregate) {
	table := newTable(out, []string{"Campaign", "Ads", "Impressions", "Clicks", "Spend", "Revenue", "CTR %", "CPC", "CPM", "ROI %"})
	for _, agg := range aggregates {
		row := []string{agg.CampaignID, strconv.FormatInt(agg.Ads, 10)}
		table.Append(append(row, metricCells(agg.Totals, agg.KPIs)...))
	}
	table.Render()
}

func renderDaily(out io.Writer, aggregates []domain.DailyAggregate) {
	table := newTable(out, []string{"Campaign", "Date", "Impressions", "Clicks", "Spend", "Revenue", "CTR %", "CPC", "CPM", "ROI %"})
	for _, agg := range aggregates {
		row := []string{agg.CampaignID, agg.Date.String()}
		table.Append(append(row, metricCells(agg.Totals, agg.KPIs)...))
	}
	table.Render()
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func metricCells(t domain.Totals, k domain.KPIs) []string {
	return []string{
		strconv.FormatInt(t.Impressions, 10),
		strconv.FormatInt(t.Clicks, 10),
		t.Spend.StringFixed(2),
		t.Revenue.StringFixed(2),
		formatKPI(k.CTRPct),
		formatKPI(k.CPC),
		formatKPI(k.CPM),
		formatKPI(k.ROI),
	}
}

// formatKPI exibe o KPI com duas casas; nulo aparece como NULL, distinto de 0.00
func formatKPI(v decimal.NullDecimal) string {
	if !v.Valid {
		return nullKPI
	}
	return v.Decimal.StringFixed(2)
}
