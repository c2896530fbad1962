package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

var kpiViewColumns = []string{"impressions", "clicks", "spend", "revenue", "ctr_pct", "cpc", "cpm", "roi"}

func TestKPIViewRepository_GetCampaignKPIs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewKPIViewRepository(sqldb.NewConnectionFromDB(db, sqldb.MySQL{}))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT campaign_id, ads, impressions, clicks, spend, revenue, ctr_pct, cpc, cpm, roi FROM v_campaign_kpis WHERE campaign_id = ? ORDER BY campaign_id ASC",
	)).
		WithArgs("cmp-1").
		WillReturnRows(sqlmock.NewRows(append([]string{"campaign_id", "ads"}, kpiViewColumns...)).
			AddRow("cmp-1", 2, 100, 10, "5.00", "7.50", "10.00", "0.50", "50.00", nil))

	aggregates, err := repo.GetCampaignKPIs(context.Background(), "cmp-1")

	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, "cmp-1", aggregates[0].CampaignID)
	assert.Equal(t, int64(2), aggregates[0].Ads)
	assert.Equal(t, int64(100), aggregates[0].Impressions)
	assert.Equal(t, "10", aggregates[0].CTRPct.Decimal.String())
	assert.True(t, aggregates[0].CPM.Valid)
	assert.False(t, aggregates[0].ROI.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKPIViewRepository_GetCampaignKPIsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewKPIViewRepository(sqldb.NewConnectionFromDB(db, sqldb.MySQL{}))

	mock.ExpectQuery(regexp.QuoteMeta("FROM v_campaign_kpis ORDER BY campaign_id ASC")).
		WillReturnRows(sqlmock.NewRows(append([]string{"campaign_id", "ads"}, kpiViewColumns...)))

	aggregates, err := repo.GetCampaignKPIs(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, aggregates)
	assert.Empty(t, aggregates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKPIViewRepository_GetDailyKPIs(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		dialect   sqldb.Dialect
		campaign  string
		start     *time.Time
		end       *time.Time
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "mysql com período",
			dialect:   sqldb.MySQL{},
			campaign:  "cmp-1",
			start:     &start,
			end:       &end,
			wantQuery: "FROM v_daily_kpis WHERE campaign_id = ? AND `date` >= ? AND `date` <= ? ORDER BY campaign_id ASC, `date` ASC",
			wantArgs:  []driver.Value{"cmp-1", "2024-01-01", "2024-01-31"},
		},
		{
			name:      "postgres sem filtros",
			dialect:   sqldb.Postgres{},
			wantQuery: `FROM v_daily_kpis ORDER BY campaign_id ASC, "date" ASC`,
		},
		{
			name:      "postgres só com data final",
			dialect:   sqldb.Postgres{},
			end:       &end,
			wantQuery: `FROM v_daily_kpis WHERE "date" <= $1`,
			wantArgs:  []driver.Value{"2024-01-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewKPIViewRepository(sqldb.NewConnectionFromDB(db, tt.dialect))

			expectation := mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery))
			if len(tt.wantArgs) > 0 {
				expectation.WithArgs(tt.wantArgs...)
			}
			expectation.WillReturnRows(sqlmock.NewRows(append([]string{"campaign_id", "date"}, kpiViewColumns...)).
				AddRow("cmp-1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 1000, 50, "200.00", "300.00", "5.00", "4.00", "200.00", "50.00"))

			aggregates, err := repo.GetDailyKPIs(context.Background(), tt.campaign, tt.start, tt.end)

			require.NoError(t, err)
			require.Len(t, aggregates, 1)
			assert.Equal(t, domain.NewDate(2024, 1, 15), aggregates[0].Date)
			assert.Equal(t, "4", aggregates[0].CPC.Decimal.String())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
