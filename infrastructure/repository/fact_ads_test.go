package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/enriching"
)

func newMockRepository(t *testing.T, dialect sqldb.Dialect) (FactAdsRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewFactAdsRepository(sqldb.NewConnectionFromDB(db, dialect)), mock
}

func enrichedRow(adID string, impressions, clicks int64, spend, revenue string, kpis domain.KPIs) domain.EnrichedAdRecord {
	return domain.EnrichedAdRecord{
		AdRecord: domain.AdRecord{
			AdID:        adID,
			CampaignID:  "cmp-1",
			Date:        domain.NewDate(2024, 1, 15),
			Impressions: impressions,
			Clicks:      clicks,
			Spend:       decimal.RequireFromString(spend),
			Revenue:     decimal.RequireFromString(revenue),
			Extras:      map[string]string{"channel": "search"},
		},
		KPIs: kpis,
	}
}

func TestFactAdsRepository_CheckTarget(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(mock sqlmock.Sqlmock)
		wantExists  bool
		expectedErr error
	}{
		{
			name: "tabela inexistente",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("information_schema.tables").
					WithArgs("fact_ads").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			},
			wantExists: false,
		},
		{
			name: "tabela compatível",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("information_schema.tables").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery("information_schema.columns").
					WithArgs("fact_ads").
					WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
						AddRow("ad_id", "varchar").
						AddRow("impressions", "bigint").
						AddRow("spend", "decimal").
						AddRow("date", "date").
						AddRow("channel", "text"))
			},
			wantExists: true,
		},
		{
			name: "coluna com tipo incompatível",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("information_schema.tables").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery("information_schema.columns").
					WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
						AddRow("ad_id", "varchar").
						AddRow("impressions", "varchar"))
			},
			wantExists:  true,
			expectedErr: domain.ErrSchemaMismatch,
		},
		{
			name: "banco inacessível",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("information_schema.tables").
					WillReturnError(mysql.ErrInvalidConn)
			},
			expectedErr: domain.ErrConnectivity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t, sqldb.MySQL{})
			tt.setupMock(mock)

			exists, err := repo.CheckTarget(context.Background(), "fact_ads")

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantExists, exists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFactAdsRepository_CheckTargetInvalidName(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.MySQL{})

	_, err := repo.CheckTarget(context.Background(), "fact_ads; DROP TABLE x")

	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_CreateStage(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.MySQL{})

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE `fact_ads__stage_abc` (")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreateStage(context.Background(), "fact_ads__stage_abc", []string{"channel"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_InsertBatch(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.MySQL{})

	rows := []domain.EnrichedAdRecord{
		enrichedRow("ad-1", 1000, 50, "200", "300", domain.KPIs{
			CTRPct: decimal.NewNullDecimal(decimal.RequireFromString("5")),
			CPC:    decimal.NewNullDecimal(decimal.RequireFromString("4")),
			CPM:    decimal.NewNullDecimal(decimal.RequireFromString("200")),
			ROI:    decimal.NewNullDecimal(decimal.RequireFromString("50")),
		}),
		enrichedRow("ad-2", 0, 0, "0", "0", domain.KPIs{}),
	}

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO `fact_ads__stage_abc` (`ad_id`,`campaign_id`,`date`,`impressions`,`clicks`,`spend`,`revenue`,`ctr_pct`,`cpc`,`cpm`,`roi`,`channel`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?),(?,?,?,?,?,?,?,?,?,?,?,?)",
	)).
		WithArgs(
			"ad-1", "cmp-1", "2024-01-15", int64(1000), int64(50), "200", "300", "5", "4", "200", "50", "search",
			"ad-2", "cmp-1", "2024-01-15", int64(0), int64(0), "0", "0", nil, nil, nil, nil, "search",
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	inserted, err := repo.InsertBatch(context.Background(), "fact_ads__stage_abc", rows, []string{"channel"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_InsertBatchKeepsMoneyScale(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.MySQL{})

	rows, _ := enriching.Enrich([]domain.AdRecord{{
		AdID:        "ad-1",
		CampaignID:  "cmp-1",
		Date:        domain.NewDate(2024, 1, 15),
		Impressions: 200,
		Clicks:      1,
		Spend:       decimal.RequireFromString("0.201"),
		Revenue:     decimal.RequireFromString("0.201"),
	}})

	mock.ExpectExec("INSERT INTO `fact_ads__stage_abc`").
		WithArgs("ad-1", "cmp-1", "2024-01-15", int64(200), int64(1), "0.201", "0.201", "0.5", "0.2", "1.01", "0").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.InsertBatch(context.Background(), "fact_ads__stage_abc", rows, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	// O KPI gravado é o mesmo recalculado a partir do spend/revenue gravados
	storedSpend := decimal.RequireFromString("0.201")
	recomputed := enriching.ComputeKPIs(200, 1, storedSpend, storedSpend)
	assert.Equal(t, rows[0].KPIs.CPM.Decimal.String(), recomputed.CPM.Decimal.String())
	assert.Equal(t, "1.01", recomputed.CPM.Decimal.String())

	ddl, err := sqldb.CreateTableSQL(sqldb.MySQL{}, "fact_ads__stage_abc", nil)
	require.NoError(t, err)
	assert.Contains(t, ddl, fmt.Sprintf("`spend` DECIMAL(20,%d) NOT NULL", domain.MoneyScale))
}

func TestFactAdsRepository_InsertBatchSchemaMismatch(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.MySQL{})

	mock.ExpectExec("INSERT INTO").
		WillReturnError(&mysql.MySQLError{Number: 1366, Message: "Incorrect decimal value"})

	_, err := repo.InsertBatch(context.Background(), "fact_ads__stage_abc",
		[]domain.EnrichedAdRecord{enrichedRow("ad-1", 1, 1, "1", "1", domain.KPIs{})}, nil)

	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_InsertBatchEmpty(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.MySQL{})

	inserted, err := repo.InsertBatch(context.Background(), "fact_ads__stage_abc", nil, nil)

	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_CountRows(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.Postgres{})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "fact_ads__stage_abc"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountRows(context.Background(), "fact_ads__stage_abc")

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_SwapMySQL(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.MySQL{})

	mock.ExpectExec(regexp.QuoteMeta("RENAME TABLE `fact_ads` TO `fact_ads__old_abc`, `fact_ads__stage_abc` TO `fact_ads`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS `fact_ads__old_abc`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE OR REPLACE VIEW `v_campaign_kpis`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE OR REPLACE VIEW `v_daily_kpis`").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Swap(context.Background(), "fact_ads", "fact_ads__stage_abc", "fact_ads__old_abc", true)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_SwapMySQLAfterRename(t *testing.T) {
	tests := []struct {
		name      string
		dropErr   error
		viewErr   error
		wantError bool
	}{
		{
			name:    "falha ao remover a tabela anterior não desfaz a carga",
			dropErr: errors.New("lock wait timeout"),
		},
		{
			name:      "falha nas views informa que a troca já ocorreu",
			viewErr:   errors.New("permission denied"),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t, sqldb.MySQL{})

			mock.ExpectExec("RENAME TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
			drop := mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS `fact_ads__old_abc`"))
			if tt.dropErr != nil {
				drop.WillReturnError(tt.dropErr)
			} else {
				drop.WillReturnResult(sqlmock.NewResult(0, 0))
			}
			view := mock.ExpectExec("v_campaign_kpis")
			if tt.viewErr != nil {
				view.WillReturnError(tt.viewErr)
			} else {
				view.WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("v_daily_kpis").WillReturnResult(sqlmock.NewResult(0, 0))
			}

			err := repo.Swap(context.Background(), "fact_ads", "fact_ads__stage_abc", "fact_ads__old_abc", true)

			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSwappedWithoutViews)
				assert.Contains(t, err.Error(), "permission denied")
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFactAdsRepository_SwapMySQLFirstLoad(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.MySQL{})

	mock.ExpectExec(regexp.QuoteMeta("RENAME TABLE `fact_ads__stage_abc` TO `fact_ads`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("v_campaign_kpis").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("v_daily_kpis").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Swap(context.Background(), "fact_ads", "fact_ads__stage_abc", "fact_ads__old_abc", false)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_SwapPostgresRollback(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.Postgres{})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "fact_ads" RENAME TO "fact_ads__old_abc"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "fact_ads__stage_abc" RENAME TO "fact_ads"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE "fact_ads__old_abc" CASCADE`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE OR REPLACE VIEW "v_campaign_kpis"`).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := repo.Swap(context.Background(), "fact_ads", "fact_ads__stage_abc", "fact_ads__old_abc", true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactAdsRepository_DropTable(t *testing.T) {
	repo, mock := newMockRepository(t, sqldb.Postgres{})

	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "fact_ads__stage_abc" CASCADE`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DropTable(context.Background(), "fact_ads__stage_abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
