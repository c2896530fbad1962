package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

func TestViewStatements(t *testing.T) {
	stmts, err := ViewStatements(sqldb.MySQL{}, "fact_ads")
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Contains(t, stmts[0], "CREATE OR REPLACE VIEW `v_campaign_kpis`")
	assert.Contains(t, stmts[0], "FROM `fact_ads`")
	assert.Contains(t, stmts[0], "NULLIF(SUM(`impressions`), 0)")
	assert.NotContains(t, stmts[0], factTablePlaceholder)
	assert.Contains(t, stmts[1], "GROUP BY `campaign_id`, `date`")

	pg, err := ViewStatements(sqldb.Postgres{}, "fact_ads")
	require.NoError(t, err)
	assert.Contains(t, pg[0], `FROM "fact_ads"`)
	assert.Contains(t, pg[1], `CREATE OR REPLACE VIEW "v_daily_kpis"`)

	_, err = ViewStatements(sqldb.MySQL{}, "fact-ads;")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}

func TestDimensionStatements(t *testing.T) {
	for _, d := range []sqldb.Dialect{sqldb.MySQL{}, sqldb.Postgres{}} {
		stmts, err := DimensionStatements(d)
		require.NoError(t, err)
		require.Len(t, stmts, 2)
		assert.Contains(t, stmts[0], "dim_campaign")
		assert.Contains(t, stmts[1], "dim_date")
	}
}

func TestMigratorApply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	conn := sqldb.NewConnectionFromDB(db, sqldb.MySQL{})
	migrator := NewMigrator(conn, "fact_ads")

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM information_schema.tables").
		WithArgs("fact_ads").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `dim_campaign`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `dim_date`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE OR REPLACE VIEW `v_campaign_kpis`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE OR REPLACE VIEW `v_daily_kpis`").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, migrator.Apply(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorApplyWithoutFactTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	conn := sqldb.NewConnectionFromDB(db, sqldb.MySQL{})

	mock.ExpectQuery("information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("dim_campaign").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("dim_date").WillReturnError(errors.New("disk full"))

	err = NewMigrator(conn, "fact_ads").Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}
