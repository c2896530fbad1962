package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/migration"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

// ErrSwappedWithoutViews indica que a tabela alvo foi substituída mas as views não foram recriadas
var ErrSwappedWithoutViews = errors.New("tabela substituída, views não recriadas")

//go:generate mockgen -source=fact_ads.go -destination=mocks/fact_ads.go -package=mocks

type FactAdsRepository interface {
	// CheckTarget informa se a tabela alvo existe e falha com ErrSchemaMismatch
	// quando alguma coluna principal tem tipo incompatível
	CheckTarget(ctx context.Context, table string) (bool, error)
	CreateStage(ctx context.Context, stage string, extras []string) error
	InsertBatch(ctx context.Context, stage string, rows []domain.EnrichedAdRecord, extras []string) (int64, error)
	CountRows(ctx context.Context, table string) (int64, error)
	Swap(ctx context.Context, target, stage, old string, targetExists bool) error
	DropTable(ctx context.Context, table string) error
}

type factAdsRepository struct {
	conn sqldb.Conn
}

func NewFactAdsRepository(conn sqldb.Conn) FactAdsRepository {
	return &factAdsRepository{
		conn: conn,
	}
}

func (r *factAdsRepository) CheckTarget(ctx context.Context, table string) (bool, error) {
	if err := sqldb.ValidateIdentifier(table); err != nil {
		return false, err
	}

	dialect := r.conn.Dialect()
	exists, err := sqldb.TableExists(ctx, r.conn, dialect, table)
	if err != nil || !exists {
		return exists, err
	}

	types, err := sqldb.ColumnTypes(ctx, r.conn, dialect, table)
	if err != nil {
		return true, err
	}

	incompatible := make([]string, 0)
	for _, col := range dialect.FactColumns() {
		dataType, ok := types[col.Name]
		if !ok {
			// Coluna ausente: a tabela será substituída inteira, não há conflito de tipo
			continue
		}
		if !containsType(col.Compatible, dataType) {
			incompatible = append(incompatible, fmt.Sprintf("%s (%s)", col.Name, dataType))
		}
	}

	if len(incompatible) > 0 {
		return true, domain.NewETLErrorf(domain.ErrSchemaMismatch, "check-target", nil,
			"tabela %s com colunas incompatíveis: %s", table, strings.Join(incompatible, ", "))
	}

	return true, nil
}

func (r *factAdsRepository) CreateStage(ctx context.Context, stage string, extras []string) error {
	ddl, err := sqldb.CreateTableSQL(r.conn.Dialect(), stage, extras)
	if err != nil {
		return err
	}

	if _, err := r.conn.ExecContext(ctx, ddl); err != nil {
		return sqldb.Classify("create-stage", err)
	}
	return nil
}

func (r *factAdsRepository) InsertBatch(ctx context.Context, stage string, rows []domain.EnrichedAdRecord, extras []string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	dialect := r.conn.Dialect()
	columns := make([]string, 0, len(dialect.FactColumns())+len(extras))
	for _, col := range dialect.FactColumns() {
		columns = append(columns, dialect.QuoteIdent(col.Name))
	}
	for _, extra := range extras {
		columns = append(columns, dialect.QuoteIdent(extra))
	}

	builder := squirrel.
		Insert(dialect.QuoteIdent(stage)).
		Columns(columns...).
		PlaceholderFormat(dialect.Placeholder())

	for _, row := range rows {
		values := []any{
			row.AdID,
			row.CampaignID,
			row.Date,
			row.Impressions,
			row.Clicks,
			row.Spend,
			row.Revenue,
			row.CTRPct,
			row.CPC,
			row.CPM,
			row.ROI,
		}
		for _, extra := range extras {
			values = append(values, row.Extras[extra])
		}
		builder = builder.Values(values...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, sqldb.Classify("insert", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *factAdsRepository) CountRows(ctx context.Context, table string) (int64, error) {
	if err := sqldb.ValidateIdentifier(table); err != nil {
		return 0, err
	}

	query, args, err := squirrel.
		Select("COUNT(*)").
		From(r.conn.Dialect().QuoteIdent(table)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, sqldb.Classify("count", err)
	}
	return count, nil
}

// Swap coloca a staging no lugar da tabela alvo e recria as views.
// Com DDL transacional tudo ocorre numa transação; no MySQL o RENAME múltiplo já é atômico.
func (r *factAdsRepository) Swap(ctx context.Context, target, stage, old string, targetExists bool) error {
	dialect := r.conn.Dialect()

	views, err := migration.ViewStatements(dialect, target)
	if err != nil {
		return err
	}

	swap := dialect.SwapStatements(target, stage, old, targetExists)

	if dialect.TransactionalDDL() {
		return r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
			return execAll(ctx, tx, "swap", append(swap, views...))
		})
	}

	if err := execAll(ctx, r.conn, "swap", swap); err != nil {
		return err
	}

	// Daqui em diante a tabela alvo já foi substituída
	if targetExists {
		if err := r.DropTable(ctx, old); err != nil {
			logrus.WithError(err).WithField("table", old).Warn("Tabela anterior não removida após a troca, remova manualmente")
		}
	}

	if err := execAll(ctx, r.conn, "views", views); err != nil {
		return fmt.Errorf("%w: %w", ErrSwappedWithoutViews, err)
	}
	return nil
}

func (r *factAdsRepository) DropTable(ctx context.Context, table string) error {
	if err := sqldb.ValidateIdentifier(table); err != nil {
		return err
	}

	if _, err := r.conn.ExecContext(ctx, r.conn.Dialect().DropTable(table)); err != nil {
		return sqldb.Classify("drop", err)
	}
	return nil
}

func execAll(ctx context.Context, q sqldb.Queryer, op string, statements []string) error {
	for _, stmt := range statements {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return sqldb.Classify(op, err)
		}
	}
	return nil
}

func containsType(types []string, dataType string) bool {
	for _, t := range types {
		if t == dataType {
			return true
		}
	}
	return false
}
