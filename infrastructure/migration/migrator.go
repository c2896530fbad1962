package migration

import (
	"context"
	"embed"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/database/sqldb"
)

//go:embed sql
var sqlFiles embed.FS

const factTablePlaceholder = "{{fact_table}}"

// Nomes das views consultadas pelo dashboard
const (
	CampaignKPIsView = "v_campaign_kpis"
	DailyKPIsView    = "v_daily_kpis"
)

var (
	dimensionFiles = []string{"dim_campaign.sql", "dim_date.sql"}
	viewFiles      = []string{"view_campaign_kpis.sql", "view_daily_kpis.sql"}
)

// Migrator aplica as tabelas de dimensão e as views de agregação
type Migrator struct {
	conn      sqldb.Conn
	factTable string
}

func NewMigrator(conn sqldb.Conn, factTable string) *Migrator {
	return &Migrator{
		conn:      conn,
		factTable: factTable,
	}
}

// Apply cria as dimensões (se não existirem) e recria as views quando a tabela fato já existe
func (m *Migrator) Apply(ctx context.Context) error {
	startTime := time.Now()
	dialect := m.conn.Dialect()

	statements, err := DimensionStatements(dialect)
	if err != nil {
		return err
	}

	factExists, err := sqldb.TableExists(ctx, m.conn, dialect, m.factTable)
	if err != nil {
		return err
	}

	if factExists {
		views, err := ViewStatements(dialect, m.factTable)
		if err != nil {
			return err
		}
		statements = append(statements, views...)
	} else {
		logrus.WithField("table", m.factTable).Warn("Tabela fato ainda não existe, views serão criadas na primeira carga")
	}

	for _, stmt := range statements {
		if _, err := m.conn.ExecContext(ctx, stmt); err != nil {
			return sqldb.Classify("migrate", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"statements":  len(statements),
		"views":       factExists,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Migração aplicada com sucesso")

	return nil
}

// DimensionStatements retorna o DDL das tabelas de dimensão do dialeto
func DimensionStatements(d sqldb.Dialect) ([]string, error) {
	return readStatements(d, dimensionFiles, nil)
}

// ViewStatements retorna o DDL das views apontando para a tabela fato informada
func ViewStatements(d sqldb.Dialect, factTable string) ([]string, error) {
	if err := sqldb.ValidateIdentifier(factTable); err != nil {
		return nil, err
	}

	return readStatements(d, viewFiles, strings.NewReplacer(factTablePlaceholder, d.QuoteIdent(factTable)))
}

func readStatements(d sqldb.Dialect, files []string, replacer *strings.Replacer) ([]string, error) {
	statements := make([]string, 0, len(files))
	for _, name := range files {
		content, err := sqlFiles.ReadFile(path.Join("sql", d.Name(), name))
		if err != nil {
			return nil, fmt.Errorf("erro ao ler %s: %w", name, err)
		}

		stmt := strings.TrimSpace(string(content))
		if replacer != nil {
			stmt = replacer.Replace(stmt)
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}
