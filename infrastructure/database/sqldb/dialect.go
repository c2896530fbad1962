package sqldb

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/campaign-kpi-etl/internal/config"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)
	// Colunas extras vêm do cabeçalho do arquivo: aceitam letras acentuadas, espaço e hífen internos
	extraColumnPattern = regexp.MustCompile(`^[\p{L}\p{N}_](?:[\p{L}\p{N}_ -]*[\p{L}\p{N}_])?$`)
)

// ValidateIdentifier recusa nomes de tabela/coluna que exigiriam escape arbitrário
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return domain.NewETLErrorf(domain.ErrInvalidIdentifier, "validate", nil, "%q", name)
	}
	return nil
}

// ValidateColumnName valida o nome de uma coluna extra, que sempre é usada entre aspas
func ValidateColumnName(name string) error {
	if utf8.RuneCountInString(name) > 64 || !extraColumnPattern.MatchString(name) {
		return domain.NewETLErrorf(domain.ErrInvalidIdentifier, "validate", nil, "coluna %q", name)
	}
	return nil
}

// ColumnSpec descreve uma coluna da tabela fato e os tipos aceitos numa tabela existente
type ColumnSpec struct {
	Name       string
	Type       string
	Compatible []string
}

// Dialect isola as diferenças de SQL entre MySQL e Postgres
type Dialect interface {
	Name() string
	DriverName() string
	Placeholder() squirrel.PlaceholderFormat
	QuoteIdent(name string) string
	FactColumns() []ColumnSpec
	ExtraColumnType() string
	TableOptions() string
	// CurrentSchemaExpr é a expressão SQL do schema corrente, usada no information_schema
	CurrentSchemaExpr() string
	// SwapStatements troca a tabela de staging pela tabela alvo
	SwapStatements(target, stage, old string, targetExists bool) []string
	// TransactionalDDL indica se a troca pode rodar dentro de uma transação
	TransactionalDDL() bool
	DropTable(name string) string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverMySQL:
		return MySQL{}, nil
	case config.DriverPostgres:
		return Postgres{}, nil
	}
	return nil, domain.NewETLErrorf(domain.ErrConfiguration, "dialect", nil, "driver não suportado: %s", driver)
}

// CreateTableSQL monta o DDL da tabela fato com as colunas extras como texto
func CreateTableSQL(d Dialect, table string, extras []string) (string, error) {
	if err := ValidateIdentifier(table); err != nil {
		return "", err
	}

	columns := make([]string, 0, len(d.FactColumns())+len(extras))
	for _, col := range d.FactColumns() {
		columns = append(columns, fmt.Sprintf("%s %s", d.QuoteIdent(col.Name), col.Type))
	}
	for _, extra := range extras {
		if err := ValidateColumnName(extra); err != nil {
			return "", err
		}
		columns = append(columns, fmt.Sprintf("%s %s NULL", d.QuoteIdent(extra), d.ExtraColumnType()))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", d.QuoteIdent(table), strings.Join(columns, ",\n\t"))
	if opts := d.TableOptions(); opts != "" {
		ddl += " " + opts
	}
	return ddl, nil
}

type MySQL struct{}

func (MySQL) Name() string                            { return config.DriverMySQL }
func (MySQL) DriverName() string                      { return "mysql" }
func (MySQL) Placeholder() squirrel.PlaceholderFormat { return squirrel.Question }
func (MySQL) QuoteIdent(name string) string           { return "`" + name + "`" }
func (MySQL) ExtraColumnType() string                 { return "TEXT" }
func (MySQL) TableOptions() string                    { return "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4" }
func (MySQL) CurrentSchemaExpr() string               { return "DATABASE()" }
func (MySQL) TransactionalDDL() bool                  { return false }

func (MySQL) FactColumns() []ColumnSpec {
	return factColumns("VARCHAR(64)", "BIGINT", "DECIMAL(20,6)", "DECIMAL(16,2)",
		[]string{"varchar", "char", "text"},
		[]string{"bigint", "int", "mediumint"},
		[]string{"decimal", "double", "float"},
		[]string{"date", "datetime"},
	)
}

// RENAME TABLE com vários pares é atômico no MySQL
func (d MySQL) SwapStatements(target, stage, old string, targetExists bool) []string {
	if !targetExists {
		return []string{fmt.Sprintf("RENAME TABLE %s TO %s", d.QuoteIdent(stage), d.QuoteIdent(target))}
	}
	return []string{
		fmt.Sprintf("RENAME TABLE %s TO %s, %s TO %s",
			d.QuoteIdent(target), d.QuoteIdent(old),
			d.QuoteIdent(stage), d.QuoteIdent(target)),
	}
}

func (d MySQL) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdent(name))
}

type Postgres struct{}

func (Postgres) Name() string                            { return config.DriverPostgres }
func (Postgres) DriverName() string                      { return "postgres" }
func (Postgres) Placeholder() squirrel.PlaceholderFormat { return squirrel.Dollar }
func (Postgres) QuoteIdent(name string) string           { return `"` + name + `"` }
func (Postgres) ExtraColumnType() string                 { return "TEXT" }
func (Postgres) TableOptions() string                    { return "" }
func (Postgres) CurrentSchemaExpr() string               { return "current_schema()" }
func (Postgres) TransactionalDDL() bool                  { return true }

func (Postgres) FactColumns() []ColumnSpec {
	return factColumns("VARCHAR(64)", "BIGINT", "NUMERIC(20,6)", "NUMERIC(16,2)",
		[]string{"character varying", "character", "text"},
		[]string{"bigint", "integer"},
		[]string{"numeric", "double precision", "real"},
		[]string{"date", "timestamp without time zone", "timestamp with time zone"},
	)
}

// No Postgres as views seguem a tabela renomeada: o DROP da antiga usa CASCADE
// e as views são recriadas na mesma transação pelo chamador.
func (d Postgres) SwapStatements(target, stage, old string, targetExists bool) []string {
	if !targetExists {
		return []string{fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.QuoteIdent(stage), d.QuoteIdent(target))}
	}
	return []string{
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.QuoteIdent(target), d.QuoteIdent(old)),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.QuoteIdent(stage), d.QuoteIdent(target)),
		fmt.Sprintf("DROP TABLE %s CASCADE", d.QuoteIdent(old)),
	}
}

func (d Postgres) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", d.QuoteIdent(name))
}

func factColumns(idType, intType, moneyType, kpiType string, idCompat, intCompat, numCompat, dateCompat []string) []ColumnSpec {
	return []ColumnSpec{
		{Name: domain.ColumnAdID, Type: idType + " NOT NULL", Compatible: idCompat},
		{Name: domain.ColumnCampaignID, Type: idType + " NOT NULL", Compatible: idCompat},
		{Name: domain.ColumnDate, Type: "DATE NOT NULL", Compatible: dateCompat},
		{Name: domain.ColumnImpressions, Type: intType + " NOT NULL", Compatible: intCompat},
		{Name: domain.ColumnClicks, Type: intType + " NOT NULL", Compatible: intCompat},
		{Name: domain.ColumnSpend, Type: moneyType + " NOT NULL", Compatible: numCompat},
		{Name: domain.ColumnRevenue, Type: moneyType + " NOT NULL", Compatible: numCompat},
		{Name: domain.ColumnCTRPct, Type: kpiType + " NULL", Compatible: numCompat},
		{Name: domain.ColumnCPC, Type: kpiType + " NULL", Compatible: numCompat},
		{Name: domain.ColumnCPM, Type: kpiType + " NULL", Compatible: numCompat},
		{Name: domain.ColumnROI, Type: kpiType + " NULL", Compatible: numCompat},
	}
}
