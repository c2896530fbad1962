package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/vfg2006/campaign-kpi-etl/internal/config"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

type Conn interface {
	Queryer
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Close() error
	Ping(ctx context.Context) error
	RunInTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error
	Dialect() Dialect
}

// Connection encapsula o pool do sqlx e o dialeto do banco de destino
type Connection struct {
	*sqlx.DB
	dialect Dialect
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(dialect.DriverName(), cfg.DSN)
	if err != nil {
		return nil, domain.NewETLError(domain.ErrConnectivity, "connect", err, fmt.Sprintf("%s:%s", cfg.Host, cfg.Port))
	}

	// Execução única e sequencial: poucas conexões bastam
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.NewETLError(domain.ErrConnectivity, "connect", err, fmt.Sprintf("%s:%s", cfg.Host, cfg.Port))
	}

	return &Connection{DB: db, dialect: dialect}, nil
}

// NewConnectionFromDB é usado em testes com sqlmock
func NewConnectionFromDB(db *sql.DB, dialect Dialect) *Connection {
	return &Connection{DB: sqlx.NewDb(db, dialect.DriverName()), dialect: dialect}
}

func (c *Connection) Dialect() Dialect {
	return c.dialect
}

func (c *Connection) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return Classify("ping", err)
	}
	return nil
}

// RunInTransaction executa fn dentro de uma transação
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := c.DB.BeginTxx(ctx, nil)
	if err != nil {
		return Classify("begin", err)
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return Classify("commit", err)
	}
	return nil
}
