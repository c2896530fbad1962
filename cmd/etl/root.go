package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/campaign-kpi-etl/internal/config"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/pkg/log"
)

// app guarda a configuração carregada no PersistentPreRunE e a conexão aberta sob demanda
type app struct {
	cfg  *config.Config
	conn *sqldb.Connection
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "etl",
		Short:         "Carrega métricas de campanhas e calcula CTR, CPC, CPM e ROI",
		Long:          "etl lê o CSV de métricas de anúncios, calcula os KPIs derivados e substitui a tabela fato no banco, mantendo as views de agregação por campanha e por dia.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			log.Configure(cfg.App.LogLevel, os.Stderr)
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.conn != nil {
				_ = a.conn.Close()
			}
		},
	}

	rootCmd.AddCommand(
		newRunCmd(a),
		newMigrateCmd(a),
		newViewsCmd(a),
		newScheduleCmd(a),
	)

	return rootCmd
}

func (a *app) connection(ctx context.Context) (*sqldb.Connection, error) {
	if a.conn != nil {
		return a.conn, nil
	}

	conn, err := sqldb.NewConnection(ctx, a.cfg.Database)
	if err != nil {
		return nil, err
	}
	a.conn = conn
	return conn, nil
}

// exitCode diferencia as falhas fatais para quem agenda o comando
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return 2
	case errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrParse),
		errors.Is(err, domain.ErrSchemaValidation):
		return 3
	case errors.Is(err, domain.ErrConnectivity):
		return 4
	case errors.Is(err, domain.ErrSchemaMismatch), errors.Is(err, domain.ErrInvalidIdentifier):
		return 5
	}
	return 1
}
