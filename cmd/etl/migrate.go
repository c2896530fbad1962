package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/migration"
)

func newMigrateCmd(a *app) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Cria as tabelas de dimensão e as views de KPIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if table == "" {
				table = a.cfg.Loader.TargetTable
			}

			conn, err := a.connection(cmd.Context())
			if err != nil {
				return err
			}

			if err := migration.NewMigrator(conn, table).Apply(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migração aplicada (%s, tabela fato %s)\n", conn.Dialect().Name(), table)
			return nil
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "tabela fato usada pelas views (padrão: LOADER_TARGET_TABLE)")

	return cmd
}
