package main

import (
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-kpi-etl/internal/scheduler"
)

func newScheduleCmd(a *app) *cobra.Command {
	var cron string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Executa o pipeline periodicamente (ETL_SYNC_CRON) até ser interrompido",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cron != "" {
				a.cfg.ETLSync.CronSchedule = cron
			}
			// O comando existe para agendar: habilita mesmo que ETL_SYNC_ENABLED seja false
			a.cfg.ETLSync.Enabled = true

			svc, err := a.pipeline(cmd)
			if err != nil {
				return err
			}

			syncService := scheduler.NewETLSyncService(svc, a.cfg)
			if err := syncService.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			logrus.Info("Agendador do ETL encerrado")
			return nil
		},
	}

	cmd.Flags().StringVar(&cron, "cron", "", "expressão cron (padrão: ETL_SYNC_CRON)")

	return cmd
}
