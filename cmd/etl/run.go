package main

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/repository"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/extracting"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/loading"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/pipeline"
)

const (
	reportFormatTable = "table"
	reportFormatJSON  = "json"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		input  string
		table  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Executa o pipeline uma vez: leitura, KPIs e carga",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != reportFormatTable && format != reportFormatJSON {
				return fmt.Errorf("formato de relatório inválido: %s (use table ou json)", format)
			}

			svc, err := a.pipeline(cmd)
			if err != nil {
				return err
			}

			report, err := svc.Run(cmd.Context(), pipeline.RunOptions{InputPath: input, Table: table})
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), report, format)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "arquivo CSV de entrada (padrão: ETL_INPUT_FILE)")
	cmd.Flags().StringVarP(&table, "table", "t", "", "tabela fato de destino (padrão: LOADER_TARGET_TABLE)")
	cmd.Flags().StringVar(&format, "report", reportFormatTable, "formato do relatório: table ou json")

	return cmd
}

func (a *app) pipeline(cmd *cobra.Command) (*pipeline.Service, error) {
	conn, err := a.connection(cmd.Context())
	if err != nil {
		return nil, err
	}

	loader := loading.NewLoader(repository.NewFactAdsRepository(conn), a.cfg.Loader)
	return pipeline.NewService(extracting.NewCSVReader(), loader, a.cfg.Loader), nil
}

func writeReport(out io.Writer, report *domain.RunReport, format string) error {
	if format == reportFormatJSON {
		encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Fprintf(out, "run %s: %d linhas lidas, %d carregadas em %s (%s)\n",
		report.RunID, report.RowsRead, report.RowsLoaded, report.Table, report.Duration().Round(time.Millisecond))
	if report.GuardedKPIs > 0 {
		fmt.Fprintf(out, "%d KPIs nulos por denominador zero\n", report.GuardedKPIs)
	}
	renderCampaigns(out, report.Campaigns)
	return nil
}
