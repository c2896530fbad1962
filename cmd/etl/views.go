package main

import (
	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/repository"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/reporting"
	"github.com/vfg2006/campaign-kpi-etl/pkg/utils"
)

func newViewsCmd(a *app) *cobra.Command {
	var (
		campaignID string
		from       string
		to         string
	)

	reporter := func(cmd *cobra.Command) (*reporting.Service, error) {
		conn, err := a.connection(cmd.Context())
		if err != nil {
			return nil, err
		}
		return reporting.NewService(repository.NewKPIViewRepository(conn)), nil
	}

	campaignCmd := &cobra.Command{
		Use:   "campaign",
		Short: "KPIs agregados por campanha (v_campaign_kpis)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := reporter(cmd)
			if err != nil {
				return err
			}

			aggregates, err := svc.CampaignKPIs(cmd.Context(), campaignID)
			if err != nil {
				return err
			}

			renderCampaigns(cmd.OutOrStdout(), aggregates)
			return nil
		},
	}

	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "KPIs agregados por campanha e dia (v_daily_kpis)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := utils.ParseDate(from)
			if err != nil {
				return err
			}
			endDate, err := utils.ParseDate(to)
			if err != nil {
				return err
			}

			svc, err := reporter(cmd)
			if err != nil {
				return err
			}

			aggregates, err := svc.DailyKPIs(cmd.Context(), reporting.DailyFilters{
				CampaignID: campaignID,
				StartDate:  startDate,
				EndDate:    endDate,
			})
			if err != nil {
				return err
			}

			renderDaily(cmd.OutOrStdout(), aggregates)
			return nil
		},
	}
	dailyCmd.Flags().StringVar(&from, "from", "", "data inicial (YYYY-MM-DD)")
	dailyCmd.Flags().StringVar(&to, "to", "", "data final (YYYY-MM-DD)")

	viewsCmd := &cobra.Command{
		Use:   "views",
		Short: "Consulta as views de agregação",
	}
	viewsCmd.PersistentFlags().StringVarP(&campaignID, "campaign", "c", "", "filtra por campaign_id")
	viewsCmd.AddCommand(campaignCmd, dailyCmd)

	return viewsCmd
}
