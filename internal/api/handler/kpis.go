package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/reporting"
	"github.com/vfg2006/campaign-kpi-etl/pkg/apiErrors"
	"github.com/vfg2006/campaign-kpi-etl/pkg/log"
	"github.com/vfg2006/campaign-kpi-etl/pkg/utils"
)

func GetCampaignKPIs(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		campaignID := r.URL.Query().Get("campaign_id")

		aggregates, err := service.CampaignKPIs(r.Context(), campaignID)
		if err != nil {
			logger.WithError(err).WithField("campaign_id", campaignID).Error("kpis: falha ao buscar KPIs por campanha")
			apiErrors.WriteFromError(w, err)
			return
		}

		logger.WithField("campaigns", len(aggregates)).Debug("kpis: KPIs por campanha obtidos")
		writeJSON(w, http.StatusOK, aggregates)
	})
}

func GetDailyKPIs(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		query := r.URL.Query()

		startDate, err := utils.ParseDate(query.Get("start_date"))
		if err != nil {
			logger.WithField("start_date", query.Get("start_date")).Warn("kpis: start_date inválida")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		endDate, err := utils.ParseDate(query.Get("end_date"))
		if err != nil {
			logger.WithField("end_date", query.Get("end_date")).Warn("kpis: end_date inválida")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		filters := reporting.DailyFilters{
			CampaignID: query.Get("campaign_id"),
			StartDate:  startDate,
			EndDate:    endDate,
		}

		aggregates, err := service.DailyKPIs(r.Context(), filters)
		if err != nil {
			if errors.Is(err, reporting.ErrInvalidPeriod) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
				return
			}
			logger.WithError(err).WithField("campaign_id", filters.CampaignID).Error("kpis: falha ao buscar KPIs diários")
			apiErrors.WriteFromError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, aggregates)
	})
}
