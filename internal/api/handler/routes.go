package handler

import (
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/campaign-kpi-etl/internal/api/handler/router"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/reporting"
	"github.com/vfg2006/campaign-kpi-etl/pkg/middleware"
)

// Intervalo mínimo entre disparos manuais do ETL
const manualRunCooldown = 10 * time.Second

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func KPIs(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/kpis/campaigns",
			Method:  http.MethodGet,
			Handler: GetCampaignKPIs(service),
		},
		{
			Path:    "/v1/kpis/daily",
			Method:  http.MethodGet,
			Handler: GetDailyKPIs(service),
		},
	}
}

func ETL(trigger ETLTrigger) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/etl/run",
			Method:      http.MethodPost,
			Handler:     RunETL(trigger),
			Middlewares: []alice.Constructor{middleware.Cooldown(manualRunCooldown)},
		},
		{
			Path:    "/v1/etl/status",
			Method:  http.MethodGet,
			Handler: GetETLStatus(trigger),
		},
	}
}
