package handler

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-kpi-etl/pkg/apiErrors"
)

// ETLTrigger é o agendador do pipeline visto pela API
type ETLTrigger interface {
	Enabled() bool
	TriggerManualSync(ctx context.Context) bool
	GetStatus() map[string]any
}

// RunETL dispara uma execução manual em segundo plano
func RunETL(trigger ETLTrigger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunETL")

		if trigger == nil || !trigger.Enabled() {
			apiErrors.WriteError(w, apiErrors.ErrSyncDisabled, "Agendamento do ETL desabilitado (ETL_SYNC_ENABLED)", nil)
			return
		}

		if !trigger.TriggerManualSync(r.Context()) {
			apiErrors.WriteError(w, apiErrors.ErrSyncRunning, "Já existe uma execução do ETL em andamento", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Execução do ETL iniciada com sucesso",
		})
	})
}

func GetETLStatus(trigger ETLTrigger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if trigger == nil {
			writeJSON(w, http.StatusOK, map[string]any{"sync_enabled": false})
			return
		}
		writeJSON(w, http.StatusOK, trigger.GetStatus())
	})
}
