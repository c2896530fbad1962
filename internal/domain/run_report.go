package domain

import "time"

// RunReport resume uma execução do pipeline
type RunReport struct {
	RunID        string              `json:"run_id"`
	InputPath    string              `json:"input_path"`
	Table        string              `json:"table"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   time.Time           `json:"finished_at"`
	RowsRead     int                 `json:"rows_read"`
	RowsLoaded   int64               `json:"rows_loaded"`
	GuardedKPIs  int                 `json:"guarded_kpis"`
	ExtraColumns []string            `json:"extra_columns,omitempty"`
	Campaigns    []CampaignAggregate `json:"campaigns"`
}

func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
