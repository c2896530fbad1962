package pipeline

import (
	"context"
	"time"

	"github.com/vfg2006/campaign-kpi-etl/internal/config"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/enriching"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/extracting"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/loading"
	"github.com/vfg2006/campaign-kpi-etl/pkg/log"
)

// Runner executa uma carga completa: leitura, cálculo dos KPIs e carga
type Runner interface {
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)
}

// RunOptions sobrescreve os valores da configuração quando preenchidos
type RunOptions struct {
	InputPath string
	Table     string
}

type Service struct {
	reader extracting.Extractor
	loader loading.Loader
	cfg    config.Loader
}

func NewService(reader extracting.Extractor, loader loading.Loader, cfg config.Loader) *Service {
	return &Service{
		reader: reader,
		loader: loader,
		cfg:    cfg,
	}
}

// Run executa as etapas em sequência. Qualquer erro é fatal e não há nova tentativa.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error) {
	if opts.InputPath == "" {
		opts.InputPath = s.cfg.InputFile
	}
	if opts.Table == "" {
		opts.Table = s.cfg.TargetTable
	}

	ctx, runID := log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"run_id":     runID,
		"input_path": opts.InputPath,
		"table":      opts.Table,
	})

	report := &domain.RunReport{
		RunID:     runID,
		InputPath: opts.InputPath,
		Table:     opts.Table,
		StartedAt: time.Now(),
	}

	logger.Info("Iniciando execução do pipeline")

	extracted, err := s.reader.Read(ctx, opts.InputPath)
	if err != nil {
		return nil, s.fail(logger, "read", err)
	}
	report.RowsRead = len(extracted.Records)
	report.ExtraColumns = extracted.ExtraColumns

	enriched, guarded := enriching.Enrich(extracted.Records)
	report.GuardedKPIs = guarded
	if guarded > 0 {
		logger.WithField("guarded_kpis", guarded).Warn("KPIs nulos por denominador zero")
	}

	loaded, err := s.loader.Load(ctx, opts.Table, enriched, extracted.ExtraColumns)
	if err != nil {
		return nil, s.fail(logger, "load", err)
	}
	report.RowsLoaded = loaded.RowsLoaded

	report.Campaigns = enriching.AggregateByCampaign(enriched)
	report.FinishedAt = time.Now()

	logger.WithFields(log.Fields{
		"rows_read":   report.RowsRead,
		"rows_loaded": report.RowsLoaded,
		"campaigns":   len(report.Campaigns),
		"duration_ms": report.Duration().Milliseconds(),
	}).Info("Pipeline concluído com sucesso")

	return report, nil
}

func (s *Service) fail(logger log.Logger, stage string, err error) error {
	fields := log.Fields{"stage": stage}
	if kind := domain.KindOf(err); kind != nil {
		fields["error_kind"] = kind.Error()
	}
	logger.WithFields(fields).WithError(err).Error("Falha na execução do pipeline")
	return err
}
