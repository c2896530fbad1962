package loading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/repository"
	"github.com/vfg2006/campaign-kpi-etl/internal/config"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/pkg/log"
	"github.com/vfg2006/campaign-kpi-etl/pkg/utils"
)

const (
	stageSuffix = "__stage_"
	oldSuffix   = "__old_"
)

type Loader interface {
	Load(ctx context.Context, table string, rows []domain.EnrichedAdRecord, extras []string) (*LoadResult, error)
}

// LoadResult descreve uma carga concluída
type LoadResult struct {
	Table        string
	RowsLoaded   int64
	Batches      int
	Replaced     bool // havia uma tabela anterior que foi substituída
	StagingTable string
	Duration     time.Duration
}

type Service struct {
	repo repository.FactAdsRepository
	cfg  config.Loader
}

func NewLoader(repo repository.FactAdsRepository, cfg config.Loader) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
	}
}

// Load substitui o conteúdo da tabela pelas linhas informadas.
// As linhas vão para uma tabela de staging que só é trocada pela alvo depois
// de conferida a contagem; leitores nunca veem a tabela vazia ou parcial.
func (s *Service) Load(ctx context.Context, table string, rows []domain.EnrichedAdRecord, extras []string) (*LoadResult, error) {
	startTime := time.Now()

	if table == "" {
		table = s.cfg.TargetTable
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"table": table,
		"rows":  len(rows),
	})

	targetExists, err := s.repo.CheckTarget(ctx, table)
	if err != nil {
		return nil, err
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da staging: %w", err)
	}
	stage := table + stageSuffix + id
	old := table + oldSuffix + id

	if err := s.repo.CreateStage(ctx, stage, extras); err != nil {
		return nil, err
	}

	result, err := s.fillAndSwap(ctx, table, stage, old, targetExists, rows, extras)
	if errors.Is(err, repository.ErrSwappedWithoutViews) {
		logger.WithError(err).Error("Tabela substituída, mas as views não foram recriadas; rode o migrate")
		return nil, err
	}
	if err != nil {
		s.dropStage(ctx, stage)
		logger.WithError(err).Error("Erro na carga, tabela anterior mantida")
		return nil, err
	}

	result.Duration = time.Since(startTime)

	logger.WithFields(log.Fields{
		"rows_loaded": result.RowsLoaded,
		"batches":     result.Batches,
		"replaced":    result.Replaced,
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Carga concluída com sucesso")

	return result, nil
}

func (s *Service) fillAndSwap(
	ctx context.Context,
	table, stage, old string,
	targetExists bool,
	rows []domain.EnrichedAdRecord,
	extras []string,
) (*LoadResult, error) {
	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(rows)
	}

	var inserted int64
	batches := 0
	for start := 0; start < len(rows); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("carga interrompida: %w", err)
		}

		end := min(start+batchSize, len(rows))
		affected, err := s.repo.InsertBatch(ctx, stage, rows[start:end], extras)
		if err != nil {
			return nil, err
		}

		inserted += affected
		batches++

		logrus.WithFields(logrus.Fields{
			"stage": stage,
			"batch": batches,
			"rows":  end - start,
		}).Debug("Lote inserido na staging")
	}

	if inserted != int64(len(rows)) {
		return nil, fmt.Errorf("inserção divergente na staging %s: esperado %d, inserido %d", stage, len(rows), inserted)
	}

	count, err := s.repo.CountRows(ctx, stage)
	if err != nil {
		return nil, err
	}
	if count != int64(len(rows)) {
		return nil, fmt.Errorf("contagem divergente na staging %s: esperado %d, encontrado %d", stage, len(rows), count)
	}

	if err := s.repo.Swap(ctx, table, stage, old, targetExists); err != nil {
		return nil, err
	}

	return &LoadResult{
		Table:        table,
		RowsLoaded:   count,
		Batches:      batches,
		Replaced:     targetExists,
		StagingTable: stage,
	}, nil
}

// dropStage é melhor esforço: usa um contexto próprio para funcionar mesmo após cancelamento
func (s *Service) dropStage(ctx context.Context, stage string) {
	dropCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.repo.DropTable(dropCtx, stage); err != nil {
		logrus.WithError(err).WithField("stage", stage).Warn("Não foi possível remover a tabela de staging")
	}
}
