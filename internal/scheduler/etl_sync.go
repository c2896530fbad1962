package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-kpi-etl/internal/config"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/pipeline"
)

// ErrSyncRunning é retornado quando já existe uma execução em andamento neste processo
var ErrSyncRunning = errors.New("execução do ETL já em andamento")

// ETLSyncConfig representa a configuração do agendador do ETL
type ETLSyncConfig struct {
	CronSchedule string
	InputPath    string
	Table        string
	SyncEnabled  bool
}

// ETLSyncService agenda e executa o pipeline, impedindo execuções sobrepostas
type ETLSyncService struct {
	scheduler           *gocron.Scheduler
	config              ETLSyncConfig
	runner              pipeline.Runner
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastReport          *domain.RunReport
	lastError           error
}

// NewETLSyncService cria uma nova instância do serviço de agendamento do ETL
func NewETLSyncService(runner pipeline.Runner, appConfig *config.Config) *ETLSyncService {
	syncConfig := ETLSyncConfig{
		CronSchedule: appConfig.ETLSync.CronSchedule,
		InputPath:    appConfig.Loader.InputFile,
		Table:        appConfig.Loader.TargetTable,
		SyncEnabled:  appConfig.ETLSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"input_path":    syncConfig.InputPath,
		"table":         syncConfig.Table,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador do ETL carregada")

	return &ETLSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		runner:      runner,
		syncRunning: false,
	}
}

// Enabled informa se o agendamento está habilitado por configuração
func (s *ETLSyncService) Enabled() bool {
	return s.config.SyncEnabled
}

// Start inicia o agendador
func (s *ETLSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Agendamento do ETL desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do ETL")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncInBackground(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar execução do ETL: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do ETL")
		s.scheduler.Stop()
	}()

	return nil
}

// Sync executa o pipeline de forma síncrona. Retorna ErrSyncRunning se já houver execução.
func (s *ETLSyncService) Sync(ctx context.Context) (*domain.RunReport, error) {
	if !s.tryStart() {
		return nil, ErrSyncRunning
	}
	return s.run(ctx)
}

// tryStart marca a execução como em andamento; false se já houver uma
func (s *ETLSyncService) tryStart() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

// run executa o pipeline; quem chama já deve ter obtido a vez com tryStart
func (s *ETLSyncService) run(ctx context.Context) (*domain.RunReport, error) {
	report, err := s.runner.Run(ctx, pipeline.RunOptions{
		InputPath: s.config.InputPath,
		Table:     s.config.Table,
	})

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastError = err
	if err == nil {
		s.lastReport = report
	}
	s.syncMutex.Unlock()

	return report, err
}

func (s *ETLSyncService) syncInBackground(ctx context.Context) {
	if _, err := s.Sync(ctx); err != nil {
		if errors.Is(err, ErrSyncRunning) {
			logrus.Info("Execução do ETL já em andamento, ignorando")
			return
		}
		logrus.WithError(err).Error("Erro na execução agendada do ETL")
	}
}

// TriggerManualSync dispara uma execução em segundo plano; retorna false se já houver uma em andamento
func (s *ETLSyncService) TriggerManualSync(ctx context.Context) bool {
	if !s.tryStart() {
		logrus.Info("Execução do ETL já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando execução manual do ETL")
	go func() {
		if _, err := s.run(context.WithoutCancel(ctx)); err != nil {
			logrus.WithError(err).Error("Erro na execução manual do ETL")
		}
	}()
	return true
}

// GetStatus retorna o status atual do agendador
func (s *ETLSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"input_path":             s.config.InputPath,
		"table":                  s.config.Table,
		"running":                s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}

	if s.lastReport != nil {
		status["last_run_id"] = s.lastReport.RunID
		status["last_rows_loaded"] = s.lastReport.RowsLoaded
	}
	if s.lastError != nil {
		status["last_error"] = s.lastError.Error()
	}

	return status
}
