package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/campaign-kpi-etl/infrastructure/repository"
	"github.com/vfg2006/campaign-kpi-etl/internal/api"
	"github.com/vfg2006/campaign-kpi-etl/internal/config"
	"github.com/vfg2006/campaign-kpi-etl/internal/scheduler"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/extracting"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/loading"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/pipeline"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/reporting"
	"github.com/vfg2006/campaign-kpi-etl/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel, os.Stdout)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := dbconn(ctx, cfg.Database)
	defer conn.Close()

	factAdsRepo := repository.NewFactAdsRepository(conn)
	kpiViewRepo := repository.NewKPIViewRepository(conn)

	reportingService := reporting.NewService(kpiViewRepo)

	pipelineService := pipeline.NewService(
		extracting.NewCSVReader(),
		loading.NewLoader(factAdsRepo, cfg.Loader),
		cfg.Loader,
	)

	etlSyncService := scheduler.NewETLSyncService(pipelineService, cfg)
	if err := etlSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do ETL")
	}

	server, err := api.New(cfg, conn, reportingService, etlSyncService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// dbconn cria a conexão com o banco de destino
func dbconn(ctx context.Context, dbConfig config.Database) *sqldb.Connection {
	conn, err := sqldb.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).WithField("driver", dbConfig.Driver).Fatal("Erro ao conectar ao banco de dados")
	}

	logrus.WithField("driver", dbConfig.Driver).Info("Conexão com o banco de dados estabelecida com sucesso")
	return conn
}
