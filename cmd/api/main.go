package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adscope/ad-audit-api/infrastructure/database/postgres"
	"github.com/adscope/ad-audit-api/infrastructure/integrator/meta"
	"github.com/adscope/ad-audit-api/infrastructure/integrator/meta/metaclient"
	"github.com/adscope/ad-audit-api/infrastructure/repository"
	"github.com/adscope/ad-audit-api/internal/api"
	"github.com/adscope/ad-audit-api/internal/config"
	"github.com/adscope/ad-audit-api/internal/scheduler"
	"github.com/adscope/ad-audit-api/internal/usecases/auditing"
	"github.com/adscope/ad-audit-api/internal/usecases/authenticating"
	"github.com/adscope/ad-audit-api/internal/usecases/ingesting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level %q, falling back to info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	accountRepo := repository.NewAccountRepository(pgConn)
	metricRepo := repository.NewMetricRecordRepository(pgConn)
	syncRunRepo := repository.NewSyncRunRepository(pgConn)
	auditReportRepo := repository.NewAuditReportRepository(pgConn)

	authenticator := authenticating.NewService(cfg)

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.NewMetaIntegrator(metaClient)

	ingester := ingesting.NewIngester(metaIntegrator, metricRepo, syncRunRepo, cfg.MetricSync)

	auditCfg, err := auditing.LoadAuditConfig(cfg.Audit.ConfigPath)
	if err != nil {
		logrus.WithError(err).WithField("path", cfg.Audit.ConfigPath).Fatal("Failed to load audit configuration")
	}

	engine := auditing.NewEngine(metricRepo)
	auditor := auditing.NewAuditor(engine, auditCfg, auditReportRepo)

	metricSyncService := scheduler.NewMetricSyncService(accountRepo, metricRepo, ingester, cfg)
	if err := metricSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start the metric sync scheduler")
	} else {
		logrus.Info("Metric sync scheduler started")
	}

	server, err := api.New(
		cfg,
		accountRepo,
		syncRunRepo,
		ingester,
		auditor,
		authenticator,
		metricSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
