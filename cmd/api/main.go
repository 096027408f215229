package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/fisgarone/marketplace-sync-api/infrastructure/database/postgres"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/meliclient"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/repository"
	"github.com/fisgarone/marketplace-sync-api/internal/api"
	"github.com/fisgarone/marketplace-sync-api/internal/config"
	"github.com/fisgarone/marketplace-sync-api/internal/scheduler"
	"github.com/fisgarone/marketplace-sync-api/internal/usecases/syncing"
	"github.com/sirupsen/logrus"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	credentialRepo := repository.NewCredentialRepository(pgConn)
	salesRecordRepo := repository.NewSalesRecordRepository(pgConn)

	meliClient := meliclient.NewClient(cfg)
	tokenManager := meliclient.NewTokenManager(meliClient, credentialRepo)
	meliIntegrator := mercadolivre.New(cfg, meliClient, tokenManager, salesRecordRepo)

	syncService := syncing.NewService(cfg, credentialRepo, meliIntegrator)

	// Inicializa os agendadores de sincronização separados
	fullSyncService := scheduler.NewFullReconciliationSyncService(syncService, cfg)
	recentSyncService := scheduler.NewRecentOrdersSyncService(syncService, cfg)

	// Inicia os agendadores em background
	if err := fullSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de reconciliação completa")
	} else {
		logrus.Info("Agendador de reconciliação completa iniciado com sucesso")
	}

	if err := recentSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização recente")
	} else {
		logrus.Info("Agendador de sincronização recente iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		syncService,
		fullSyncService,
		recentSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
