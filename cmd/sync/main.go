package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/fisgarone/marketplace-sync-api/infrastructure/database/postgres"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/meliclient"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/repository"
	"github.com/fisgarone/marketplace-sync-api/internal/config"
	"github.com/fisgarone/marketplace-sync-api/internal/domain"
	"github.com/fisgarone/marketplace-sync-api/internal/usecases/syncing"
	"github.com/sirupsen/logrus"
)

// Executor de sincronização avulsa, pensado para rodar via cron do sistema ou
// manualmente durante a operação. O processo termina com código diferente de
// zero quando nenhuma conta sincroniza com sucesso.
func main() {
	mode := flag.String("mode", "recent", "modo de sincronização: full ou recent")
	hours := flag.Int("hours", 0, "janela em horas para o modo recent (0 usa a configuração)")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	if *mode != "full" && *mode != "recent" {
		logrus.Fatalf("Modo de sincronização inválido: %s. Valores aceitos: full, recent", *mode)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	credentialRepo := repository.NewCredentialRepository(conn)
	salesRecordRepo := repository.NewSalesRecordRepository(conn)

	meliClient := meliclient.NewClient(cfg)
	tokenManager := meliclient.NewTokenManager(meliClient, credentialRepo)
	meliIntegrator := mercadolivre.New(cfg, meliClient, tokenManager, salesRecordRepo)

	syncService := syncing.NewService(cfg, credentialRepo, meliIntegrator)

	var result *domain.SyncRunResult
	switch *mode {
	case "full":
		result = syncService.FullReconciliation(ctx)
	case "recent":
		result = syncService.RecentSync(ctx, *hours)
	}

	logrus.WithFields(logrus.Fields{
		"run_id":           result.RunID,
		"window":           result.Window,
		"accounts_total":   result.AccountsTotal,
		"accounts_ok":      result.AccountsOK,
		"accounts_failed":  result.AccountsFailed,
		"accounts_skipped": result.AccountsSkipped,
		"orders_processed": result.OrdersProcessed,
		"lines_upserted":   result.LinesUpserted,
	}).Info("Execução de sincronização finalizada")

	// Falha total vira código de saída para o cron alertar
	if result.AccountsTotal > 0 && result.AccountsOK == 0 {
		logrus.Error("Nenhuma conta sincronizada com sucesso")
		os.Exit(1)
	}
}
