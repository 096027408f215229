package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fisgarone/marketplace-sync-api/internal/config"
	"github.com/fisgarone/marketplace-sync-api/internal/usecases/syncing"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// FullReconciliationSyncConfig representa a configuração do agendador de reconciliação completa
type FullReconciliationSyncConfig struct {
	CronSchedule          string
	WindowDays            int
	MaxConcurrentAccounts int
	SyncEnabled           bool
}

// FullReconciliationSyncService gerencia o agendamento e execução da reconciliação
// completa de pedidos do Mercado Livre
type FullReconciliationSyncService struct {
	scheduler           *gocron.Scheduler
	config              FullReconciliationSyncConfig
	appConfig           *config.Config
	syncer              syncing.Syncer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewFullReconciliationSyncService cria uma nova instância do serviço de reconciliação completa
func NewFullReconciliationSyncService(
	syncer syncing.Syncer,
	appConfig *config.Config,
) *FullReconciliationSyncService {
	// Criar a configuração com base na config global
	syncConfig := FullReconciliationSyncConfig{
		CronSchedule:          appConfig.FullSync.CronSchedule,
		WindowDays:            appConfig.FullSync.WindowDays,
		MaxConcurrentAccounts: appConfig.FullSync.MaxConcurrentAccounts,
		SyncEnabled:           appConfig.FullSync.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":           syncConfig.CronSchedule,
		"window_days":             syncConfig.WindowDays,
		"max_concurrent_accounts": syncConfig.MaxConcurrentAccounts,
		"sync_enabled":            syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de reconciliação completa carregada")

	return &FullReconciliationSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		appConfig:   appConfig,
		syncer:      syncer,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *FullReconciliationSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Reconciliação completa desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de reconciliação completa")

	// Agendar a reconciliação completa
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runFullReconciliation(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar reconciliação completa: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de reconciliação completa")
		s.scheduler.Stop()
	}()

	return nil
}

// runFullReconciliation executa a reconciliação completa de todas as contas ativas
func (s *FullReconciliationSyncService) runFullReconciliation(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Reconciliação completa já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.WithField("window_days", s.config.WindowDays).Info("Iniciando reconciliação completa de pedidos do Mercado Livre")

	result := s.syncer.FullReconciliation(ctx)

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"run_id":           result.RunID,
		"duration":         duration.String(),
		"accounts_total":   result.AccountsTotal,
		"accounts_ok":      result.AccountsOK,
		"accounts_failed":  result.AccountsFailed,
		"accounts_skipped": result.AccountsSkipped,
		"orders_processed": result.OrdersProcessed,
		"lines_upserted":   result.LinesUpserted,
	}).Info("Reconciliação completa concluída")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync inicia manualmente uma reconciliação completa
func (s *FullReconciliationSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Reconciliação completa já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando reconciliação completa manual")
	go s.runFullReconciliation(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *FullReconciliationSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":            s.config.SyncEnabled,
		"sync_cron":               s.config.CronSchedule,
		"sync_window_days":        s.config.WindowDays,
		"max_concurrent_accounts": s.config.MaxConcurrentAccounts,
		"last_sync_started_at":    s.lastSyncStartedAt,
		"last_sync_completed_at":  s.lastSyncCompletedAt,
	}
}
