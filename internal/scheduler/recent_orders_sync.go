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

// RecentOrdersSyncConfig representa a configuração do agendador de sincronização recente
type RecentOrdersSyncConfig struct {
	CronSchedule          string
	WindowHours           int
	MaxConcurrentAccounts int
	SyncEnabled           bool
}

// RecentOrdersSyncService gerencia o agendamento e execução da sincronização
// incremental de pedidos recentes do Mercado Livre
type RecentOrdersSyncService struct {
	scheduler           *gocron.Scheduler
	config              RecentOrdersSyncConfig
	appConfig           *config.Config
	syncer              syncing.Syncer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewRecentOrdersSyncService cria uma nova instância do serviço de sincronização recente
func NewRecentOrdersSyncService(
	syncer syncing.Syncer,
	appConfig *config.Config,
) *RecentOrdersSyncService {
	syncConfig := RecentOrdersSyncConfig{
		CronSchedule:          appConfig.RecentSync.CronSchedule,
		WindowHours:           appConfig.RecentSync.WindowHours,
		MaxConcurrentAccounts: appConfig.RecentSync.MaxConcurrentAccounts,
		SyncEnabled:           appConfig.RecentSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":           syncConfig.CronSchedule,
		"window_hours":            syncConfig.WindowHours,
		"max_concurrent_accounts": syncConfig.MaxConcurrentAccounts,
		"sync_enabled":            syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de sincronização recente carregada")

	return &RecentOrdersSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		appConfig:   appConfig,
		syncer:      syncer,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *RecentOrdersSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização recente desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização recente")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runRecentSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização recente: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização recente")
		s.scheduler.Stop()
	}()

	return nil
}

// runRecentSync executa a sincronização incremental de todas as contas ativas
func (s *RecentOrdersSyncService) runRecentSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização recente já em andamento, ignorando")
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

	logrus.WithField("window_hours", s.config.WindowHours).Info("Iniciando sincronização de pedidos recentes do Mercado Livre")

	result := s.syncer.RecentSync(ctx, s.config.WindowHours)

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
	}).Info("Sincronização recente concluída")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync inicia manualmente uma sincronização recente
func (s *RecentOrdersSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização recente já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização recente manual")
	go s.runRecentSync(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *RecentOrdersSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":            s.config.SyncEnabled,
		"sync_cron":               s.config.CronSchedule,
		"sync_window_hours":       s.config.WindowHours,
		"max_concurrent_accounts": s.config.MaxConcurrentAccounts,
		"last_sync_started_at":    s.lastSyncStartedAt,
		"last_sync_completed_at":  s.lastSyncCompletedAt,
	}
}
