package syncing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/repository"
	"github.com/fisgarone/marketplace-sync-api/internal/config"
	"github.com/fisgarone/marketplace-sync-api/internal/domain"
	"github.com/fisgarone/marketplace-sync-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// runLimits agrupa os limites de execução de uma janela de sincronização
type runLimits struct {
	maxConcurrentAccounts int
	accountTimeout        time.Duration
}

// Service orquestra a sincronização de todas as contas ativas. Contas são
// independentes entre si: rodam em paralelo limitado e a falha de uma nunca
// cancela as demais. A mesma conta nunca roda duas vezes ao mesmo tempo —
// execuções sobrepostas (full × recent) pulam a conta em andamento.
type Service struct {
	cfg            *config.Config
	credentialRepo repository.CredentialRepository
	integrator     mercadolivre.MeliIntegrator

	inflightMu sync.Mutex
	inflight   map[string]bool
}

func NewService(
	cfg *config.Config,
	credentialRepo repository.CredentialRepository,
	integrator mercadolivre.MeliIntegrator,
) Syncer {
	return &Service{
		cfg:            cfg,
		credentialRepo: credentialRepo,
		integrator:     integrator,
		inflight:       map[string]bool{},
	}
}

// FullReconciliation sincroniza todas as contas com a janela ampla,
// pensada para capturar atualizações tardias de status e correções de taxa.
func (s *Service) FullReconciliation(ctx context.Context) *domain.SyncRunResult {
	window := domain.SyncWindow{
		Duration: time.Duration(s.cfg.FullSync.WindowDays) * 24 * time.Hour,
		Label:    fmt.Sprintf("%dd", s.cfg.FullSync.WindowDays),
	}

	return s.syncAll(ctx, window, runLimits{
		maxConcurrentAccounts: s.cfg.FullSync.MaxConcurrentAccounts,
		accountTimeout:        time.Duration(s.cfg.FullSync.AccountTimeoutMinutes) * time.Minute,
	})
}

// RecentSync sincroniza todas as contas com a janela curta (horas).
func (s *Service) RecentSync(ctx context.Context, windowHours int) *domain.SyncRunResult {
	if windowHours < 1 || windowHours > 24 {
		windowHours = s.cfg.RecentSync.WindowHours
	}

	window := domain.SyncWindow{
		Duration: time.Duration(windowHours) * time.Hour,
		Label:    fmt.Sprintf("%dh", windowHours),
	}

	return s.syncAll(ctx, window, runLimits{
		maxConcurrentAccounts: s.cfg.RecentSync.MaxConcurrentAccounts,
		accountTimeout:        time.Duration(s.cfg.RecentSync.AccountTimeoutMinutes) * time.Minute,
	})
}

// syncAll descobre as contas ativas e roda um pipeline por conta. Sempre
// devolve um agregado em vez de propagar exceção, para que a invocação
// agendada nunca pare de rodar para as demais contas.
func (s *Service) syncAll(ctx context.Context, window domain.SyncWindow, limits runLimits) *domain.SyncRunResult {
	runID, err := utils.GenerateID()
	if err != nil {
		runID = "unknown"
	}

	result := &domain.SyncRunResult{
		RunID:     runID,
		Window:    window.Label,
		StartedAt: time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
	}()

	credentials, err := s.credentialRepo.ListActive(ctx)
	if err != nil {
		logrus.WithField("run_id", runID).WithError(err).
			Error("Erro ao buscar credenciais ativas para sincronização")
		result.AccountsFailed = 1
		result.PerAccount = append(result.PerAccount, &domain.AccountSyncResult{
			Err: NewSyncError(ErrListCredentials, "", err.Error()),
		})
		return result
	}

	if len(credentials) == 0 {
		logrus.WithField("run_id", runID).Info("Nenhuma conta ativa encontrada para sincronização")
		return result
	}

	result.AccountsTotal = len(credentials)

	logrus.WithFields(logrus.Fields{
		"run_id":   runID,
		"window":   window.Label,
		"accounts": len(credentials),
	}).Info("Iniciando sincronização de pedidos para todas as contas ativas")

	semaphore := make(chan struct{}, limits.maxConcurrentAccounts)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, creds := range credentials {
		// Guarda de voo único por conta: execuções sobrepostas pulam a
		// conta que já está sincronizando em vez de disputar os mesmos
		// registros
		if !s.tryAcquire(creds.ID) {
			mu.Lock()
			result.AccountsSkipped++
			mu.Unlock()

			logrus.WithFields(logrus.Fields{
				"run_id":     runID,
				"company_id": creds.CompanyID,
			}).Info("Conta já em sincronização, pulando nesta execução")
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(c *domain.Credentials) {
			defer func() {
				s.release(c.ID)
				<-semaphore
				wg.Done()
			}()

			accountResult := s.syncAccount(ctx, c, window, limits.accountTimeout)

			mu.Lock()
			defer mu.Unlock()

			result.PerAccount = append(result.PerAccount, accountResult)
			result.OrdersProcessed += accountResult.OrdersFetched
			result.LinesUpserted += accountResult.LinesUpserted

			if accountResult.Succeeded() {
				result.AccountsOK++
			} else {
				result.AccountsFailed++
			}
		}(creds)
	}

	wg.Wait()

	logrus.WithFields(logrus.Fields{
		"run_id":           runID,
		"window":           window.Label,
		"accounts_ok":      result.AccountsOK,
		"accounts_failed":  result.AccountsFailed,
		"accounts_skipped": result.AccountsSkipped,
		"orders":           result.OrdersProcessed,
		"lines_upserted":   result.LinesUpserted,
		"duration":         time.Since(result.StartedAt).String(),
	}).Info("Sincronização concluída para todas as contas")

	return result
}

// syncAccount roda o pipeline de uma conta com timeout próprio e contenção de
// pânico: uma falha inesperada vira resultado de falha daquela conta em vez de
// derrubar a execução inteira.
func (s *Service) syncAccount(ctx context.Context, creds *domain.Credentials, window domain.SyncWindow, timeout time.Duration) (accountResult *domain.AccountSyncResult) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"company_id": creds.CompanyID,
				"panic":      r,
			}).Error("Pânico recuperado na sincronização da conta")

			accountResult = &domain.AccountSyncResult{
				CompanyID:   creds.CompanyID,
				AccountName: creds.CompanyName,
				Err:         NewSyncError(ErrAccountPanic, creds.CompanyID, fmt.Sprint(r)),
			}
		}
	}()

	accountCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Sonda de vitalidade do token: evita queimar buscas de página com um
	// token sabidamente inválido
	if err := s.integrator.EnsureFreshToken(accountCtx, creds); err != nil {
		return &domain.AccountSyncResult{
			CompanyID:   creds.CompanyID,
			AccountName: creds.CompanyName,
			Err:         err,
		}
	}

	return s.integrator.SyncAccountOrders(accountCtx, creds, window)
}

func (s *Service) tryAcquire(credentialID string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()

	if s.inflight[credentialID] {
		return false
	}

	s.inflight[credentialID] = true
	return true
}

func (s *Service) release(credentialID string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()

	delete(s.inflight, credentialID)
}
