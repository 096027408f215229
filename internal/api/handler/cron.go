package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fisgarone/marketplace-sync-api/internal/scheduler"
	"github.com/fisgarone/marketplace-sync-api/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeFull   = "full"
	CronJobTypeRecent = "recent"
	CronJobTypeAll    = "all"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	FullReconciliationSyncService *scheduler.FullReconciliationSyncService
	RecentOrdersSyncService       *scheduler.RecentOrdersSyncService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		// Validar o tipo de cron job
		switch cronType {
		case CronJobTypeFull:
			// Executar reconciliação completa
			if services.FullReconciliationSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de reconciliação completa não disponível", nil)
				return
			}
			services.FullReconciliationSyncService.TriggerManualSync()

		case CronJobTypeRecent:
			// Executar sincronização recente
			if services.RecentOrdersSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização recente não disponível", nil)
				return
			}
			services.RecentOrdersSyncService.TriggerManualSync()

		case CronJobTypeAll:
			// Executar ambas as sincronizações
			if services.FullReconciliationSyncService != nil {
				services.FullReconciliationSyncService.TriggerManualSync()
			}
			if services.RecentOrdersSyncService != nil {
				services.RecentOrdersSyncService.TriggerManualSync()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: full, recent, all", nil)
			return
		}

		// Responder com sucesso
		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{
			"full":   services.FullReconciliationSyncService.GetStatus(),
			"recent": services.RecentOrdersSyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
