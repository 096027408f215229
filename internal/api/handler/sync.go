package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fisgarone/marketplace-sync-api/internal/domain"
	"github.com/fisgarone/marketplace-sync-api/internal/usecases/syncing"
	"github.com/fisgarone/marketplace-sync-api/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// RunSync executa uma sincronização de forma síncrona e retorna o resultado agregado.
// Útil para operação manual e para o healthcheck dos dados após uma janela de incidentes.
func RunSync(service syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunSync")

		mode := httprouter.ParamsFromContext(r.Context()).ByName("mode")

		var result *domain.SyncRunResult
		switch mode {
		case "full":
			result = service.FullReconciliation(r.Context())
		case "recent":
			hours := 0
			if raw := r.URL.Query().Get("hours"); raw != "" {
				parsed, err := strconv.Atoi(raw)
				if err != nil {
					apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Parâmetro hours inválido", nil)
					return
				}
				hours = parsed
			}
			result = service.RecentSync(r.Context(), hours)
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Modo de sincronização inválido. Valores aceitos: full, recent", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.WithError(err).Error("Erro ao serializar resultado da sincronização")
		}
	}
}
