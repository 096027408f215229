package syncing

import (
	"context"

	"github.com/fisgarone/marketplace-sync-api/internal/domain"
)

// Syncer expõe os pontos de entrada do motor de sincronização.
// Ambos são idempotentes quanto a invocações repetidas: reingestões de um
// pedido já conhecido atualizam o registro existente.
type Syncer interface {
	// FullReconciliation sincroniza todas as contas ativas com a janela
	// ampla de reconciliação (60 dias por padrão)
	FullReconciliation(ctx context.Context) *domain.SyncRunResult

	// RecentSync sincroniza todas as contas ativas com a janela curta.
	// windowHours fora de [1, 24] cai no valor configurado.
	RecentSync(ctx context.Context, windowHours int) *domain.SyncRunResult
}
