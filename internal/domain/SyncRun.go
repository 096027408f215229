package domain

import "time"

// SyncWindow define a janela de tempo de uma sincronização
type SyncWindow struct {
	Duration time.Duration
	Label    string
}

// Start calcula o início da janela a partir do instante informado.
func (w SyncWindow) Start(now time.Time) time.Time {
	return now.Add(-w.Duration)
}

// AccountSyncResult é o resultado da sincronização de uma única conta
type AccountSyncResult struct {
	CompanyID      string        `json:"company_id"`
	AccountName    string        `json:"account_name"`
	OrdersFetched  int           `json:"orders_fetched"`
	LinesUpserted  int           `json:"lines_upserted"`
	OrdersFailed   int           `json:"orders_failed"`
	PagesFetched   int           `json:"pages_fetched"`
	TokenRefreshed bool          `json:"token_refreshed"`
	Aborted        bool          `json:"aborted"`
	Duration       time.Duration `json:"duration"`
	Err            error         `json:"-"`
}

// Succeeded indica se a conta terminou a sincronização sem falha fatal.
// Falhas isoladas de pedidos não tornam a conta malsucedida.
func (r *AccountSyncResult) Succeeded() bool {
	return r != nil && r.Err == nil && !r.Aborted
}

// SyncRunResult agrega o resultado de uma execução do orquestrador sobre
// todas as contas ativas. Nunca é persistido; serve para logs e resposta
// dos gatilhos manuais.
type SyncRunResult struct {
	RunID            string               `json:"run_id"`
	Window           string               `json:"window"`
	StartedAt        time.Time            `json:"started_at"`
	FinishedAt       time.Time            `json:"finished_at"`
	AccountsTotal    int                  `json:"accounts_total"`
	AccountsOK       int                  `json:"accounts_ok"`
	AccountsFailed   int                  `json:"accounts_failed"`
	AccountsSkipped  int                  `json:"accounts_skipped"`
	OrdersProcessed  int                  `json:"orders_processed"`
	LinesUpserted    int                  `json:"lines_upserted"`
	PerAccount       []*AccountSyncResult `json:"per_account"`
}
