package syncing

import (
	"errors"
	"fmt"
)

// Erros específicos do contexto de sincronização
var (
	// Erros de descoberta de contas
	ErrListCredentials  = errors.New("erro ao buscar credenciais ativas no banco")
	ErrNoActiveAccounts = errors.New("nenhuma conta ativa encontrada para sincronização")

	// Erros de execução
	ErrAccountTimeout = errors.New("tempo limite da sincronização da conta excedido")
	ErrAccountPanic   = errors.New("falha inesperada na sincronização da conta")
)

// SyncError é um erro com contexto adicional de uma execução de sincronização
type SyncError struct {
	Err       error  // Erro base
	CompanyID string // Empresa envolvida (quando aplicável)
	Details   string // Detalhes adicionais
}

// Error implementa a interface error
func (e *SyncError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError cria um novo SyncError
func NewSyncError(err error, companyID string, details string) *SyncError {
	return &SyncError{
		Err:       err,
		CompanyID: companyID,
		Details:   details,
	}
}
