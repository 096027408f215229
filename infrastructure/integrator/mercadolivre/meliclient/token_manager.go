package meliclient

import (
	"context"
	"sync"
	"time"

	"github.com/fisgarone/marketplace-sync-api/internal/domain"
	"github.com/sirupsen/logrus"
)

// TokenStore persiste os tokens renovados de uma conta
type TokenStore interface {
	UpdateTokens(ctx context.Context, credentialID, accessToken, refreshToken string, expiresAt time.Time) error
}

// refreshedTokens guarda o último par renovado de uma conta dentro do processo
type refreshedTokens struct {
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	refreshedAt  time.Time
}

// TokenManager serializa a renovação de tokens por conta. O refresh token do
// Mercado Livre é rotativo e de uso único: dois refreshes concorrentes com o
// mesmo token invalidariam a sessão, então cada conta tem um mutex próprio e
// renovações recém-concluídas são reaproveitadas em vez de repetidas.
type TokenManager struct {
	client Client
	store  TokenStore

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	lastSeen map[string]*refreshedTokens
}

func NewTokenManager(client Client, store TokenStore) *TokenManager {
	return &TokenManager{
		client:   client,
		store:    store,
		locks:    map[string]*sync.Mutex{},
		lastSeen: map[string]*refreshedTokens{},
	}
}

// Refresh renova o par de tokens da conta e persiste o resultado. A struct de
// credenciais é atualizada no lugar para o chamador seguir a sincronização com
// o token novo. Nenhuma mutação parcial acontece em caso de falha.
func (tm *TokenManager) Refresh(ctx context.Context, creds *domain.Credentials) error {
	lock := tm.lockFor(creds.ID)
	lock.Lock()
	defer lock.Unlock()

	// Outra goroutine pode ter acabado de renovar esta conta. Nesse caso o
	// refresh token que o chamador carrega já foi rotacionado e repetir a
	// troca derrubaria a sessão; reaproveitamos o par recém-renovado.
	if last := tm.recentRefresh(creds.ID, creds.AccessToken); last != nil {
		creds.AccessToken = last.accessToken
		creds.RefreshToken = last.refreshToken
		creds.TokenExpiresAt = last.expiresAt

		logrus.WithField("company_id", creds.CompanyID).
			Info("Reaproveitando tokens renovados por outra sincronização")
		return nil
	}

	tokenResp, err := tm.client.ExchangeRefreshToken(ctx, creds.ClientID, creds.ClientSecret, creds.RefreshToken)
	if err != nil {
		return err
	}

	expiresAt := CalculateTokenExpiration(tokenResp.ExpiresIn)

	if err := tm.store.UpdateTokens(ctx, creds.ID, tokenResp.AccessToken, tokenResp.RefreshToken, expiresAt); err != nil {
		return err
	}

	creds.AccessToken = tokenResp.AccessToken
	creds.RefreshToken = tokenResp.RefreshToken
	creds.TokenExpiresAt = expiresAt

	tm.mu.Lock()
	tm.lastSeen[creds.ID] = &refreshedTokens{
		accessToken:  tokenResp.AccessToken,
		refreshToken: tokenResp.RefreshToken,
		expiresAt:    expiresAt,
		refreshedAt:  time.Now(),
	}
	tm.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"company_id": creds.CompanyID,
		"expires_at": expiresAt.Format(time.RFC3339),
	}).Info("Tokens renovados com sucesso")

	return nil
}

func (tm *TokenManager) lockFor(credentialID string) *sync.Mutex {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	lock, ok := tm.locks[credentialID]
	if !ok {
		lock = &sync.Mutex{}
		tm.locks[credentialID] = lock
	}

	return lock
}

// recentRefresh devolve o último par renovado se ele for mais novo que o token
// que o chamador carrega e tiver sido obtido há pouco tempo.
func (tm *TokenManager) recentRefresh(credentialID, callerAccessToken string) *refreshedTokens {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	last, ok := tm.lastSeen[credentialID]
	if !ok || last.accessToken == callerAccessToken {
		return nil
	}

	if time.Since(last.refreshedAt) > 5*time.Minute {
		return nil
	}

	return last
}
