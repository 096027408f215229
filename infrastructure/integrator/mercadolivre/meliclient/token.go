package meliclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	melidomain "github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/sirupsen/logrus"
)

// ExchangeRefreshToken troca o refresh token por um novo par de tokens via
// grant_type=refresh_token. Uma resposta 2xx sem access_token é tratada como
// recusa (ErrTokenRefused), distinta de falha de rede.
func (c *MeliClient) ExchangeRefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*melidomain.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("refresh_token", refreshToken)

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	outcome, err := c.Do(ctx, http.MethodPost, "/oauth/token", nil, header, []byte(form.Encode()))
	if err != nil {
		return nil, err
	}

	if outcome.Kind != OutcomeOk {
		logrus.WithFields(logrus.Fields{
			"status": outcome.Status,
		}).Error("Erro ao atualizar token do Mercado Livre")
		return nil, ErrTokenRefused
	}

	var tokenResp melidomain.TokenResponse
	if err := json.Unmarshal(outcome.Body, &tokenResp); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta de token: %w", err)
	}

	if tokenResp.AccessToken == "" {
		logrus.Error("API do Mercado Livre retornou resposta de token sem access_token")
		return nil, ErrTokenRefused
	}

	return &tokenResp, nil
}

// CalculateTokenExpiration calcula a estimativa de expiração do token.
// Subtrai uma margem para renovar antes da expiração real.
func CalculateTokenExpiration(expiresIn int64) time.Time {
	buffer := int64(10 * 60) // 10 minutos em segundos
	safeExpiresIn := expiresIn - buffer

	if safeExpiresIn < 0 {
		safeExpiresIn = expiresIn / 2 // Se for muito curto, usamos metade do tempo
	}

	return time.Now().Add(time.Duration(safeExpiresIn) * time.Second)
}
