package meliclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fisgarone/marketplace-sync-api/internal/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Meli: config.Meli{
			BaseURL:               baseURL,
			RequestTimeoutSeconds: 5,
			MaxRetries:            1, // sem retries para os testes não aguardarem backoff
			PageSize:              50,
			MaxPages:              200,
			OrderWorkers:          10,
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected OutcomeKind
	}{
		{name: "2xx é sucesso", status: http.StatusOK, expected: OutcomeOk},
		{name: "201 também é sucesso", status: http.StatusCreated, expected: OutcomeOk},
		{name: "401 é token expirado", status: http.StatusUnauthorized, expected: OutcomeAuthExpired},
		{name: "403 também é token expirado", status: http.StatusForbidden, expected: OutcomeAuthExpired},
		{name: "429 é limite de taxa", status: http.StatusTooManyRequests, expected: OutcomeRateLimited},
		{name: "404 é erro permanente", status: http.StatusNotFound, expected: OutcomeHardError},
		{name: "500 é erro permanente", status: http.StatusInternalServerError, expected: OutcomeHardError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := classify(tt.status, []byte("corpo"))

			assert.Equal(t, tt.expected, outcome.Kind)
			assert.Equal(t, tt.status, outcome.Status)
			assert.Equal(t, []byte("corpo"), outcome.Body)
		})
	}
}

func TestDoRetry(t *testing.T) {
	t.Run("429 seguido de sucesso retenta e devolve o resultado", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{"id": 123}`))
		}))
		defer server.Close()

		cfg := testConfig(server.URL)
		cfg.Meli.MaxRetries = 3

		client := NewClient(cfg)
		outcome, err := client.Do(context.Background(), http.MethodGet, "/users/me", nil, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, OutcomeOk, outcome.Kind)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("Falha de transporte persistente esgota as tentativas", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // servidor fora do ar: toda tentativa falha no transporte

		cfg := testConfig(server.URL)
		cfg.Meli.MaxRetries = 3

		client := NewClient(cfg)
		_, err := client.Do(context.Background(), http.MethodGet, "/users/me", nil, nil, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "tentativas esgotadas (3)")
	})

	t.Run("MaxRetries zerado ainda executa uma tentativa", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(`{"id": 123}`))
		}))
		defer server.Close()

		cfg := testConfig(server.URL)
		cfg.Meli.MaxRetries = 0

		client := NewClient(cfg)
		outcome, err := client.Do(context.Background(), http.MethodGet, "/users/me", nil, nil, nil)

		require.NoError(t, err)
		require.NotNil(t, outcome)
		assert.Equal(t, OutcomeOk, outcome.Kind)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestProbe(t *testing.T) {
	t.Run("Token aceito não retorna erro", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/me", r.URL.Path)
			assert.Equal(t, "Bearer token-valido", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id": 123}`))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL))
		err := client.Probe(context.Background(), "token-valido")

		assert.NoError(t, err)
	})

	t.Run("Token rejeitado retorna ErrAuthExpired", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL))
		err := client.Probe(context.Background(), "token-vencido")

		assert.True(t, errors.Is(err, ErrAuthExpired))
	})
}

func TestSearchOrders(t *testing.T) {
	t.Run("Monta a query de paginação e decodifica a resposta", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orders/search", r.URL.Path)

			query := r.URL.Query()
			assert.Equal(t, "12345", query.Get("seller"))
			assert.Equal(t, "2026-06-01T00:00:00.000-03:00", query.Get("order.date_created.from"))
			assert.Equal(t, "100", query.Get("offset"))
			assert.Equal(t, "50", query.Get("limit"))
			assert.Equal(t, "date_desc", query.Get("sort"))

			w.Write([]byte(`{
				"results": [{"id": 999, "status": "paid"}],
				"paging": {"total": 151, "offset": 100, "limit": 50}
			}`))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL))
		response, err := client.SearchOrders(context.Background(), SearchOrdersParams{
			AccessToken: "token",
			SellerID:    "12345",
			CreatedFrom: "2026-06-01T00:00:00.000-03:00",
			Offset:      100,
			Limit:       50,
		})

		require.NoError(t, err)
		require.Len(t, response.Results, 1)
		assert.Equal(t, int64(999), response.Results[0].ID)
		assert.Equal(t, "paid", response.Results[0].Status)
		assert.Equal(t, 151, response.Paging.Total)
	})

	t.Run("401 na busca vira ErrAuthExpired", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL))
		_, err := client.SearchOrders(context.Background(), SearchOrdersParams{SellerID: "12345"})

		assert.True(t, errors.Is(err, ErrAuthExpired))
	})
}

func TestExchangeRefreshToken(t *testing.T) {
	t.Run("Troca bem-sucedida retorna o novo par de tokens", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/oauth/token", r.URL.Path)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
			assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
			assert.Equal(t, "refresh-antigo", r.PostForm.Get("refresh_token"))

			w.Write([]byte(`{
				"access_token": "access-novo",
				"refresh_token": "refresh-novo",
				"expires_in": 21600
			}`))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL))
		tokenResp, err := client.ExchangeRefreshToken(context.Background(), "client-id", "client-secret", "refresh-antigo")

		require.NoError(t, err)
		assert.Equal(t, "access-novo", tokenResp.AccessToken)
		assert.Equal(t, "refresh-novo", tokenResp.RefreshToken)
		assert.Equal(t, int64(21600), tokenResp.ExpiresIn)
	})

	t.Run("Resposta sem access_token é recusa", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL))
		_, err := client.ExchangeRefreshToken(context.Background(), "client-id", "client-secret", "refresh")

		assert.True(t, errors.Is(err, ErrTokenRefused))
	})

	t.Run("Status de erro é recusa", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_grant"}`))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL))
		_, err := client.ExchangeRefreshToken(context.Background(), "client-id", "client-secret", "refresh-invalido")

		assert.True(t, errors.Is(err, ErrTokenRefused))
	})
}

func TestCalculateTokenExpiration(t *testing.T) {
	t.Run("Desconta a margem de renovação antecipada", func(t *testing.T) {
		expiresAt := CalculateTokenExpiration(21600) // 6 horas

		expected := time.Now().Add((21600 - 600) * time.Second)
		assert.WithinDuration(t, expected, expiresAt, 2*time.Second)
	})

	t.Run("Tokens muito curtos usam metade do tempo", func(t *testing.T) {
		expiresAt := CalculateTokenExpiration(300)

		expected := time.Now().Add(150 * time.Second)
		assert.WithinDuration(t, expected, expiresAt, 2*time.Second)
	})
}
