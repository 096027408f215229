package meliclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	melidomain "github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/fisgarone/marketplace-sync-api/internal/config"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Erros sinalizados para as camadas superiores. Expiração de token e recusa
// de refresh não são retentadas aqui; quem decide é o pipeline.
var (
	ErrAuthExpired  = errors.New("token de acesso rejeitado pela API do Mercado Livre")
	ErrTokenRefused = errors.New("refresh de token recusado pela API do Mercado Livre")
)

// OutcomeKind classifica a resposta HTTP da API
type OutcomeKind int

const (
	OutcomeOk OutcomeKind = iota
	OutcomeAuthExpired
	OutcomeRateLimited
	OutcomeHardError
)

// Outcome é o resultado classificado de uma chamada à API. Erros de transporte
// (timeout, conexão) não geram Outcome: voltam como erro transitório depois de
// esgotadas as tentativas.
type Outcome struct {
	Kind   OutcomeKind
	Status int
	Body   []byte
}

type Client interface {
	Do(ctx context.Context, method, path string, query url.Values, header http.Header, body []byte) (*Outcome, error)
	Probe(ctx context.Context, accessToken string) error
	SearchOrders(ctx context.Context, params SearchOrdersParams) (*melidomain.OrdersSearchResponse, error)
	GetShipment(ctx context.Context, accessToken string, shipmentID int64) (*melidomain.Shipment, error)
	ExchangeRefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*melidomain.TokenResponse, error)
}

type MeliClient struct {
	httpClient *http.Client
	cfg        *config.Config
	maxRetries int
}

func NewClient(cfg *config.Config) Client {
	maxRetries := cfg.Meli.MaxRetries
	if maxRetries < 1 {
		// Toda chamada precisa de ao menos uma tentativa
		maxRetries = 1
	}

	return &MeliClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Meli.RequestTimeoutSeconds) * time.Second,
		},
		cfg:        cfg,
		maxRetries: maxRetries,
	}
}

// Do executa uma requisição contra a API e classifica a resposta.
// Erros transitórios e 429 são retentados com backoff crescente
// (tentativa × 2s); 401/403 e demais erros sobem sem retry.
func (c *MeliClient) Do(ctx context.Context, method, path string, query url.Values, header http.Header, body []byte) (*Outcome, error) {
	endpoint, err := url.Parse(c.cfg.Meli.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		outcome, err := c.doOnce(ctx, method, endpoint.String(), header, body)
		if err != nil {
			// Erro de transporte: retenta se ainda houver tentativas
			lastErr = err
			if waitErr := c.backoff(ctx, attempt); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		if outcome.Kind == OutcomeRateLimited {
			logrus.WithFields(logrus.Fields{
				"path":    path,
				"attempt": attempt,
			}).Warn("API do Mercado Livre limitou a taxa de requisições (429)")

			lastErr = fmt.Errorf("limite de requisições excedido (429) em %s", path)
			if waitErr := c.backoff(ctx, attempt); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		return outcome, nil
	}

	return nil, errors.Wrapf(lastErr, "tentativas esgotadas (%d) para %s %s", c.maxRetries, method, path)
}

// Probe faz uma chamada barata para verificar se o token ainda é aceito,
// evitando queimar buscas de página com um token sabidamente inválido.
func (c *MeliClient) Probe(ctx context.Context, accessToken string) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+accessToken)

	outcome, err := c.Do(ctx, http.MethodGet, "/users/me", nil, header, nil)
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case OutcomeOk:
		return nil
	case OutcomeAuthExpired:
		return ErrAuthExpired
	default:
		return fmt.Errorf("verificação de token falhou com status %d", outcome.Status)
	}
}

func (c *MeliClient) doOnce(ctx context.Context, method, endpoint string, header http.Header, body []byte) (*Outcome, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler a resposta: %w", err)
	}

	return classify(resp.StatusCode, respBody), nil
}

// classify mapeia o status HTTP para o tipo de desfecho
func classify(status int, body []byte) *Outcome {
	outcome := &Outcome{Status: status, Body: body}

	switch {
	case status >= 200 && status < 300:
		outcome.Kind = OutcomeOk
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		outcome.Kind = OutcomeAuthExpired
	case status == http.StatusTooManyRequests:
		outcome.Kind = OutcomeRateLimited
	default:
		outcome.Kind = OutcomeHardError
	}

	return outcome
}

// backoff aguarda tentativa × 2s respeitando o cancelamento do contexto.
// A última tentativa não aguarda: o erro sobe direto.
func (c *MeliClient) backoff(ctx context.Context, attempt int) error {
	if attempt >= c.maxRetries {
		return nil
	}

	wait := time.Duration(attempt) * 2 * time.Second

	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
