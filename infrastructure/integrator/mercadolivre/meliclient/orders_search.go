package meliclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	melidomain "github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/domain"
)

// SearchOrdersParams são os parâmetros de uma página de /orders/search
type SearchOrdersParams struct {
	AccessToken string
	SellerID    string
	CreatedFrom string // já formatado conforme exigido pela API (ISO8601 com offset)
	Offset      int
	Limit       int
}

// SearchOrders busca uma página de pedidos do vendedor, ordenada por data de
// criação decrescente. Token rejeitado volta como ErrAuthExpired.
func (c *MeliClient) SearchOrders(ctx context.Context, params SearchOrdersParams) (*melidomain.OrdersSearchResponse, error) {
	query := url.Values{}
	query.Set("seller", params.SellerID)
	query.Set("order.date_created.from", params.CreatedFrom)
	query.Set("offset", strconv.Itoa(params.Offset))
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("sort", "date_desc")

	header := http.Header{}
	header.Set("Authorization", "Bearer "+params.AccessToken)

	outcome, err := c.Do(ctx, http.MethodGet, "/orders/search", query, header, nil)
	if err != nil {
		return nil, err
	}

	switch outcome.Kind {
	case OutcomeOk:
		// segue para a decodificação
	case OutcomeAuthExpired:
		return nil, ErrAuthExpired
	default:
		return nil, fmt.Errorf("busca de pedidos falhou. Status: %d, Corpo: %s", outcome.Status, string(outcome.Body))
	}

	var response melidomain.OrdersSearchResponse
	if err := json.Unmarshal(outcome.Body, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar a resposta de pedidos: %w", err)
	}

	return &response, nil
}

// GetShipment busca os detalhes de um envio. Enriquecimento de melhor esforço:
// o chamador decide se a falha compromete o pedido.
func (c *MeliClient) GetShipment(ctx context.Context, accessToken string, shipmentID int64) (*melidomain.Shipment, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+accessToken)

	path := fmt.Sprintf("/shipments/%d", shipmentID)

	outcome, err := c.Do(ctx, http.MethodGet, path, nil, header, nil)
	if err != nil {
		return nil, err
	}

	switch outcome.Kind {
	case OutcomeOk:
		// segue para a decodificação
	case OutcomeAuthExpired:
		return nil, ErrAuthExpired
	default:
		return nil, fmt.Errorf("busca do envio %d falhou. Status: %d", shipmentID, outcome.Status)
	}

	var shipment melidomain.Shipment
	if err := json.Unmarshal(outcome.Body, &shipment); err != nil {
		return nil, fmt.Errorf("erro ao decodificar o envio %d: %w", shipmentID, err)
	}

	return &shipment, nil
}
