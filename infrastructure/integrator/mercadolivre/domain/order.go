package melidomain

import "strings"

// Order representa um pedido retornado por /orders/search. Existe apenas como
// payload transitório da API; nunca é persistido na íntegra.
type Order struct {
	ID          int64       `json:"id,omitempty"`
	DateCreated string      `json:"date_created,omitempty"`
	Status      string      `json:"status,omitempty"`
	OrderItems  []OrderItem `json:"order_items,omitempty"`
	Buyer       Buyer       `json:"buyer,omitempty"`
	Shipping    Shipping    `json:"shipping,omitempty"`
}

type OrderItem struct {
	Item      Item    `json:"item,omitempty"`
	UnitPrice float64 `json:"unit_price,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
	SaleFee   float64 `json:"sale_fee,omitempty"`
}

type Item struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	SellerSKU string `json:"seller_sku,omitempty"`
}

type Buyer struct {
	ID       int64  `json:"id,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

type Shipping struct {
	ID int64 `json:"id,omitempty"`
}

// Paging é o bloco de paginação de /orders/search
type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type OrdersSearchResponse struct {
	Results []Order `json:"results"`
	Paging  Paging  `json:"paging"`
}

// Shipment representa a resposta de /shipments/{id}
type Shipment struct {
	ID             int64          `json:"id,omitempty"`
	Status         string         `json:"status,omitempty"`
	LogisticType   string         `json:"logistic_type,omitempty"`
	ShippingMode   string         `json:"shipping_mode,omitempty"`
	ShippingOption ShippingOption `json:"shipping_option,omitempty"`
	Tracking       Tracking       `json:"tracking,omitempty"`
}

type ShippingOption struct {
	Cost     float64 `json:"cost,omitempty"`
	BaseCost float64 `json:"base_cost,omitempty"`
	ListCost float64 `json:"list_cost,omitempty"`
}

type Tracking struct {
	Status string `json:"status,omitempty"`
}

// TokenResponse é a resposta de POST /oauth/token
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       int64  `json:"user_id"`
}

// TranslateLogisticType traduz o tipo de logística para o rótulo usado no painel
func TranslateLogisticType(logisticType string) string {
	if logisticType == "" {
		return ""
	}

	lt := strings.ToLower(logisticType)
	switch {
	case strings.Contains(lt, "fulfillment"):
		return "Full"
	case strings.Contains(lt, "xd_drop_off"):
		return "Ponto de Coleta"
	case strings.Contains(lt, "self_service"):
		return "Flex"
	}

	return logisticType
}

// TranslateStatus traduz a situação do pedido/envio para o rótulo usado no painel
func TranslateStatus(status string) string {
	if status == "" {
		return "Pendente"
	}

	st := strings.ToLower(status)
	switch {
	case strings.Contains(st, "ready_to_ship"):
		return "Pronto para Envio"
	case strings.Contains(st, "shipped"):
		return "Enviado"
	case strings.Contains(st, "cancelled"):
		return "Cancelado"
	case strings.Contains(st, "pending"):
		return "Pendente"
	case strings.Contains(st, "delivered"):
		return "Entregue"
	}

	return status
}
