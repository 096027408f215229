package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecordStatus agrupa os rótulos de situação usados no painel
const (
	SalesRecordActive    = "active"
	SalesRecordCancelled = "cancelled"
)

// SalesRecord é a projeção durável de um item de pedido do Mercado Livre.
// Chave: (OrderID, LineIndex) — um pedido pode conter vários itens e cada um
// vira uma linha própria; reingestões atualizam a linha existente.
type SalesRecord struct {
	OrderID   string `json:"order_id"`
	LineIndex int    `json:"line_index"`

	// Atribuição da venda
	CompanyID   string `json:"company_id"`
	AccountName string `json:"account_name"`
	SellerID    string `json:"seller_id"`

	// Campos identificadores copiados do item do pedido
	MLB            string `json:"mlb"`
	SKU            string `json:"sku"`
	Title          string `json:"title"`
	BuyerID        string `json:"buyer_id"`
	ShipmentID     string `json:"shipment_id"`
	Status         string `json:"status"`
	DeliveryStatus string `json:"delivery_status"`
	LogisticType   string `json:"logistic_type"`
	Cancellation   string `json:"cancellation"`
	SaleDate       string `json:"sale_date"`

	// Campos financeiros calculados
	UnitPrice          decimal.Decimal `json:"unit_price"`
	Quantity           int             `json:"quantity"`
	MarketplaceFee     decimal.Decimal `json:"marketplace_fee"`
	FixedFee           decimal.Decimal `json:"fixed_fee"`
	Commission         decimal.Decimal `json:"commission"`
	CommissionPercent  decimal.Decimal `json:"commission_percent"`
	SellerShipping     decimal.Decimal `json:"seller_shipping"`
	ShippingCost       decimal.Decimal `json:"shipping_cost"`
	ChannelCost        decimal.Decimal `json:"channel_cost"`
	ContributionMargin decimal.Decimal `json:"contribution_margin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Revenue retorna a receita bruta da linha (preço unitário × quantidade).
func (r *SalesRecord) Revenue() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}
