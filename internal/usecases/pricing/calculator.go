package pricing

import "github.com/shopspring/decimal"

// Regras de tarifa do Mercado Livre. A taxa fixa por unidade é uma função
// degrau do preço unitário; acima do limiar de frete grátis a taxa fixa zera
// e o custo do frete passa a ser do vendedor.
var (
	freeShippingThreshold = decimal.NewFromFloat(79.00)
	tierHigh              = decimal.NewFromFloat(50.00)
	tierMid               = decimal.NewFromFloat(29.00)
	tierLow               = decimal.NewFromFloat(12.50)

	fixedFeeHigh = decimal.NewFromFloat(6.75)
	fixedFeeMid  = decimal.NewFromFloat(6.50)
	fixedFeeLow  = decimal.NewFromFloat(6.25)

	sellerShippingUnit = decimal.NewFromFloat(29.00)

	hundred = decimal.NewFromInt(100)
)

// LineInput são os campos brutos de um item de pedido necessários ao cálculo
type LineInput struct {
	UnitPrice decimal.Decimal
	Quantity  int
	SaleFee   decimal.Decimal // taxa do marketplace por unidade
	MLB       string
}

// Breakdown é a decomposição determinística de custo e margem de uma linha.
// Todos os valores monetários já saem arredondados a 2 casas.
type Breakdown struct {
	Revenue            decimal.Decimal
	FixedFeeUnit       decimal.Decimal
	FixedFeeTotal      decimal.Decimal
	Commission         decimal.Decimal
	CommissionPercent  decimal.Decimal
	SellerShipping     decimal.Decimal
	ChannelCost        decimal.Decimal
	ContributionMargin decimal.Decimal
}

// FixedFeePerUnit devolve a taxa fixa por unidade segundo a função degrau.
// Preços abaixo de 12.50 ficam com taxa zero — regra herdada do negócio,
// intervalos fechados à esquerda em cada degrau.
func FixedFeePerUnit(unitPrice decimal.Decimal) decimal.Decimal {
	switch {
	case unitPrice.GreaterThanOrEqual(freeShippingThreshold):
		return decimal.Zero
	case unitPrice.GreaterThanOrEqual(tierHigh):
		return fixedFeeHigh
	case unitPrice.GreaterThanOrEqual(tierMid):
		return fixedFeeMid
	case unitPrice.GreaterThanOrEqual(tierLow):
		return fixedFeeLow
	default:
		return decimal.Zero
	}
}

// Calculate produz a decomposição completa de taxas e margem de uma linha.
// Função pura, sem I/O; aritmética em ponto fixo com arredondamento half-up
// a 2 casas em cada etapa (decimal.Round arredonda metade para longe de zero,
// o que equivale a half-up para valores não negativos).
func Calculate(in LineInput) Breakdown {
	qty := decimal.NewFromInt(int64(in.Quantity))
	revenue := in.UnitPrice.Mul(qty).Round(2)

	fixedFeeUnit := FixedFeePerUnit(in.UnitPrice)
	fixedFeeTotal := fixedFeeUnit.Mul(qty).Round(2)

	// Comissão nunca fica negativa: quando a taxa do marketplace é menor que
	// a taxa fixa, o resultado é zero
	commission := in.SaleFee.Mul(qty).Sub(fixedFeeTotal).Round(2)
	if commission.IsNegative() {
		commission = decimal.Zero
	}

	commissionPercent := decimal.Zero
	if revenue.IsPositive() {
		commissionPercent = commission.Div(revenue).Mul(hundred).Round(2)
	}

	sellerShipping := decimal.Zero
	if in.UnitPrice.GreaterThanOrEqual(freeShippingThreshold) {
		sellerShipping = sellerShippingUnit.Mul(qty).Round(2)
	}

	channelCost := commission.Add(fixedFeeTotal).Add(sellerShipping)
	margin := revenue.Sub(channelCost)

	return Breakdown{
		Revenue:            revenue,
		FixedFeeUnit:       fixedFeeUnit,
		FixedFeeTotal:      fixedFeeTotal,
		Commission:         commission,
		CommissionPercent:  commissionPercent,
		SellerShipping:     sellerShipping,
		ChannelCost:        channelCost,
		ContributionMargin: margin,
	}
}
