package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestFixedFeePerUnit(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		expected  string
	}{
		{
			name:      "Preço abaixo do piso não paga taxa fixa",
			unitPrice: "12.49",
			expected:  "0",
		},
		{
			name:      "Piso do degrau inferior entra no degrau",
			unitPrice: "12.50",
			expected:  "6.25",
		},
		{
			name:      "Limite superior do degrau inferior",
			unitPrice: "28.99",
			expected:  "6.25",
		},
		{
			name:      "Piso do degrau intermediário",
			unitPrice: "29.00",
			expected:  "6.50",
		},
		{
			name:      "Limite superior do degrau intermediário",
			unitPrice: "49.99",
			expected:  "6.50",
		},
		{
			name:      "Piso do degrau superior",
			unitPrice: "50.00",
			expected:  "6.75",
		},
		{
			name:      "Limite superior do degrau superior",
			unitPrice: "78.99",
			expected:  "6.75",
		},
		{
			name:      "Limiar de frete grátis zera a taxa fixa",
			unitPrice: "79.00",
			expected:  "0",
		},
		{
			name:      "Acima do limiar de frete grátis segue sem taxa fixa",
			unitPrice: "250.00",
			expected:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := FixedFeePerUnit(d(tt.unitPrice))
			assert.True(t, d(tt.expected).Equal(fee), "esperado %s, obtido %s", tt.expected, fee)
		})
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		input    LineInput
		expected Breakdown
	}{
		{
			name: "Item acima do limiar de frete grátis paga frete do vendedor e não paga taxa fixa",
			input: LineInput{
				UnitPrice: d("79.00"),
				Quantity:  2,
				SaleFee:   d("10.00"),
			},
			expected: Breakdown{
				Revenue:            d("158.00"),
				FixedFeeUnit:       d("0"),
				FixedFeeTotal:      d("0"),
				Commission:         d("20.00"),
				CommissionPercent:  d("12.66"),
				SellerShipping:     d("58.00"),
				ChannelCost:        d("78.00"),
				ContributionMargin: d("80.00"),
			},
		},
		{
			name: "Taxa fixa maior que a taxa do marketplace zera a comissão",
			input: LineInput{
				UnitPrice: d("40.00"),
				Quantity:  3,
				SaleFee:   d("5.00"),
			},
			expected: Breakdown{
				Revenue:            d("120.00"),
				FixedFeeUnit:       d("6.50"),
				FixedFeeTotal:      d("19.50"),
				Commission:         d("0"),
				CommissionPercent:  d("0"),
				SellerShipping:     d("0"),
				ChannelCost:        d("19.50"),
				ContributionMargin: d("100.50"),
			},
		},
		{
			name: "Item barato abaixo do piso só paga a taxa do marketplace",
			input: LineInput{
				UnitPrice: d("10.00"),
				Quantity:  1,
				SaleFee:   d("1.50"),
			},
			expected: Breakdown{
				Revenue:            d("10.00"),
				FixedFeeUnit:       d("0"),
				FixedFeeTotal:      d("0"),
				Commission:         d("1.50"),
				CommissionPercent:  d("15.00"),
				SellerShipping:     d("0"),
				ChannelCost:        d("1.50"),
				ContributionMargin: d("8.50"),
			},
		},
		{
			name: "Quantidade zero zera todos os componentes",
			input: LineInput{
				UnitPrice: d("55.00"),
				Quantity:  0,
				SaleFee:   d("8.00"),
			},
			expected: Breakdown{
				Revenue:            d("0"),
				FixedFeeUnit:       d("6.75"),
				FixedFeeTotal:      d("0"),
				Commission:         d("0"),
				CommissionPercent:  d("0"),
				SellerShipping:     d("0"),
				ChannelCost:        d("0"),
				ContributionMargin: d("0"),
			},
		},
		{
			name: "Arredondamento half-up a duas casas na comissão",
			input: LineInput{
				UnitPrice: d("33.33"),
				Quantity:  3,
				SaleFee:   d("7.555"),
			},
			expected: Breakdown{
				Revenue:            d("99.99"),
				FixedFeeUnit:       d("6.50"),
				FixedFeeTotal:      d("19.50"),
				Commission:         d("3.17"), // 22.665 - 19.50 = 3.165 -> 3.17
				CommissionPercent:  d("3.17"),
				SellerShipping:     d("0"),
				ChannelCost:        d("22.67"),
				ContributionMargin: d("77.32"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.input)

			assertDecimalEqual(t, tt.expected.Revenue, got.Revenue, "revenue")
			assertDecimalEqual(t, tt.expected.FixedFeeUnit, got.FixedFeeUnit, "fixed fee unit")
			assertDecimalEqual(t, tt.expected.FixedFeeTotal, got.FixedFeeTotal, "fixed fee total")
			assertDecimalEqual(t, tt.expected.Commission, got.Commission, "commission")
			assertDecimalEqual(t, tt.expected.CommissionPercent, got.CommissionPercent, "commission percent")
			assertDecimalEqual(t, tt.expected.SellerShipping, got.SellerShipping, "seller shipping")
			assertDecimalEqual(t, tt.expected.ChannelCost, got.ChannelCost, "channel cost")
			assertDecimalEqual(t, tt.expected.ContributionMargin, got.ContributionMargin, "contribution margin")
		})
	}
}

// TestCalculate_MarginIdentity garante que a identidade
// margem = receita - (comissão + taxa fixa + frete do vendedor) vale para
// qualquer combinação de preço e quantidade.
func TestCalculate_MarginIdentity(t *testing.T) {
	prices := []string{"5.00", "12.50", "28.99", "29.00", "49.99", "50.00", "78.99", "79.00", "199.90"}
	quantities := []int{1, 2, 5}

	for _, price := range prices {
		for _, qty := range quantities {
			got := Calculate(LineInput{
				UnitPrice: d(price),
				Quantity:  qty,
				SaleFee:   d("9.37"),
			})

			recomposed := got.Revenue.Sub(got.Commission.Add(got.FixedFeeTotal).Add(got.SellerShipping))
			assert.True(t, recomposed.Equal(got.ContributionMargin),
				"identidade de margem quebrada para preço %s qtd %d: %s != %s",
				price, qty, recomposed, got.ContributionMargin)

			assert.False(t, got.Commission.IsNegative(), "comissão negativa para preço %s qtd %d", price, qty)
		}
	}
}

func assertDecimalEqual(t *testing.T, expected, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, expected.Equal(got), "%s: esperado %s, obtido %s", field, expected, got)
}
