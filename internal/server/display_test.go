package server

import (
	"testing"

	"github.com/shopspring/decimal"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
	"github.com/stretchr/testify/assert"
)

func TestDisplayDiscountPercent(t *testing.T) {
	assert.Equal(t, "25% Off", DisplayDiscountPercent(decimal.RequireFromString("25")))
	assert.Equal(t, "20% Off", DisplayDiscountPercent(decimal.RequireFromString("20.01")))
	assert.Equal(t, "21% Off", DisplayDiscountPercent(decimal.RequireFromString("20.5")))
	assert.Equal(t, "", DisplayDiscountPercent(decimal.Zero))
	assert.Equal(t, "", DisplayDiscountPercent(decimal.RequireFromString("0.2")))
}

func TestDisplayPrice(t *testing.T) {
	onSale := &pricedomain.PricingResponse{
		Currency:      "USD",
		Amount:        decimal.RequireFromString("19.99"),
		OnSale:        true,
		SalePrice:     decimal.RequireFromString("15.99"),
		OriginalPrice: decimal.RequireFromString("19.99"),
	}
	assert.Equal(t, "$15.99", DisplayPrice(onSale))
	assert.Equal(t, "$19.99", DisplayOriginalPrice(onSale))

	offSale := &pricedomain.PricingResponse{
		Currency:      "USD",
		Amount:        decimal.RequireFromString("19.99"),
		SalePrice:     decimal.RequireFromString("19.99"),
		OriginalPrice: decimal.RequireFromString("19.99"),
	}
	assert.Equal(t, "$19.99", DisplayPrice(offSale))
}
