package server

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salora/internal/money"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
)

// DisplayPrice is the storefront rendering of the effective price: the sale
// price while on sale, the list amount otherwise.
func DisplayPrice(p *pricedomain.PricingResponse) string {
	if p.OnSale {
		return money.Format(p.SalePrice, p.Currency)
	}
	return money.Format(p.Amount, p.Currency)
}

func DisplayOriginalPrice(p *pricedomain.PricingResponse) string {
	return money.Format(p.OriginalPrice, p.Currency)
}

// DisplayDiscountPercent renders "25% Off" with the percent rounded to the
// nearest integer, or "" when there is no discount.
func DisplayDiscountPercent(percent decimal.Decimal) string {
	rounded := percent.Round(0)
	if !rounded.IsPositive() {
		return ""
	}
	return fmt.Sprintf("%s%% Off", rounded.String())
}
