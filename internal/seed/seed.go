package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salora/internal/calculator"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
	productdomain "github.com/smallbiznis/salora/internal/product/domain"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	"gorm.io/gorm"
)

type demoProduct struct {
	name   string
	slug   string
	amount string
	sale   string // empty means no promotion
}

var demoCatalog = []demoProduct{
	{name: "Classic Tee", slug: "classic-tee", amount: "19.99", sale: "15.99"},
	{name: "Canvas Tote", slug: "canvas-tote", amount: "12.50"},
	{name: "Enamel Mug", slug: "enamel-mug", amount: "9.00"},
}

// EnsureDemoCatalog seeds a small catalog for startup bootstrap. It is
// idempotent per product slug so restarts do not duplicate rows.
func EnsureDemoCatalog(db *gorm.DB, currency string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	currency = strings.ToUpper(currency)
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range demoCatalog {
			if err := ensureProductTx(tx, node, item, currency); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureProductTx(tx *gorm.DB, node *snowflake.Node, item demoProduct, currency string) error {
	var existing int64
	if err := tx.Table("products").Where("slug = ?", item.slug).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	now := time.Now().UTC()

	product := productdomain.Product{
		ID:        node.Generate(),
		Name:      item.name,
		Slug:      item.slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&product).Error; err != nil {
		return err
	}

	master := productdomain.Variant{
		ID:        node.Generate(),
		ProductID: product.ID,
		SKU:       strings.ToUpper(item.slug),
		IsMaster:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&master).Error; err != nil {
		return err
	}

	amount, err := decimal.NewFromString(item.amount)
	if err != nil {
		return err
	}
	price := pricedomain.Price{
		ID:        node.Generate(),
		VariantID: master.ID,
		Currency:  currency,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&price).Error; err != nil {
		return err
	}

	if item.sale == "" {
		return nil
	}
	saleValue, err := decimal.NewFromString(item.sale)
	if err != nil {
		return err
	}
	startAt := now
	sale := salepricedomain.SalePrice{
		ID:              node.Generate(),
		PriceID:         price.ID,
		Value:           saleValue,
		CalculatedPrice: saleValue,
		StartAt:         &startAt,
		Enabled:         true,
		CalculatorKind:  calculator.FixedAmount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return tx.Create(&sale).Error
}
