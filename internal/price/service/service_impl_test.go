package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salora/internal/calculator"
	"github.com/smallbiznis/salora/internal/clock"
	"github.com/smallbiznis/salora/internal/price/domain"
	pricerepo "github.com/smallbiznis/salora/internal/price/repository"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	salepricerepo "github.com/smallbiznis/salora/internal/saleprice/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type priceFixture struct {
	db    *gorm.DB
	svc   *Service
	sales salepricedomain.Repository
	clock *clock.FakeClock
	node  *snowflake.Node
}

func setupPriceTest(t *testing.T) *priceFixture {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&domain.Price{}, &salepricedomain.SalePrice{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	sales := salepricerepo.Provide()
	log := zap.NewNop()

	ops := &saleOps{
		log:   log,
		clock: fc,
		genID: node,
		sales: sales,
	}
	svc := &Service{
		db:      db,
		log:     log,
		clock:   fc,
		genID:   node,
		repo:    pricerepo.Provide(),
		sales:   sales,
		saleOps: ops,
	}
	return &priceFixture{db: db, svc: svc, sales: sales, clock: fc, node: node}
}

func (f *priceFixture) createPrice(t *testing.T, amount string) *domain.Response {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{
		VariantID: f.node.Generate().String(),
		Currency:  "usd",
		Amount:    decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return resp
}

func TestCreateNormalizesCurrency(t *testing.T) {
	f := setupPriceTest(t)
	resp := f.createPrice(t, "19.99")
	assert.Equal(t, "USD", resp.Currency)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		VariantID: f.node.Generate().String(),
		Currency:  "dollars",
		Amount:    decimal.RequireFromString("1"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestPutOnSaleDefaults(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	sale, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value: decimal.RequireFromString("15.99"),
	})
	require.NoError(t, err)

	assert.True(t, sale.Enabled)
	assert.Equal(t, calculator.FixedAmount, sale.CalculatorKind)
	require.NotNil(t, sale.StartAt)
	assert.True(t, sale.StartAt.Equal(f.clock.Now()))
	assert.Nil(t, sale.EndAt)
	assert.True(t, sale.Active)
	assert.True(t, sale.CalculatedPrice.Equal(decimal.RequireFromString("15.99")))
}

func TestPutOnSaleRequiresPositiveValue(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	_, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{})
	require.ErrorIs(t, err, salepricedomain.ErrMissingValue)
}

func TestPutOnSaleUnknownCalculator(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	_, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value:          decimal.RequireFromString("5"),
		CalculatorKind: "half_off",
	})
	require.ErrorIs(t, err, calculator.ErrUnknownKind)
}

func TestPricingWithActiveFixedAmountSale(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	_, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value: decimal.RequireFromString("15.99"),
	})
	require.NoError(t, err)

	pricing, err := f.svc.Pricing(context.Background(), price.ID)
	require.NoError(t, err)

	assert.True(t, pricing.OnSale)
	assert.True(t, pricing.SalePrice.Equal(decimal.RequireFromString("15.99")))
	assert.True(t, pricing.OriginalPrice.Equal(decimal.RequireFromString("19.99")))
	assert.InDelta(t, 20.01, pricing.DiscountPercent.InexactFloat64(), 0.01)
	require.NotNil(t, pricing.ActiveSale)
	require.NotNil(t, pricing.CurrentSale)
	assert.Equal(t, pricing.ActiveSale.ID, pricing.CurrentSale.ID)
}

func TestPricingWithPercentOffSale(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	_, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value:          decimal.RequireFromString("0.20"),
		CalculatorKind: "percent_off",
	})
	require.NoError(t, err)

	pricing, err := f.svc.Pricing(context.Background(), price.ID)
	require.NoError(t, err)

	assert.True(t, pricing.OnSale)
	assert.True(t, pricing.SalePrice.Equal(decimal.RequireFromString("15.992")))
}

func TestPricingWithoutSale(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	pricing, err := f.svc.Pricing(context.Background(), price.ID)
	require.NoError(t, err)

	assert.False(t, pricing.OnSale)
	assert.True(t, pricing.SalePrice.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, pricing.DiscountPercent.IsZero())
	assert.Nil(t, pricing.ActiveSale)
	assert.Nil(t, pricing.CurrentSale)
}

func TestPricingCurrentSaleFallsBackToScheduled(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	futureStart := f.clock.Now().Add(24 * time.Hour)
	scheduled, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value:   decimal.RequireFromString("9.99"),
		StartAt: &futureStart,
	})
	require.NoError(t, err)

	pricing, err := f.svc.Pricing(context.Background(), price.ID)
	require.NoError(t, err)

	assert.False(t, pricing.OnSale)
	assert.Nil(t, pricing.ActiveSale)
	require.NotNil(t, pricing.CurrentSale)
	assert.Equal(t, scheduled.ID, pricing.CurrentSale.ID)
	assert.False(t, pricing.CurrentSale.Active)
}

func TestEnableSaleTargetsLatestWhenNothingScheduled(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	disabled := false
	sale, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value:   decimal.RequireFromString("15.99"),
		Enabled: &disabled,
	})
	require.NoError(t, err)
	assert.False(t, sale.Active)

	require.NoError(t, f.svc.EnableSale(context.Background(), price.ID))

	pricing, err := f.svc.Pricing(context.Background(), price.ID)
	require.NoError(t, err)
	assert.True(t, pricing.OnSale)
	require.NotNil(t, pricing.ActiveSale)
	assert.Equal(t, sale.ID, pricing.ActiveSale.ID)
}

func TestStopSaleWithoutActiveSaleIsNoop(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	require.NoError(t, f.svc.StopSale(context.Background(), price.ID))
}

func TestStopSaleEndsActiveSale(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	_, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value: decimal.RequireFromString("15.99"),
	})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	require.NoError(t, f.svc.StopSale(context.Background(), price.ID))

	pricing, err := f.svc.Pricing(context.Background(), price.ID)
	require.NoError(t, err)
	assert.False(t, pricing.OnSale)
}

func TestDestroyCascadesSaleHistory(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	sale, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value: decimal.RequireFromString("15.99"),
	})
	require.NoError(t, err)

	_, err = f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value: decimal.RequireFromString("14.99"),
	})
	require.NoError(t, err)

	// Soft-delete one row first; destroy must remove it anyway.
	saleID, err := snowflake.ParseString(sale.ID)
	require.NoError(t, err)
	stored, err := f.sales.FindByID(context.Background(), f.db, saleID.Int64())
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NoError(t, f.sales.SoftDelete(context.Background(), f.db, stored, f.clock.Now()))

	require.NoError(t, f.svc.Destroy(context.Background(), price.ID))

	_, err = f.svc.Get(context.Background(), price.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	require.NoError(t, f.db.Table("sale_prices").Count(&count).Error)
	assert.Zero(t, count)
}

func TestListSalesExcludesDeleted(t *testing.T) {
	f := setupPriceTest(t)
	price := f.createPrice(t, "19.99")

	first, err := f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value: decimal.RequireFromString("15.99"),
	})
	require.NoError(t, err)
	_, err = f.svc.PutOnSale(context.Background(), price.ID, domain.PutOnSaleRequest{
		Value: decimal.RequireFromString("14.99"),
	})
	require.NoError(t, err)

	firstID, err := snowflake.ParseString(first.ID)
	require.NoError(t, err)
	stored, err := f.sales.FindByID(context.Background(), f.db, firstID.Int64())
	require.NoError(t, err)
	require.NoError(t, f.sales.SoftDelete(context.Background(), f.db, stored, f.clock.Now()))

	sales, err := f.svc.ListSales(context.Background(), price.ID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.NotEqual(t, first.ID, sales[0].ID)
}
