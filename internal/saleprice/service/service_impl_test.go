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
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
	"github.com/smallbiznis/salora/internal/saleprice/domain"
	"github.com/smallbiznis/salora/internal/saleprice/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db    *gorm.DB
	svc   *Service
	repo  domain.Repository
	clock *clock.FakeClock
	node  *snowflake.Node
}

func setupServiceTest(t *testing.T) *serviceFixture {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&pricedomain.Price{}, &domain.SalePrice{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := repository.Provide()

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		clock: fc,
		repo:  repo,
	}
	return &serviceFixture{db: db, svc: svc, repo: repo, clock: fc, node: node}
}

func (f *serviceFixture) seedPrice(t *testing.T, amount string) *pricedomain.Price {
	t.Helper()
	now := f.clock.Now()
	p := &pricedomain.Price{
		ID:        f.node.Generate(),
		VariantID: f.node.Generate(),
		Currency:  "USD",
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *serviceFixture) seedSale(t *testing.T, priceID snowflake.ID, mutate func(*domain.SalePrice)) *domain.SalePrice {
	t.Helper()
	now := f.clock.Now()
	startAt := now
	sale := &domain.SalePrice{
		ID:             f.node.Generate(),
		PriceID:        priceID,
		Value:          decimal.RequireFromString("15.99"),
		StartAt:        &startAt,
		Enabled:        true,
		CalculatorKind: calculator.FixedAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if mutate != nil {
		mutate(sale)
	}
	require.NoError(t, f.repo.Create(context.Background(), f.db, sale))
	return sale
}

func TestStartDiscardsPastEndTime(t *testing.T) {
	f := setupServiceTest(t)
	price := f.seedPrice(t, "19.99")
	sale := f.seedSale(t, price.ID, func(s *domain.SalePrice) {
		s.Enabled = false
	})

	pastEnd := f.clock.Now().Add(-time.Hour)
	resp, err := f.svc.Start(context.Background(), sale.ID.String(), &pastEnd)
	require.NoError(t, err)

	assert.Nil(t, resp.EndAt)
	assert.True(t, resp.Enabled)
	assert.True(t, resp.Active)
}

func TestStartResetsFutureStartToNow(t *testing.T) {
	f := setupServiceTest(t)
	price := f.seedPrice(t, "19.99")
	sale := f.seedSale(t, price.ID, func(s *domain.SalePrice) {
		futureStart := f.clock.Now().Add(48 * time.Hour)
		s.StartAt = &futureStart
		s.Enabled = false
	})

	resp, err := f.svc.Start(context.Background(), sale.ID.String(), nil)
	require.NoError(t, err)

	require.NotNil(t, resp.StartAt)
	assert.True(t, resp.StartAt.Equal(f.clock.Now()))
	assert.True(t, resp.Active)
}

func TestStartKeepsFutureEndTime(t *testing.T) {
	f := setupServiceTest(t)
	price := f.seedPrice(t, "19.99")
	sale := f.seedSale(t, price.ID, nil)

	futureEnd := f.clock.Now().Add(72 * time.Hour)
	resp, err := f.svc.Start(context.Background(), sale.ID.String(), &futureEnd)
	require.NoError(t, err)

	require.NotNil(t, resp.EndAt)
	assert.True(t, resp.EndAt.Equal(futureEnd))
}

func TestStopEndsAndDisablesAtomically(t *testing.T) {
	f := setupServiceTest(t)
	price := f.seedPrice(t, "19.99")
	sale := f.seedSale(t, price.ID, nil)

	resp, err := f.svc.Stop(context.Background(), sale.ID.String())
	require.NoError(t, err)

	require.NotNil(t, resp.EndAt)
	assert.True(t, resp.EndAt.Equal(f.clock.Now()))
	assert.False(t, resp.Enabled)
	assert.False(t, resp.Active)

	stored, err := f.repo.FindByID(context.Background(), f.db, int64(sale.ID))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Enabled)
	require.NotNil(t, stored.EndAt)
}

func TestEnableExpiredSaleStaysInactive(t *testing.T) {
	f := setupServiceTest(t)
	price := f.seedPrice(t, "19.99")
	sale := f.seedSale(t, price.ID, func(s *domain.SalePrice) {
		expiredEnd := f.clock.Now().Add(-time.Hour)
		s.EndAt = &expiredEnd
		s.Enabled = false
	})

	resp, err := f.svc.Enable(context.Background(), sale.ID.String())
	require.NoError(t, err)

	assert.True(t, resp.Enabled)
	assert.False(t, resp.Active)
}

func TestDeleteIsSoft(t *testing.T) {
	f := setupServiceTest(t)
	price := f.seedPrice(t, "19.99")
	sale := f.seedSale(t, price.ID, nil)

	require.NoError(t, f.svc.Delete(context.Background(), sale.ID.String()))

	_, err := f.svc.Get(context.Background(), sale.ID.String())
	require.ErrorIs(t, err, domain.ErrNotFound)

	kept, err := f.repo.FindByIDIncludingDeleted(context.Background(), f.db, int64(sale.ID))
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.NotNil(t, kept.DeletedAt)

	active, err := f.repo.ActiveForPrice(context.Background(), f.db, int64(price.ID), f.clock.Now())
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestGetUnknownSale(t *testing.T) {
	f := setupServiceTest(t)

	_, err := f.svc.Get(context.Background(), f.node.Generate().String())
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Get(context.Background(), "not-a-snowflake")
	require.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestTransitionRecomputesCalculatedPrice(t *testing.T) {
	f := setupServiceTest(t)
	price := f.seedPrice(t, "100")
	sale := f.seedSale(t, price.ID, func(s *domain.SalePrice) {
		s.Value = decimal.RequireFromString("0.25")
		s.CalculatorKind = calculator.PercentOff
		s.Enabled = false
	})

	resp, err := f.svc.Enable(context.Background(), sale.ID.String())
	require.NoError(t, err)
	assert.True(t, resp.CalculatedPrice.Equal(decimal.RequireFromString("75")))
}
