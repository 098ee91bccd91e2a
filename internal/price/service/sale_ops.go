package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salora/internal/calculator"
	"github.com/smallbiznis/salora/internal/clock"
	"github.com/smallbiznis/salora/internal/price/domain"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	salepricesvc "github.com/smallbiznis/salora/internal/saleprice/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SaleOpsParams struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Sales salepricedomain.Repository
}

type saleOps struct {
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	sales salepricedomain.Repository
}

// NewSaleOps provides the record-level sale operations shared by the price
// service and the product fan-out.
func NewSaleOps(p SaleOpsParams) domain.SaleOps {
	return &saleOps{
		log:   p.Log.Named("price.saleops"),
		clock: p.Clock,
		genID: p.GenID,
		sales: p.Sales,
	}
}

// PutOnSale creates a new sale on the price. Defaults: fixed-amount
// calculator, enabled, start_at now, no end. Concurrent calls on the same
// price both succeed; the active-sale query later picks the most recently
// created row.
func (o *saleOps) PutOnSale(ctx context.Context, db *gorm.DB, price *domain.Price, req domain.PutOnSaleRequest) (*salepricedomain.SalePrice, error) {
	kind, err := calculator.Parse(req.CalculatorKind)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	startAt := req.StartAt
	if startAt == nil {
		startAt = &now
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	sale := &salepricedomain.SalePrice{
		ID:             o.genID.Generate(),
		PriceID:        price.ID,
		Value:          req.Value,
		StartAt:        startAt,
		EndAt:          req.EndAt,
		Enabled:        enabled,
		CalculatorKind: kind,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := o.sales.Create(ctx, db, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (o *saleOps) EnableSale(ctx context.Context, db *gorm.DB, price *domain.Price) error {
	sale, err := o.upcomingOrLatest(ctx, db, price)
	if err != nil || sale == nil {
		return err
	}
	sale.Enabled = true
	sale.UpdatedAt = o.clock.Now()
	return o.sales.Save(ctx, db, sale)
}

func (o *saleOps) DisableSale(ctx context.Context, db *gorm.DB, price *domain.Price) error {
	sale, err := o.sales.ActiveForPrice(ctx, db, int64(price.ID), o.clock.Now())
	if err != nil || sale == nil {
		return err
	}
	sale.Enabled = false
	sale.UpdatedAt = o.clock.Now()
	return o.sales.Save(ctx, db, sale)
}

func (o *saleOps) StartSale(ctx context.Context, db *gorm.DB, price *domain.Price, endAt *time.Time) error {
	sale, err := o.upcomingOrLatest(ctx, db, price)
	if err != nil || sale == nil {
		return err
	}
	now := o.clock.Now()
	salepricesvc.ApplyStart(sale, endAt, now)
	sale.UpdatedAt = now
	return o.sales.Save(ctx, db, sale)
}

func (o *saleOps) StopSale(ctx context.Context, db *gorm.DB, price *domain.Price) error {
	now := o.clock.Now()
	sale, err := o.sales.ActiveForPrice(ctx, db, int64(price.ID), now)
	if err != nil || sale == nil {
		return err
	}
	salepricesvc.ApplyStop(sale, now)
	sale.UpdatedAt = now
	return o.sales.Save(ctx, db, sale)
}

// upcomingOrLatest picks the sale an enable/start should target: the live
// one first, then the next scheduled one, then the most recent row.
func (o *saleOps) upcomingOrLatest(ctx context.Context, db *gorm.DB, price *domain.Price) (*salepricedomain.SalePrice, error) {
	now := o.clock.Now()
	sale, err := o.sales.ActiveForPrice(ctx, db, int64(price.ID), now)
	if err != nil || sale != nil {
		return sale, err
	}
	sale, err = o.sales.NextScheduledForPrice(ctx, db, int64(price.ID), now)
	if err != nil || sale != nil {
		return sale, err
	}
	return o.sales.LatestForPrice(ctx, db, int64(price.ID))
}
