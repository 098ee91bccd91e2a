package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salora/internal/clock"
	"github.com/smallbiznis/salora/internal/price/domain"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	salepricesvc "github.com/smallbiznis/salora/internal/saleprice/service"
	"github.com/smallbiznis/salora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *snowflake.Node
	Repo    domain.Repository
	Sales   salepricedomain.Repository
	SaleOps domain.SaleOps
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	genID   *snowflake.Node
	repo    domain.Repository
	sales   salepricedomain.Repository
	saleOps domain.SaleOps
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("price.service"),
		clock:   p.Clock,
		genID:   p.GenID,
		repo:    p.Repo,
		sales:   p.Sales,
		saleOps: p.SaleOps,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	variantID, err := snowflake.ParseString(strings.TrimSpace(req.VariantID))
	if err != nil {
		return nil, domain.ErrInvalidVariant
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}

	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	p := &domain.Price{
		ID:        s.genID.Generate(),
		VariantID: variantID,
		Currency:  currency,
		Amount:    req.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	p, err := s.find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Destroy(ctx context.Context, id string) error {
	priceID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.repo.FindByID(ctx, tx, priceID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		return s.repo.Destroy(ctx, tx, priceID)
	})
}

func (s *Service) PutOnSale(ctx context.Context, id string, req domain.PutOnSaleRequest) (*salepricedomain.Response, error) {
	if !req.Value.IsPositive() {
		return nil, salepricedomain.ErrMissingValue
	}

	var sale *salepricedomain.SalePrice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		sale, err = s.saleOps.PutOnSale(ctx, tx, p, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := salepricesvc.ToResponse(sale, s.clock.Now())
	return &resp, nil
}

func (s *Service) EnableSale(ctx context.Context, id string) error {
	return s.saleTransition(ctx, id, s.saleOps.EnableSale)
}

func (s *Service) DisableSale(ctx context.Context, id string) error {
	return s.saleTransition(ctx, id, s.saleOps.DisableSale)
}

func (s *Service) StartSale(ctx context.Context, id string, endAt *time.Time) error {
	return s.saleTransition(ctx, id, func(ctx context.Context, db *gorm.DB, p *domain.Price) error {
		return s.saleOps.StartSale(ctx, db, p, endAt)
	})
}

func (s *Service) StopSale(ctx context.Context, id string) error {
	return s.saleTransition(ctx, id, s.saleOps.StopSale)
}

func (s *Service) ListSales(ctx context.Context, id string) ([]salepricedomain.Response, error) {
	priceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	items, err := s.sales.ListByPriceID(ctx, s.db, priceID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	resp := make([]salepricedomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, salepricesvc.ToResponse(&items[i], now))
	}
	return resp, nil
}

func (s *Service) Pricing(ctx context.Context, id string) (*domain.PricingResponse, error) {
	p, err := s.find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return s.pricingFor(ctx, s.db, p)
}

// pricingFor resolves the effective storefront view of one price. "Now" is
// read once so the active and current sale agree on the same instant.
func (s *Service) pricingFor(ctx context.Context, db *gorm.DB, p *domain.Price) (*domain.PricingResponse, error) {
	now := s.clock.Now()

	active, err := s.sales.ActiveForPrice(ctx, db, int64(p.ID), now)
	if err != nil {
		return nil, err
	}

	current := active
	if current == nil {
		current, err = s.sales.NextScheduledForPrice(ctx, db, int64(p.ID), now)
		if err != nil {
			return nil, err
		}
	}

	resp := &domain.PricingResponse{
		PriceID:         p.ID.String(),
		Currency:        p.Currency,
		Amount:          p.Amount,
		OnSale:          active != nil,
		SalePrice:       p.Amount,
		OriginalPrice:   p.Amount,
		DiscountPercent: decimal.Zero,
	}

	if active != nil {
		resp.SalePrice = active.CalculatedPrice
		if p.Amount.IsPositive() {
			resp.DiscountPercent = DiscountPercent(active.CalculatedPrice, p.Amount)
		}
		activeResp := salepricesvc.ToResponse(active, now)
		resp.ActiveSale = &activeResp
	}
	if current != nil {
		currentResp := salepricesvc.ToResponse(current, now)
		resp.CurrentSale = &currentResp
	}
	return resp, nil
}

// DiscountPercent returns how far the sale price sits below the original,
// as a percentage. Zero when there is nothing to discount.
func DiscountPercent(salePrice, originalPrice decimal.Decimal) decimal.Decimal {
	if !originalPrice.IsPositive() {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	return one.Sub(salePrice.Div(originalPrice)).Mul(hundred)
}

func (s *Service) saleTransition(ctx context.Context, id string, op func(context.Context, *gorm.DB, *domain.Price) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		return op(ctx, tx, p)
	})
}

func (s *Service) find(ctx context.Context, db *gorm.DB, id string) (*domain.Price, error) {
	priceID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, db, priceID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toResponse(p *domain.Price) domain.Response {
	return domain.Response{
		ID:        p.ID.String(),
		VariantID: p.VariantID.String(),
		Currency:  p.Currency,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func parseID(raw string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id.Int64(), nil
}
