package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/salora/internal/clock"
	"github.com/smallbiznis/salora/internal/config"
	"github.com/smallbiznis/salora/internal/currencyctx"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
	"github.com/smallbiznis/salora/internal/product/domain"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	salepricesvc "github.com/smallbiznis/salora/internal/saleprice/service"
	"github.com/smallbiznis/salora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	Clock    clock.Clock
	GenID    *snowflake.Node
	Repo     domain.Repository
	Prices   pricedomain.Repository
	PriceSvc pricedomain.Service
	SaleOps  pricedomain.SaleOps
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.Config
	clock    clock.Clock
	genID    *snowflake.Node
	repo     domain.Repository
	prices   pricedomain.Repository
	priceSvc pricedomain.Service
	saleOps  pricedomain.SaleOps
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("product.service"),
		cfg:      p.Cfg,
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		prices:   p.Prices,
		priceSvc: p.PriceSvc,
		saleOps:  p.SaleOps,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	currency := currencyctx.Resolve(ctx, req.Currency, s.cfg.DefaultCurrency)
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}
	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Metadata != nil {
		product.Metadata = datatypes.JSONMap(req.Metadata)
	}

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		sku = product.Slug
	}
	master := &domain.Variant{
		ID:        s.genID.Generate(),
		ProductID: product.ID,
		SKU:       sku,
		IsMaster:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	masterPrice := &pricedomain.Price{
		ID:        s.genID.Generate(),
		VariantID: master.ID,
		Currency:  currency,
		Amount:    req.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, product); err != nil {
			return err
		}
		if err := s.repo.CreateVariant(ctx, tx, master); err != nil {
			return err
		}
		return s.prices.Create(ctx, tx, masterPrice)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, err
	}

	resp := toResponse(product, []domain.Variant{*master})
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	variants, err := s.repo.ListVariants(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(product, variants)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	q := domain.ListQuery{
		Desc:     strings.EqualFold(strings.TrimSpace(req.OrderBy), "desc"),
		Currency: currencyctx.Resolve(ctx, req.Currency, s.cfg.DefaultCurrency),
		Now:      s.clock.Now(),
	}
	if strings.TrimSpace(req.SortBy) == domain.SortByEffectivePrice {
		q.SortByEffectivePrice = true
	}

	items, err := s.repo.List(ctx, s.db, q)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i], nil))
	}
	return resp, nil
}

func (s *Service) AddVariant(ctx context.Context, productID string, req domain.AddVariantRequest) (*domain.VariantResponse, error) {
	id, err := parseID(productID)
	if err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, domain.ErrInvalidSKU
	}
	currency := currencyctx.Resolve(ctx, req.Currency, s.cfg.DefaultCurrency)
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}
	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	variant := &domain.Variant{
		ID:        s.genID.Generate(),
		ProductID: snowflake.ID(id),
		SKU:       sku,
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	price := &pricedomain.Price{
		ID:        s.genID.Generate(),
		VariantID: variant.ID,
		Currency:  currency,
		Amount:    req.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.CreateVariant(ctx, tx, variant); err != nil {
			return err
		}
		return s.prices.Create(ctx, tx, price)
	})
	if err != nil {
		return nil, err
	}

	resp := toVariantResponse(variant)
	return &resp, nil
}

func (s *Service) PutOnSale(ctx context.Context, productID string, req domain.PutOnSaleRequest) ([]salepricedomain.Response, error) {
	if !req.Value.IsPositive() {
		return nil, salepricedomain.ErrMissingValue
	}

	var created []salepricedomain.Response
	err := s.fanOut(ctx, productID, req.SaleSelector, func(ctx context.Context, tx *gorm.DB, price *pricedomain.Price) error {
		sale, err := s.saleOps.PutOnSale(ctx, tx, price, pricedomain.PutOnSaleRequest{
			Value:          req.Value,
			CalculatorKind: req.CalculatorKind,
			StartAt:        req.StartAt,
			EndAt:          req.EndAt,
			Enabled:        req.Enabled,
		})
		if err != nil {
			return err
		}
		created = append(created, salepricesvc.ToResponse(sale, s.clock.Now()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) EnableSale(ctx context.Context, productID string, sel domain.SaleSelector) error {
	return s.fanOut(ctx, productID, sel, func(ctx context.Context, tx *gorm.DB, price *pricedomain.Price) error {
		return s.saleOps.EnableSale(ctx, tx, price)
	})
}

func (s *Service) DisableSale(ctx context.Context, productID string, sel domain.SaleSelector) error {
	return s.fanOut(ctx, productID, sel, func(ctx context.Context, tx *gorm.DB, price *pricedomain.Price) error {
		return s.saleOps.DisableSale(ctx, tx, price)
	})
}

func (s *Service) StartSale(ctx context.Context, productID string, endAt *time.Time, sel domain.SaleSelector) error {
	return s.fanOut(ctx, productID, sel, func(ctx context.Context, tx *gorm.DB, price *pricedomain.Price) error {
		return s.saleOps.StartSale(ctx, tx, price, endAt)
	})
}

func (s *Service) StopSale(ctx context.Context, productID string, sel domain.SaleSelector) error {
	return s.fanOut(ctx, productID, sel, func(ctx context.Context, tx *gorm.DB, price *pricedomain.Price) error {
		return s.saleOps.StopSale(ctx, tx, price)
	})
}

func (s *Service) Pricing(ctx context.Context, id string, currency string) (*pricedomain.PricingResponse, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	currency = currencyctx.Resolve(ctx, currency, s.cfg.DefaultCurrency)

	master, err := s.repo.MasterVariant(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if master == nil {
		return nil, domain.ErrNotFound
	}

	price, err := s.prices.FindByVariantAndCurrency(ctx, s.db, int64(master.ID), currency)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, domain.ErrNoMasterPrice
	}

	return s.priceSvc.Pricing(ctx, price.ID.String())
}

// fanOut applies op to every selected variant price inside one transaction
// and touches the product's updated_at before committing. The first failure
// rolls back every step.
func (s *Service) fanOut(ctx context.Context, productID string, sel domain.SaleSelector, op func(context.Context, *gorm.DB, *pricedomain.Price) error) error {
	id, err := parseID(productID)
	if err != nil {
		return err
	}
	currency := currencyctx.Resolve(ctx, sel.Currency, s.cfg.DefaultCurrency)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		variants, err := s.selectVariants(ctx, tx, id, sel)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(variants))
		for i := range variants {
			ids = append(ids, int64(variants[i].ID))
		}

		// Variants not priced in this currency drop out here; there is
		// nothing to manage for them.
		prices, err := s.prices.ListByVariantIDs(ctx, tx, ids, currency)
		if err != nil {
			return err
		}
		for i := range prices {
			if err := op(ctx, tx, &prices[i]); err != nil {
				return err
			}
		}

		return s.repo.Touch(ctx, tx, id, s.clock.Now())
	})
}

// selectVariants resolves the fan-out target set: an explicit subset wins,
// then all variants including the master (the default), then master only.
func (s *Service) selectVariants(ctx context.Context, db *gorm.DB, productID int64, sel domain.SaleSelector) ([]domain.Variant, error) {
	variants, err := s.repo.ListVariants(ctx, db, productID)
	if err != nil {
		return nil, err
	}

	if len(sel.VariantIDs) > 0 {
		wanted := make(map[snowflake.ID]bool, len(sel.VariantIDs))
		for _, raw := range sel.VariantIDs {
			id, err := snowflake.ParseString(strings.TrimSpace(raw))
			if err != nil {
				return nil, domain.ErrInvalidVariant
			}
			wanted[id] = true
		}
		selected := make([]domain.Variant, 0, len(wanted))
		for i := range variants {
			if wanted[variants[i].ID] {
				selected = append(selected, variants[i])
			}
		}
		return selected, nil
	}

	allVariants := true
	if sel.AllVariants != nil {
		allVariants = *sel.AllVariants
	}
	if allVariants {
		return variants, nil
	}

	for i := range variants {
		if variants[i].IsMaster {
			return variants[i : i+1], nil
		}
	}
	return nil, nil
}

func toResponse(p *domain.Product, variants []domain.Variant) domain.Response {
	resp := domain.Response{
		ID:          p.ID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}
	for i := range variants {
		resp.Variants = append(resp.Variants, toVariantResponse(&variants[i]))
	}
	return resp
}

func toVariantResponse(v *domain.Variant) domain.VariantResponse {
	return domain.VariantResponse{
		ID:        v.ID.String(),
		ProductID: v.ProductID.String(),
		SKU:       v.SKU,
		IsMaster:  v.IsMaster,
		Position:  v.Position,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func parseID(raw string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id.Int64(), nil
}
