package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salora/internal/clock"
	"github.com/smallbiznis/salora/internal/saleprice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("saleprice.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	saleID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	sale, err := s.repo.FindByID(ctx, s.db, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(sale)
	return &resp, nil
}

// Enable flips enabled on without touching the window. A sale whose end_at
// already passed stays derived-expired even though it is nominally enabled.
func (s *Service) Enable(ctx context.Context, id string) (*domain.Response, error) {
	return s.transition(ctx, id, func(sale *domain.SalePrice, now time.Time) {
		sale.Enabled = true
	})
}

func (s *Service) Disable(ctx context.Context, id string) (*domain.Response, error) {
	return s.transition(ctx, id, func(sale *domain.SalePrice, now time.Time) {
		sale.Enabled = false
	})
}

func (s *Service) Start(ctx context.Context, id string, endAt *time.Time) (*domain.Response, error) {
	return s.transition(ctx, id, func(sale *domain.SalePrice, now time.Time) {
		ApplyStart(sale, endAt, now)
	})
}

func (s *Service) Stop(ctx context.Context, id string) (*domain.Response, error) {
	return s.transition(ctx, id, func(sale *domain.SalePrice, now time.Time) {
		ApplyStop(sale, now)
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	saleID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.repo.FindByID(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		return s.repo.SoftDelete(ctx, tx, sale, s.clock.Now())
	})
}

// transition loads the sale, applies one mutation and persists it in a
// single transaction. No transition validates against the current derived
// state; a start on an already-active sale simply overwrites.
func (s *Service) transition(ctx context.Context, id string, apply func(*domain.SalePrice, time.Time)) (*domain.Response, error) {
	saleID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var sale *domain.SalePrice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.repo.FindByID(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.ErrNotFound
		}

		now := s.clock.Now()
		apply(found, now)
		found.UpdatedAt = now
		if err := s.repo.Save(ctx, tx, found); err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(sale)
	return &resp, nil
}

// ApplyStart mutates a sale for the start transition: an end time already in
// the past is discarded, a still-future start_at is pulled back to now, and
// the sale is enabled. The three fields change in the same update.
func ApplyStart(sale *domain.SalePrice, endAt *time.Time, now time.Time) {
	if endAt != nil && !endAt.After(now) {
		endAt = nil
	}
	sale.EndAt = endAt
	if sale.StartAt != nil && sale.StartAt.After(now) {
		startAt := now
		sale.StartAt = &startAt
	}
	sale.Enabled = true
}

// ApplyStop mutates a sale for the stop transition.
func ApplyStop(sale *domain.SalePrice, now time.Time) {
	endAt := now
	sale.EndAt = &endAt
	sale.Enabled = false
}

func (s *Service) toResponse(sale *domain.SalePrice) domain.Response {
	return ToResponse(sale, s.clock.Now())
}

// ToResponse converts a row to its API shape, deriving Active at the given
// instant.
func ToResponse(sale *domain.SalePrice, now time.Time) domain.Response {
	return domain.Response{
		ID:              sale.ID.String(),
		PriceID:         sale.PriceID.String(),
		Value:           sale.Value,
		CalculatedPrice: sale.CalculatedPrice,
		StartAt:         sale.StartAt,
		EndAt:           sale.EndAt,
		Enabled:         sale.Enabled,
		CalculatorKind:  sale.CalculatorKind,
		Active:          sale.ActiveAt(now),
		CreatedAt:       sale.CreatedAt,
		UpdatedAt:       sale.UpdatedAt,
	}
}

func parseID(raw string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id.Int64(), nil
}
