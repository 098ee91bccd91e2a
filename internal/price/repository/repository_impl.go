package repository

import (
	"context"

	"github.com/smallbiznis/salora/internal/price/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, price *domain.Price) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO prices (id, variant_id, currency, amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		int64(price.ID),
		int64(price.VariantID),
		price.Currency,
		price.Amount,
		price.CreatedAt,
		price.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Price, error) {
	var p domain.Price
	err := db.WithContext(ctx).Raw(
		`SELECT id, variant_id, currency, amount, created_at, updated_at
		 FROM prices WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindByVariantAndCurrency(ctx context.Context, db *gorm.DB, variantID int64, currency string) (*domain.Price, error) {
	var p domain.Price
	err := db.WithContext(ctx).Raw(
		`SELECT id, variant_id, currency, amount, created_at, updated_at
		 FROM prices WHERE variant_id = ? AND currency = ?`,
		variantID,
		currency,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) ListByVariantIDs(ctx context.Context, db *gorm.DB, variantIDs []int64, currency string) ([]domain.Price, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	var items []domain.Price
	err := db.WithContext(ctx).Raw(
		`SELECT id, variant_id, currency, amount, created_at, updated_at
		 FROM prices WHERE variant_id IN ? AND currency = ?
		 ORDER BY created_at ASC, id ASC`,
		variantIDs,
		currency,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Destroy(ctx context.Context, db *gorm.DB, id int64) error {
	// Cascade is explicit so sqlite tests behave like the FK on postgres:
	// the full sale history goes, soft-deleted rows included.
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM sale_prices WHERE price_id = ?`, id,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM prices WHERE id = ?`, id,
	).Error
}
