package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salora/internal/calculator"
	"github.com/smallbiznis/salora/internal/saleprice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type priceRow struct {
	ID     snowflake.ID    `gorm:"column:id"`
	Amount decimal.Decimal `gorm:"column:amount"`
}

// computeCalculatedPrice recomputes the cached displayed price from the
// owned calculator before every write. The hook failing aborts the write.
func (r *repo) computeCalculatedPrice(ctx context.Context, db *gorm.DB, sale *domain.SalePrice) error {
	var price priceRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, amount FROM prices WHERE id = ?`, int64(sale.PriceID),
	).Scan(&price).Error
	if err != nil {
		return err
	}
	if price.ID == 0 {
		return domain.ErrMissingPrice
	}

	calculated, err := calculator.Compute(sale.CalculatorKind, sale.Value, price.Amount)
	if err != nil {
		return err
	}
	sale.CalculatedPrice = calculated
	return nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, sale *domain.SalePrice) error {
	if err := r.computeCalculatedPrice(ctx, db, sale); err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO sale_prices (id, price_id, value, calculated_price, start_at, end_at, enabled, calculator_kind, deleted_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(sale.ID),
		int64(sale.PriceID),
		sale.Value,
		sale.CalculatedPrice,
		sale.StartAt,
		sale.EndAt,
		sale.Enabled,
		sale.CalculatorKind,
		sale.DeletedAt,
		sale.CreatedAt,
		sale.UpdatedAt,
	).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, sale *domain.SalePrice) error {
	if sale == nil {
		return gorm.ErrInvalidData
	}
	if err := r.computeCalculatedPrice(ctx, db, sale); err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`UPDATE sale_prices
		 SET value = ?, calculated_price = ?, start_at = ?, end_at = ?, enabled = ?, calculator_kind = ?, updated_at = ?
		 WHERE id = ?`,
		sale.Value,
		sale.CalculatedPrice,
		sale.StartAt,
		sale.EndAt,
		sale.Enabled,
		sale.CalculatorKind,
		sale.UpdatedAt,
		int64(sale.ID),
	).Error
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, sale *domain.SalePrice, now time.Time) error {
	if sale == nil {
		return gorm.ErrInvalidData
	}
	sale.DeletedAt = &now
	sale.UpdatedAt = now
	return db.WithContext(ctx).Exec(
		`UPDATE sale_prices SET deleted_at = ?, updated_at = ? WHERE id = ?`,
		sale.DeletedAt,
		sale.UpdatedAt,
		int64(sale.ID),
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.SalePrice, error) {
	var s domain.SalePrice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sale_prices WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) FindByIDIncludingDeleted(ctx context.Context, db *gorm.DB, id int64) (*domain.SalePrice, error) {
	var s domain.SalePrice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sale_prices WHERE id = ?`, id,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) ListByPriceID(ctx context.Context, db *gorm.DB, priceID int64) ([]domain.SalePrice, error) {
	var items []domain.SalePrice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sale_prices WHERE price_id = ? AND deleted_at IS NULL ORDER BY created_at ASC, id ASC`,
		priceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ActiveForPrice(ctx context.Context, db *gorm.DB, priceID int64, now time.Time) (*domain.SalePrice, error) {
	var s domain.SalePrice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sale_prices
		 WHERE price_id = ?
		   AND deleted_at IS NULL
		   AND enabled = ?
		   AND (start_at IS NULL OR start_at <= ?)
		   AND (end_at IS NULL OR end_at >= ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		priceID, true, now, now,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) NextScheduledForPrice(ctx context.Context, db *gorm.DB, priceID int64, now time.Time) (*domain.SalePrice, error) {
	var s domain.SalePrice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sale_prices
		 WHERE price_id = ?
		   AND deleted_at IS NULL
		   AND enabled = ?
		   AND start_at > ?
		 ORDER BY start_at ASC, id ASC
		 LIMIT 1`,
		priceID, true, now,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) LatestForPrice(ctx context.Context, db *gorm.DB, priceID int64) (*domain.SalePrice, error) {
	var s domain.SalePrice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sale_prices
		 WHERE price_id = ? AND deleted_at IS NULL
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		priceID,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

// CurrentlyActivePerPrice ranks the live sales of each price by recency and
// keeps the first row per price_id. Ties at the same created_at break by
// highest id, which for time-ordered ids means the latest writer wins.
func (r *repo) CurrentlyActivePerPrice(db *gorm.DB, now time.Time) *gorm.DB {
	ranked := db.Session(&gorm.Session{NewDB: true}).
		Table("sale_prices").
		Select("sale_prices.*, ROW_NUMBER() OVER (PARTITION BY price_id ORDER BY created_at DESC, id DESC) AS rn").
		Where("deleted_at IS NULL").
		Where("enabled = ?", true).
		Where("(start_at IS NULL OR start_at <= ?)", now).
		Where("(end_at IS NULL OR end_at >= ?)", now)

	return db.Session(&gorm.Session{NewDB: true}).
		Table("(?) AS ranked_sales", ranked).
		Where("ranked_sales.rn = 1")
}
