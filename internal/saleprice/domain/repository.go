package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository is the single persistence point for sale prices. Create and
// Save recompute calculated_price from the owned calculator before writing;
// a calculator or price failure aborts the write with the row unchanged.
type Repository interface {
	Create(ctx context.Context, db *gorm.DB, sale *SalePrice) error
	Save(ctx context.Context, db *gorm.DB, sale *SalePrice) error
	SoftDelete(ctx context.Context, db *gorm.DB, sale *SalePrice, now time.Time) error

	// FindByID excludes soft-deleted rows; FindByIDIncludingDeleted is the
	// explicit with-deleted path.
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*SalePrice, error)
	FindByIDIncludingDeleted(ctx context.Context, db *gorm.DB, id int64) (*SalePrice, error)
	ListByPriceID(ctx context.Context, db *gorm.DB, priceID int64) ([]SalePrice, error)

	// ActiveForPrice returns the single currently-active sale for one price:
	// the most recently created one, ties broken by highest id.
	ActiveForPrice(ctx context.Context, db *gorm.DB, priceID int64, now time.Time) (*SalePrice, error)
	// NextScheduledForPrice returns the enabled sale with the earliest
	// future start for one price, if any.
	NextScheduledForPrice(ctx context.Context, db *gorm.DB, priceID int64, now time.Time) (*SalePrice, error)
	// LatestForPrice returns the most recently created non-deleted sale.
	LatestForPrice(ctx context.Context, db *gorm.DB, priceID int64) (*SalePrice, error)

	// CurrentlyActivePerPrice builds the composable subquery selecting, per
	// price_id, the single currently-active sale. Prices with no active sale
	// are absent. Usable as a join target.
	CurrentlyActivePerPrice(db *gorm.DB, now time.Time) *gorm.DB
}
