package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, price *Price) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Price, error)
	FindByVariantAndCurrency(ctx context.Context, db *gorm.DB, variantID int64, currency string) (*Price, error)
	ListByVariantIDs(ctx context.Context, db *gorm.DB, variantIDs []int64, currency string) ([]Price, error)
	// Destroy hard-deletes the price and cascades hard deletion to its
	// entire sale history.
	Destroy(ctx context.Context, db *gorm.DB, id int64) error
}
