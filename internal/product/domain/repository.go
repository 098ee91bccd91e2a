package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListQuery selects and orders a catalog listing. When SortByEffectivePrice
// is set, products order by their master price's active sale value when one
// exists, else the list amount, with ties broken by the list amount in the
// same direction.
type ListQuery struct {
	SortByEffectivePrice bool
	Desc                 bool
	Currency             string
	Now                  time.Time
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	CreateVariant(ctx context.Context, db *gorm.DB, variant *Variant) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	MasterVariant(ctx context.Context, db *gorm.DB, productID int64) (*Variant, error)
	// ListVariants returns all variants of the product, master first.
	ListVariants(ctx context.Context, db *gorm.DB, productID int64) ([]Variant, error)
	// Touch bumps the product's updated_at so timestamp-based consumers
	// observe sale changes that only wrote to child rows.
	Touch(ctx context.Context, db *gorm.DB, productID int64, now time.Time) error
	List(ctx context.Context, db *gorm.DB, q ListQuery) ([]Product, error)
	// SortByEffectivePrice exposes the catalog ordering as a composable
	// scope for further filtering.
	SortByEffectivePrice(db *gorm.DB, currency string, now time.Time, desc bool) *gorm.DB
}
