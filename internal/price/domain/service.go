package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	// Destroy hard-deletes the price together with its sale history.
	Destroy(ctx context.Context, id string) error

	PutOnSale(ctx context.Context, id string, req PutOnSaleRequest) (*salepricedomain.Response, error)
	EnableSale(ctx context.Context, id string) error
	DisableSale(ctx context.Context, id string) error
	StartSale(ctx context.Context, id string, endAt *time.Time) error
	StopSale(ctx context.Context, id string) error

	ListSales(ctx context.Context, id string) ([]salepricedomain.Response, error)
	Pricing(ctx context.Context, id string) (*PricingResponse, error)
}

// SaleOps are the record-level sale operations on one price row. They take
// an explicit db handle so callers fanning out across several prices can run
// every step in one transaction. No-target operations (e.g. stopping a price
// that has no live sale) are silent no-ops.
type SaleOps interface {
	PutOnSale(ctx context.Context, db *gorm.DB, price *Price, req PutOnSaleRequest) (*salepricedomain.SalePrice, error)
	EnableSale(ctx context.Context, db *gorm.DB, price *Price) error
	DisableSale(ctx context.Context, db *gorm.DB, price *Price) error
	StartSale(ctx context.Context, db *gorm.DB, price *Price, endAt *time.Time) error
	StopSale(ctx context.Context, db *gorm.DB, price *Price) error
}

type CreateRequest struct {
	VariantID string          `json:"variant_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
}

// PutOnSaleRequest creates a new sale on a price. Omitted fields take the
// put-on-sale defaults: fixed-amount calculator, enabled, starting now,
// open-ended.
type PutOnSaleRequest struct {
	Value          decimal.Decimal `json:"value"`
	CalculatorKind string          `json:"calculator_kind"`
	StartAt        *time.Time      `json:"start_at"`
	EndAt          *time.Time      `json:"end_at"`
	Enabled        *bool           `json:"enabled"`
}

type Response struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PricingResponse is the read-side view of one price: the effective amount
// shown to the storefront plus the sale rows it derives from. A zero
// DiscountPercent means "no discount", never "failed to compute".
type PricingResponse struct {
	PriceID         string                    `json:"price_id"`
	Currency        string                    `json:"currency"`
	Amount          decimal.Decimal           `json:"amount"`
	OnSale          bool                      `json:"on_sale"`
	SalePrice       decimal.Decimal           `json:"sale_price"`
	OriginalPrice   decimal.Decimal           `json:"original_price"`
	DiscountPercent decimal.Decimal           `json:"discount_percent"`
	ActiveSale      *salepricedomain.Response `json:"active_sale,omitempty"`
	CurrentSale     *salepricedomain.Response `json:"current_sale,omitempty"`
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidVariant  = errors.New("invalid_variant")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrDuplicateEntry  = errors.New("duplicate_price")
	ErrNotFound        = errors.New("not_found")
)
