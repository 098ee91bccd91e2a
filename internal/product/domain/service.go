package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	AddVariant(ctx context.Context, productID string, req AddVariantRequest) (*VariantResponse, error)

	// Sale management fans out across the product's variant prices per the
	// selector and runs in one transaction: one failing variant rolls back
	// the whole operation. The product's updated_at is touched afterwards.
	PutOnSale(ctx context.Context, productID string, req PutOnSaleRequest) ([]salepricedomain.Response, error)
	EnableSale(ctx context.Context, productID string, sel SaleSelector) error
	DisableSale(ctx context.Context, productID string, sel SaleSelector) error
	StartSale(ctx context.Context, productID string, endAt *time.Time, sel SaleSelector) error
	StopSale(ctx context.Context, productID string, sel SaleSelector) error

	// Pricing reads the product's storefront view through its master
	// variant's price in the given currency.
	Pricing(ctx context.Context, id string, currency string) (*pricedomain.PricingResponse, error)
}

// SaleSelector picks which variant prices a fan-out touches. An explicit
// VariantIDs subset wins and AllVariants is then ignored; otherwise
// AllVariants (default true) selects every variant including the master,
// and false selects the master alone.
type SaleSelector struct {
	AllVariants *bool    `json:"all_variants"`
	VariantIDs  []string `json:"variant_ids"`
	Currency    string   `json:"currency"`
}

type PutOnSaleRequest struct {
	Value          decimal.Decimal `json:"value"`
	CalculatorKind string          `json:"calculator_kind"`
	StartAt        *time.Time      `json:"start_at"`
	EndAt          *time.Time      `json:"end_at"`
	Enabled        *bool           `json:"enabled"`
	SaleSelector
}

type CreateRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Metadata    map[string]any  `json:"metadata"`
	SKU         string          `json:"sku"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
}

type AddVariantRequest struct {
	SKU      string          `json:"sku"`
	Position int32           `json:"position"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type ListRequest struct {
	SortBy   string
	OrderBy  string
	Currency string
}

type Response struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	Variants    []VariantResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type VariantResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	IsMaster  bool      `json:"is_master"`
	Position  int32     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const SortByEffectivePrice = "effective_price"

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidSKU      = errors.New("invalid_sku")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidVariant  = errors.New("invalid_variant")
	ErrDuplicateSlug   = errors.New("duplicate_slug")
	ErrNotFound        = errors.New("not_found")
	ErrNoMasterPrice   = errors.New("no_master_price")
)
