package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salora/internal/calculator"
)

type Service interface {
	Get(ctx context.Context, id string) (*Response, error)
	Enable(ctx context.Context, id string) (*Response, error)
	Disable(ctx context.Context, id string) (*Response, error)
	// Start turns the sale on. An end time already in the past is discarded
	// (the sale becomes open-ended); a start time still in the future is
	// reset to now.
	Start(ctx context.Context, id string, endAt *time.Time) (*Response, error)
	// Stop ends the sale now: end_at is set to the call time and the sale is
	// disabled in the same update.
	Stop(ctx context.Context, id string) (*Response, error)
	// Delete soft-deletes the sale. The row remains joinable through the
	// with-deleted query path but never through the active-sale query.
	Delete(ctx context.Context, id string) error
}

type Response struct {
	ID              string          `json:"id"`
	PriceID         string          `json:"price_id"`
	Value           decimal.Decimal `json:"value"`
	CalculatedPrice decimal.Decimal `json:"calculated_price"`
	StartAt         *time.Time      `json:"start_at,omitempty"`
	EndAt           *time.Time      `json:"end_at,omitempty"`
	Enabled         bool            `json:"enabled"`
	CalculatorKind  calculator.Kind `json:"calculator_kind"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
	ErrMissingPrice = errors.New("missing_price")
	ErrMissingValue = errors.New("missing_value")
)
