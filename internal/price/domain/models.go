package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Price is the list (non-promotional) amount of one variant in one
// currency. A price exclusively owns its sale-price history: hard-deleting
// the price hard-deletes every sale row, including soft-deleted ones.
type Price struct {
	ID        snowflake.ID    `json:"id" gorm:"primaryKey"`
	VariantID snowflake.ID    `json:"variant_id" gorm:"column:variant_id;not null;index:ux_prices_variant_currency,priority:1"`
	Currency  string          `json:"currency" gorm:"type:text;not null;index:ux_prices_variant_currency,priority:2"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(16,4);not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Price) TableName() string { return "prices" }
