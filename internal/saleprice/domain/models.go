package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salora/internal/calculator"
)

// SalePrice is one promotional-pricing interval attached to a price. A nil
// StartAt means the sale has already started; a nil EndAt means it is
// open-ended. Deletion is soft: DeletedAt is set and the row stays joinable
// through the IncludingDeleted query path.
type SalePrice struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	PriceID         snowflake.ID    `json:"price_id" gorm:"column:price_id;not null;index"`
	Value           decimal.Decimal `json:"value" gorm:"type:numeric(16,4);not null"`
	CalculatedPrice decimal.Decimal `json:"calculated_price" gorm:"type:numeric(16,4);not null"`
	StartAt         *time.Time      `json:"start_at,omitempty"`
	EndAt           *time.Time      `json:"end_at,omitempty"`
	Enabled         bool            `json:"enabled" gorm:"not null;default:false"`
	CalculatorKind  calculator.Kind `json:"calculator_kind" gorm:"column:calculator_kind;type:text;not null"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty" gorm:"index"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SalePrice) TableName() string { return "sale_prices" }

// ActiveAt reports whether the sale is live at the given instant. Active is
// derived, never stored.
func (s *SalePrice) ActiveAt(now time.Time) bool {
	if s.DeletedAt != nil || !s.Enabled {
		return false
	}
	if s.StartAt != nil && s.StartAt.After(now) {
		return false
	}
	if s.EndAt != nil && s.EndAt.Before(now) {
		return false
	}
	return true
}
