package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Product struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Slug        string            `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// Variant is one sellable variation of a product. Exactly one variant per
// product is the master: the one representing the product when no variant is
// selected.
type Variant struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	ProductID snowflake.ID `json:"product_id" gorm:"column:product_id;not null;index"`
	SKU       string       `json:"sku" gorm:"column:sku;type:text;not null"`
	IsMaster  bool         `json:"is_master" gorm:"column:is_master;not null;default:false"`
	Position  int32        `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Variant) TableName() string { return "variants" }
