package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing. The checkout flow reads these
// rows but never writes them.
type Product struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string         `gorm:"column:title;not null"`
	Slug            string         `gorm:"column:slug;uniqueIndex;not null"`
	Description     string         `gorm:"column:description;not null;default:''"`
	PriceUnits      int64          `gorm:"column:price_units;not null"`
	DiscountPercent float64        `gorm:"column:discount_percent;not null;default:0"`
	Thumbnail       string         `gorm:"column:thumbnail;not null;default:''"`
	Images          pq.StringArray `gorm:"column:images;type:text[]"`
	Stock           int            `gorm:"column:stock;not null;default:0"`
	CategoryID      *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	Featured        bool           `gorm:"column:featured;not null;default:false"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	Deleted         bool           `gorm:"column:deleted;not null;default:false"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// Available reports whether the product may appear in carts and orders.
func (p Product) Available() bool {
	return p.IsActive && !p.Deleted
}
