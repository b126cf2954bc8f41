package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem is the immutable snapshot of one cart line at checkout
// time. Catalog price changes never touch these rows.
type OrderLineItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Title           string    `gorm:"column:title;not null"`
	Thumbnail       string    `gorm:"column:thumbnail;not null;default:''"`
	UnitPriceUnits  int64     `gorm:"column:unit_price_units;not null"`
	DiscountPercent float64   `gorm:"column:discount_percent;not null;default:0"`
	Quantity        int       `gorm:"column:quantity;not null"`
	LineTotalUnits  int64     `gorm:"column:line_total_units;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
