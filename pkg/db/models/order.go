package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gomartvn/storefront-backend/pkg/enums"
	"github.com/gomartvn/storefront-backend/pkg/types"
)

// Order is the persisted aggregate produced by checkout. The customer
// snapshot and line items are write-once; only Status (via the workflow)
// and the soft-delete flag change after creation.
type Order struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID          uuid.UUID            `gorm:"column:owner_id;type:uuid;not null;index"`
	Status           enums.OrderStatus    `gorm:"column:status;type:order_status;not null;default:'pending'"`
	CustomerFullName string               `gorm:"column:customer_full_name;not null"`
	CustomerPhone    string               `gorm:"column:customer_phone;not null"`
	CustomerAddress  string               `gorm:"column:customer_address;not null"`
	CustomerLocation types.GeographyPoint `gorm:"column:customer_location;type:geography(Point,4326);not null"`
	OriginLocation   types.GeographyPoint `gorm:"column:origin_location;type:geography(Point,4326);not null"`
	PaymentMethod    enums.PaymentMethod  `gorm:"column:payment_method;type:payment_method;not null;default:'cod'"`
	TotalUnits       int64                `gorm:"column:total_units;not null"`
	PaymentLink      *string              `gorm:"column:payment_link"`
	Deleted          bool                 `gorm:"column:deleted;not null;default:false"`
	Lines            []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
