package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/gomartvn/storefront-backend/pkg/db/models"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	"github.com/gomartvn/storefront-backend/pkg/types"
)

// ListFilters describe the inputs supported by the order listings.
type ListFilters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// Summary exposes the aggregated fields returned in order listings.
type Summary struct {
	ID            uuid.UUID           `json:"id"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	TotalUnits    int64               `json:"total_units"`
	TotalItems    int                 `json:"total_items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps a page of order summaries plus the next page cursor.
type OrderList struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// LineDetail is the wire form of one snapshot line.
type LineDetail struct {
	ProductID       uuid.UUID `json:"product_id"`
	Title           string    `json:"title"`
	Thumbnail       string    `json:"thumbnail"`
	UnitPriceUnits  int64     `json:"unit_price_units"`
	DiscountPercent float64   `json:"discount_percent"`
	Quantity        int       `json:"quantity"`
	LineTotalUnits  int64     `json:"line_total_units"`
}

// Detail is the wire form of a full order. Storage-only columns stay off
// the wire.
type Detail struct {
	ID               uuid.UUID            `json:"id"`
	OwnerID          uuid.UUID            `json:"owner_id"`
	Status           enums.OrderStatus    `json:"status"`
	CustomerFullName string               `json:"customer_full_name"`
	CustomerPhone    string               `json:"customer_phone"`
	CustomerAddress  string               `json:"customer_address"`
	CustomerLocation types.GeographyPoint `json:"customer_location"`
	OriginLocation   types.GeographyPoint `json:"origin_location"`
	PaymentMethod    enums.PaymentMethod  `json:"payment_method"`
	TotalUnits       int64                `json:"total_units"`
	PaymentLink      *string              `json:"payment_link,omitempty"`
	Lines            []LineDetail         `json:"lines"`
	CreatedAt        time.Time            `json:"created_at"`
}

// NewDetail converts a stored order into its wire form.
func NewDetail(order *models.Order) *Detail {
	if order == nil {
		return nil
	}

	lines := make([]LineDetail, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, LineDetail{
			ProductID:       line.ProductID,
			Title:           line.Title,
			Thumbnail:       line.Thumbnail,
			UnitPriceUnits:  line.UnitPriceUnits,
			DiscountPercent: line.DiscountPercent,
			Quantity:        line.Quantity,
			LineTotalUnits:  line.LineTotalUnits,
		})
	}

	return &Detail{
		ID:               order.ID,
		OwnerID:          order.OwnerID,
		Status:           order.Status,
		CustomerFullName: order.CustomerFullName,
		CustomerPhone:    order.CustomerPhone,
		CustomerAddress:  order.CustomerAddress,
		CustomerLocation: order.CustomerLocation,
		OriginLocation:   order.OriginLocation,
		PaymentMethod:    order.PaymentMethod,
		TotalUnits:       order.TotalUnits,
		PaymentLink:      order.PaymentLink,
		Lines:            lines,
		CreatedAt:        order.CreatedAt,
	}
}
