package catalog

import (
	"github.com/google/uuid"

	"github.com/gomartvn/storefront-backend/pkg/db/models"
)

// ProductFilters describe the inputs supported by the product listing.
type ProductFilters struct {
	CategoryIDs []uuid.UUID
	Featured    *bool
}

// ProductList wraps a page of products plus the next page cursor.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}
