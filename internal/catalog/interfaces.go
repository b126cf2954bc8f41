package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gomartvn/storefront-backend/pkg/db/models"
	"github.com/gomartvn/storefront-backend/pkg/pagination"
)

// Repository defines persistence reads over the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	SearchProducts(ctx context.Context, query string, params pagination.Params) (*ProductList, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// Lookup is the narrow read surface the cart and checkout flows depend
// on. A product that is inactive or soft-deleted is not returned.
type Lookup interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}
