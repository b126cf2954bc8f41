package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gomartvn/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for the live cart table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	CreateLine(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLines(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}
