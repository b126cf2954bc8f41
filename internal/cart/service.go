package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gomartvn/storefront-backend/internal/catalog"
	"github.com/gomartvn/storefront-backend/pkg/db"
	"github.com/gomartvn/storefront-backend/pkg/db/models"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
	"github.com/gomartvn/storefront-backend/pkg/money"
)

// Line is one cart row enriched with live catalog data. Prices shown
// here are current catalog prices, not a checkout snapshot.
type Line struct {
	ProductID       uuid.UUID `json:"product_id"`
	Title           string    `json:"title"`
	Thumbnail       string    `json:"thumbnail"`
	UnitPriceUnits  int64     `json:"unit_price_units"`
	DiscountPercent float64   `json:"discount_percent"`
	Quantity        int       `json:"quantity"`
	LineTotalUnits  int64     `json:"line_total_units"`
	Available       bool      `json:"available"`
}

// View is the enriched cart returned to the storefront.
type View struct {
	Lines               []Line `json:"lines"`
	EstimatedTotalUnits int64  `json:"estimated_total_units"`
}

// Service exposes the live cart operations.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) (*View, error)
}

type service struct {
	repo    Repository
	catalog catalog.Lookup
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, lookup catalog.Lookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	return &service{repo: repo, catalog: lookup}, nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]any{"field": "quantity"})
	}
	return nil
}

// Add puts a product in the cart. If the line already exists the
// quantity is added onto the stored one.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if _, err := s.catalog.FindActiveByID(ctx, productID); err != nil {
		return err
	}

	existing, err := s.repo.FindLine(ctx, userID, productID)
	switch {
	case err == nil:
		if err := s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	_, err = s.repo.CreateLine(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_cart_items_user_product") {
			// lost a concurrent insert race, add onto the winner
			line, findErr := s.repo.FindLine(ctx, userID, productID)
			if findErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load cart line after conflict")
			}
			if updErr := s.repo.UpdateQuantity(ctx, line.ID, line.Quantity+quantity); updErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, updErr, "update cart line after conflict")
			}
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	return nil
}

func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	line, err := s.repo.FindLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart").
				WithDetails(map[string]any{"product_id": productID.String()})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if line.Quantity == quantity {
		return nil
	}
	if err := s.repo.UpdateQuantity(ctx, line.ID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return nil
}

// Remove drops the given lines. Removing a product that is not in the
// cart is a no-op.
func (s *service) Remove(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	if err := s.repo.DeleteLines(ctx, userID, productIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart lines")
	}
	return nil
}

// List returns the cart priced against the live catalog. Lines whose
// product has gone inactive stay visible but are flagged unavailable
// and excluded from the estimated total.
func (s *service) List(ctx context.Context, userID uuid.UUID) (*View, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	view := &View{Lines: make([]Line, 0, len(items))}
	for _, item := range items {
		product, err := s.catalog.FindActiveByID(ctx, item.ProductID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				view.Lines = append(view.Lines, Line{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					Available: false,
				})
				continue
			}
			return nil, err
		}

		lineTotal := money.LineTotal(product.PriceUnits, product.DiscountPercent, item.Quantity)
		view.Lines = append(view.Lines, Line{
			ProductID:       product.ID,
			Title:           product.Title,
			Thumbnail:       product.Thumbnail,
			UnitPriceUnits:  product.PriceUnits,
			DiscountPercent: product.DiscountPercent,
			Quantity:        item.Quantity,
			LineTotalUnits:  lineTotal,
			Available:       true,
		})
		view.EstimatedTotalUnits += lineTotal
	}
	return view, nil
}
