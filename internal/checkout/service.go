package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/gomartvn/storefront-backend/internal/cart"
	"github.com/gomartvn/storefront-backend/internal/catalog"
	"github.com/gomartvn/storefront-backend/internal/orders"
	"github.com/gomartvn/storefront-backend/pkg/db/models"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
	"github.com/gomartvn/storefront-backend/pkg/logger"
	"github.com/gomartvn/storefront-backend/pkg/metrics"
	"github.com/gomartvn/storefront-backend/pkg/money"
	"github.com/gomartvn/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentLinker interface {
	CreateLink(ctx context.Context, method enums.PaymentMethod, orderID string, amountUnits int64) (string, error)
}

// CustomerInfo is the delivery snapshot captured at checkout time.
type CustomerInfo struct {
	FullName string
	Phone    string
	Address  string
	Location *types.GeographyPoint
}

// Input carries everything needed to place an order from the cart.
type Input struct {
	UserID        uuid.UUID
	Customer      CustomerInfo
	ProductIDs    []uuid.UUID
	PaymentMethod enums.PaymentMethod
}

// Result is the placed order plus payment handoff state. PaymentLinkErr
// is set when the order was created but the provider could not mint a
// redirect URL; the order stands and the client retries link creation.
type Result struct {
	Order          *models.Order
	PaymentURL     *string
	PaymentLinkErr *pkgerrors.Error
	CartWarning    string
}

// Service orchestrates the checkout flow.
type Service interface {
	PlaceOrder(ctx context.Context, input Input) (*Result, error)
	RetryPaymentLink(ctx context.Context, access orders.AccessInput) (string, error)
}

type service struct {
	cartRepo   cart.Repository
	catalog    catalog.Lookup
	ordersRepo orders.Repository
	tx         txRunner
	payment    paymentLinker
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
	origin     types.GeographyPoint
}

// NewService builds the checkout orchestrator with the required dependencies.
func NewService(
	cartRepo cart.Repository,
	lookup catalog.Lookup,
	ordersRepo orders.Repository,
	tx txRunner,
	payment paymentLinker,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	origin types.GeographyPoint,
) (Service, error) {
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if payment == nil {
		return nil, fmt.Errorf("payment client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cartRepo:   cartRepo,
		catalog:    lookup,
		ordersRepo: ordersRepo,
		tx:         tx,
		payment:    payment,
		metrics:    checkoutMetrics,
		logg:       logg,
		origin:     origin,
	}, nil
}

// PlaceOrder validates the request, snapshots prices from the live
// catalog, persists the order atomically, then clears the purchased
// cart lines. Cart cleanup and payment link creation run after the
// order is committed and never fail the checkout.
func (s *service) PlaceOrder(ctx context.Context, input Input) (*Result, error) {
	if input.UserID == uuid.Nil {
		s.metrics.IncCheckout("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateCustomerInfo(input.Customer); err != nil {
		s.metrics.IncCheckout("rejected")
		return nil, err
	}
	if !input.PaymentMethod.IsValid() {
		s.metrics.IncCheckout("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"field": "payment_method"})
	}

	selected := dedupe(input.ProductIDs)
	if len(selected) == 0 {
		s.metrics.IncCheckout("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no products selected")
	}

	lines, err := s.snapshotLines(ctx, input.UserID, selected)
	if err != nil {
		s.metrics.IncCheckout("rejected")
		return nil, err
	}

	totals := make([]int64, 0, len(lines))
	for _, line := range lines {
		totals = append(totals, line.LineTotalUnits)
	}

	status := enums.OrderStatusPending
	if input.PaymentMethod.RequiresRedirect() {
		status = enums.OrderStatusPendingPayment
	}

	order := &models.Order{
		OwnerID:          input.UserID,
		Status:           status,
		CustomerFullName: strings.TrimSpace(input.Customer.FullName),
		CustomerPhone:    strings.TrimSpace(input.Customer.Phone),
		CustomerAddress:  strings.TrimSpace(input.Customer.Address),
		CustomerLocation: *input.Customer.Location,
		OriginLocation:   s.origin,
		PaymentMethod:    input.PaymentMethod,
		TotalUnits:       money.Sum(totals),
		Lines:            lines,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.ordersRepo.WithTx(tx).Create(ctx, order)
		return err
	})
	if err != nil {
		s.metrics.IncCheckout("failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	s.metrics.IncCheckout("placed")

	result := &Result{Order: order}

	// The order is committed; a cart cleanup failure must not undo it.
	if err := s.cartRepo.DeleteLines(ctx, input.UserID, selected); err != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"error":    err.Error(),
		})
		s.logg.Warn(warnCtx, "cart cleanup failed after checkout")
		result.CartWarning = "purchased items may still appear in your cart"
	}

	if input.PaymentMethod.RequiresRedirect() {
		url, linkErr := s.createAndStoreLink(ctx, order)
		if linkErr != nil {
			result.PaymentLinkErr = pkgerrors.As(linkErr)
		} else {
			result.PaymentURL = &url
		}
	}

	return result, nil
}

// snapshotLines resolves each selected product against the cart and the
// live catalog, freezing price, discount, and display fields.
func (s *service) snapshotLines(ctx context.Context, userID uuid.UUID, selected []uuid.UUID) ([]models.OrderLineItem, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	byProduct := make(map[uuid.UUID]models.CartItem, len(items))
	for _, item := range items {
		byProduct[item.ProductID] = item
	}

	var missing []string
	for _, id := range selected {
		if _, ok := byProduct[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected products are not in the cart").
			WithDetails(map[string]any{"product_ids": missing})
	}

	lines := make([]models.OrderLineItem, 0, len(selected))
	var unavailable []string
	for _, id := range selected {
		item := byProduct[id]
		product, err := s.catalog.FindActiveByID(ctx, id)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				unavailable = append(unavailable, id.String())
				continue
			}
			return nil, err
		}
		lines = append(lines, models.OrderLineItem{
			ProductID:       product.ID,
			Title:           product.Title,
			Thumbnail:       product.Thumbnail,
			UnitPriceUnits:  product.PriceUnits,
			DiscountPercent: product.DiscountPercent,
			Quantity:        item.Quantity,
			LineTotalUnits:  money.LineTotal(product.PriceUnits, product.DiscountPercent, item.Quantity),
		})
	}
	if len(unavailable) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeProductUnavailable, "some products are no longer available").
			WithDetails(map[string]any{"product_ids": unavailable})
	}
	return lines, nil
}

func (s *service) createAndStoreLink(ctx context.Context, order *models.Order) (string, error) {
	url, err := s.payment.CreateLink(ctx, order.PaymentMethod, order.ID.String(), order.TotalUnits)
	if err != nil {
		s.metrics.IncPaymentLink("failed")
		errCtx := s.logg.WithField(ctx, "order_id", order.ID.String())
		s.logg.Warn(errCtx, "payment link creation failed")
		return "", err
	}
	s.metrics.IncPaymentLink("created")

	if err := s.ordersRepo.Update(ctx, order.ID, map[string]any{"payment_link": url}); err != nil {
		// the link still works for this session, only the stored copy is stale
		errCtx := s.logg.WithField(ctx, "order_id", order.ID.String())
		s.logg.Warn(errCtx, "storing payment link failed")
	} else {
		order.PaymentLink = &url
	}
	return url, nil
}

// RetryPaymentLink mints a fresh redirect URL for an order still waiting
// on payment.
func (s *service) RetryPaymentLink(ctx context.Context, access orders.AccessInput) (string, error) {
	if access.OrderID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.ordersRepo.FindByID(ctx, access.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if access.ActorRole != enums.ActorRoleStaff && order.OwnerID != access.ActorID {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	if order.Status != enums.OrderStatusPendingPayment {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment").
			WithDetails(map[string]any{"status": order.Status.String()})
	}
	if !order.PaymentMethod.RequiresRedirect() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment method has no redirect flow")
	}

	return s.createAndStoreLink(ctx, order)
}

// validateCustomerInfo checks the delivery snapshot and reports every
// failing field at once.
func validateCustomerInfo(info CustomerInfo) error {
	var combined error
	if strings.TrimSpace(info.FullName) == "" {
		combined = multierr.Append(combined, fmt.Errorf("full_name is required"))
	}
	if strings.TrimSpace(info.Phone) == "" {
		combined = multierr.Append(combined, fmt.Errorf("phone is required"))
	}
	if strings.TrimSpace(info.Address) == "" {
		combined = multierr.Append(combined, fmt.Errorf("address is required"))
	}
	if info.Location == nil {
		combined = multierr.Append(combined, fmt.Errorf("location is required"))
	} else if !info.Location.IsFinite() {
		combined = multierr.Append(combined, fmt.Errorf("location coordinates must be finite"))
	}
	if combined == nil {
		return nil
	}

	fields := make([]string, 0, len(multierr.Errors(combined)))
	for _, fieldErr := range multierr.Errors(combined) {
		fields = append(fields, fieldErr.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer info").
		WithDetails(map[string]any{"fields": fields})
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
