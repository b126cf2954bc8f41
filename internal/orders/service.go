package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gomartvn/storefront-backend/pkg/db/models"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
	"github.com/gomartvn/storefront-backend/pkg/metrics"
	"github.com/gomartvn/storefront-backend/pkg/pagination"
)

// Service defines order reads and the status workflow.
type Service interface {
	Get(ctx context.Context, input AccessInput) (*models.Order, error)
	ListOwn(ctx context.Context, ownerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListAll(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error)
	Delete(ctx context.Context, input AccessInput) error
}

// AccessInput identifies an order plus the actor touching it.
type AccessInput struct {
	OrderID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole enums.ActorRole
}

// SetStatusInput captures a requested status change.
type SetStatusInput struct {
	OrderID   uuid.UUID
	Target    enums.OrderStatus
	ActorID   uuid.UUID
	ActorRole enums.ActorRole
}

type service struct {
	repo    Repository
	metrics *metrics.CheckoutMetrics
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, metrics: checkoutMetrics}, nil
}

func (s *service) load(ctx context.Context, input AccessInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if input.ActorRole != enums.ActorRoleStaff && order.OwnerID != input.ActorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, input AccessInput) (*models.Order, error) {
	return s.load(ctx, input)
}

func (s *service) ListOwn(ctx context.Context, ownerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByOwner(ctx, ownerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// SetStatus applies the workflow rules and persists the change.
// Requesting the status an order is already in is a no-op, including
// for terminal orders.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error) {
	order, err := s.load(ctx, AccessInput{
		OrderID:   input.OrderID,
		ActorID:   input.ActorID,
		ActorRole: input.ActorRole,
	})
	if err != nil {
		return nil, err
	}

	if order.Status == input.Target {
		return order, nil
	}

	if err := CheckTransition(order.Status, input.Target, input.ActorRole); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, order.ID, map[string]any{"status": input.Target}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	s.metrics.IncTransition(order.Status.String(), input.Target.String())
	order.Status = input.Target
	return order, nil
}

// Delete soft-deletes an order. Staff only; the row stays queryable for
// bookkeeping but disappears from every read path.
func (s *service) Delete(ctx context.Context, input AccessInput) error {
	if input.ActorRole != enums.ActorRoleStaff {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only staff can delete orders")
	}
	if _, err := s.load(ctx, input); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, input.OrderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}
