package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gomartvn/storefront-backend/pkg/db/models"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
	"github.com/gomartvn/storefront-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order       *models.Order
	updates     map[string]any
	updateErr   error
	softDeleted bool
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = updates
	if s.order != nil && s.order.ID == id {
		if status, ok := updates["status"].(enums.OrderStatus); ok {
			s.order.Status = status
		}
	}
	return nil
}

func (s *stubOrdersRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	s.softDeleted = true
	return nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSetStatusSameStatusIsNoOp(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:      uuid.New(),
		OwnerID: owner,
		Status:  enums.OrderStatusDelivered,
	}}
	svc := newTestService(t, repo)

	order, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID:   repo.order.ID,
		Target:    enums.OrderStatusDelivered,
		ActorID:   owner,
		ActorRole: enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != enums.OrderStatusDelivered {
		t.Fatalf("status = %s", order.Status)
	}
	if repo.updates != nil {
		t.Fatal("no-op must not touch the repository")
	}
}

func TestSetStatusStaffSkipsAhead(t *testing.T) {
	t.Parallel()

	repo := &stubOrdersRepo{order: &models.Order{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Status:  enums.OrderStatusPending,
	}}
	svc := newTestService(t, repo)

	order, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID:   repo.order.ID,
		Target:    enums.OrderStatusDelivered,
		ActorID:   uuid.New(),
		ActorRole: enums.ActorRoleStaff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != enums.OrderStatusDelivered {
		t.Fatalf("status = %s", order.Status)
	}
	if repo.updates["status"] != enums.OrderStatusDelivered {
		t.Fatalf("persisted updates = %+v", repo.updates)
	}
}

func TestSetStatusCustomerCannotTouchOthersOrder(t *testing.T) {
	t.Parallel()

	repo := &stubOrdersRepo{order: &models.Order{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Status:  enums.OrderStatusPending,
	}}
	svc := newTestService(t, repo)

	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID:   repo.order.ID,
		Target:    enums.OrderStatusCancelled,
		ActorID:   uuid.New(),
		ActorRole: enums.ActorRoleCustomer,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("error = %v, want forbidden", err)
	}
}

func TestSetStatusIllegalTransition(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:      uuid.New(),
		OwnerID: owner,
		Status:  enums.OrderStatusShipping,
	}}
	svc := newTestService(t, repo)

	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID:   repo.order.ID,
		Target:    enums.OrderStatusCancelled,
		ActorID:   owner,
		ActorRole: enums.ActorRoleCustomer,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("error = %v, want state conflict", err)
	}
	if repo.updates != nil {
		t.Fatal("rejected transition must not persist")
	}
}

func TestGetMissingOrder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubOrdersRepo{})

	_, err := svc.Get(context.Background(), AccessInput{
		OrderID:   uuid.New(),
		ActorID:   uuid.New(),
		ActorRole: enums.ActorRoleCustomer,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestDeleteRequiresStaff(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:      uuid.New(),
		OwnerID: owner,
		Status:  enums.OrderStatusPending,
	}}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), AccessInput{
		OrderID:   repo.order.ID,
		ActorID:   owner,
		ActorRole: enums.ActorRoleCustomer,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if repo.softDeleted {
		t.Fatal("customer must not soft delete")
	}

	err = svc.Delete(context.Background(), AccessInput{
		OrderID:   repo.order.ID,
		ActorID:   uuid.New(),
		ActorRole: enums.ActorRoleStaff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.softDeleted {
		t.Fatal("expected soft delete")
	}
}
