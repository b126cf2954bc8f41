package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/gomartvn/storefront-backend/pkg/db/models"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
)

type stubCartRepo struct {
	lines      map[uuid.UUID]*models.CartItem // keyed by product id
	created    *models.CartItem
	createErr  error
	winner     *models.CartItem // becomes visible when createErr fires
	updatedID  uuid.UUID
	updatedQty int
	deletedIDs []uuid.UUID
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{lines: make(map[uuid.UUID]*models.CartItem)}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0, len(s.lines))
	for _, line := range s.lines {
		items = append(items, *line)
	}
	return items, nil
}

func (s *stubCartRepo) FindLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	line, ok := s.lines[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *line
	return &copied, nil
}

func (s *stubCartRepo) CreateLine(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if s.createErr != nil {
		if s.winner != nil {
			s.lines[s.winner.ProductID] = s.winner
		}
		return nil, s.createErr
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.created = item
	s.lines[item.ProductID] = item
	return item, nil
}

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	s.updatedID = lineID
	s.updatedQty = quantity
	for _, line := range s.lines {
		if line.ID == lineID {
			line.Quantity = quantity
		}
	}
	return nil
}

func (s *stubCartRepo) DeleteLines(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	for _, id := range productIDs {
		delete(s.lines, id)
	}
	s.deletedIDs = append(s.deletedIDs, productIDs...)
	return nil
}

func (s *stubCartRepo) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	s.lines = make(map[uuid.UUID]*models.CartItem)
	return nil
}

type stubLookup struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubLookup) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func newTestService(t *testing.T, repo Repository, lookup *stubLookup) Service {
	t.Helper()
	svc, err := NewService(repo, lookup)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddRejectsInvalidQuantity(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	svc := newTestService(t, repo, &stubLookup{})

	err := svc.Add(context.Background(), uuid.New(), uuid.New(), 0)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
	if repo.created != nil {
		t.Fatal("invalid quantity must not create a line")
	}
}

func TestAddUnknownProduct(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	svc := newTestService(t, repo, &stubLookup{})

	err := svc.Add(context.Background(), uuid.New(), uuid.New(), 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestAddCreatesThenIncrementsQuantity(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()
	repo := newStubCartRepo()
	lookup := &stubLookup{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Title: "Tra da", PriceUnits: 10000, IsActive: true},
	}}
	svc := newTestService(t, repo, lookup)

	if err := svc.Add(context.Background(), userID, productID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if repo.created == nil || repo.created.Quantity != 2 {
		t.Fatalf("created line = %+v", repo.created)
	}

	// a second add accumulates onto the existing line
	if err := svc.Add(context.Background(), userID, productID, 3); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if repo.updatedQty != 5 {
		t.Fatalf("updated quantity = %d, want 5", repo.updatedQty)
	}
	if repo.lines[productID].Quantity != 5 {
		t.Fatalf("stored quantity = %d, want 5", repo.lines[productID].Quantity)
	}
}

func TestAddRecoversFromConcurrentInsert(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()
	repo := newStubCartRepo()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "idx_cart_items_user_product"}
	repo.winner = &models.CartItem{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 2}

	lookup := &stubLookup{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Title: "Tra da", PriceUnits: 10000, IsActive: true},
	}}
	svc := newTestService(t, repo, lookup)

	if err := svc.Add(context.Background(), userID, productID, 3); err != nil {
		t.Fatalf("add after insert race: %v", err)
	}
	if repo.updatedID != repo.winner.ID {
		t.Fatalf("updated line = %s, want winner %s", repo.updatedID, repo.winner.ID)
	}
	if repo.updatedQty != 5 {
		t.Fatalf("updated quantity = %d, want 5", repo.updatedQty)
	}
}

func TestSetQuantityMissingLine(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	svc := newTestService(t, repo, &stubLookup{})

	err := svc.SetQuantity(context.Background(), uuid.New(), uuid.New(), 3)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()
	repo := newStubCartRepo()
	repo.lines[productID] = &models.CartItem{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1}
	svc := newTestService(t, repo, &stubLookup{})

	if err := svc.Remove(context.Background(), userID, []uuid.UUID{productID}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != productID {
		t.Fatalf("deleted ids = %v", repo.deletedIDs)
	}

	// removing a line that is already gone is a no-op
	if err := svc.Remove(context.Background(), userID, []uuid.UUID{productID}); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestListFlagsUnavailableLines(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	liveID := uuid.New()
	goneID := uuid.New()

	repo := newStubCartRepo()
	repo.lines[liveID] = &models.CartItem{ID: uuid.New(), UserID: userID, ProductID: liveID, Quantity: 2}
	repo.lines[goneID] = &models.CartItem{ID: uuid.New(), UserID: userID, ProductID: goneID, Quantity: 1}

	lookup := &stubLookup{products: map[uuid.UUID]*models.Product{
		liveID: {ID: liveID, Title: "Pho bo", PriceUnits: 60000, DiscountPercent: 10, IsActive: true},
	}}
	svc := newTestService(t, repo, lookup)

	view, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(view.Lines))
	}

	byProduct := make(map[uuid.UUID]Line, len(view.Lines))
	for _, line := range view.Lines {
		byProduct[line.ProductID] = line
	}

	live := byProduct[liveID]
	if !live.Available || live.LineTotalUnits != 108000 {
		t.Fatalf("live line = %+v", live)
	}

	gone := byProduct[goneID]
	if gone.Available || gone.LineTotalUnits != 0 || gone.UnitPriceUnits != 0 {
		t.Fatalf("gone line = %+v", gone)
	}

	// only the available line counts toward the estimate
	if view.EstimatedTotalUnits != 108000 {
		t.Fatalf("estimated total = %d, want 108000", view.EstimatedTotalUnits)
	}
}
