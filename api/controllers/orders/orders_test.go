package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gomartvn/storefront-backend/api/middleware"
	"github.com/gomartvn/storefront-backend/internal/checkout"
	internalorders "github.com/gomartvn/storefront-backend/internal/orders"
	"github.com/gomartvn/storefront-backend/pkg/db/models"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
	"github.com/gomartvn/storefront-backend/pkg/logger"
	"github.com/gomartvn/storefront-backend/pkg/pagination"
	"github.com/gomartvn/storefront-backend/pkg/types"
)

type stubCheckoutService struct {
	result   *checkout.Result
	err      error
	retryURL string
	retryErr error
	input    checkout.Input
}

func (s *stubCheckoutService) PlaceOrder(ctx context.Context, input checkout.Input) (*checkout.Result, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubCheckoutService) RetryPaymentLink(ctx context.Context, access internalorders.AccessInput) (string, error) {
	if s.retryErr != nil {
		return "", s.retryErr
	}
	return s.retryURL, nil
}

type stubOrdersService struct {
	order     *models.Order
	err       error
	setStatus internalorders.SetStatusInput
}

func (s *stubOrdersService) Get(ctx context.Context, access internalorders.AccessInput) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrdersService) ListOwn(ctx context.Context, ownerID uuid.UUID, params pagination.Params, filters internalorders.ListFilters) (*internalorders.OrderList, error) {
	return &internalorders.OrderList{}, s.err
}

func (s *stubOrdersService) ListAll(ctx context.Context, params pagination.Params, filters internalorders.ListFilters) (*internalorders.OrderList, error) {
	return &internalorders.OrderList{}, s.err
}

func (s *stubOrdersService) SetStatus(ctx context.Context, input internalorders.SetStatusInput) (*models.Order, error) {
	s.setStatus = input
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrdersService) Delete(ctx context.Context, access internalorders.AccessInput) error {
	return s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedRequest(method, target, body string, role enums.ActorRole) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := middleware.WithUserID(req.Context(), uuid.New())
	ctx = middleware.WithRole(ctx, role)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return envelope.Error
}

func TestCreateReturnsCreatedOrder(t *testing.T) {
	t.Parallel()

	url := "https://pay.example.com/session/abc"
	svc := &stubCheckoutService{result: &checkout.Result{
		Order: &models.Order{
			ID:         uuid.New(),
			Status:     enums.OrderStatusPendingPayment,
			TotalUnits: 230000,
		},
		PaymentURL: &url,
	}}

	body := `{
		"customer": {
			"full_name": "Nguyen Van A",
			"phone": "0901234567",
			"address": "1 Trang Tien, Hoan Kiem",
			"location": [105.8, 21.0]
		},
		"product_ids": ["` + uuid.NewString() + `"],
		"payment_method": "vnpay"
	}`

	rec := httptest.NewRecorder()
	Create(svc, testLogger()).ServeHTTP(rec, authedRequest(http.MethodPost, "/order/post", body, enums.ActorRoleCustomer))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.input.PaymentMethod != enums.PaymentMethodVNPay {
		t.Fatalf("payment method = %s", svc.input.PaymentMethod)
	}

	var envelope struct {
		Data createOrderResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data.PaymentURL == nil || *envelope.Data.PaymentURL != url {
		t.Fatalf("payment url = %v", envelope.Data.PaymentURL)
	}
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	rec := httptest.NewRecorder()
	Create(svc, testLogger()).ServeHTTP(rec, authedRequest(http.MethodPost, "/order/post", `{"product_ids": []`, enums.ActorRoleCustomer))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateRejectsUnknownPaymentMethod(t *testing.T) {
	t.Parallel()

	body := `{
		"customer": {
			"full_name": "Nguyen Van A",
			"phone": "0901234567",
			"address": "1 Trang Tien",
			"location": [105.8, 21.0]
		},
		"product_ids": ["` + uuid.NewString() + `"],
		"payment_method": "barter"
	}`

	rec := httptest.NewRecorder()
	Create(&stubCheckoutService{}, testLogger()).ServeHTTP(rec, authedRequest(http.MethodPost, "/order/post", body, enums.ActorRoleCustomer))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("code = %s", apiErr.Code)
	}
}

func TestCreateSurfacesPaymentLinkError(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{result: &checkout.Result{
		Order:          &models.Order{ID: uuid.New(), Status: enums.OrderStatusPendingPayment},
		PaymentLinkErr: pkgerrors.New(pkgerrors.CodePaymentLink, "provider down"),
	}}

	body := `{
		"customer": {
			"full_name": "Nguyen Van A",
			"phone": "0901234567",
			"address": "1 Trang Tien",
			"location": [105.8, 21.0]
		},
		"product_ids": ["` + uuid.NewString() + `"],
		"payment_method": "momo"
	}`

	rec := httptest.NewRecorder()
	Create(svc, testLogger()).ServeHTTP(rec, authedRequest(http.MethodPost, "/order/post", body, enums.ActorRoleCustomer))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	var envelope struct {
		Data createOrderResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data.PaymentLinkError == nil || envelope.Data.PaymentLinkError.Code != string(pkgerrors.CodePaymentLink) {
		t.Fatalf("payment link error = %+v", envelope.Data.PaymentLinkError)
	}
	if envelope.Data.Order == nil {
		t.Fatal("order missing from body")
	}
}

func TestEditStatusMapsStateConflict(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot move from delivered to pending").
		WithDetails(map[string]any{"from": "delivered", "to": "pending"})}

	router := chi.NewRouter()
	router.Patch("/order/edit/{orderId}", EditStatus(svc, testLogger()))

	target := "/order/edit/" + uuid.NewString()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPatch, target, `{"status": "pending"}`, enums.ActorRoleStaff))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("code = %s", apiErr.Code)
	}
	details, ok := apiErr.Details.(map[string]any)
	if !ok || details["from"] != "delivered" {
		t.Fatalf("details = %+v", apiErr.Details)
	}
}

func TestEditStatusRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Patch("/order/edit/{orderId}", EditStatus(&stubOrdersService{}, testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPatch, "/order/edit/"+uuid.NewString(), `{"status": "archived"}`, enums.ActorRoleStaff))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDetailWritesWireFieldNames(t *testing.T) {
	t.Parallel()

	link := "https://pay.example.com/session/abc"
	svc := &stubOrdersService{order: &models.Order{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		Status:           enums.OrderStatusConfirmed,
		CustomerFullName: "Nguyen Van A",
		PaymentMethod:    enums.PaymentMethodVNPay,
		TotalUnits:       230000,
		PaymentLink:      &link,
		Lines: []models.OrderLineItem{
			{ProductID: uuid.New(), Title: "Ca phe sua da", UnitPriceUnits: 100000, Quantity: 2, LineTotalUnits: 180000},
		},
	}}

	router := chi.NewRouter()
	router.Get("/order/detail/{orderId}", Detail(svc, testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/order/detail/"+svc.order.ID.String(), "", enums.ActorRoleCustomer))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	for _, key := range []string{"id", "owner_id", "status", "customer_full_name", "payment_method", "total_units", "payment_link", "lines", "created_at"} {
		if _, ok := envelope.Data[key]; !ok {
			t.Fatalf("missing field %q in %v", key, envelope.Data)
		}
	}
	for _, key := range []string{"Deleted", "UpdatedAt", "TotalUnits", "OwnerID"} {
		if _, ok := envelope.Data[key]; ok {
			t.Fatalf("storage field %q leaked into the body", key)
		}
	}

	lines, ok := envelope.Data["lines"].([]any)
	if !ok || len(lines) != 1 {
		t.Fatalf("lines = %v", envelope.Data["lines"])
	}
	line, ok := lines[0].(map[string]any)
	if !ok {
		t.Fatalf("line = %T", lines[0])
	}
	if _, ok := line["line_total_units"]; !ok {
		t.Fatalf("line fields = %v", line)
	}
}

func TestDetailNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}

	router := chi.NewRouter()
	router.Get("/order/detail/{orderId}", Detail(svc, testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/order/detail/"+uuid.NewString(), "", enums.ActorRoleCustomer))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDetailRejectsBadOrderID(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/order/detail/{orderId}", Detail(&stubOrdersService{}, testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/order/detail/not-a-uuid", "", enums.ActorRoleCustomer))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRetryPaymentLinkReturnsURL(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{retryURL: "https://pay.example.com/session/new"}

	router := chi.NewRouter()
	router.Post("/api/v1/orders/{orderId}/payment-link", RetryPaymentLink(svc, testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/payment-link", "", enums.ActorRoleCustomer))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data["payment_url"] != svc.retryURL {
		t.Fatalf("payment url = %s", envelope.Data["payment_url"])
	}
}
