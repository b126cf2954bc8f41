package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gomartvn/storefront-backend/api/middleware"
	"github.com/gomartvn/storefront-backend/api/responses"
	"github.com/gomartvn/storefront-backend/api/validators"
	"github.com/gomartvn/storefront-backend/internal/checkout"
	internalorders "github.com/gomartvn/storefront-backend/internal/orders"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
	"github.com/gomartvn/storefront-backend/pkg/logger"
	"github.com/gomartvn/storefront-backend/pkg/pagination"
	"github.com/gomartvn/storefront-backend/pkg/types"
)

type customerInfoRequest struct {
	FullName string                `json:"full_name" validate:"required"`
	Phone    string                `json:"phone" validate:"required"`
	Address  string                `json:"address" validate:"required"`
	Location *types.GeographyPoint `json:"location" validate:"required"`
}

type createOrderRequest struct {
	Customer      customerInfoRequest `json:"customer" validate:"required"`
	ProductIDs    []uuid.UUID         `json:"product_ids" validate:"required,min=1"`
	PaymentMethod string              `json:"payment_method" validate:"required"`
}

type createOrderResponse struct {
	Order            *internalorders.Detail `json:"order"`
	PaymentURL       *string                `json:"payment_url,omitempty"`
	PaymentLinkError *types.APIError        `json:"payment_link_error,omitempty"`
	CartWarning      string                 `json:"cart_warning,omitempty"`
}

// Create places an order from the caller's cart.
func Create(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.PlaceOrder(r.Context(), checkout.Input{
			UserID: middleware.UserIDFromContext(r.Context()),
			Customer: checkout.CustomerInfo{
				FullName: req.Customer.FullName,
				Phone:    req.Customer.Phone,
				Address:  req.Customer.Address,
				Location: req.Customer.Location,
			},
			ProductIDs:    req.ProductIDs,
			PaymentMethod: method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := createOrderResponse{
			Order:       internalorders.NewDetail(result.Order),
			PaymentURL:  result.PaymentURL,
			CartWarning: result.CartWarning,
		}
		if result.PaymentLinkErr != nil {
			resp.PaymentLinkError = &types.APIError{
				Code:    string(result.PaymentLinkErr.Code()),
				Message: result.PaymentLinkErr.Message(),
				Details: result.PaymentLinkErr.Details(),
			}
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// List returns the caller's order history; staff see every order.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var list *internalorders.OrderList
		if middleware.RoleFromContext(r.Context()) == enums.ActorRoleStaff {
			list, err = svc.ListAll(r.Context(), params, filters)
		} else {
			list, err = svc.ListOwn(r.Context(), middleware.UserIDFromContext(r.Context()), params, filters)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Detail returns the full order with its line snapshot.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), internalorders.AccessInput{
			OrderID:   orderID,
			ActorID:   middleware.UserIDFromContext(r.Context()),
			ActorRole: middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewDetail(order))
	}
}

// EditStatus moves an order through the status workflow.
func EditStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req struct {
			Status string `json:"status" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.SetStatus(r.Context(), internalorders.SetStatusInput{
			OrderID:   orderID,
			Target:    target,
			ActorID:   middleware.UserIDFromContext(r.Context()),
			ActorRole: middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewDetail(order))
	}
}

// Delete soft-deletes an order. Routing restricts this to staff.
func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.Delete(r.Context(), internalorders.AccessInput{
			OrderID:   orderID,
			ActorID:   middleware.UserIDFromContext(r.Context()),
			ActorRole: middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// RetryPaymentLink mints a fresh redirect URL for an order still
// awaiting payment.
func RetryPaymentLink(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.RetryPaymentLink(r.Context(), internalorders.AccessInput{
			OrderID:   orderID,
			ActorID:   middleware.UserIDFromContext(r.Context()),
			ActorRole: middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"payment_url": url})
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

func buildFilters(r *http.Request) (internalorders.ListFilters, error) {
	var filters internalorders.ListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("date_from")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_from")
		}
		filters.DateFrom = &from
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("date_to")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_to")
		}
		filters.DateTo = &to
	}
	return filters, nil
}
