package orders

import (
	"testing"

	"github.com/gomartvn/storefront-backend/pkg/enums"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
)

func TestCheckTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		from     enums.OrderStatus
		to       enums.OrderStatus
		role     enums.ActorRole
		wantCode pkgerrors.Code
	}{
		{
			name: "staff advances one step",
			from: enums.OrderStatusPending, to: enums.OrderStatusConfirmed,
			role: enums.ActorRoleStaff,
		},
		{
			name: "staff skips ahead to delivered",
			from: enums.OrderStatusPending, to: enums.OrderStatusDelivered,
			role: enums.ActorRoleStaff,
		},
		{
			name: "staff cannot move backwards",
			from: enums.OrderStatusShipping, to: enums.OrderStatusConfirmed,
			role: enums.ActorRoleStaff, wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "customer cancels pending order",
			from: enums.OrderStatusPending, to: enums.OrderStatusCancelled,
			role: enums.ActorRoleCustomer,
		},
		{
			name: "customer cancels confirmed order",
			from: enums.OrderStatusConfirmed, to: enums.OrderStatusCancelled,
			role: enums.ActorRoleCustomer,
		},
		{
			name: "cancel rejected while awaiting payment",
			from: enums.OrderStatusPendingPayment, to: enums.OrderStatusCancelled,
			role: enums.ActorRoleCustomer, wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "cancel rejected once shipping",
			from: enums.OrderStatusShipping, to: enums.OrderStatusCancelled,
			role: enums.ActorRoleCustomer, wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "customer cannot advance status",
			from: enums.OrderStatusPending, to: enums.OrderStatusConfirmed,
			role: enums.ActorRoleCustomer, wantCode: pkgerrors.CodeForbidden,
		},
		{
			name: "delivered admits nothing",
			from: enums.OrderStatusDelivered, to: enums.OrderStatusShipping,
			role: enums.ActorRoleStaff, wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "cancelled cannot be resurrected",
			from: enums.OrderStatusCancelled, to: enums.OrderStatusPending,
			role: enums.ActorRoleStaff, wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "unknown target status",
			from: enums.OrderStatusPending, to: enums.OrderStatus("archived"),
			role: enums.ActorRoleStaff, wantCode: pkgerrors.CodeValidation,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := CheckTransition(tc.from, tc.to, tc.role)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !pkgerrors.IsCode(err, tc.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tc.wantCode)
			}
		})
	}
}

func TestCheckTransitionReportsEndpoints(t *testing.T) {
	t.Parallel()

	err := CheckTransition(enums.OrderStatusDelivered, enums.OrderStatusPending, enums.ActorRoleStaff)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("details = %T", typed.Details())
	}
	if details["from"] != "delivered" || details["to"] != "pending" {
		t.Fatalf("unexpected details: %+v", details)
	}
}
