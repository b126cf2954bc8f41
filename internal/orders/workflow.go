package orders

import (
	"fmt"

	"github.com/gomartvn/storefront-backend/pkg/enums"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
)

// forwardRank orders the fulfillment path. Cancelled sits outside the
// path and is reachable only from the states listed in cancellableFrom.
var forwardRank = map[enums.OrderStatus]int{
	enums.OrderStatusPendingPayment: 0,
	enums.OrderStatusPending:        1,
	enums.OrderStatusConfirmed:      2,
	enums.OrderStatusShipping:       3,
	enums.OrderStatusDelivered:      4,
}

var cancellableFrom = map[enums.OrderStatus]struct{}{
	enums.OrderStatusPending:   {},
	enums.OrderStatusConfirmed: {},
}

func illegalTransition(from, to enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("order cannot move from %s to %s", from, to)).
		WithDetails(map[string]any{"from": from.String(), "to": to.String()})
}

// CheckTransition validates a requested status change for the given
// actor. Same-status requests are the caller's no-op to short-circuit;
// this function assumes from != to.
//
// Staff may jump the order to any later state on the fulfillment path,
// skipping intermediate states, and may cancel while cancellation is
// still allowed. Customers can only cancel their own orders, and only
// while the order is pending or confirmed. Terminal states admit
// nothing.
func CheckTransition(from, to enums.OrderStatus, role enums.ActorRole) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown order status %q", to))
	}
	if from.IsTerminal() {
		return illegalTransition(from, to)
	}

	if to == enums.OrderStatusCancelled {
		if _, ok := cancellableFrom[from]; !ok {
			return illegalTransition(from, to)
		}
		return nil
	}

	if role != enums.ActorRoleStaff {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only staff can advance order status")
	}

	fromRank, ok := forwardRank[from]
	if !ok {
		return illegalTransition(from, to)
	}
	toRank, ok := forwardRank[to]
	if !ok || toRank <= fromRank {
		return illegalTransition(from, to)
	}
	return nil
}
