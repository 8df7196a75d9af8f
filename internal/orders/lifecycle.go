package orders

import (
	"time"

	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
)

// CheckTransition validates a status change against the workflow rules.
// Staff may move an order between any two non-terminal statuses, but a
// terminal status accepts no further transitions.
func CheckTransition(current, next enums.OrderStatus) error {
	if !next.IsValid() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "unrecognized order status").
			WithDetails(map[string]any{"status": string(next)})
	}
	if current.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal status").
			WithDetails(map[string]any{
				"current":   string(current),
				"requested": string(next),
			})
	}
	return nil
}

// transitionStamps returns the timestamp columns set when entering the
// given status. completed_at and delivered_at are written once; re-entry
// is blocked by the terminal rule.
func transitionStamps(next enums.OrderStatus, now time.Time) map[string]any {
	stamps := map[string]any{}
	switch next {
	case enums.OrderStatusCompleted:
		stamps["completed_at"] = now
	case enums.OrderStatusDelivered:
		stamps["delivered_at"] = now
	case enums.OrderStatusCancelled:
		stamps["cancelled_at"] = now
	}
	return stamps
}
