package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrUnknownStatus  = errors.New("unknown order status")
	ErrUnknownRole    = errors.New("unknown actor role")
	ErrReasonRequired = errors.New("a failure reason is required to mark an order as not delivered")
	ErrCancelDeadline = errors.New("cancellation deadline has passed")
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// InvalidTransitionError is the engine rejection for any (from, to,
// actor) tuple outside the transition table.
type InvalidTransitionError struct {
	From  Status
	To    Status
	Actor Role
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s for role %s", e.From, e.To, e.Actor)
}
