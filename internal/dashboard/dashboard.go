package dashboard

import (
	"context"
	"errors"
	"sort"
	"time"

	"darkitchen/internal/gateway"
	"darkitchen/internal/logger"
	"darkitchen/internal/order"
	"darkitchen/internal/poller"

	"go.uber.org/zap"
)

// ErrMutationInFlight blocks a second transition for the same order
// while the previous one has not resolved yet.
var ErrMutationInFlight = errors.New("a transition for this order is still in flight")

// Dashboard is one role's view of the orders: a read-only cached copy
// fed by polling, plus the transition submission path. The engine check
// here is advisory; the backend stays authoritative and a lost race is
// reconciled by the next refresh.
type Dashboard struct {
	backend gateway.Backend
	role    order.Role
	poller  *poller.Poller

	cache    map[uint]*order.Order
	inflight map[uint]bool
}

func New(backend gateway.Backend, role order.Role, pollInterval time.Duration) *Dashboard {
	return &Dashboard{
		backend:  backend,
		role:     role,
		poller:   poller.New(backend, role, pollInterval),
		cache:    make(map[uint]*order.Order),
		inflight: make(map[uint]bool),
	}
}

func (d *Dashboard) Role() order.Role { return d.role }

// Poller exposes the badge-count poller, e.g. to drive Run in a
// per-dashboard goroutine.
func (d *Dashboard) Poller() *poller.Poller { return d.poller }

// Refresh re-fetches the role's orders and rebuilds the cache from the
// backend's answer. Any optimistic patch not confirmed by the backend
// is discarded here.
func (d *Dashboard) Refresh(ctx context.Context) (*poller.Snapshot, error) {
	snap, err := d.poller.Poll(ctx)
	if err != nil {
		return nil, err
	}

	d.cache = make(map[uint]*order.Order, len(snap.Records))
	for _, o := range snap.Records {
		d.cache[o.ID] = o
	}

	return snap, nil
}

// Orders returns the cached records, newest first.
func (d *Dashboard) Orders() []*order.Order {
	orders := make([]*order.Order, 0, len(d.cache))
	for _, o := range d.cache {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders
}

func (d *Dashboard) Get(orderID uint) (*order.Order, bool) {
	o, ok := d.cache[orderID]
	return o, ok
}

// SubmitTransition validates the requested transition locally, issues
// the backend mutation, and patches the cache only after the backend
// confirms. One in-flight mutation per order; the backend's answer
// replaces the cached copy wholesale.
func (d *Dashboard) SubmitTransition(ctx context.Context, orderID uint, requested order.Status, payload order.TransitionPayload) (*order.Order, error) {
	o, ok := d.cache[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}

	if d.inflight[orderID] {
		return nil, ErrMutationInFlight
	}

	// Advisory check against the cached state; catches obviously
	// illegal actions before any network call.
	if _, err := order.Decide(o.Status, requested, d.role, payload); err != nil {
		return nil, err
	}

	d.inflight[orderID] = true
	defer delete(d.inflight, orderID)

	var updated *order.Order
	var err error
	if requested == order.StatusCancelled {
		updated, err = d.backend.CancelOrder(ctx, orderID, payload.Reason)
	} else {
		updated, err = d.backend.UpdateStatus(ctx, orderID, requested, d.role, payload)
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("transition submission failed",
			zap.Uint("order_id", orderID),
			zap.String("requested_status", string(requested)),
			zap.Error(err),
		)
		return nil, err
	}

	d.cache[orderID] = updated

	return updated, nil
}
