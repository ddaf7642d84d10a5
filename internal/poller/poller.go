package poller

import (
	"context"
	"time"

	"darkitchen/internal/logger"
	"darkitchen/internal/order"

	"go.uber.org/zap"
)

// Lister is the single backend call a dashboard poller needs.
type Lister interface {
	ListByStatus(ctx context.Context, statuses []order.Status) ([]*order.Order, error)
}

// Snapshot is one poll result: the visible records, how many arrived
// after the acknowledged watermark, and the candidate new watermark.
type Snapshot struct {
	Records      []*order.Order
	NewCount     int
	NewWatermark time.Time
}

// StatusFilter maps a role to the statuses its dashboard shows.
func StatusFilter(role order.Role) []order.Status {
	switch role {
	case order.RoleChef:
		return []order.Status{order.StatusPlaced, order.StatusPreparing}
	case order.RoleDriver:
		return []order.Status{order.StatusReady, order.StatusDelivering}
	default:
		return order.AllStatuses()
	}
}

// Poller periodically re-fetches the orders relevant to one role and
// derives the "new since last acknowledged" badge count. The count is
// derived, not authoritative: watermarks live in this poller only, so
// two open sessions keep independent ones.
type Poller struct {
	backend  Lister
	role     order.Role
	statuses []order.Status
	interval time.Duration

	watermark time.Time
	lastSeen  time.Time
}

func New(backend Lister, role order.Role, interval time.Duration) *Poller {
	return &Poller{
		backend:  backend,
		role:     role,
		statuses: StatusFilter(role),
		interval: interval,
	}
}

// Poll fetches the role's orders and counts those newer than the
// acknowledged watermark. It advances nothing; call Acknowledge when
// the user has actually looked at the list.
func (p *Poller) Poll(ctx context.Context) (*Snapshot, error) {
	records, err := p.backend.ListByStatus(ctx, p.statuses)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Records: records, NewWatermark: p.watermark}
	for _, o := range records {
		if o.OrderDate.After(p.watermark) {
			snap.NewCount++
		}
		if o.OrderDate.After(snap.NewWatermark) {
			snap.NewWatermark = o.OrderDate
		}
	}

	p.lastSeen = snap.NewWatermark

	return snap, nil
}

// Acknowledge advances the watermark to the newest record seen, so the
// next poll counts only orders that arrive after it.
func (p *Poller) Acknowledge() time.Time {
	if p.lastSeen.After(p.watermark) {
		p.watermark = p.lastSeen
	}
	return p.watermark
}

func (p *Poller) Watermark() time.Time { return p.watermark }

// Run polls once immediately, then on every tick until the context is
// cancelled. Fetch failures are logged and the loop keeps going; the
// next tick retries.
func (p *Poller) Run(ctx context.Context, fn func(*Snapshot)) {
	log := logger.FromCtx(ctx).With(zap.String("role", string(p.role)))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		snap, err := p.Poll(ctx)
		if err != nil {
			log.Warn("dashboard poll failed", zap.Error(err))
		} else {
			fn(snap)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
