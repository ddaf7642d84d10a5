package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"darkitchen/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListByStatus(ctx context.Context, statuses []order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func ordersAt(times ...time.Time) []*order.Order {
	orders := make([]*order.Order, 0, len(times))
	for i, ts := range times {
		orders = append(orders, &order.Order{ID: uint(i + 1), Status: order.StatusPlaced, OrderDate: ts})
	}
	return orders
}

func TestStatusFilter(t *testing.T) {
	assert.Equal(t, []order.Status{order.StatusPlaced, order.StatusPreparing}, StatusFilter(order.RoleChef))
	assert.Equal(t, []order.Status{order.StatusReady, order.StatusDelivering}, StatusFilter(order.RoleDriver))
	assert.Len(t, StatusFilter(order.RoleAdmin), 7)
}

func TestPoller_PollAndAcknowledge(t *testing.T) {
	base := time.Now()

	t.Run("First poll counts everything", func(t *testing.T) {
		backend := new(MockLister)
		backend.On("ListByStatus", mock.Anything, StatusFilter(order.RoleChef)).
			Return(ordersAt(base, base.Add(time.Minute)), nil)

		p := New(backend, order.RoleChef, 30*time.Second)
		snap, err := p.Poll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, snap.NewCount)
		assert.Equal(t, base.Add(time.Minute), snap.NewWatermark)
	})

	t.Run("Acknowledged orders stop counting", func(t *testing.T) {
		backend := new(MockLister)
		backend.On("ListByStatus", mock.Anything, mock.Anything).
			Return(ordersAt(base, base.Add(time.Minute)), nil).Once()

		p := New(backend, order.RoleChef, 30*time.Second)
		_, err := p.Poll(context.Background())
		require.NoError(t, err)

		wm := p.Acknowledge()
		assert.Equal(t, base.Add(time.Minute), wm)

		// Same two orders plus one newer on the next poll.
		backend.On("ListByStatus", mock.Anything, mock.Anything).
			Return(ordersAt(base, base.Add(time.Minute), base.Add(2*time.Minute)), nil).Once()

		snap, err := p.Poll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, snap.NewCount, "only the order past the watermark is new")
	})

	t.Run("Poll alone never advances the watermark", func(t *testing.T) {
		backend := new(MockLister)
		backend.On("ListByStatus", mock.Anything, mock.Anything).
			Return(ordersAt(base), nil)

		p := New(backend, order.RoleDriver, 30*time.Second)

		_, err := p.Poll(context.Background())
		require.NoError(t, err)
		_, err = p.Poll(context.Background())
		require.NoError(t, err)

		assert.True(t, p.Watermark().IsZero())
	})

	t.Run("Fetch error leaves state untouched", func(t *testing.T) {
		backend := new(MockLister)
		backend.On("ListByStatus", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		p := New(backend, order.RoleAdmin, 30*time.Second)
		_, err := p.Poll(context.Background())

		assert.Error(t, err)
		assert.True(t, p.Watermark().IsZero())
	})
}

func TestPoller_Run(t *testing.T) {
	base := time.Now()

	backend := new(MockLister)
	backend.On("ListByStatus", mock.Anything, mock.Anything).
		Return(ordersAt(base), nil)

	p := New(backend, order.RoleChef, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	snaps := make(chan *Snapshot, 16)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, func(s *Snapshot) {
			select {
			case snaps <- s:
			default:
			}
		})
	}()

	// At least the immediate poll and one tick.
	first := <-snaps
	assert.Equal(t, 1, first.NewCount)
	<-snaps

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
