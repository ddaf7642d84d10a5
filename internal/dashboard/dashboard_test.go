package dashboard

import (
	"context"
	"testing"
	"time"

	"darkitchen/internal/gateway"
	"darkitchen/internal/identity"
	"darkitchen/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) IdentityExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, profile identity.Profile) (*identity.Identity, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockBackend) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (uint, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockBackend) ListByStatus(ctx context.Context, statuses []order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockBackend) UpdateStatus(ctx context.Context, orderID uint, requested order.Status, actor order.Role, payload order.TransitionPayload) (*order.Order, error) {
	args := m.Called(ctx, orderID, requested, actor, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockBackend) CancelOrder(ctx context.Context, orderID uint, reason string) (*order.Order, error) {
	args := m.Called(ctx, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func chefDashboardWith(t *testing.T, backend *MockBackend, orders ...*order.Order) *Dashboard {
	t.Helper()
	backend.On("ListByStatus", mock.Anything, mock.Anything).Return(orders, nil).Once()

	d := New(backend, order.RoleChef, 30*time.Second)
	_, err := d.Refresh(context.Background())
	require.NoError(t, err)
	return d
}

func TestDashboard_Refresh(t *testing.T) {
	backend := new(MockBackend)
	now := time.Now()
	d := chefDashboardWith(t, backend,
		&order.Order{ID: 1, Status: order.StatusPlaced, OrderDate: now.Add(-time.Minute)},
		&order.Order{ID: 2, Status: order.StatusPreparing, OrderDate: now},
	)

	orders := d.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, uint(2), orders[0].ID, "newest first")

	_, ok := d.Get(1)
	assert.True(t, ok)
}

func TestDashboard_SubmitTransition(t *testing.T) {
	t.Run("Chef accepts a placed order", func(t *testing.T) {
		backend := new(MockBackend)
		d := chefDashboardWith(t, backend,
			&order.Order{ID: 1, Status: order.StatusPlaced, OrderDate: time.Now()})

		backend.On("UpdateStatus", mock.Anything, uint(1), order.StatusPreparing, order.RoleChef, order.TransitionPayload{}).
			Return(&order.Order{ID: 1, Status: order.StatusPreparing}, nil)

		updated, err := d.SubmitTransition(context.Background(), 1, order.StatusPreparing, order.TransitionPayload{})

		require.NoError(t, err)
		assert.Equal(t, order.StatusPreparing, updated.Status)

		cached, _ := d.Get(1)
		assert.Equal(t, order.StatusPreparing, cached.Status, "cache patched after confirmation")
	})

	t.Run("Illegal action rejected before any network call", func(t *testing.T) {
		backend := new(MockBackend)
		d := chefDashboardWith(t, backend,
			&order.Order{ID: 1, Status: order.StatusPlaced, OrderDate: time.Now()})

		_, err := d.SubmitTransition(context.Background(), 1, order.StatusDelivered, order.TransitionPayload{})

		var ite *order.InvalidTransitionError
		require.ErrorAs(t, err, &ite)
		backend.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Backend refusal leaves cache untouched", func(t *testing.T) {
		backend := new(MockBackend)
		d := chefDashboardWith(t, backend,
			&order.Order{ID: 1, Status: order.StatusPlaced, OrderDate: time.Now()})

		backend.On("UpdateStatus", mock.Anything, uint(1), order.StatusPreparing, order.RoleChef, order.TransitionPayload{}).
			Return(nil, &gateway.RejectedError{Code: gateway.CodeStatusConflict, Message: "order status changed concurrently"})

		_, err := d.SubmitTransition(context.Background(), 1, order.StatusPreparing, order.TransitionPayload{})

		var rej *gateway.RejectedError
		require.ErrorAs(t, err, &rej)

		cached, _ := d.Get(1)
		assert.Equal(t, order.StatusPlaced, cached.Status, "local state stays until the next poll reconciles")
	})

	t.Run("Unknown order", func(t *testing.T) {
		backend := new(MockBackend)
		d := chefDashboardWith(t, backend)

		_, err := d.SubmitTransition(context.Background(), 99, order.StatusPreparing, order.TransitionPayload{})

		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("Second mutation for the same order blocked while in flight", func(t *testing.T) {
		backend := new(MockBackend)
		d := chefDashboardWith(t, backend,
			&order.Order{ID: 1, Status: order.StatusPlaced, OrderDate: time.Now()})
		d.inflight[1] = true

		_, err := d.SubmitTransition(context.Background(), 1, order.StatusPreparing, order.TransitionPayload{})

		assert.ErrorIs(t, err, ErrMutationInFlight)
	})

	t.Run("Cancellation goes through the cancel endpoint", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("ListByStatus", mock.Anything, mock.Anything).
			Return([]*order.Order{{ID: 1, Status: order.StatusPlaced, OrderDate: time.Now()}}, nil).Once()

		d := New(backend, order.RoleClient, 30*time.Second)
		_, err := d.Refresh(context.Background())
		require.NoError(t, err)

		backend.On("CancelOrder", mock.Anything, uint(1), "changed my mind").
			Return(&order.Order{ID: 1, Status: order.StatusCancelled}, nil)

		updated, err := d.SubmitTransition(context.Background(), 1, order.StatusCancelled, order.TransitionPayload{Reason: "changed my mind"})

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, updated.Status)
		backend.AssertNotCalled(t, "UpdateStatus")
	})
}
