package gateway

import (
	"context"

	"darkitchen/internal/cart"
	"darkitchen/internal/identity"
	"darkitchen/internal/order"
)

// CreateOrderRequest is the checkout submission: the immutable cart
// snapshot plus the delivery info captured by the wizard. The client id
// comes from the session token, never from the body.
type CreateOrderRequest struct {
	Items           []cart.Item `json:"items"`
	ClientFullName  string      `json:"clientFullName"`
	PhoneNumber     string      `json:"phoneNumber"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Notes           string      `json:"notes,omitempty"`
}

// Backend is the collaborator surface the core consumes. The in-repo
// REST client implements it; tests substitute mocks.
type Backend interface {
	IdentityExists(ctx context.Context, email string) (bool, error)
	Login(ctx context.Context, email, password string) (*identity.Identity, error)
	Register(ctx context.Context, profile identity.Profile) (*identity.Identity, error)

	CreateOrder(ctx context.Context, req CreateOrderRequest) (uint, error)
	ListByStatus(ctx context.Context, statuses []order.Status) ([]*order.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, requested order.Status, actor order.Role, payload order.TransitionPayload) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID uint, reason string) (*order.Order, error)
}
