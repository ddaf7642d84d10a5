package order

import (
	"math"
	"time"
)

// Status is the fulfillment state of an order. The wire values are the
// ones the kitchen staff knows, kept as-is across client and backend.
type Status string

const (
	StatusPlaced       Status = "EN_ATTENTE"
	StatusPreparing    Status = "EN_PREPARATION"
	StatusReady        Status = "PRET"
	StatusDelivering   Status = "EN_LIVRAISON"
	StatusDelivered    Status = "LIVREE"
	StatusNotDelivered Status = "NON_LIVREE"
	StatusCancelled    Status = "ANNULEE"
)

var allStatuses = []Status{
	StatusPlaced, StatusPreparing, StatusReady, StatusDelivering,
	StatusDelivered, StatusNotDelivered, StatusCancelled,
}

func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusNotDelivered || s == StatusCancelled
}

// Role is the actor requesting a transition.
type Role string

const (
	RoleClient Role = "client"
	RoleChef   Role = "chef"
	RoleDriver Role = "livreur"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleChef, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type OrderItem struct {
	ID       uint    `json:"id"`
	OrderID  uint    `json:"orderId"`
	DishID   uint    `json:"dishId"`
	DishName string  `json:"dishName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (i OrderItem) Subtotal() float64 {
	return math.Round(i.Price*float64(i.Quantity)*100) / 100
}

// Order is the persisted record of one customer order. The backend is
// the only writer; everything the dashboards hold is a cached copy.
// Identity and delivery fields are snapshots taken at submission, so
// later profile edits never alter past orders. TotalAmount is frozen at
// creation and never recomputed from Items.
type Order struct {
	ID              uint        `json:"orderId"`
	ClientID        uint        `json:"clientId"`
	Status          Status      `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	ClientFullName  string      `json:"clientFullName"`
	PhoneNumber     string      `json:"phoneNumber"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Notes           string      `json:"notes,omitempty"`
	OrderDate       time.Time   `json:"orderDate"`

	// One nullable timestamp per transition, set exactly once when the
	// corresponding transition fires.
	AcceptedAt  *time.Time `json:"acceptedAt,omitempty"`
	ReadyAt     *time.Time `json:"readyAt,omitempty"`
	PickedUpAt  *time.Time `json:"pickedUpAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	DeliveryNote  string `json:"deliveryNote,omitempty"`
	FailureReason string `json:"failureReason,omitempty"`
	CancelReason  string `json:"cancelReason,omitempty"`
}
