package checkout

import (
	"darkitchen/internal/cart"
	"darkitchen/internal/identity"

	"github.com/google/uuid"
)

// SessionContext owns the only mutable client-side state: the cart and
// the cached identity. It is passed explicitly to the wizard and the
// dashboards instead of living in ambient storage, so everything that
// touches it is testable without a storage backend. One session, one
// goroutine; last writer wins.
type SessionContext struct {
	ID       uuid.UUID
	Cart     []cart.Item
	Identity *identity.Identity
}

func NewSession() *SessionContext {
	return &SessionContext{ID: uuid.New()}
}

// AddItem merges quantity into an existing line for the same dish.
func (s *SessionContext) AddItem(item cart.Item) {
	for i := range s.Cart {
		if s.Cart[i].DishID == item.DishID {
			s.Cart[i].Quantity += item.Quantity
			return
		}
	}
	s.Cart = append(s.Cart, item)
}

func (s *SessionContext) RemoveItem(dishID uint) {
	for i := range s.Cart {
		if s.Cart[i].DishID == dishID {
			s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
			return
		}
	}
}

func (s *SessionContext) ClearCart() {
	s.Cart = nil
}
