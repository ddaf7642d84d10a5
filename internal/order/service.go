package order

import (
	"context"
	"time"

	"darkitchen/internal/cart"
	"darkitchen/internal/logger"

	"go.uber.org/zap"
)

// CreateRequest is the checkout payload: an immutable cart snapshot
// plus the identity/delivery snapshot taken at submission time.
type CreateRequest struct {
	ClientID        uint
	Items           []cart.Item
	ClientFullName  string
	PhoneNumber     string
	DeliveryAddress string
	Notes           string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	ListByStatus(ctx context.Context, statuses []Status) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, requested Status, actor Role, payload TransitionPayload) (*Order, error)
	Cancel(ctx context.Context, orderID uint, actor Role, reason string) (*Order, error)
}

type service struct {
	repo         Repository
	deliveryFee  float64
	taxRate      float64
	cancelWindow time.Duration
	now          func() time.Time
}

func NewService(repo Repository, deliveryFee, taxRate float64, cancelWindow time.Duration) Service {
	return &service{
		repo:         repo,
		deliveryFee:  deliveryFee,
		taxRate:      taxRate,
		cancelWindow: cancelWindow,
		now:          time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("client_id", req.ClientID),
		zap.Int("item_count", len(req.Items)),
	)

	if err := cart.Validate(req.Items); err != nil {
		log.Warn("rejected order creation", zap.Error(err))
		return nil, err
	}

	// Pricing is frozen here. TotalAmount is stored and never derived
	// from items again, so catalog changes cannot reprice past orders.
	totals := cart.ComputeTotals(req.Items, s.deliveryFee, s.taxRate)

	items := make([]OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, OrderItem{
			DishID:   it.DishID,
			DishName: it.DishName,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	o := &Order{
		ClientID:        req.ClientID,
		Status:          StatusPlaced,
		Items:           items,
		TotalAmount:     totals.Total,
		ClientFullName:  req.ClientFullName,
		PhoneNumber:     req.PhoneNumber,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		OrderDate:       s.now(),
	}

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.Float64("total_amount", o.TotalAmount),
	)

	return o, nil
}

func (s *service) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) ListByStatus(ctx context.Context, statuses []Status) ([]*Order, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, ErrUnknownStatus
		}
	}
	return s.repo.ListByStatus(ctx, statuses)
}

// UpdateStatus is the authoritative transition path. It runs the same
// Decide table the dashboards use, then enforces the preconditions only
// the backend can know (cancellation deadline, concurrent updates).
func (s *service) UpdateStatus(ctx context.Context, orderID uint, requested Status, actor Role, payload TransitionPayload) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("order_id", orderID),
		zap.String("requested_status", string(requested)),
		zap.String("actor", string(actor)),
	)

	if !requested.Valid() {
		return nil, ErrUnknownStatus
	}
	if !actor.Valid() {
		return nil, ErrUnknownRole
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	auth, err := Decide(o.Status, requested, actor, payload)
	if err != nil {
		log.Warn("transition rejected", zap.String("current_status", string(o.Status)), zap.Error(err))
		return nil, err
	}

	now := s.now()

	if requested == StatusCancelled && now.Sub(o.OrderDate) > s.cancelWindow {
		log.Warn("cancellation past deadline", zap.Time("order_date", o.OrderDate))
		return nil, ErrCancelDeadline
	}

	if err := s.repo.ApplyTransition(ctx, orderID, auth, now); err != nil {
		log.Warn("transition not applied", zap.Error(err))
		return nil, err
	}

	log.Info("order status updated", zap.String("from", string(auth.From)), zap.String("to", string(auth.To)))

	return s.repo.GetByID(ctx, orderID)
}

func (s *service) Cancel(ctx context.Context, orderID uint, actor Role, reason string) (*Order, error) {
	return s.UpdateStatus(ctx, orderID, StatusCancelled, actor, TransitionPayload{Reason: reason})
}
