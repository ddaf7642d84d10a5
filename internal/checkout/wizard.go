package checkout

import (
	"context"
	"strings"

	"darkitchen/internal/cart"
	"darkitchen/internal/gateway"
	"darkitchen/internal/identity"
	"darkitchen/internal/logger"

	"go.uber.org/zap"
)

// Step is the wizard position. Steps are strictly sequential; each has
// a validation gate that blocks forward progress until satisfied.
type Step int

const (
	StepCart Step = iota + 1
	StepIdentify
	StepDetails
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepCart:
		return "cart"
	case StepIdentify:
		return "identify"
	case StepDetails:
		return "details"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// DeliveryDetails is the identity/delivery snapshot entered at step 3.
// It is copied onto the order at submission; later profile edits never
// reach past orders.
type DeliveryDetails struct {
	FullName        string
	PhoneNumber     string
	DeliveryAddress string
	Notes           string
}

// Wizard drives the four-step checkout. It is single-threaded and
// cooperative: each step's backend call resolves before the next gate
// is evaluated. Backward navigation never destroys data entered in
// later steps.
type Wizard struct {
	session  *SessionContext
	backend  gateway.Backend
	resolver *identity.Resolver

	deliveryFee float64
	taxRate     float64

	step          Step
	pendingBranch identity.Branch
	pendingEmail  string
	details       DeliveryDetails
	submitting    bool
	orderID       uint
}

func NewWizard(session *SessionContext, backend gateway.Backend, deliveryFee, taxRate float64) *Wizard {
	return &Wizard{
		session:     session,
		backend:     backend,
		resolver:    identity.NewResolver(backend),
		deliveryFee: deliveryFee,
		taxRate:     taxRate,
		step:        StepCart,
	}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Details() DeliveryDetails { return w.details }

// OrderID is the id of the order created by a successful submission.
func (w *Wizard) OrderID() uint { return w.orderID }

// Totals derives the review figures from the current cart snapshot.
func (w *Wizard) Totals() cart.Totals {
	return cart.ComputeTotals(w.session.Cart, w.deliveryFee, w.taxRate)
}

// Back moves one step backwards. Anything already entered in later
// steps is retained for idempotent re-display.
func (w *Wizard) Back() {
	if w.step > StepCart {
		w.step--
	}
}

// AdvanceFromCart gates on a non-empty cart.
func (w *Wizard) AdvanceFromCart() error {
	if w.step != StepCart {
		return ErrWrongStep
	}
	if len(w.session.Cart) == 0 {
		return &ValidationError{Field: "cart", Reason: "cannot be empty"}
	}
	w.step = StepIdentify
	return nil
}

// AdvanceFromIdentify resolves the identity branch for the entered
// email. When the cached identity already matches it, the step
// completes immediately without a resolution call. Otherwise the
// returned branch tells the caller which sub-flow to present; the step
// stays open until CompleteLogin or CompleteRegistration succeeds.
func (w *Wizard) AdvanceFromIdentify(ctx context.Context, email string) (identity.Branch, error) {
	if w.step != StepIdentify {
		return "", ErrWrongStep
	}
	if err := validateEmail(email); err != nil {
		return "", err
	}

	if w.session.Identity != nil && strings.EqualFold(w.session.Identity.Email, email) {
		w.prefillFromIdentity()
		w.step = StepDetails
		return identity.BranchExisting, nil
	}

	branch, err := w.resolver.Resolve(ctx, email)
	if err != nil {
		// Surfaced with a retry affordance; neither branch is assumed.
		return "", err
	}

	w.pendingBranch = branch
	w.pendingEmail = email

	logger.FromCtx(ctx).Debug("identity branch resolved",
		zap.String("branch", string(branch)),
	)

	return branch, nil
}

// CompleteLogin finishes the Identify step for an existing account.
func (w *Wizard) CompleteLogin(ctx context.Context, password string) error {
	if w.step != StepIdentify || w.pendingEmail == "" {
		return ErrWrongStep
	}
	if w.pendingBranch != identity.BranchExisting {
		return ErrIdentityConflict
	}

	id, err := w.backend.Login(ctx, w.pendingEmail, password)
	if err != nil {
		return err
	}

	w.session.Identity = id
	w.finishIdentify()
	w.prefillFromIdentity()
	return nil
}

// CompleteRegistration finishes the Identify step for a new account.
// The Details step is prefilled from the registration payload.
func (w *Wizard) CompleteRegistration(ctx context.Context, profile identity.Profile) error {
	if w.step != StepIdentify || w.pendingEmail == "" {
		return ErrWrongStep
	}
	if w.pendingBranch != identity.BranchNew {
		return ErrIdentityConflict
	}

	profile.Email = w.pendingEmail
	if strings.TrimSpace(profile.Password) == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}

	id, err := w.backend.Register(ctx, profile)
	if err != nil {
		return err
	}

	w.session.Identity = id
	w.finishIdentify()

	if w.details.FullName == "" {
		w.details.FullName = profile.FullName
	}
	if w.details.PhoneNumber == "" {
		w.details.PhoneNumber = profile.PhoneNumber
	}
	if w.details.DeliveryAddress == "" {
		w.details.DeliveryAddress = profile.Address
	}
	return nil
}

// SetDetails validates and stores the delivery details, completing
// step 3. Re-submitting from a Back navigation is allowed.
func (w *Wizard) SetDetails(d DeliveryDetails) error {
	if w.step != StepDetails && w.step != StepReview {
		return ErrWrongStep
	}
	if err := validateDetails(d); err != nil {
		return err
	}
	w.details = d
	w.step = StepReview
	return nil
}

// Submit creates the order from the frozen cart snapshot. The cart is
// cleared only after the backend confirms; any failure leaves the
// wizard on the review step with the cart intact so a retry re-issues
// the identical request.
func (w *Wizard) Submit(ctx context.Context) (uint, error) {
	if w.step != StepReview {
		return 0, ErrWrongStep
	}
	if w.submitting {
		return 0, ErrSubmissionInFlight
	}

	// Re-check the gates; Back navigation may have changed things.
	if len(w.session.Cart) == 0 {
		return 0, &ValidationError{Field: "cart", Reason: "cannot be empty"}
	}
	if w.session.Identity == nil {
		return 0, &ValidationError{Field: "identity", Reason: "authentication is required"}
	}
	if err := validateDetails(w.details); err != nil {
		return 0, err
	}

	w.submitting = true
	defer func() { w.submitting = false }()

	req := gateway.CreateOrderRequest{
		Items:           cart.Snapshot(w.session.Cart),
		ClientFullName:  w.details.FullName,
		PhoneNumber:     w.details.PhoneNumber,
		DeliveryAddress: w.details.DeliveryAddress,
		Notes:           w.details.Notes,
	}

	orderID, err := w.backend.CreateOrder(ctx, req)
	if err != nil {
		logger.FromCtx(ctx).Warn("order submission failed", zap.Error(err))
		return 0, err
	}

	w.session.ClearCart()
	w.orderID = orderID

	logger.FromCtx(ctx).Info("order submitted", zap.Uint("order_id", orderID))

	return orderID, nil
}

func (w *Wizard) finishIdentify() {
	w.pendingBranch = ""
	w.pendingEmail = ""
	w.step = StepDetails
}

func (w *Wizard) prefillFromIdentity() {
	id := w.session.Identity
	if id == nil {
		return
	}
	if w.details.FullName == "" {
		w.details.FullName = id.FullName
	}
	if w.details.PhoneNumber == "" {
		w.details.PhoneNumber = id.PhoneNumber
	}
	if w.details.DeliveryAddress == "" {
		w.details.DeliveryAddress = id.Address
	}
}
