package order

import "strings"

// TransitionPayload carries the free-text inputs some transitions need.
// Reason doubles as the delivery failure reason (mandatory) and the
// cancellation reason (optional).
type TransitionPayload struct {
	DeliveryNote string `json:"deliveryNote,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Stamp names the timestamp field a transition sets on the record.
type Stamp string

const (
	StampAcceptedAt  Stamp = "accepted_at"
	StampReadyAt     Stamp = "ready_at"
	StampPickedUpAt  Stamp = "picked_up_at"
	StampCompletedAt Stamp = "completed_at"
	StampCancelledAt Stamp = "cancelled_at"
)

// Authorization is the engine's go-ahead: the validated transition plus
// the fields the caller must stamp on the record. The engine itself
// performs no I/O; callers issue the backend mutation and only patch
// local state after the backend confirms.
type Authorization struct {
	From  Status
	To    Status
	Actor Role
	Stamp Stamp

	DeliveryNote  string
	FailureReason string
	CancelReason  string
}

type transitionKey struct {
	from Status
	to   Status
}

type transitionRule struct {
	actors         []Role
	stamp          Stamp
	requiresReason bool
	allowsNote     bool
}

func (r transitionRule) allows(actor Role) bool {
	for _, a := range r.actors {
		if a == actor {
			return true
		}
	}
	return false
}

// The single source of truth for what each role may do. Centralized so
// the three dashboards and the backend cannot diverge on the rules.
// The cancellation deadline is not checked here; the backend owns it.
var transitions = map[transitionKey]transitionRule{
	{StatusPlaced, StatusPreparing}:        {actors: []Role{RoleChef, RoleAdmin}, stamp: StampAcceptedAt},
	{StatusPlaced, StatusCancelled}:        {actors: []Role{RoleClient, RoleAdmin}, stamp: StampCancelledAt},
	{StatusPreparing, StatusReady}:         {actors: []Role{RoleChef, RoleAdmin}, stamp: StampReadyAt},
	{StatusPreparing, StatusCancelled}:     {actors: []Role{RoleClient, RoleAdmin}, stamp: StampCancelledAt},
	{StatusReady, StatusDelivering}:        {actors: []Role{RoleDriver, RoleAdmin}, stamp: StampPickedUpAt},
	{StatusDelivering, StatusDelivered}:    {actors: []Role{RoleDriver, RoleAdmin}, stamp: StampCompletedAt, allowsNote: true},
	{StatusDelivering, StatusNotDelivered}: {actors: []Role{RoleDriver, RoleAdmin}, stamp: StampCompletedAt, requiresReason: true},
}

// Decide is the pure transition check: given the current status, the
// requested status, the acting role and the payload, it either
// authorizes the transition or rejects it. It never mutates anything.
func Decide(current, requested Status, actor Role, payload TransitionPayload) (*Authorization, error) {
	rule, ok := transitions[transitionKey{from: current, to: requested}]
	if !ok || !rule.allows(actor) {
		return nil, &InvalidTransitionError{From: current, To: requested, Actor: actor}
	}

	if rule.requiresReason && strings.TrimSpace(payload.Reason) == "" {
		return nil, ErrReasonRequired
	}

	auth := &Authorization{
		From:  current,
		To:    requested,
		Actor: actor,
		Stamp: rule.stamp,
	}

	switch requested {
	case StatusDelivered:
		if rule.allowsNote {
			auth.DeliveryNote = strings.TrimSpace(payload.DeliveryNote)
		}
	case StatusNotDelivered:
		auth.FailureReason = strings.TrimSpace(payload.Reason)
	case StatusCancelled:
		auth.CancelReason = strings.TrimSpace(payload.Reason)
	}

	return auth, nil
}

// CanTransition reports whether any actor could move an order from one
// status to another. Used by dashboards to decide which actions to
// offer at all.
func CanTransition(current, requested Status) bool {
	_, ok := transitions[transitionKey{from: current, to: requested}]
	return ok
}
