package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentityConflict fires when a sub-flow contradicts the
	// resolved branch, e.g. login attempted after the resolver said the
	// email is new.
	ErrIdentityConflict = errors.New("identity branch conflict")

	// ErrSubmissionInFlight blocks a second submit while the create
	// call is still outstanding.
	ErrSubmissionInFlight = errors.New("an order submission is already in progress")

	ErrWrongStep = errors.New("operation not available at this step")
)

// ValidationError is resolved locally: the wizard blocks advancement
// and points at the offending field. It never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
