package gateway

import (
	"errors"
	"fmt"
)

// ErrUnavailable covers network failures, timeouts and 5xx responses.
// Callers surface it with a retry affordance; nothing is patched
// locally when it fires.
var ErrUnavailable = errors.New("backend unavailable")

// RejectedError is a business-rule refusal from the backend, e.g. the
// cancellation deadline has passed or the transition lost a race.
type RejectedError struct {
	Code    string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("backend rejected request (%s): %s", e.Code, e.Message)
}

// Refusal codes the backend answers with.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeCancelDeadline    = "CANCEL_DEADLINE"
	CodeStatusConflict    = "STATUS_CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeEmailExists       = "EMAIL_EXISTS"
)
