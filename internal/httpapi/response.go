package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"darkitchen/internal/cart"
	"darkitchen/internal/gateway"
	"darkitchen/internal/identity"
	"darkitchen/internal/order"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors onto the wire taxonomy the client
// understands: 4xx with a refusal code, 5xx for everything unexpected.
func writeError(w http.ResponseWriter, err error) {
	var ite *order.InvalidTransitionError
	switch {
	case errors.As(err, &ite):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: gateway.CodeInvalidTransition, Message: ite.Error()})
	case errors.Is(err, order.ErrReasonRequired):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: gateway.CodeValidation, Message: err.Error()})
	case errors.Is(err, order.ErrCancelDeadline):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: gateway.CodeCancelDeadline, Message: err.Error()})
	case errors.Is(err, order.ErrStatusConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Code: gateway.CodeStatusConflict, Message: err.Error()})
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, identity.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: gateway.CodeNotFound, Message: err.Error()})
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: gateway.CodeUnauthorized, Message: err.Error()})
	case errors.Is(err, identity.ErrEmailExists):
		writeJSON(w, http.StatusConflict, errorResponse{Code: gateway.CodeEmailExists, Message: err.Error()})
	case errors.Is(err, cart.ErrNoItems),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrNegativePrice),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, order.ErrUnknownRole):
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: gateway.CodeValidation, Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "internal server error"})
	}
}
