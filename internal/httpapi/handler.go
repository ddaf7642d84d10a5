package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"darkitchen/internal/cart"
	"darkitchen/internal/gateway"
	"darkitchen/internal/identity"
	"darkitchen/internal/middleware"
	"darkitchen/internal/order"
)

type Handler struct {
	identitySvc identity.Service
	orderSvc    order.Service
}

func NewHandler(identitySvc identity.Service, orderSvc order.Service) *Handler {
	return &Handler{identitySvc: identitySvc, orderSvc: orderSvc}
}

type authResponse struct {
	Token    string            `json:"token"`
	Identity identity.Identity `json:"identity"`
}

func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(r.PathValue("email"))
	if err != nil || email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: gateway.CodeValidation, Message: "email is required"})
		return
	}

	exists, err := h.identitySvc.Exists(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var profile identity.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: gateway.CodeValidation, Message: "malformed request body"})
		return
	}

	token, id, err := h.identitySvc.Register(r.Context(), profile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, Identity: id})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: gateway.CodeValidation, Message: "malformed request body"})
		return
	}

	token, id, err := h.identitySvc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Identity: id})
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: gateway.CodeUnauthorized, Message: "authentication required"})
		return
	}

	var body struct {
		Items           []cart.Item `json:"items"`
		ClientFullName  string      `json:"clientFullName"`
		PhoneNumber     string      `json:"phoneNumber"`
		DeliveryAddress string      `json:"deliveryAddress"`
		Notes           string      `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: gateway.CodeValidation, Message: "malformed request body"})
		return
	}

	o, err := h.orderSvc.Create(r.Context(), order.CreateRequest{
		ClientID:        claims.ClientID,
		Items:           body.Items,
		ClientFullName:  body.ClientFullName,
		PhoneNumber:     body.PhoneNumber,
		DeliveryAddress: body.DeliveryAddress,
		Notes:           body.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uint{"orderId": o.ID})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var statuses []order.Status
	for _, s := range r.URL.Query()["status"] {
		statuses = append(statuses, order.Status(s))
	}
	if len(statuses) == 0 {
		statuses = order.AllStatuses()
	}

	orders, err := h.orderSvc.ListByStatus(r.Context(), statuses)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status  order.Status            `json:"status"`
		Role    order.Role              `json:"role"`
		Payload order.TransitionPayload `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: gateway.CodeValidation, Message: "malformed request body"})
		return
	}

	o, err := h.orderSvc.UpdateStatus(r.Context(), orderID, body.Status, body.Role, body.Payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: gateway.CodeValidation, Message: "malformed request body"})
		return
	}

	// Admins cancel on the admin dashboard; everyone else cancels as
	// the client who placed the order.
	actor := order.RoleClient
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok && claims.Role == string(order.RoleAdmin) {
		actor = order.RoleAdmin
	}

	o, err := h.orderSvc.Cancel(r.Context(), orderID, actor, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: gateway.CodeValidation, Message: "invalid order id"})
		return 0, false
	}
	return uint(id), true
}
