package httpapi

import (
	"net/http"

	"darkitchen/internal/logger"
	"darkitchen/internal/middleware"
)

// Routes assembles the backend's REST surface with the shared
// middleware chain: request id, logging, auth, rate limiting.
func Routes(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/auth/check-email/{email}", h.CheckEmail)
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/client/login", h.Login)

	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("PUT /api/orders/{id}/status", h.UpdateStatus)
	mux.HandleFunc("PUT /api/orders/{id}/cancel", h.CancelOrder)

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(handler)
	handler = middleware.AuthMiddleware(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	return handler
}
