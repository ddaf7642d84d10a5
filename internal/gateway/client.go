package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"context"
	"darkitchen/internal/identity"
	"darkitchen/internal/logger"
	"darkitchen/internal/order"

	"go.uber.org/zap"
)

type client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient builds the REST client for the order backend. The token is
// set after a successful login or registration and sent on every
// subsequent call.
func NewClient(baseURL string) Backend {
	return &client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type authResponse struct {
	Token    string            `json:"token"`
	Identity identity.Identity `json:"identity"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *client) IdentityExists(ctx context.Context, email string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	err := c.do(ctx, http.MethodGet, "/api/auth/check-email/"+url.PathEscape(email), nil, &out)
	if err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *client) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	body := map[string]string{"email": email, "password": password}

	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/client/login", body, &out); err != nil {
		return nil, err
	}

	c.token = out.Token
	return &out.Identity, nil
}

func (c *client) Register(ctx context.Context, profile identity.Profile) (*identity.Identity, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", profile, &out); err != nil {
		return nil, err
	}

	c.token = out.Token
	return &out.Identity, nil
}

func (c *client) CreateOrder(ctx context.Context, req CreateOrderRequest) (uint, error) {
	var out struct {
		OrderID uint `json:"orderId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &out); err != nil {
		return 0, err
	}
	return out.OrderID, nil
}

func (c *client) ListByStatus(ctx context.Context, statuses []order.Status) ([]*order.Order, error) {
	q := url.Values{}
	for _, s := range statuses {
		q.Add("status", string(s))
	}

	var out []*order.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) UpdateStatus(ctx context.Context, orderID uint, requested order.Status, actor order.Role, payload order.TransitionPayload) (*order.Order, error) {
	body := map[string]any{
		"status":  requested,
		"role":    actor,
		"payload": payload,
	}

	var out order.Order
	path := fmt.Sprintf("/api/orders/%d/status", orderID)
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) CancelOrder(ctx context.Context, orderID uint, reason string) (*order.Order, error) {
	body := map[string]string{"reason": reason}

	var out order.Order
	path := fmt.Sprintf("/api/orders/%d/cancel", orderID)
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one JSON round trip. Transport failures and 5xx answers
// become ErrUnavailable; 4xx answers become *RejectedError with the
// backend's refusal code.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("backend call failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		log.Warn("backend server error", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Code == "" {
			er = errorResponse{Code: CodeValidation, Message: resp.Status}
		}
		log.Warn("backend refusal", zap.String("code", er.Code), zap.String("message", er.Message))
		return &RejectedError{Code: er.Code, Message: er.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding backend response: %w", err)
	}
	return nil
}
