package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"darkitchen/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var gotClaims *identity.CustomClaims
	var hadClaims bool
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, hadClaims = ClaimsFrom(r.Context())
	}))

	t.Run("Valid token attaches claims", func(t *testing.T) {
		token, err := identity.GenerateJWT(7, "client", "jean@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, hadClaims)
		assert.Equal(t, uint(7), gotClaims.ClientID)
		assert.Equal(t, "jean@example.com", gotClaims.Email)
	})

	t.Run("Garbage token passes through anonymously", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, hadClaims)
	})

	t.Run("No header passes through anonymously", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, hadClaims)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Strict tier throttles auth endpoints", func(t *testing.T) {
		var last int
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/client/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			last = rec.Code
		}

		assert.Equal(t, http.StatusTooManyRequests, last)
	})

	t.Run("Other callers keep their own quota", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/client/login", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
