package middleware

import (
	"context"
	"net/http"
	"strings"

	"darkitchen/internal/identity"
)

type contextKey string

const claimsKey contextKey = "jwtClaims"

// AuthMiddleware attaches verified token claims to the request context.
// Requests without a valid token pass through anonymously; handlers
// that need an identity use ClaimsFrom and refuse on absence.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := identity.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ClaimsFrom(ctx context.Context) (*identity.CustomClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*identity.CustomClaims)
	return claims, ok
}
