package middleware

import (
	"context"
	"net/http"
	"strings"

	portalAuth "github.com/leanda/portalAuth"
)

// Authorizer resolves a bearer token. *portalAuth.Engine implements it.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (portalAuth.Identity, error)
}

type identityContextKey struct{}

// IdentityFromContext returns the identity stored by [Guard].
func IdentityFromContext(ctx context.Context) (portalAuth.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(portalAuth.Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying id. Guard uses it; handlers
// under test can use it to skip token handling.
func WithIdentity(ctx context.Context, id portalAuth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// Guard rejects requests without a valid bearer token with 401 and
// {"error":"unauthorized"}. Accepted requests carry the resolved identity in
// their context.
func Guard(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authorizer == nil {
				unauthorized(w)
				return
			}

			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			id, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(value string) (string, bool) {
	const bearer = "bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
}
