package apikey

import (
	"context"
	"net/http"
	"strings"

	"github.com/noah-isme/payment-simulator/internal/common"
	"github.com/noah-isme/payment-simulator/internal/session"
)

type ctxKey struct{}

// WithMethod stores the resolved payment-method identity on the context.
func WithMethod(ctx context.Context, method session.Method) context.Context {
	return context.WithValue(ctx, ctxKey{}, method)
}

// MethodFromContext extracts the payment-method identity set by the gate.
func MethodFromContext(ctx context.Context) (session.Method, bool) {
	method, ok := ctx.Value(ctxKey{}).(session.Method)
	return method, ok
}

// Gate authenticates API requests against the live key registry.
type Gate struct {
	Registry *Registry
}

// RequireKey rejects requests lacking a currently valid API key before any
// route logic runs. The key may arrive as a bearer token, a bare
// Authorization value, an X-API-Key header, or an api_key query parameter.
// The registry is consulted on every request, never cached, so rotations
// are honoured immediately.
func (g Gate) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Registry == nil {
			common.JSONError(w, http.StatusInternalServerError, "Authentication error", "API key registry not configured")
			return
		}
		key := extractKey(r)
		if key == "" {
			common.JSONError(w, http.StatusUnauthorized, "API key required",
				"Please provide an API key via Authorization header, X-API-Key header, or api_key query parameter")
			return
		}
		method, ok := g.Registry.Resolve(key)
		if !ok {
			common.JSONError(w, http.StatusUnauthorized, "Invalid API key", "The provided API key is not valid")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithMethod(r.Context(), method)))
	})
}

func extractKey(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if strings.HasPrefix(strings.ToLower(header), "bearer ") {
			return strings.TrimSpace(header[7:])
		}
		return header
	}
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	return strings.TrimSpace(r.URL.Query().Get("api_key"))
}
