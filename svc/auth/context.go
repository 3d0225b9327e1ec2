package auth

import (
	"context"
	"net/http"
	"strings"
)

// Anonymous is the principal used when no caller identity is known.
const Anonymous = "anonymous"

// PrincipalHeader carries the caller identity set by the upstream
// authentication proxy.
const PrincipalHeader = "X-Principal"

type principalContextKey struct{}

// SetPrincipalToContext stores the acting principal in context for middleware chain access.
func SetPrincipalToContext(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext retrieves the acting principal from context.
// Returns Anonymous if none was stored.
func PrincipalFromContext(ctx context.Context) string {
	if ctx == nil {
		return Anonymous
	}
	principal, _ := ctx.Value(principalContextKey{}).(string)
	if principal == "" {
		return Anonymous
	}
	return principal
}

// Middleware copies the principal from the given request header into the
// request context. An empty header name uses PrincipalHeader.
func Middleware(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = PrincipalHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principal := strings.TrimSpace(r.Header.Get(header)); principal != "" {
				r = r.WithContext(SetPrincipalToContext(r.Context(), principal))
			}
			next.ServeHTTP(w, r)
		})
	}
}
