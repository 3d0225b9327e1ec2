// Package clientip resolves the caller address of requests arriving through
// the authentication proxy and exposes it to the request context and logs.
package clientip

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// ForwardedHeaders are consulted in order before falling back to RemoteAddr.
var ForwardedHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

type contextKey struct{}

// GetIP returns the normalized client address of r, or "" when none of the
// candidates is a valid IP. X-Forwarded-For contributes its first valid entry.
func GetIP(r *http.Request) string {
	for _, header := range ForwardedHeaders {
		for candidate := range strings.SplitSeq(r.Header.Get(header), ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

func SetIPToContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

func GetIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware stores the client address in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(SetIPToContext(r.Context(), GetIP(r))))
	})
}

// LoggerExtractor returns a logger.ContextExtractor adding "client_ip".
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := GetIPFromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}
