// Package metadata extracts client network metadata early in the chain so
// handlers and audit events can attribute requests.
package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"veridoc/pkg/requestcontext"
)

// ClientMetadata extracts the client IP address and User-Agent from the
// request and adds them to the context. The User-Agent is stored in its
// parsed "Browser/Version (OS)" form so logs and audit events stay
// readable. Apply early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIPFromRequest(r)
		ua := DescribeUserAgent(r.Header.Get("User-Agent"))

		ctx := requestcontext.WithClientMetadata(r.Context(), ip, ua)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest extracts the real client IP, handling proxies and
// load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs; the first is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" (or "[::1]:port" for IPv6).
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}

// DescribeUserAgent renders a raw User-Agent as "Browser/Version (OS)" for
// structured logs. Unparseable agents are returned as-is, truncated.
func DescribeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		if len(raw) > 64 {
			return raw[:64]
		}
		return raw
	}
	if os := ua.OS(); os != "" {
		return name + "/" + version + " (" + os + ")"
	}
	return name + "/" + version
}
