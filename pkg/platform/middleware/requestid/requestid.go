// Package requestid assigns each request a stable identifier used for log
// correlation and error reporting.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"veridoc/pkg/requestcontext"
)

// Header is the inbound/outbound request ID header.
const Header = "X-Request-ID"

// Middleware propagates an existing X-Request-ID or generates a new one,
// storing it in the context and echoing it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		w.Header().Set(Header, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
