// Package requestid assigns every request a correlation ID, echoes it in the
// response and makes it available to services through requestcontext.
package requestid

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"verigate/pkg/requestcontext"
)

// Header carries the correlation ID in both directions.
const Header = "X-Request-ID"

const maxInboundLen = 128

// Middleware reuses a well-formed inbound X-Request-ID or generates a UUIDv4.
// This middleware should be applied early in the chain.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := FromRequest(r)
		w.Header().Set(Header, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromRequest returns the sanitized inbound request ID or a fresh one.
func FromRequest(r *http.Request) string {
	if in := strings.TrimSpace(r.Header.Get(Header)); in != "" && valid(in) {
		return in
	}
	return uuid.NewString()
}

// valid rejects IDs that could corrupt a CSV audit row or a log line.
func valid(s string) bool {
	if len(s) > maxInboundLen {
		return false
	}
	for _, c := range s {
		if !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' || c == '.') {
			return false
		}
	}
	return true
}
