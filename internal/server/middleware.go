package server

import (
	"net"
	"net/http"

	"github.com/google/uuid"

	"whisperd/internal/logging"
	"whisperd/internal/services"
)

// securityHeaders is the fixed hardening set applied to every response.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "DENY",
	"Referrer-Policy":              "no-referrer",
	"Cross-Origin-Resource-Policy": "same-origin",
	"Permissions-Policy":           "microphone=(self)",
	"Content-Security-Policy": "default-src 'self'; " +
		"script-src 'self'; " +
		"style-src 'self'; " +
		"media-src 'self' blob:; " +
		"img-src 'self' data:; " +
		"connect-src 'self'",
}

// wrap applies the cross-cutting request chain: correlation ID, client host
// resolution, hardening headers, and the POST host allowlist. The allowlist
// runs before routing so every POST path is gated.
func (s *Server) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for key, value := range securityHeaders {
			w.Header().Set(key, value)
		}

		host := clientHost(r)
		ctx := services.WithRequestID(r.Context(), uuid.NewString())
		ctx = services.WithClientHost(ctx, host)
		r = r.WithContext(ctx)

		if r.Method == http.MethodPost && !s.cfg.PostHostAllowed(host) {
			s.logger.Warn("rejected POST from disallowed host",
				logging.Args(logging.ContextFields(ctx)...)...)
			s.writeError(w, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientHost extracts the connecting host without the port. Proxy headers
// are deliberately ignored: the allowlist trusts the socket peer only.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
