package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"orbithr/internal/transport/http/api"
)

// Recoverer converts panics into a 500 response instead of killing the
// connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("panic recovered",
					"panic", recovered,
					"method", r.Method,
					"path", r.URL.Path,
					"requestId", GetRequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				api.Internal(w, GetRequestID(r.Context()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
