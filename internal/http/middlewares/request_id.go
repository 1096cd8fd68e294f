package middlewares

import (
	"net/http"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/ids"
)

// WithRequestID respeta el X-Request-ID del cliente (hasta 128 chars) o genera
// un ULID nuevo.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
			if rid == "" || len(rid) > 128 {
				rid = ids.New()
			}
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(setRequestID(r.Context(), rid)))
		})
	}
}
