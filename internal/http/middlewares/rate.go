package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPRateKey limita por IP y path. No lee el body.
func IPRateKey(r *http.Request) string {
	return helpers.ClientIP(r) + "|" + r.URL.Path
}

type RateLimitConfig struct {
	Limiter rate.Limiter
	KeyFunc RateKeyFunc
	// FlatError responde {"error": ...} en vez de AppError (handlers tipo función).
	FlatError bool
}

// WithRateLimit aplica el limiter. Si el limiter falla, el request pasa.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPRateKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limit error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if res.WindowTTL > 0 {
				resetAt := time.Now().Add(res.WindowTTL).Unix()
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds()+0.5)))
				}
				if cfg.FlatError {
					helpers.WriteErrorJSON(w, http.StatusTooManyRequests, errors.ErrRateLimitExceeded.Message)
					return
				}
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
