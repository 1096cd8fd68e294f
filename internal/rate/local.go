package rate

import (
	"context"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"
	xrate "golang.org/x/time/rate"
)

// LocalLimiter es un token bucket por clave en memoria. Se usa cuando
// cache.kind=memory; no comparte estado entre réplicas.
type LocalLimiter struct {
	Max     int
	Window  time.Duration
	buckets *gocache.Cache
}

// NewLocalLimiter permite max eventos por ventana, con ráfaga de max.
// Los buckets inactivos por más de 2 ventanas se descartan.
// max <= 0 se toma como 1 y window <= 0 como un minuto.
func NewLocalLimiter(max int, window time.Duration) *LocalLimiter {
	max, window = sanitize(max, window)
	idle := 2 * window
	if idle < time.Minute {
		idle = time.Minute
	}
	return &LocalLimiter{
		Max:     max,
		Window:  window,
		buckets: gocache.New(idle, idle),
	}
}

func (l *LocalLimiter) bucket(key string) *xrate.Limiter {
	if v, ok := l.buckets.Get(key); ok {
		l.buckets.SetDefault(key, v)
		return v.(*xrate.Limiter)
	}
	every := l.Window / time.Duration(l.Max)
	lim := xrate.NewLimiter(xrate.Every(every), l.Max)
	if err := l.buckets.Add(key, lim, gocache.DefaultExpiration); err != nil {
		// otra goroutine lo creó primero
		if v, ok := l.buckets.Get(key); ok {
			return v.(*xrate.Limiter)
		}
	}
	return lim
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Result, error) {
	lim := l.bucket(key)
	now := time.Now()
	r := lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: time.Duration(math.Ceil(delay.Seconds())) * time.Second,
			WindowTTL:  l.Window,
		}, nil
	}
	remaining := int64(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:     true,
		Remaining:   remaining,
		WindowTTL:   l.Window,
		CurrentHits: int64(l.Max) - remaining,
	}, nil
}
