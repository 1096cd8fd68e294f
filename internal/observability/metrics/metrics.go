// Package metrics registra las métricas Prometheus del servicio.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once   sync.Once
	regErr error

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	twoFactorTotal  *prometheus.CounterVec
	guardDecisions  *prometheus.CounterVec
	emailsSentTotal *prometheus.CounterVec
)

// Register crea y registra los collectors una sola vez. Devuelve el handler de /metrics.
func Register(reg prometheus.Registerer) (http.Handler, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	once.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método",
		}, []string{"method"})

		twoFactorTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfa_verifications_total",
			Help: "Verificaciones de segundo factor por resultado",
		}, []string{"result"}) // success|missing_fields|invalid_credentials|not_found|inactive|expired|incorrect|error

		guardDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_guard_decisions_total",
			Help: "Decisiones del guard de rutas por tipo",
		}, []string{"decision"})

		emailsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Emails enviados por plantilla y resultado",
		}, []string{"template", "result"})

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			twoFactorTotal, guardDecisions, emailsSentTotal,
		} {
			if err := registerCollector(reg, c); err != nil {
				regErr = err
				return
			}
		}
	})
	if regErr != nil {
		return nil, regErr
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
	}
	return promhttp.Handler(), nil
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// ObserveHTTP registra un request terminado. No-op si Register no fue llamado.
func ObserveHTTP(method, route string, status int, seconds float64) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// InflightInc incrementa el gauge de requests en vuelo y devuelve la función que lo decrementa.
func InflightInc(method string) func() {
	if httpInflight == nil {
		return func() {}
	}
	g := httpInflight.WithLabelValues(method)
	g.Inc()
	return g.Dec
}

func TwoFactorResult(result string) {
	if twoFactorTotal != nil {
		twoFactorTotal.WithLabelValues(result).Inc()
	}
}

func GuardDecision(decision string) {
	if guardDecisions != nil {
		guardDecisions.WithLabelValues(decision).Inc()
	}
}

func EmailSent(template string, err error) {
	if emailsSentTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	emailsSentTotal.WithLabelValues(template, result).Inc()
}
