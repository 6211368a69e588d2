// Package metrics exposes prometheus instruments for signing and verification.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics groups the signer instruments. A nil *Metrics records nothing.
type Metrics struct {
	SignTotal    *prometheus.CounterVec
	SignAttempts *prometheus.HistogramVec
	SignLatency  *prometheus.HistogramVec
	VerifyTotal  *prometheus.CounterVec
}

// New builds unregistered instruments.
func New() *Metrics {
	return &Metrics{
		SignTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ringots_sign_total",
				Help: "Number of signing operations by outcome",
			},
			[]string{"scheme", "result"},
		),
		SignAttempts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ringots_sign_attempts",
				Help:    "Rejection-sampling attempts per signature",
				Buckets: prometheus.ExponentialBuckets(1, 2, 11),
			},
			[]string{"scheme"},
		),
		SignLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ringots_sign_latency_seconds",
				Help:    "Latency of signing operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scheme"},
		),
		VerifyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ringots_verify_total",
				Help: "Number of verifications by outcome",
			},
			[]string{"scheme", "result"},
		),
	}
}

// Register adds every instrument to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	var errs []error
	for _, c := range []prometheus.Collector{m.SignTotal, m.SignAttempts, m.SignLatency, m.VerifyTotal} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ObserveSign records one finished signing call.
func (m *Metrics) ObserveSign(scheme, result string, attempts int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SignTotal.WithLabelValues(scheme, result).Inc()
	if attempts > 0 {
		m.SignAttempts.WithLabelValues(scheme).Observe(float64(attempts))
	}
	m.SignLatency.WithLabelValues(scheme).Observe(elapsed.Seconds())
}

// ObserveVerify records one verification outcome.
func (m *Metrics) ObserveVerify(scheme, result string) {
	if m == nil {
		return
	}
	m.VerifyTotal.WithLabelValues(scheme, result).Inc()
}
