package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	m.ObserveSign("tss", ResultOK, 3, time.Millisecond)
	m.ObserveSign("tss", ResultOK, 1, time.Millisecond)
	m.ObserveSign("tss", ResultError, 0, time.Millisecond)
	m.ObserveVerify("lmots", ResultRejected)

	require.Equal(t, 2.0, testutil.ToFloat64(m.SignTotal.WithLabelValues("tss", ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.SignTotal.WithLabelValues("tss", ResultError)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.VerifyTotal.WithLabelValues("lmots", ResultRejected)))
	require.Equal(t, 1, testutil.CollectAndCount(m.SignAttempts))
}

func TestRegisterTwiceFails(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	require.Error(t, m.Register(reg))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveSign("lmots", ResultOK, 1, time.Second)
		m.ObserveVerify("lmots", ResultOK)
	})
}
