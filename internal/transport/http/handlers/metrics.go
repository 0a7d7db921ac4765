package handlers

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	loginOutcomeSuccess = "success"
	loginOutcomeFailure = "failure"
	loginOutcomeError   = "error"
)

// LoginMetricsOptions configures the login outcome counter.
type LoginMetricsOptions struct {
	Registerer prometheus.Registerer
	Namespace  string
}

// LoginMetrics counts login attempts partitioned by outcome.
type LoginMetrics struct {
	Outcomes *prometheus.CounterVec
}

// NewLoginMetrics constructs the login counter and registers it with the provided registerer.
func NewLoginMetrics(opts LoginMetricsOptions) (*LoginMetrics, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "accounts"
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts partitioned by outcome.",
	}, []string{"outcome"})

	if err := reg.Register(outcomes); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				outcomes = existing
			} else {
				return nil, fmt.Errorf("existing login collector has unexpected type %T", already.ExistingCollector)
			}
		} else {
			return nil, fmt.Errorf("register login collector: %w", err)
		}
	}

	return &LoginMetrics{Outcomes: outcomes}, nil
}

func (m *LoginMetrics) observe(outcome string) {
	if m == nil || m.Outcomes == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome).Inc()
}
