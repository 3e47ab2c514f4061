package prometheus

import (
	"errors"
	"fmt"

	"github.com/burggraf/reqheaders"
	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics is a Prometheus-backed implementation of
// reqheaders.Metrics.
type PrometheusMetrics struct {
	derivationTotal *prom.CounterVec
	securityEvents  *prom.CounterVec
}

// WithMetrics returns a reqheaders option that installs Prometheus-backed
// metrics using prom.DefaultRegisterer.
func WithMetrics() reqheaders.Option {
	return withMetricsFactory(New)
}

// WithRegisterer returns a reqheaders option that installs Prometheus-backed
// metrics using the provided registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used.
func WithRegisterer(registerer prom.Registerer) reqheaders.Option {
	return withMetricsFactory(func() (*PrometheusMetrics, error) {
		return NewWithRegisterer(registerer)
	})
}

// withMetricsFactory adapts a PrometheusMetrics constructor into a
// reqheaders.Option.
func withMetricsFactory(factory func() (*PrometheusMetrics, error)) reqheaders.Option {
	return func(c *reqheaders.Config) error {
		metrics, err := factory()
		if err != nil {
			return err
		}
		return reqheaders.WithMetrics(metrics)(c)
	}
}

// New creates PrometheusMetrics and registers its collectors on
// prom.DefaultRegisterer.
func New() (*PrometheusMetrics, error) {
	return NewWithRegisterer(prom.DefaultRegisterer)
}

// NewWithRegisterer creates PrometheusMetrics and registers its collectors
// on the given registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used. If the metrics are
// already registered, existing compatible collectors are reused.
func NewWithRegisterer(registerer prom.Registerer) (*PrometheusMetrics, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	derivationTotalCollector := prom.NewCounterVec(
		prom.CounterOpts{
			Name: "header_derivation_total",
			Help: "Total number of client signal derivation attempts by source header and result (derived, absent).",
		},
		[]string{"source", "result"},
	)
	securityEventsCollector := prom.NewCounterVec(
		prom.CounterOpts{
			Name: "header_introspection_security_events_total",
			Help: "Security-related events during header introspection, labeled by event.",
		},
		[]string{"event"},
	)

	derivationTotal, err := registerCounterVec(registerer, derivationTotalCollector, "header_derivation_total")
	if err != nil {
		return nil, err
	}

	securityEvents, err := registerCounterVec(registerer, securityEventsCollector, "header_introspection_security_events_total")
	if err != nil {
		return nil, err
	}

	return &PrometheusMetrics{
		derivationTotal: derivationTotal,
		securityEvents:  securityEvents,
	}, nil
}

func registerCounterVec(registerer prom.Registerer, collector *prom.CounterVec, metricName string) (*prom.CounterVec, error) {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prom.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(*prom.CounterVec)
			if ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %q already registered with incompatible collector type %T", metricName, alreadyRegistered.ExistingCollector)
		}

		return nil, fmt.Errorf("register metric %q: %w", metricName, err)
	}

	return collector, nil
}

// RecordDerivationSuccess increments header_derivation_total with
// result="derived" for the provided source.
func (m *PrometheusMetrics) RecordDerivationSuccess(source string) {
	m.derivationTotal.WithLabelValues(source, "derived").Inc()
}

// RecordDerivationAbsent increments header_derivation_total with
// result="absent" for the provided source.
func (m *PrometheusMetrics) RecordDerivationAbsent(source string) {
	m.derivationTotal.WithLabelValues(source, "absent").Inc()
}

// RecordSecurityEvent increments
// header_introspection_security_events_total for the provided event label.
func (m *PrometheusMetrics) RecordSecurityEvent(event string) {
	m.securityEvents.WithLabelValues(event).Inc()
}
