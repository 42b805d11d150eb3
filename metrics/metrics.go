// Package metrics exports value object construction metrics to Prometheus.
package metrics

import (
	"errors"

	"github.com/authcorp/valueobject/validation"
	"github.com/authcorp/valueobject/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "valueobject"

// Construction outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Observer implements vo.Observer and counts construction attempts per
// class and outcome.
type Observer struct {
	ConstructedTotal      *prometheus.CounterVec
	ValidationIssuesTotal *prometheus.CounterVec
	RegistryKinds         prometheus.GaugeFunc
}

var _ vo.Observer = (*Observer)(nil)

type options struct {
	registry *vo.Registry
}

// Option configures an Observer.
type Option func(*options)

// WithRegistry sets the registry whose size is exported. The default
// registry is used otherwise.
func WithRegistry(r *vo.Registry) Option {
	return func(o *options) { o.registry = r }
}

// NewObserver creates an Observer with its metrics registered to reg. A nil
// reg registers to the Prometheus default registerer.
func NewObserver(namespace string, reg prometheus.Registerer, opts ...Option) *Observer {
	o := options{registry: vo.DefaultRegistry()}
	for _, opt := range opts {
		opt(&o)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)
	return &Observer{
		ConstructedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "constructed_total",
				Help:      "Total number of value object construction attempts",
			},
			[]string{"class", "outcome"},
		),
		ValidationIssuesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_issues_total",
				Help:      "Total number of failed validation rules",
			},
			[]string{"class"},
		),
		RegistryKinds: factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registry_kinds",
				Help:      "Number of kinds in the value object registry",
			},
			func() float64 { return float64(o.registry.Len()) },
		),
	}
}

// Constructed records one construction attempt.
func (o *Observer) Constructed(class string, err error) {
	o.ConstructedTotal.WithLabelValues(class, Outcome(err)).Inc()
	var verr *validation.Error
	if errors.As(err, &verr) {
		o.ValidationIssuesTotal.WithLabelValues(class).Add(float64(len(verr.Issues)))
	}
}

// Outcome classifies a construction error.
func Outcome(err error) string {
	var verr *validation.Error
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &verr), errors.Is(err, vo.ErrInvalidValue):
		return OutcomeInvalid
	}
	return OutcomeError
}
