// Package observability holds the Prometheus collectors for codec and
// analyzer activity.
package observability

import (
	"errors"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/alexhholmes/wirepack/internal/diag"
)

const namespace = "wirepack"

// Operation labels.
const (
	OpEncode = "encode"
	OpDecode = "decode"
	OpStream = "stream"
)

// Metrics records codec and analyzer events. A nil *Metrics records nothing.
type Metrics struct {
	packets     *prometheus.CounterVec
	errors      *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	sizes       *prometheus.HistogramVec
}

func newCollectors() *Metrics {
	return &Metrics{
		packets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "codec",
				Name:      "packets_total",
				Help:      "Packets encoded or decoded.",
			},
			[]string{"type", "op"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "codec",
				Name:      "errors_total",
				Help:      "Codec failures by reason.",
			},
			[]string{"type", "op", "reason"},
		),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "analyzer",
				Name:      "diagnostics_total",
				Help:      "Schema diagnostics reported by the analyzer.",
			},
			[]string{"code"},
		),
		sizes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "codec",
				Name:      "packet_size_bytes",
				Help:      "Wire size of encoded and decoded packets.",
				Buckets:   prometheus.ExponentialBuckets(4, 2, 15), // 4B .. 64KiB
			},
			[]string{"type", "op"},
		),
	}
}

// NewMetrics registers the collectors with reg. Registering twice on the same
// registry returns collectors bound to the existing series.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := newCollectors()
	var err error
	if m.packets, err = register(reg, m.packets); err != nil {
		return nil, err
	}
	if m.errors, err = register(reg, m.errors); err != nil {
		return nil, err
	}
	if m.diagnostics, err = register(reg, m.diagnostics); err != nil {
		return nil, err
	}
	if m.sizes, err = register(reg, m.sizes); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

var (
	registerOnce sync.Once
	defaultSet   *Metrics
)

// Default returns the collectors registered on the default Prometheus
// registry.
func Default() *Metrics {
	registerOnce.Do(func() {
		m, err := NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			panic(err)
		}
		defaultSet = m
	})
	return defaultSet
}

// Packet records one successfully processed packet of size bytes.
func (m *Metrics) Packet(typeName, op string, size int) {
	if m == nil {
		return
	}
	m.packets.WithLabelValues(typeName, op).Inc()
	m.sizes.WithLabelValues(typeName, op).Observe(float64(size))
}

// Error records one failed operation.
func (m *Metrics) Error(typeName, op, reason string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(typeName, op, reason).Inc()
}

// Diagnostics records every diagnostic of l by code.
func (m *Metrics) Diagnostics(l diag.List) {
	if m == nil {
		return
	}
	for _, d := range l {
		m.diagnostics.WithLabelValues(d.Code.String()).Inc()
	}
}

// WriteText dumps every family gathered from g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
