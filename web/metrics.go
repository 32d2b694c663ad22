package web

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	sourceForm     = "form"
	sourceDownload = "download"
	sourceAPI      = "api"

	reasonInvalid = "invalid_input"
	reasonEncode  = "encode"
)

// Metrics counts generated images and failures per entry point.
type Metrics struct {
	Generated *prometheus.CounterVec
	Failures  *prometheus.CounterVec
}

// NewMetrics registers the collectors against reg, or the default registry
// when reg is nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maps_location_qr",
			Name:      "generated_total",
			Help:      "The total number of QR codes generated.",
		}, []string{"source"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maps_location_qr",
			Name:      "failures_total",
			Help:      "The total number of requests that produced no QR code.",
		}, []string{"source", "reason"}),
	}
	for _, c := range []prometheus.Collector{m.Generated, m.Failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) generated(source string) {
	m.Generated.WithLabelValues(source).Inc()
}

func (m *Metrics) failure(source, reason string) {
	m.Failures.WithLabelValues(source, reason).Inc()
}
