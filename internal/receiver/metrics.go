package receiver

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the feedback receiver.
type Metrics struct {
	packetsReceived prometheus.Counter
	bytesReceived   prometheus.Counter
	decodeErrors    prometheus.Counter
	discarded       prometheus.Counter
	stored          *prometheus.CounterVec
	socketErrors    prometheus.Counter
	lastActivity    prometheus.Gauge
}

// NewMetrics creates and registers receiver metrics. A nil registerer
// disables metrics and returns nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		packetsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eos",
			Subsystem: "feedback",
			Name:      "packets_received_total",
			Help:      "Total UDP datagrams received from the console",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eos",
			Subsystem: "feedback",
			Name:      "bytes_received_total",
			Help:      "Total bytes received from the console",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eos",
			Subsystem: "feedback",
			Name:      "decode_errors_total",
			Help:      "Datagrams that were not valid OSC",
		}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eos",
			Subsystem: "feedback",
			Name:      "discarded_total",
			Help:      "High-frequency output messages dropped without storing",
		}),
		stored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eos",
			Subsystem: "feedback",
			Name:      "stored_total",
			Help:      "Messages appended to the feedback log by category",
		}, []string{"category"}),
		socketErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eos",
			Subsystem: "feedback",
			Name:      "socket_errors_total",
			Help:      "Socket read errors encountered",
		}),
		lastActivity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eos",
			Subsystem: "feedback",
			Name:      "last_activity_timestamp",
			Help:      "Unix timestamp of last received datagram",
		}),
	}
	reg.MustRegister(
		m.packetsReceived,
		m.bytesReceived,
		m.decodeErrors,
		m.discarded,
		m.stored,
		m.socketErrors,
		m.lastActivity,
	)
	return m
}
