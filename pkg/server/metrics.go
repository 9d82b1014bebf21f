package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	PatchesSent     prometheus.Counter
	PatchBytes      prometheus.Counter
	ActiveSessions  prometheus.Gauge
	SessionsTotal   prometheus.Counter
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rowbench",
			Name:      "commands_total",
			Help:      "Table commands processed, by op and status.",
		}, []string{"op", "status"}),
		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rowbench",
			Name:      "command_duration_seconds",
			Help:      "Time spent applying a command and collecting patches.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"op"}),
		PatchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rowbench",
			Name:      "patches_sent_total",
			Help:      "Individual document patches sent to clients.",
		}),
		PatchBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rowbench",
			Name:      "patch_bytes_total",
			Help:      "Encoded patch payload bytes sent to clients.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "rowbench",
			Name:      "active_sessions",
			Help:      "Currently connected WebSocket sessions.",
		}),
		SessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rowbench",
			Name:      "sessions_total",
			Help:      "WebSocket sessions accepted since start.",
		}),
	}
}
