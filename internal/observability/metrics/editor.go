package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type EditorMetrics struct {
	registry *prometheus.Registry

	openTotal        *prometheus.CounterVec
	openDuration     *prometheus.HistogramVec
	saveTotal        *prometheus.CounterVec
	migrationTotal   *prometheus.CounterVec
	variablesAdded   prometheus.Counter
	variablesRemoved prometheus.Counter
}

func NewEditorMetrics() *EditorMetrics {
	registry := prometheus.NewRegistry()

	openTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "datadoc",
			Subsystem: "editor",
			Name:      "document_open_total",
			Help:      "Total opened documents by outcome.",
		},
		[]string{"outcome"},
	)
	openDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "datadoc",
			Subsystem: "editor",
			Name:      "document_open_duration_seconds",
			Help:      "Document open duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	saveTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "datadoc",
			Subsystem: "editor",
			Name:      "document_save_total",
			Help:      "Total saved documents by outcome.",
		},
		[]string{"outcome"},
	)
	migrationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "datadoc",
			Subsystem: "editor",
			Name:      "document_migration_total",
			Help:      "Total schema migrations by source version.",
		},
		[]string{"from_version"},
	)
	variablesAdded := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "datadoc",
			Subsystem: "editor",
			Name:      "variables_added_total",
			Help:      "Variables added during schema reconciliation.",
		},
	)
	variablesRemoved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "datadoc",
			Subsystem: "editor",
			Name:      "variables_removed_total",
			Help:      "Variables removed during schema reconciliation.",
		},
	)

	registry.MustRegister(openTotal, openDuration, saveTotal, migrationTotal, variablesAdded, variablesRemoved)

	return &EditorMetrics{
		registry:         registry,
		openTotal:        openTotal,
		openDuration:     openDuration,
		saveTotal:        saveTotal,
		migrationTotal:   migrationTotal,
		variablesAdded:   variablesAdded,
		variablesRemoved: variablesRemoved,
	}
}

func (m *EditorMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *EditorMetrics) ObserveOpen(duration time.Duration, migratedFrom string, added, removed int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.openTotal.WithLabelValues(outcome).Inc()
	m.openDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if err != nil {
		return
	}
	if migratedFrom != "" {
		m.migrationTotal.WithLabelValues(migratedFrom).Inc()
	}
	m.variablesAdded.Add(float64(added))
	m.variablesRemoved.Add(float64(removed))
}

func (m *EditorMetrics) ObserveSave(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.saveTotal.WithLabelValues(outcome).Inc()
}
