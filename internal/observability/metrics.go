package observability

import (
	"bytes"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus counters and gauges for one analysis run.
// The tool is batch-shaped, so instead of an HTTP exporter the final values
// are written to a textfile a node_exporter textfile collector can scrape.
type Metrics struct {
	registry *prometheus.Registry

	RecordsParsed     *prometheus.CounterVec // labels: report_type
	RecordsClassified *prometheus.CounterVec // labels: category
	ContinuationLines prometheus.Counter
	MalformedStarts   prometheus.Counter
	DiscardedLines    prometheus.Counter

	ChartsRendered prometheus.Counter
	ChartsSkipped  prometheus.Counter

	RunDuration prometheus.Gauge
	RunSuccess  prometheus.Gauge
	LastRun     prometheus.Gauge
}

// NewMetrics creates all run metrics on a private registry, so repeated runs
// and tests never collide on the global default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcreport",
			Name:      "records_parsed_total",
			Help:      "Records reconstructed from the log by report type.",
		}, []string{"report_type"}),
		RecordsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcreport",
			Name:      "records_classified_total",
			Help:      "DC Report records by disaster category.",
		}, []string{"category"}),
		ContinuationLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcreport",
			Name:      "parse_continuation_lines_total",
			Help:      "Message continuation lines folded into records.",
		}),
		MalformedStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcreport",
			Name:      "parse_malformed_starts_total",
			Help:      "Record-start lines dropped for missing fields.",
		}),
		DiscardedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcreport",
			Name:      "parse_discarded_lines_total",
			Help:      "Continuation lines with no open record to join.",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcreport",
			Name:      "charts_rendered_total",
			Help:      "Chart artifacts written.",
		}),
		ChartsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcreport",
			Name:      "charts_skipped_total",
			Help:      "Charts skipped because the aggregate was empty.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dcreport",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the completed run.",
		}),
		RunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dcreport",
			Name:      "run_success",
			Help:      "1 when the run completed, 0 when it aborted.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dcreport",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}

	m.registry.MustRegister(
		m.RecordsParsed,
		m.RecordsClassified,
		m.ContinuationLines,
		m.MalformedStarts,
		m.DiscardedLines,
		m.ChartsRendered,
		m.ChartsSkipped,
		m.RunDuration,
		m.RunSuccess,
		m.LastRun,
	)

	return m
}

// WriteTextfile renders the registry in the Prometheus text exposition
// format and atomically replaces path, matching the textfile collector's
// expectations.
func (m *Metrics) WriteTextfile(path string) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace metrics textfile: %w", err)
	}
	return nil
}
