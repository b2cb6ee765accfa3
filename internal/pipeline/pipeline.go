// Package pipeline orchestrates one analysis run: read the log file,
// reconstruct and classify the records, aggregate, then write the report
// and chart artifacts to the output directory.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/dc-report-analytics/internal/aggregate"
	"github.com/couchcryptid/dc-report-analytics/internal/chart"
	"github.com/couchcryptid/dc-report-analytics/internal/domain"
	"github.com/couchcryptid/dc-report-analytics/internal/observability"
	"github.com/couchcryptid/dc-report-analytics/internal/report"
)

// Variant selects which report document and chart set a run produces.
type Variant string

const (
	VariantSummary  Variant = "summary"
	VariantDetailed Variant = "detailed"
	VariantFiltered Variant = "filtered"
	VariantTrend    Variant = "trend"
)

const (
	// movingAverageWindow is the centered window of the trend smoothing.
	movingAverageWindow = 3

	// topChartDetails caps the fine-grained classification bar chart.
	topChartDetails = 10
)

// Options configure a single run. Since is the minimum-timestamp cutoff and
// is required for the filtered and trend variants.
type Options struct {
	Variant Variant
	Since   time.Time
}

// Outcome summarizes a completed run.
type Outcome struct {
	RunID       string
	Variant     Variant
	GeneratedAt time.Time
	Stats       domain.ParseStats
	Records     int
	Report      string
	Artifacts   []string
}

// Pipeline wires the analysis stages together.
type Pipeline struct {
	input    string
	writer   ArtifactWriter
	builder  *report.Builder
	renderer *chart.Renderer
	logger   *slog.Logger
	metrics  *observability.Metrics
	parser   *domain.Parser
}

// New creates a Pipeline reading from input with the given stages and
// observability.
func New(input string, w ArtifactWriter, b *report.Builder, r *chart.Renderer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		input:    input,
		writer:   w,
		builder:  b,
		renderer: r,
		logger:   logger,
		metrics:  metrics,
		parser:   domain.NewParser(),
	}
}

// Run executes one batch analysis. Any stage failure aborts the run; there
// is no partial-output guarantee beyond artifacts already written.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Outcome, error) {
	start := clock.Now()
	runID := uuid.NewString()
	log := p.logger.With("run_id", runID, "variant", string(opts.Variant))

	log.Info("analysis started", "input", p.input)

	raw, err := os.ReadFile(p.input)
	if err != nil {
		return p.fail(fmt.Errorf("read input: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return p.fail(err)
	}

	records, stats, err := p.parser.Parse(strings.Split(string(raw), "\n"))
	if err != nil {
		return p.fail(fmt.Errorf("parse %s: %w", p.input, err))
	}
	p.recordParseMetrics(records, stats)
	if stats.MalformedStarts > 0 {
		log.Warn("malformed record starts dropped", "count", stats.MalformedStarts)
	}
	log.Info("log parsed",
		"records", len(records),
		"continuations", stats.ContinuationLines,
		"discarded", stats.DiscardedLines,
	)

	classified := domain.ClassifyAll(records)
	for _, r := range classified {
		if r.ReportType == domain.ReportTypeDCReport {
			p.metrics.RecordsClassified.WithLabelValues(string(r.Category)).Inc()
		}
	}
	if err := ctx.Err(); err != nil {
		return p.fail(err)
	}

	md, jobs, err := p.compose(opts, classified)
	if err != nil {
		return p.fail(err)
	}

	outcome := &Outcome{
		RunID:       runID,
		Variant:     opts.Variant,
		GeneratedAt: start,
		Stats:       stats,
		Records:     len(records),
		Report:      md,
	}

	path, err := p.writer.WriteReport(reportName(opts.Variant), md)
	if err != nil {
		return p.fail(err)
	}
	outcome.Artifacts = append(outcome.Artifacts, path)

	for _, job := range jobs {
		written, err := p.writer.WriteChart(job.name, job.render)
		if errors.Is(err, chart.ErrNoData) {
			log.Debug("chart skipped", "name", job.name)
			p.metrics.ChartsSkipped.Inc()
			continue
		}
		if err != nil {
			return p.fail(fmt.Errorf("chart %s: %w", job.name, err))
		}
		p.metrics.ChartsRendered.Inc()
		outcome.Artifacts = append(outcome.Artifacts, written)
	}

	duration := clock.Since(start)
	p.metrics.RunDuration.Set(duration.Seconds())
	p.metrics.LastRun.Set(float64(clock.Now().Unix()))
	p.metrics.RunSuccess.Set(1)

	log.Info("analysis complete",
		"records", len(records),
		"artifacts", len(outcome.Artifacts),
		"duration", duration,
	)
	return outcome, nil
}

func (p *Pipeline) fail(err error) (*Outcome, error) {
	p.metrics.RunSuccess.Set(0)
	return nil, err
}

func (p *Pipeline) recordParseMetrics(records []domain.Record, stats domain.ParseStats) {
	for _, r := range records {
		p.metrics.RecordsParsed.WithLabelValues(string(r.ReportType)).Inc()
	}
	p.metrics.ContinuationLines.Add(float64(stats.ContinuationLines))
	p.metrics.MalformedStarts.Add(float64(stats.MalformedStarts))
	p.metrics.DiscardedLines.Add(float64(stats.DiscardedLines))
}

// chartJob names one chart artifact and how to render it.
type chartJob struct {
	name   string
	render func(io.Writer) error
}

// compose builds the report document and the chart set for the variant.
func (p *Pipeline) compose(opts Options, records []domain.ClassifiedRecord) (string, []chartJob, error) {
	switch opts.Variant {
	case VariantSummary:
		s := aggregate.Compute(records)
		return p.builder.Summary(s), p.summaryCharts(s), nil
	case VariantDetailed:
		s := aggregate.Compute(records)
		return p.builder.Detailed(s), p.detailedCharts(s), nil
	case VariantFiltered:
		if opts.Since.IsZero() {
			return "", nil, fmt.Errorf("variant %q requires a cutoff", opts.Variant)
		}
		s := aggregate.Compute(aggregate.Filter(records, opts.Since))
		return p.builder.Filtered(s, opts.Since), p.detailedCharts(s), nil
	case VariantTrend:
		if opts.Since.IsZero() {
			return "", nil, fmt.Errorf("variant %q requires a cutoff", opts.Variant)
		}
		series := aggregate.HourlyBuckets(records, opts.Since)
		return p.builder.Trend(series), p.trendCharts(series), nil
	default:
		return "", nil, fmt.Errorf("unknown variant %q", opts.Variant)
	}
}

func reportName(v Variant) string {
	switch v {
	case VariantDetailed:
		return "analysis_detailed.md"
	case VariantFiltered:
		return "analysis_filtered.md"
	case VariantTrend:
		return "analysis_trend.md"
	default:
		return "analysis.md"
	}
}

func (p *Pipeline) summaryCharts(s *aggregate.Summary) []chartJob {
	return []chartJob{
		{"report_types.png", func(w io.Writer) error { return p.renderer.Pie(w, "Report Types", s.ByReportType) }},
		{"satellites.png", func(w io.Writer) error { return p.renderer.Pie(w, "Satellites", s.BySatellite) }},
		{"disaster_categories.png", func(w io.Writer) error { return p.renderer.Pie(w, "Disaster Categories", s.Disasters.ByCategory) }},
		{"hourly_distribution.png", func(w io.Writer) error { return p.renderer.HourBar(w, "Hourly Distribution", s.ByHour) }},
		{"daily_distribution.png", func(w io.Writer) error { return p.renderer.DateLine(w, "Daily Distribution", s.ByDate) }},
		{"hour_type_heatmap.png", func(w io.Writer) error { return p.renderer.Heatmap(w, "Hour x Type Density", s.HourType) }},
	}
}

func (p *Pipeline) detailedCharts(s *aggregate.Summary) []chartJob {
	return append(p.summaryCharts(s),
		chartJob{"disaster_details.png", func(w io.Writer) error {
			return p.renderer.Bar(w, "Disaster Details", s.Disasters.ByDetail.TopN(topChartDetails))
		}},
		chartJob{"date_type_heatmap.png", func(w io.Writer) error {
			return p.renderer.Heatmap(w, "Date x Type Density", s.DateType)
		}},
	)
}

func (p *Pipeline) trendCharts(series aggregate.Series) []chartJob {
	return []chartJob{
		{"hourly_trend.png", func(w io.Writer) error { return p.renderer.TrendLines(w, "Hourly Trend", series) }},
		{"trend_cumulative.png", func(w io.Writer) error { return p.renderer.CumulativeLine(w, "Cumulative Broadcasts", series) }},
		{"trend_moving_average.png", func(w io.Writer) error {
			return p.renderer.MovingAverageLine(w, "Moving Average (3h)", series, movingAverageWindow)
		}},
		{"trend_ratio.png", func(w io.Writer) error { return p.renderer.RatioLine(w, "DC Report Ratio", series) }},
		{"trend_heatmap.png", func(w io.Writer) error { return p.renderer.Heatmap(w, "Activity by Hour", series.TypeGrid()) }},
	}
}
