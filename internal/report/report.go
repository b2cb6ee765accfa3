// Package report renders the analysis documents as Markdown. Every builder
// writes the same fixed ordering (overview, per-dimension breakdowns,
// findings) and omits any section whose aggregate is empty. All user-visible
// text flows through a locale-bound printer; aggregation keys never change
// with the locale.
package report

import (
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/couchcryptid/dc-report-analytics/internal/aggregate"
	"github.com/couchcryptid/dc-report-analytics/internal/domain"
)

const (
	timeFormat = "2006-01-02 15:04:05"
	hourFormat = "2006-01-02 15:04"

	// topDetails caps the fine-grained classification listing.
	topDetails = 10
)

// Builder renders Markdown documents in one locale.
type Builder struct {
	p *message.Printer
}

// NewBuilder returns a Builder rendering through p.
func NewBuilder(p *message.Printer) *Builder {
	return &Builder{p: p}
}

// Summary renders the baseline analysis document.
func (b *Builder) Summary(s *aggregate.Summary) string {
	d := b.doc()
	d.line("# QZSS DC Report Analysis")
	d.blank()
	b.overview(d, s, false)
	b.typeBreakdown(d, s, false)
	b.satelliteBreakdown(d, s)
	b.disasterCategories(d, s.Disasters.ByCategory, s.Disasters.DCTotal)
	b.findings(d, s)
	return d.String()
}

// Detailed renders the full breakdown document, including per-satellite
// type splits and the fine-grained classification.
func (b *Builder) Detailed(s *aggregate.Summary) string {
	d := b.doc()
	d.line("# QZSS DC Report Detailed Analysis")
	d.blank()
	b.overview(d, s, false)
	b.typeBreakdown(d, s, true)
	b.priorityBreakdown(d, s)
	b.satelliteTypeBreakdown(d, s)
	b.disasterCategories(d, s.Disasters.ByCategory, s.Disasters.DCTotal)
	b.disasterDetails(d, s.Disasters)
	b.temporal(d, s)
	b.findings(d, s)
	return d.String()
}

// Filtered renders the detailed layout over the subset at or after since.
// The coarse categories are recovered from the detail labels through the
// shared lookup table, exercising the label-only derivation path.
func (b *Builder) Filtered(s *aggregate.Summary, since time.Time) string {
	d := b.doc()
	d.line("# QZSS DC Report Analysis (from %s)", since.Format(timeFormat))
	d.blank()
	b.overview(d, s, true)
	b.typeBreakdown(d, s, false)
	b.satelliteTypeBreakdown(d, s)
	b.disasterCategories(d, categoriesFromDetails(s.Disasters.ByDetail), s.Disasters.DCTotal)
	b.disasterDetails(d, s.Disasters)
	b.temporal(d, s)
	b.findings(d, s)
	return d.String()
}

// Trend renders the dense hourly bucket document.
func (b *Builder) Trend(s aggregate.Series) string {
	d := b.doc()
	d.line("# QZSS DC Report Hourly Trend Analysis")
	d.blank()
	d.line("## Overview")
	if s.Empty() {
		d.line("- Total records: %d", 0)
		return d.String()
	}

	dc, dcx, total := s.Totals()
	first := s.Buckets[0].Start
	last := s.Buckets[len(s.Buckets)-1].Start
	d.line("- Period: %s to %s", first.Format(hourFormat), last.Format(hourFormat))
	d.line("- Hours observed: %d", len(s.Buckets))
	d.line("- Total records: %d", total)
	d.line("- DC Report: %d / DCX: %d", dc, dcx)
	d.blank()

	d.line("## Hourly Statistics")
	avgDC, avgDCX, avgTotal := s.Averages()
	d.line("- Average per hour: DC Report %.1f / DCX %.1f / total %.1f", avgDC, avgDCX, avgTotal)
	if peak, ok := s.PeakTotal(); ok && peak.Total > 0 {
		d.line("- Busiest hour: %s (%d records)", peak.Start.Format(hourFormat), peak.Total)
	}
	if peak, ok := s.PeakDC(); ok && peak.DCReport > 0 {
		d.line("- DC Report peak: %s (%d records)", peak.Start.Format(hourFormat), peak.DCReport)
	}
	if peak, ok := s.PeakDCX(); ok && peak.DCX > 0 {
		d.line("- DCX peak: %s (%d records)", peak.Start.Format(hourFormat), peak.DCX)
	}
	d.blank()

	d.line("## Hourly Buckets")
	for _, bucket := range s.Buckets {
		d.line("- %s: %d DC Report / %d DCX / %d total",
			bucket.Start.Format(hourFormat), bucket.DCReport, bucket.DCX, bucket.Total)
	}
	d.blank()

	d.line("## Key Findings")
	n := 0
	next := func() int { n++; return n }
	cum := s.Cumulative()
	end := cum[len(cum)-1]
	d.line("%d. Cumulative volume reached %d records by %s.", next(), end.Total, end.Start.Format(hourFormat))
	d.line("%d. Average activity is %.1f broadcasts per hour.", next(), avgTotal)
	if peak, ok := s.PeakTotal(); ok && peak.Total > 0 {
		d.line("%d. Activity peaks at %02d:00 with %d broadcasts.", next(), peak.Start.Hour(), peak.Total)
	}
	return d.String()
}

// ── Shared sections ──────────────────────────────────────────────

func (b *Builder) overview(d *doc, s *aggregate.Summary, inHours bool) {
	d.line("## Overview")
	d.line("- Total records: %d", s.Total)
	if s.Total > 0 {
		d.line("- Period: %s to %s", s.Span.Min.Format(timeFormat), s.Span.Max.Format(timeFormat))
		if inHours {
			d.line("- Duration: %.1f hours", s.Span.Hours())
		} else {
			d.line("- Days covered: %d", s.Span.DaySpan())
		}
	}
	d.blank()
}

func (b *Builder) typeBreakdown(d *doc, s *aggregate.Summary, describe bool) {
	if len(s.ByReportType) == 0 {
		return
	}
	d.line("## Report Type Breakdown")
	if describe {
		d.line("- DC Report: real disaster and crisis management alerts")
		d.line("- DCX: test and exercise broadcasts")
	}
	for _, c := range s.ByReportType {
		d.line("- %s: %d (%.1f%%)", c.Key, c.N, aggregate.Pct(c.N, s.Total))
	}
	d.blank()
}

func (b *Builder) priorityBreakdown(d *doc, s *aggregate.Summary) {
	if len(s.ByPriority) == 0 {
		return
	}
	d.line("## Priority Breakdown")
	for _, c := range s.ByPriority {
		d.line("- %s: %d (%.1f%%)", c.Key, c.N, aggregate.Pct(c.N, s.Total))
	}
	d.blank()
}

func (b *Builder) satelliteBreakdown(d *doc, s *aggregate.Summary) {
	if len(s.BySatellite) == 0 {
		return
	}
	d.line("## Satellite Breakdown")
	for _, c := range s.BySatellite {
		d.line("- %s: %d (%.1f%%)", c.Key, c.N, aggregate.Pct(c.N, s.Total))
	}
	d.blank()
}

func (b *Builder) satelliteTypeBreakdown(d *doc, s *aggregate.Summary) {
	if s.SatType.Empty() {
		return
	}
	d.line("## Satellite Breakdown")
	for i, sat := range s.SatType.Rows {
		dc := s.SatType.Cells[i][0]
		dcx := s.SatType.Cells[i][1]
		d.line("- %s: DC Report %d / DCX %d (total %d)", sat, dc, dcx, dc+dcx)
	}
	d.blank()
}

func (b *Builder) disasterCategories(d *doc, categories aggregate.Distribution, dcTotal int) {
	if dcTotal == 0 || len(categories) == 0 {
		return
	}
	d.line("## Disaster Categories")
	for _, c := range categories {
		d.line("- %s: %d (%.1f%%)", d.label(c.Key), c.N, aggregate.Pct(c.N, dcTotal))
	}
	d.blank()
}

func (b *Builder) disasterDetails(d *doc, dis aggregate.DisasterBreakdown) {
	if dis.DCTotal == 0 || len(dis.ByDetail) == 0 {
		return
	}
	d.line("## Disaster Details (top %d)", topDetails)
	for _, c := range dis.ByDetail.TopN(topDetails) {
		d.line("- %s: %d (%.1f%%)", d.label(c.Key), c.N, aggregate.Pct(c.N, dis.DCTotal))
	}
	d.blank()
}

func (b *Builder) temporal(d *doc, s *aggregate.Summary) {
	if s.Total == 0 {
		return
	}
	d.line("## Temporal Analysis")
	hour, n := peakHour(s.ByHour)
	d.line("- Peak hour: %02d:00 (%d records)", hour, n)
	if top, ok := s.ByWeekday.Top(); ok {
		d.line("- Most active day: %s (%d records)", d.label(top.Key), top.N)
	}
	d.blank()
}

func (b *Builder) findings(d *doc, s *aggregate.Summary) {
	if s.Total == 0 {
		return
	}
	d.line("## Key Findings")
	n := 0
	next := func() int { n++; return n }

	d.line("%d. Logged %d broadcasts between %s and %s.",
		next(), s.Total, s.Span.Min.Format(timeFormat), s.Span.Max.Format(timeFormat))

	dc := s.ByReportType.Get(string(domain.ReportTypeDCReport))
	dcx := s.ByReportType.Get(string(domain.ReportTypeDCX))
	if dc+dcx > 0 {
		d.line("%d. Real alerts (DC Report) make up %.1f%% of traffic, tests (DCX) %.1f%%.",
			next(), aggregate.Pct(dc, s.Total), aggregate.Pct(dcx, s.Total))
	}
	if top, ok := s.BySatellite.Top(); ok {
		d.line("%d. Satellite %s relayed the most broadcasts (%.1f%%).",
			next(), top.Key, aggregate.Pct(top.N, s.Total))
	}
	if top, ok := s.Disasters.ByCategory.Top(); ok {
		d.line("%d. The dominant disaster category is %s (%.1f%% of DC Reports).",
			next(), d.label(top.Key), aggregate.Pct(top.N, s.Disasters.DCTotal))
	}
	if hour, peak := peakHour(s.ByHour); peak > 0 {
		d.line("%d. Activity peaks at %02d:00 with %d broadcasts.", next(), hour, peak)
	}
	if top, ok := s.ByWeekday.Top(); ok {
		d.line("%d. %s sees the most traffic.", next(), d.label(top.Key))
	}
}

// categoriesFromDetails recovers the coarse distribution from detail labels
// through the shared lookup table; by construction it matches the directly
// computed category distribution.
func categoriesFromDetails(details aggregate.Distribution) aggregate.Distribution {
	counts := make(map[string]int)
	for _, c := range details {
		counts[string(domain.CategoryOfDetail(domain.Detail(c.Key)))] += c.N
	}
	return aggregate.FromCounts(counts)
}

func peakHour(hours [24]int) (int, int) {
	hour, best := 0, 0
	for h, n := range hours {
		if n > best {
			hour, best = h, n
		}
	}
	return hour, best
}

// doc accumulates localized Markdown lines.
type doc struct {
	p  *message.Printer
	sb strings.Builder
}

func (b *Builder) doc() *doc {
	return &doc{p: b.p}
}

func (d *doc) line(format string, args ...any) {
	d.sb.WriteString(d.p.Sprintf(format, args...))
	d.sb.WriteByte('\n')
}

func (d *doc) blank() {
	d.sb.WriteByte('\n')
}

func (d *doc) label(key string) string {
	return d.p.Sprintf(key)
}

func (d *doc) String() string {
	return d.sb.String()
}
