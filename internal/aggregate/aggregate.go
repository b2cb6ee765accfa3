// Package aggregate computes the descriptive statistics the reports and
// charts draw on: categorical distributions, dense hourly and daily series,
// and two-dimensional crosstabs against report type. Everything is recomputed
// per run from the full record set; nothing is incremental.
package aggregate

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/dc-report-analytics/internal/domain"
)

// Count is one key's tally within a Distribution.
type Count struct {
	Key string
	N   int
}

// Distribution is a categorical breakdown ordered for display: descending
// count, ties ascending by key so equal counts render deterministically.
type Distribution []Count

// Total sums the distribution's counts.
func (d Distribution) Total() int {
	total := 0
	for _, c := range d {
		total += c.N
	}
	return total
}

// Top returns the largest entry, or false when the distribution is empty.
func (d Distribution) Top() (Count, bool) {
	if len(d) == 0 {
		return Count{}, false
	}
	return d[0], true
}

// TopN returns at most the n largest entries.
func (d Distribution) TopN(n int) Distribution {
	if len(d) <= n {
		return d
	}
	return d[:n]
}

// Get returns the count for key, zero when absent.
func (d Distribution) Get(key string) int {
	for _, c := range d {
		if c.Key == key {
			return c.N
		}
	}
	return 0
}

// Pct returns n as a percentage of total, zero when total is zero. Rounding
// to one decimal happens at display time, never here.
func Pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// CrossTab is a dense two-dimensional count: Cells[i][j] holds the count for
// Rows[i] x Cols[j], zero for combinations that never occurred.
type CrossTab struct {
	Rows  []string
	Cols  []string
	Cells [][]int
}

// Total sums every cell.
func (ct CrossTab) Total() int {
	total := 0
	for _, row := range ct.Cells {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// Max returns the largest single cell value.
func (ct CrossTab) Max() int {
	max := 0
	for _, row := range ct.Cells {
		for _, n := range row {
			if n > max {
				max = n
			}
		}
	}
	return max
}

// Empty reports whether the crosstab has no observations.
func (ct CrossTab) Empty() bool {
	return ct.Total() == 0
}

// DateCount is one local calendar day's record count.
type DateCount struct {
	Day time.Time // midnight JST
	N   int
}

// Span is the closed time range covered by a record set.
type Span struct {
	Min time.Time
	Max time.Time
}

// Hours returns the span length in fractional hours.
func (s Span) Hours() float64 {
	return s.Max.Sub(s.Min).Hours()
}

// DaySpan returns the number of distinct local calendar dates the span
// touches, zero for a zero span.
func (s Span) DaySpan() int {
	if s.Min.IsZero() {
		return 0
	}
	minDay := midnight(s.Min)
	maxDay := midnight(s.Max)
	return int(maxDay.Sub(minDay).Hours()/24) + 1
}

// DisasterBreakdown is the DC-Report-only classification tally. DCTotal is
// the denominator for every disaster proportion; using the full record count
// instead would silently corrupt the percentages.
type DisasterBreakdown struct {
	DCTotal    int
	ByCategory Distribution
	ByDetail   Distribution
}

// Summary is every aggregate a report variant can draw on, computed in one
// pass over the classified records.
type Summary struct {
	Total        int
	Span         Span
	ByReportType Distribution
	BySatellite  Distribution
	ByPriority   Distribution
	ByWeekday    Distribution
	ByHour       [24]int
	ByDate       []DateCount
	HourType     CrossTab
	DateType     CrossTab
	SatType      CrossTab
	Disasters    DisasterBreakdown
}

// reportTypeCols is the fixed crosstab column order.
var reportTypeCols = []string{string(domain.ReportTypeDCReport), string(domain.ReportTypeDCX)}

// Compute derives the full Summary for records. Order of the input is
// irrelevant; all display orderings are imposed here (descending count for
// value distributions, natural key order for hours and dates).
func Compute(records []domain.ClassifiedRecord) *Summary {
	s := &Summary{Total: len(records)}

	s.ByReportType = distributionOf(records, func(r domain.ClassifiedRecord) string { return string(r.ReportType) })
	s.BySatellite = distributionOf(records, func(r domain.ClassifiedRecord) string { return r.Satellite })
	s.ByPriority = distributionOf(records, func(r domain.ClassifiedRecord) string { return r.Priority })
	s.ByWeekday = distributionOf(records, func(r domain.ClassifiedRecord) string { return r.Weekday().String() })

	for _, r := range records {
		if s.Span.Min.IsZero() || r.Timestamp.Before(s.Span.Min) {
			s.Span.Min = r.Timestamp
		}
		if r.Timestamp.After(s.Span.Max) {
			s.Span.Max = r.Timestamp
		}
		s.ByHour[r.Hour()]++
	}

	s.ByDate = dateCounts(records)
	s.HourType = hourTypeTab(records)
	s.DateType = dateTypeTab(records, s.Span)
	s.SatType = satTypeTab(records)
	s.Disasters = disasterBreakdown(records)

	return s
}

// Filter returns the records with timestamp at or after cutoff, preserving
// input order. Filtering happens after parsing; the subset feeds an
// independent Compute.
func Filter(records []domain.ClassifiedRecord, cutoff time.Time) []domain.ClassifiedRecord {
	out := make([]domain.ClassifiedRecord, 0, len(records))
	for _, r := range records {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// FromCounts builds a Distribution from raw counts with the standard display
// ordering applied.
func FromCounts(counts map[string]int) Distribution {
	out := make(Distribution, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, N: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.N, a.N); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

func distributionOf[T any](items []T, key func(T) string) Distribution {
	counts := make(map[string]int)
	for _, it := range items {
		counts[key(it)]++
	}
	return FromCounts(counts)
}

func dateCounts(records []domain.ClassifiedRecord) []DateCount {
	counts := make(map[time.Time]int)
	for _, r := range records {
		counts[midnight(r.Timestamp)]++
	}

	out := make([]DateCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DateCount{Day: day, N: n})
	}
	slices.SortFunc(out, func(a, b DateCount) int { return a.Day.Compare(b.Day) })
	return out
}

func hourTypeTab(records []domain.ClassifiedRecord) CrossTab {
	ct := CrossTab{Cols: reportTypeCols}
	ct.Rows = make([]string, 24)
	ct.Cells = make([][]int, 24)
	for h := 0; h < 24; h++ {
		ct.Rows[h] = strconv.Itoa(h)
		ct.Cells[h] = make([]int, len(ct.Cols))
	}
	for _, r := range records {
		if col, ok := colIndex(r.ReportType); ok {
			ct.Cells[r.Hour()][col]++
		}
	}
	return ct
}

func dateTypeTab(records []domain.ClassifiedRecord, span Span) CrossTab {
	ct := CrossTab{Cols: reportTypeCols}
	if span.Min.IsZero() {
		return ct
	}

	start := midnight(span.Min)
	days := span.DaySpan()
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		index[key] = i
		ct.Rows = append(ct.Rows, key)
		ct.Cells = append(ct.Cells, make([]int, len(ct.Cols)))
	}
	for _, r := range records {
		if col, ok := colIndex(r.ReportType); ok {
			ct.Cells[index[r.DateKey()]][col]++
		}
	}
	return ct
}

func satTypeTab(records []domain.ClassifiedRecord) CrossTab {
	ct := CrossTab{Cols: reportTypeCols}
	index := make(map[string]int)
	for _, r := range records {
		if _, seen := index[r.Satellite]; !seen {
			index[r.Satellite] = 0
			ct.Rows = append(ct.Rows, r.Satellite)
		}
	}
	slices.Sort(ct.Rows)
	for i, sat := range ct.Rows {
		index[sat] = i
		ct.Cells = append(ct.Cells, make([]int, len(ct.Cols)))
	}
	for _, r := range records {
		if col, ok := colIndex(r.ReportType); ok {
			ct.Cells[index[r.Satellite]][col]++
		}
	}
	return ct
}

func disasterBreakdown(records []domain.ClassifiedRecord) DisasterBreakdown {
	dc := make([]domain.ClassifiedRecord, 0, len(records))
	for _, r := range records {
		if r.ReportType == domain.ReportTypeDCReport {
			dc = append(dc, r)
		}
	}
	return DisasterBreakdown{
		DCTotal:    len(dc),
		ByCategory: distributionOf(dc, func(r domain.ClassifiedRecord) string { return string(r.Category) }),
		ByDetail:   distributionOf(dc, func(r domain.ClassifiedRecord) string { return string(r.Detail) }),
	}
}

func colIndex(rt domain.ReportType) (int, bool) {
	for i, col := range reportTypeCols {
		if string(rt) == col {
			return i, true
		}
	}
	return 0, false
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
