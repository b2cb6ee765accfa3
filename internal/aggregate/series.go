package aggregate

import (
	"time"

	"github.com/couchcryptid/dc-report-analytics/internal/domain"
)

// Bucket is one hour of broadcast activity.
type Bucket struct {
	Start    time.Time
	DCReport int
	DCX      int
	Total    int
}

// Point is a timestamped scalar for derived series (moving averages, ratios).
type Point struct {
	Start time.Time
	Value float64
}

// Series is a dense, contiguous hourly bucket sequence. Hours with no
// records are present with zero counts.
type Series struct {
	Buckets []Bucket
}

// HourlyBuckets slots records into hourly buckets from `from` (truncated to
// the hour) through the hour of the latest record at or after it, inclusive.
// Records before `from` are ignored. An input with no eligible records
// yields an empty series.
func HourlyBuckets(records []domain.ClassifiedRecord, from time.Time) Series {
	from = from.Truncate(time.Hour)

	var last time.Time
	for _, r := range records {
		if r.Timestamp.Before(from) {
			continue
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	if last.IsZero() {
		return Series{}
	}

	n := int(last.Truncate(time.Hour).Sub(from)/time.Hour) + 1
	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i].Start = from.Add(time.Duration(i) * time.Hour)
	}

	for _, r := range records {
		if r.Timestamp.Before(from) {
			continue
		}
		b := &buckets[int(r.Timestamp.Sub(from)/time.Hour)]
		b.Total++
		switch r.ReportType {
		case domain.ReportTypeDCReport:
			b.DCReport++
		case domain.ReportTypeDCX:
			b.DCX++
		}
	}
	return Series{Buckets: buckets}
}

// Empty reports whether the series holds no buckets.
func (s Series) Empty() bool {
	return len(s.Buckets) == 0
}

// Totals sums the per-type and overall counts across all buckets.
func (s Series) Totals() (dc, dcx, total int) {
	for _, b := range s.Buckets {
		dc += b.DCReport
		dcx += b.DCX
		total += b.Total
	}
	return dc, dcx, total
}

// Averages returns the mean records per hour for each series, zero for an
// empty series.
func (s Series) Averages() (dc, dcx, total float64) {
	if len(s.Buckets) == 0 {
		return 0, 0, 0
	}
	sumDC, sumDCX, sumTotal := s.Totals()
	n := float64(len(s.Buckets))
	return float64(sumDC) / n, float64(sumDCX) / n, float64(sumTotal) / n
}

// Cumulative returns running totals bucket by bucket, with the same starts.
func (s Series) Cumulative() []Bucket {
	out := make([]Bucket, len(s.Buckets))
	var dc, dcx, total int
	for i, b := range s.Buckets {
		dc += b.DCReport
		dcx += b.DCX
		total += b.Total
		out[i] = Bucket{Start: b.Start, DCReport: dc, DCX: dcx, Total: total}
	}
	return out
}

// MovingAverage returns the centered moving average of the per-bucket totals
// over an odd window. Edge buckets without a full window are omitted, so the
// result is shorter than the series by window-1 points.
func (s Series) MovingAverage(window int) []Point {
	if window < 1 || window%2 == 0 || len(s.Buckets) < window {
		return nil
	}
	half := window / 2
	out := make([]Point, 0, len(s.Buckets)-window+1)
	for i := half; i < len(s.Buckets)-half; i++ {
		sum := 0
		for j := i - half; j <= i+half; j++ {
			sum += s.Buckets[j].Total
		}
		out = append(out, Point{Start: s.Buckets[i].Start, Value: float64(sum) / float64(window)})
	}
	return out
}

// Ratios returns each bucket's DC Report share of its total, in percent,
// zero for empty buckets.
func (s Series) Ratios() []Point {
	out := make([]Point, len(s.Buckets))
	for i, b := range s.Buckets {
		out[i] = Point{Start: b.Start, Value: Pct(b.DCReport, b.Total)}
	}
	return out
}

// PeakDC returns the bucket with the most DC Reports, earliest first on
// ties, false for an empty series.
func (s Series) PeakDC() (Bucket, bool) {
	return s.peak(func(b Bucket) int { return b.DCReport })
}

// PeakDCX returns the bucket with the most DCX broadcasts.
func (s Series) PeakDCX() (Bucket, bool) {
	return s.peak(func(b Bucket) int { return b.DCX })
}

// PeakTotal returns the busiest bucket overall.
func (s Series) PeakTotal() (Bucket, bool) {
	return s.peak(func(b Bucket) int { return b.Total })
}

func (s Series) peak(value func(Bucket) int) (Bucket, bool) {
	if len(s.Buckets) == 0 {
		return Bucket{}, false
	}
	best := s.Buckets[0]
	for _, b := range s.Buckets[1:] {
		if value(b) > value(best) {
			best = b
		}
	}
	return best, true
}

// TypeGrid pivots the series into a report-type x hour-bucket crosstab for
// heatmap rendering. Column labels are the bucket start hours.
func (s Series) TypeGrid() CrossTab {
	ct := CrossTab{Rows: reportTypeCols}
	if len(s.Buckets) == 0 {
		return ct
	}
	ct.Cells = [][]int{make([]int, len(s.Buckets)), make([]int, len(s.Buckets))}
	for i, b := range s.Buckets {
		ct.Cols = append(ct.Cols, b.Start.Format("01/02 15:00"))
		ct.Cells[0][i] = b.DCReport
		ct.Cells[1][i] = b.DCX
	}
	return ct
}
