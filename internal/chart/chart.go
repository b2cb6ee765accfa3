// Package chart renders the report's PNG artifacts. Every renderer takes an
// aggregate and an io.Writer; an aggregate with nothing to plot yields
// [ErrNoData] so callers can skip the artifact instead of emitting an empty
// image. Label text flows through the same locale printer the reports use,
// but axis and slice text falls back to the library's built-in Latin font
// unless a font file is configured, so Japanese labels need FontPath set.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/text/message"

	"github.com/couchcryptid/dc-report-analytics/internal/aggregate"
)

// ErrNoData marks an aggregate too small to plot. Empty distributions and
// line charts with fewer than two points both resolve to it.
var ErrNoData = errors.New("no data to chart")

const (
	// DefaultWidth and DefaultHeight size the artifacts when the config
	// leaves them unset.
	DefaultWidth  = 1024
	DefaultHeight = 640

	bucketTimeFormat = "01/02 15:04"
	dayFormat        = "01/02"
)

// Options configures a Renderer. Zero values fall back to the defaults;
// FontPath optionally points at a TrueType font for non-Latin labels.
type Options struct {
	Width    int
	Height   int
	FontPath string
}

// Renderer draws chart artifacts with one locale and one geometry.
type Renderer struct {
	p        *message.Printer
	width    int
	height   int
	font     *truetype.Font
	fontPath string
}

// NewRenderer builds a Renderer. A configured font file that cannot be read
// or parsed is an error; charts without a font use the library default.
func NewRenderer(p *message.Printer, opts Options) (*Renderer, error) {
	r := &Renderer{
		p:        p,
		width:    opts.Width,
		height:   opts.Height,
		fontPath: opts.FontPath,
	}
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	if r.height <= 0 {
		r.height = DefaultHeight
	}
	if opts.FontPath != "" {
		raw, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		font, err := truetype.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", opts.FontPath, err)
		}
		r.font = font
	}
	return r, nil
}

// Pie renders a categorical distribution as a pie chart. Keys with a
// translation render localized; data values like satellite names pass
// through unchanged.
func (r *Renderer) Pie(w io.Writer, title string, dist aggregate.Distribution) error {
	if dist.Total() == 0 {
		return ErrNoData
	}
	values := make([]gochart.Value, 0, len(dist))
	for _, c := range dist {
		values = append(values, gochart.Value{
			Value: float64(c.N),
			Label: fmt.Sprintf("%s (%d)", r.label(c.Key), c.N),
		})
	}
	pie := gochart.PieChart{
		Title:  r.label(title),
		Width:  r.width,
		Height: r.height,
		Font:   r.font,
		Values: values,
	}
	return pie.Render(gochart.PNG, w)
}

// Bar renders a categorical distribution as labeled vertical bars.
func (r *Renderer) Bar(w io.Writer, title string, dist aggregate.Distribution) error {
	if dist.Total() == 0 {
		return ErrNoData
	}
	bars := make([]gochart.Value, 0, len(dist))
	for _, c := range dist {
		bars = append(bars, gochart.Value{Value: float64(c.N), Label: r.label(c.Key)})
	}
	return r.renderBars(w, title, bars)
}

// HourBar renders the dense 24-hour distribution, one bar per hour.
func (r *Renderer) HourBar(w io.Writer, title string, hours [24]int) error {
	total := 0
	for _, n := range hours {
		total += n
	}
	if total == 0 {
		return ErrNoData
	}
	bars := make([]gochart.Value, 0, len(hours))
	for hour, n := range hours {
		bars = append(bars, gochart.Value{Value: float64(n), Label: fmt.Sprintf("%02d", hour)})
	}
	return r.renderBars(w, title, bars)
}

func (r *Renderer) renderBars(w io.Writer, title string, bars []gochart.Value) error {
	barWidth, barSpacing := r.barGeometry(len(bars))
	bar := gochart.BarChart{
		Title:      r.label(title),
		Width:      r.width,
		Height:     r.height,
		Font:       r.font,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Bars:       bars,
		YAxis: gochart.YAxis{
			ValueFormatter: gochart.IntValueFormatter,
		},
	}
	return bar.Render(gochart.PNG, w)
}

// barGeometry spreads n bars across the drawable width so dense charts like
// the 24-hour histogram stay inside the canvas.
func (r *Renderer) barGeometry(n int) (width, spacing int) {
	avail := r.width - 150
	per := avail / n
	width = per * 2 / 3
	if width < 4 {
		width = 4
	}
	spacing = per - width
	if spacing < 2 {
		spacing = 2
	}
	return width, spacing
}

// DateLine renders the per-day record counts as a time series line.
func (r *Renderer) DateLine(w io.Writer, title string, days []aggregate.DateCount) error {
	if len(days) < 2 {
		return ErrNoData
	}
	xs := make([]time.Time, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = d.Day
		ys[i] = float64(d.N)
	}
	graph := r.timeChart(title, dayFormat)
	graph.Series = []gochart.Series{
		gochart.TimeSeries{
			Name:    r.label("Records"),
			XValues: xs,
			YValues: ys,
		},
	}
	return graph.Render(gochart.PNG, w)
}

// TrendLines renders the hourly bucket series as three lines, one per
// report type plus the combined total.
func (r *Renderer) TrendLines(w io.Writer, title string, s aggregate.Series) error {
	if len(s.Buckets) < 2 {
		return ErrNoData
	}
	xs := make([]time.Time, len(s.Buckets))
	dc := make([]float64, len(s.Buckets))
	dcx := make([]float64, len(s.Buckets))
	total := make([]float64, len(s.Buckets))
	for i, b := range s.Buckets {
		xs[i] = b.Start
		dc[i] = float64(b.DCReport)
		dcx[i] = float64(b.DCX)
		total[i] = float64(b.Total)
	}
	graph := r.timeChart(title, bucketTimeFormat)
	graph.Series = []gochart.Series{
		gochart.TimeSeries{Name: "DC Report", XValues: xs, YValues: dc},
		gochart.TimeSeries{Name: "DCX", XValues: xs, YValues: dcx},
		gochart.TimeSeries{Name: r.label("Records"), XValues: xs, YValues: total},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph.Render(gochart.PNG, w)
}

// CumulativeLine renders the running total of the hourly series.
func (r *Renderer) CumulativeLine(w io.Writer, title string, s aggregate.Series) error {
	cum := s.Cumulative()
	if len(cum) < 2 {
		return ErrNoData
	}
	xs := make([]time.Time, len(cum))
	ys := make([]float64, len(cum))
	for i, b := range cum {
		xs[i] = b.Start
		ys[i] = float64(b.Total)
	}
	graph := r.timeChart(title, bucketTimeFormat)
	graph.Series = []gochart.Series{
		gochart.TimeSeries{
			Name:    r.label("Cumulative Broadcasts"),
			XValues: xs,
			YValues: ys,
		},
	}
	return graph.Render(gochart.PNG, w)
}

// MovingAverageLine renders the centered moving average of the hourly
// totals. Series shorter than the window yield ErrNoData.
func (r *Renderer) MovingAverageLine(w io.Writer, title string, s aggregate.Series, window int) error {
	pts := s.MovingAverage(window)
	if len(pts) < 2 {
		return ErrNoData
	}
	return r.pointLine(w, title, r.label(title), pts, nil)
}

// RatioLine renders each bucket's DC Report share in percent on a fixed
// 0 to 100 scale.
func (r *Renderer) RatioLine(w io.Writer, title string, s aggregate.Series) error {
	pts := s.Ratios()
	if len(pts) < 2 {
		return ErrNoData
	}
	rng := &gochart.ContinuousRange{Min: 0, Max: 100}
	return r.pointLine(w, title, r.label("DC Report Ratio"), pts, rng)
}

func (r *Renderer) pointLine(w io.Writer, title, name string, pts []aggregate.Point, rng gochart.Range) error {
	xs := make([]time.Time, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.Start
		ys[i] = p.Value
	}
	graph := r.timeChart(title, bucketTimeFormat)
	if rng != nil {
		graph.YAxis.Range = rng
	}
	graph.Series = []gochart.Series{
		gochart.TimeSeries{Name: name, XValues: xs, YValues: ys},
	}
	return graph.Render(gochart.PNG, w)
}

func (r *Renderer) timeChart(title, timeFormat string) gochart.Chart {
	return gochart.Chart{
		Title:  r.label(title),
		Width:  r.width,
		Height: r.height,
		Font:   r.font,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat(timeFormat),
		},
		YAxis: gochart.YAxis{
			Name:           r.label("Records"),
			ValueFormatter: gochart.IntValueFormatter,
		},
	}
}

func (r *Renderer) label(key string) string {
	return r.p.Sprintf(key)
}
