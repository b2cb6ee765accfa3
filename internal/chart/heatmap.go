package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/couchcryptid/dc-report-analytics/internal/aggregate"
)

const (
	heatLeft   = 140.0
	heatRight  = 30.0
	heatTop    = 60.0
	heatBottom = 90.0

	heatFontPoints = 13.0
)

// Heatmap renders a crosstab as an annotated density grid, rows on the
// vertical axis. Cell shading scales with the count relative to the
// largest cell.
func (r *Renderer) Heatmap(w io.Writer, title string, ct aggregate.CrossTab) error {
	if ct.Empty() {
		return ErrNoData
	}

	dc := gg.NewContext(r.width, r.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	if r.fontPath != "" {
		if err := dc.LoadFontFace(r.fontPath, heatFontPoints); err != nil {
			return fmt.Errorf("load font: %w", err)
		}
	}

	dc.SetRGB255(40, 40, 40)
	dc.DrawStringAnchored(r.label(title), float64(r.width)/2, heatTop/2, 0.5, 0.5)

	gridW := float64(r.width) - heatLeft - heatRight
	gridH := float64(r.height) - heatTop - heatBottom
	cellW := gridW / float64(len(ct.Cols))
	cellH := gridH / float64(len(ct.Rows))
	max := float64(ct.Max())

	for i, row := range ct.Cells {
		y := heatTop + float64(i)*cellH
		for j, n := range row {
			x := heatLeft + float64(j)*cellW
			frac := float64(n) / max
			dc.SetRGB255(ylOrRd(frac))
			dc.DrawRectangle(x, y, cellW, cellH)
			dc.Fill()

			if cellW < 18 || cellH < 12 {
				continue
			}
			if frac > 0.55 {
				dc.SetRGB255(255, 255, 255)
			} else {
				dc.SetRGB255(60, 60, 60)
			}
			dc.DrawStringAnchored(strconv.Itoa(n), x+cellW/2, y+cellH/2, 0.5, 0.5)
		}
	}

	dc.SetRGB255(60, 60, 60)
	rowStride := labelStride(len(ct.Rows), int(gridH/14))
	for i, label := range ct.Rows {
		if i%rowStride != 0 {
			continue
		}
		y := heatTop + (float64(i)+0.5)*cellH
		dc.DrawStringAnchored(label, heatLeft-8, y, 1, 0.5)
	}

	rotate := widestLabel(ct.Cols) > 5
	colStride := labelStride(len(ct.Cols), int(gridW/14))
	for j, label := range ct.Cols {
		if j%colStride != 0 {
			continue
		}
		x := heatLeft + (float64(j)+0.5)*cellW
		y := heatTop + gridH + 10
		if rotate {
			dc.Push()
			dc.RotateAbout(-math.Pi/4, x, y)
			dc.DrawStringAnchored(label, x, y, 1, 0.5)
			dc.Pop()
		} else {
			dc.DrawStringAnchored(label, x, y, 0.5, 0)
		}
	}

	return dc.EncodePNG(w)
}

// labelStride returns the sampling interval that keeps at most fit labels
// on an axis.
func labelStride(n, fit int) int {
	if fit < 1 {
		fit = 1
	}
	stride := (n + fit - 1) / fit
	if stride < 1 {
		stride = 1
	}
	return stride
}

func widestLabel(labels []string) int {
	widest := 0
	for _, l := range labels {
		if len(l) > widest {
			widest = len(l)
		}
	}
	return widest
}

// ylOrRd maps a 0 to 1 fraction onto the ColorBrewer YlOrRd ramp, pale
// yellow through orange to deep red.
func ylOrRd(t float64) (int, int, int) {
	switch {
	case t <= 0:
		return 255, 255, 204
	case t < 0.5:
		return lerpRGB(t*2, 255, 255, 204, 253, 141, 60)
	case t < 1:
		return lerpRGB((t-0.5)*2, 253, 141, 60, 189, 0, 38)
	default:
		return 189, 0, 38
	}
}

func lerpRGB(t float64, r0, g0, b0, r1, g1, b1 int) (int, int, int) {
	return lerp(t, r0, r1), lerp(t, g0, g1), lerp(t, b0, b1)
}

func lerp(t float64, a, b int) int {
	return a + int(math.Round(t*float64(b-a)))
}
