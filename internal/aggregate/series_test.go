package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/dc-report-analytics/internal/domain"
)

func trendFixture() []domain.ClassifiedRecord {
	return []domain.ClassifiedRecord{
		dcRecord(at(22, 0, 10), "QZSS-7", "1", domain.CategoryWeather, domain.DetailHeavyRainWarning),
		dcRecord(at(22, 0, 40), "QZSS-7", "1", domain.CategoryWeather, domain.DetailHeavyRainWarning),
		dcxRecord(at(22, 0, 50), "QZSS-3", "2"),
		dcxRecord(at(22, 2, 15), "QZSS-3", "2"),
		dcRecord(at(22, 3, 59), "QZSS-2", "1", domain.CategoryFlood, domain.DetailFloodRiskInformation),
	}
}

func TestHourlyBuckets(t *testing.T) {
	s := HourlyBuckets(trendFixture(), at(22, 0, 0))

	require.Len(t, s.Buckets, 4)

	t.Run("buckets are dense and contiguous", func(t *testing.T) {
		for i, b := range s.Buckets {
			assert.Equal(t, at(22, i, 0), b.Start)
		}
	})

	t.Run("per-bucket counts", func(t *testing.T) {
		assert.Equal(t, Bucket{Start: at(22, 0, 0), DCReport: 2, DCX: 1, Total: 3}, s.Buckets[0])
		assert.Equal(t, Bucket{Start: at(22, 1, 0)}, s.Buckets[1]) // silent hour stays zero
		assert.Equal(t, Bucket{Start: at(22, 2, 0), DCX: 1, Total: 1}, s.Buckets[2])
		assert.Equal(t, Bucket{Start: at(22, 3, 0), DCReport: 1, Total: 1}, s.Buckets[3])
	})

	t.Run("cutoff truncates to the hour", func(t *testing.T) {
		shifted := HourlyBuckets(trendFixture(), at(22, 0, 25))
		require.NotEmpty(t, shifted.Buckets)
		assert.Equal(t, at(22, 0, 0), shifted.Buckets[0].Start)
	})

	t.Run("records before the cutoff are ignored", func(t *testing.T) {
		later := HourlyBuckets(trendFixture(), at(22, 2, 0))
		require.Len(t, later.Buckets, 2)
		dc, dcx, total := later.Totals()
		assert.Equal(t, 1, dc)
		assert.Equal(t, 1, dcx)
		assert.Equal(t, 2, total)
	})

	t.Run("no eligible records yields an empty series", func(t *testing.T) {
		s := HourlyBuckets(trendFixture(), at(23, 0, 0))
		assert.True(t, s.Empty())
	})
}

func TestSeriesTotalsAndAverages(t *testing.T) {
	s := HourlyBuckets(trendFixture(), at(22, 0, 0))

	dc, dcx, total := s.Totals()
	assert.Equal(t, 3, dc)
	assert.Equal(t, 2, dcx)
	assert.Equal(t, 5, total)

	avgDC, avgDCX, avgTotal := s.Averages()
	assert.InDelta(t, 0.75, avgDC, 0.001)
	assert.InDelta(t, 0.5, avgDCX, 0.001)
	assert.InDelta(t, 1.25, avgTotal, 0.001)

	avgDC, _, _ = Series{}.Averages()
	assert.Zero(t, avgDC)
}

func TestSeriesCumulative(t *testing.T) {
	s := HourlyBuckets(trendFixture(), at(22, 0, 0))

	cum := s.Cumulative()
	require.Len(t, cum, 4)
	assert.Equal(t, 3, cum[0].Total)
	assert.Equal(t, 3, cum[1].Total) // flat through the silent hour
	assert.Equal(t, 4, cum[2].Total)
	assert.Equal(t, 5, cum[3].Total)

	dc, dcx, total := s.Totals()
	last := cum[len(cum)-1]
	assert.Equal(t, dc, last.DCReport)
	assert.Equal(t, dcx, last.DCX)
	assert.Equal(t, total, last.Total)
}

func TestSeriesMovingAverage(t *testing.T) {
	s := HourlyBuckets(trendFixture(), at(22, 0, 0))

	ma := s.MovingAverage(3)
	require.Len(t, ma, 2)
	assert.Equal(t, at(22, 1, 0), ma[0].Start)
	assert.InDelta(t, (3+0+1)/3.0, ma[0].Value, 0.001)
	assert.Equal(t, at(22, 2, 0), ma[1].Start)
	assert.InDelta(t, (0+1+1)/3.0, ma[1].Value, 0.001)

	assert.Nil(t, s.MovingAverage(2))  // even window
	assert.Nil(t, s.MovingAverage(5))  // window exceeds series
	assert.Nil(t, Series{}.MovingAverage(3))
}

func TestSeriesRatios(t *testing.T) {
	s := HourlyBuckets(trendFixture(), at(22, 0, 0))

	ratios := s.Ratios()
	require.Len(t, ratios, 4)
	assert.InDelta(t, 66.666, ratios[0].Value, 0.01)
	assert.Zero(t, ratios[1].Value) // empty bucket, not NaN
	assert.Zero(t, ratios[2].Value) // DCX only
	assert.InDelta(t, 100.0, ratios[3].Value, 0.001)
}

func TestSeriesPeaks(t *testing.T) {
	s := HourlyBuckets(trendFixture(), at(22, 0, 0))

	peak, ok := s.PeakTotal()
	require.True(t, ok)
	assert.Equal(t, at(22, 0, 0), peak.Start)

	peakDC, ok := s.PeakDC()
	require.True(t, ok)
	assert.Equal(t, 2, peakDC.DCReport)

	peakDCX, ok := s.PeakDCX()
	require.True(t, ok)
	// DCX peaks tie at 1; the earliest bucket wins.
	assert.Equal(t, at(22, 0, 0), peakDCX.Start)

	_, ok = Series{}.PeakTotal()
	assert.False(t, ok)
}

func TestSeriesTypeGrid(t *testing.T) {
	s := HourlyBuckets(trendFixture(), at(22, 0, 0))

	grid := s.TypeGrid()
	require.Equal(t, []string{"DC Report", "DCX"}, grid.Rows)
	require.Len(t, grid.Cols, 4)
	assert.Equal(t, "08/22 00:00", grid.Cols[0])
	assert.Equal(t, 2, grid.Cells[0][0])
	assert.Equal(t, 1, grid.Cells[1][0])
	assert.Equal(t, s.Buckets[2].DCX, grid.Cells[1][2])

	empty := Series{}.TypeGrid()
	assert.True(t, empty.Empty())

	total := 0
	_, _, seriesTotal := s.Totals()
	for _, row := range grid.Cells {
		for _, n := range row {
			total += n
		}
	}
	assert.Equal(t, seriesTotal, total)
}
