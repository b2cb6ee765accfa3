package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/dc-report-analytics/internal/domain"
)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 8, day, hour, min, 0, 0, domain.JST)
}

func dcRecord(ts time.Time, sat, prio string, cat domain.Category, det domain.Detail) domain.ClassifiedRecord {
	return domain.ClassifiedRecord{
		Record: domain.Record{
			Timestamp:  ts,
			ReportType: domain.ReportTypeDCReport,
			Satellite:  sat,
			Priority:   prio,
		},
		Category: cat,
		Detail:   det,
	}
}

func dcxRecord(ts time.Time, sat, prio string) domain.ClassifiedRecord {
	return domain.ClassifiedRecord{
		Record: domain.Record{
			Timestamp:  ts,
			ReportType: domain.ReportTypeDCX,
			Satellite:  sat,
			Priority:   prio,
		},
	}
}

// fixture spans Aug 21 and Aug 23 with a silent day between, three
// satellites, and a DC/DCX mix: 4 DC Reports, 2 DCX.
func fixture() []domain.ClassifiedRecord {
	return []domain.ClassifiedRecord{
		dcRecord(at(21, 6, 0), "QZSS-7", "1", domain.CategoryWeather, domain.DetailHeavyRainWarning),
		dcRecord(at(21, 6, 30), "QZSS-7", "1", domain.CategoryWeather, domain.DetailSedimentDisasterWarning),
		dcxRecord(at(21, 14, 0), "QZSS-3", "2"),
		dcRecord(at(23, 6, 5), "QZSS-2", "3", domain.CategoryEarthquake, domain.DetailEarthquakeInformation),
		dcRecord(at(23, 9, 0), "QZSS-7", "1", domain.CategoryWeather, domain.DetailHeavyRainWarning),
		dcxRecord(at(23, 23, 45), "QZSS-2", "2"),
	}
}

func TestCompute(t *testing.T) {
	s := Compute(fixture())

	t.Run("overview", func(t *testing.T) {
		assert.Equal(t, 6, s.Total)
		assert.Equal(t, at(21, 6, 0), s.Span.Min)
		assert.Equal(t, at(23, 23, 45), s.Span.Max)
		assert.Equal(t, 3, s.Span.DaySpan())
	})

	t.Run("report type distribution", func(t *testing.T) {
		require.Len(t, s.ByReportType, 2)
		assert.Equal(t, Count{Key: "DC Report", N: 4}, s.ByReportType[0])
		assert.Equal(t, Count{Key: "DCX", N: 2}, s.ByReportType[1])
	})

	t.Run("satellite distribution descends with ascending tie-break", func(t *testing.T) {
		require.Len(t, s.BySatellite, 3)
		assert.Equal(t, Count{Key: "QZSS-7", N: 3}, s.BySatellite[0])
		// QZSS-2 and QZSS-3 hold 2 and 1; no tie here, but order is fixed.
		assert.Equal(t, Count{Key: "QZSS-2", N: 2}, s.BySatellite[1])
		assert.Equal(t, Count{Key: "QZSS-3", N: 1}, s.BySatellite[2])
	})

	t.Run("priority distribution", func(t *testing.T) {
		assert.Equal(t, 3, s.ByPriority.Get("1"))
		assert.Equal(t, 2, s.ByPriority.Get("2"))
		assert.Equal(t, 1, s.ByPriority.Get("3"))
	})

	t.Run("weekday distribution uses day names", func(t *testing.T) {
		// Aug 21 2025 is a Thursday, Aug 23 a Saturday.
		assert.Equal(t, 3, s.ByWeekday.Get("Thursday"))
		assert.Equal(t, 3, s.ByWeekday.Get("Saturday"))
	})

	t.Run("hourly series is dense and sums to total", func(t *testing.T) {
		sum := 0
		for _, n := range s.ByHour {
			sum += n
		}
		assert.Equal(t, s.Total, sum)
		assert.Equal(t, 3, s.ByHour[6])
		assert.Equal(t, 0, s.ByHour[0])
	})

	t.Run("daily counts ascend over observed dates", func(t *testing.T) {
		require.Len(t, s.ByDate, 2)
		assert.Equal(t, at(21, 0, 0), s.ByDate[0].Day)
		assert.Equal(t, 3, s.ByDate[0].N)
		assert.Equal(t, at(23, 0, 0), s.ByDate[1].Day)
		assert.Equal(t, 3, s.ByDate[1].N)
	})

	t.Run("hour x type crosstab", func(t *testing.T) {
		require.Len(t, s.HourType.Rows, 24)
		require.Equal(t, []string{"DC Report", "DCX"}, s.HourType.Cols)
		assert.Equal(t, 3, s.HourType.Cells[6][0])
		assert.Equal(t, 1, s.HourType.Cells[14][1])
		assert.Equal(t, s.Total, s.HourType.Total())
	})

	t.Run("date x type crosstab is dense across the gap day", func(t *testing.T) {
		require.Equal(t, []string{"2025-08-21", "2025-08-22", "2025-08-23"}, s.DateType.Rows)
		assert.Equal(t, []int{0, 0}, s.DateType.Cells[1])
		assert.Equal(t, s.Total, s.DateType.Total())
	})

	t.Run("satellite x type crosstab rows ascend", func(t *testing.T) {
		require.Equal(t, []string{"QZSS-2", "QZSS-3", "QZSS-7"}, s.SatType.Rows)
		assert.Equal(t, 3, s.SatType.Cells[2][0]) // QZSS-7 DC Reports
		assert.Equal(t, 1, s.SatType.Cells[1][1]) // QZSS-3 DCX
	})

	t.Run("disaster counts cover exactly the DC Report subset", func(t *testing.T) {
		assert.Equal(t, 4, s.Disasters.DCTotal)
		assert.Equal(t, s.Disasters.DCTotal, s.Disasters.ByCategory.Total())
		assert.Equal(t, s.Disasters.DCTotal, s.Disasters.ByDetail.Total())
		assert.Equal(t, 3, s.Disasters.ByCategory.Get("Weather"))
		assert.Equal(t, 1, s.Disasters.ByCategory.Get("Earthquake"))
		assert.Equal(t, 2, s.Disasters.ByDetail.Get("Heavy Rain Warning"))
	})
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)

	assert.Zero(t, s.Total)
	assert.Empty(t, s.ByReportType)
	assert.Empty(t, s.ByDate)
	assert.True(t, s.Span.Min.IsZero())
	assert.Zero(t, s.Span.DaySpan())
	assert.Empty(t, s.DateType.Rows)
	assert.True(t, s.HourType.Empty())
	assert.Zero(t, s.Disasters.DCTotal)
}

func TestComputeUnknownReportType(t *testing.T) {
	records := []domain.ClassifiedRecord{
		{Record: domain.Record{Timestamp: at(22, 1, 0), ReportType: "Almanac", Satellite: "QZSS-1"}},
	}
	s := Compute(records)

	// Unknown types count toward volume but stay out of the typed crosstabs.
	assert.Equal(t, 1, s.ByReportType.Get("Almanac"))
	assert.True(t, s.HourType.Empty())
	assert.Zero(t, s.Disasters.DCTotal)
}

func TestFilter(t *testing.T) {
	records := fixture()
	cutoff := at(23, 6, 5)

	kept := Filter(records, cutoff)

	require.Len(t, kept, 3)
	assert.Equal(t, at(23, 6, 5), kept[0].Timestamp) // boundary is inclusive
	assert.Equal(t, at(23, 9, 0), kept[1].Timestamp)
	assert.Equal(t, at(23, 23, 45), kept[2].Timestamp)
}

func TestDistribution(t *testing.T) {
	d := Distribution{{Key: "a", N: 5}, {Key: "b", N: 3}, {Key: "c", N: 1}}

	assert.Equal(t, 9, d.Total())

	top, ok := d.Top()
	require.True(t, ok)
	assert.Equal(t, "a", top.Key)

	assert.Len(t, d.TopN(2), 2)
	assert.Len(t, d.TopN(10), 3)
	assert.Equal(t, 3, d.Get("b"))
	assert.Zero(t, d.Get("missing"))

	_, ok = Distribution{}.Top()
	assert.False(t, ok)
}

func TestDistributionTieOrder(t *testing.T) {
	records := []domain.ClassifiedRecord{
		dcxRecord(at(22, 1, 0), "QZSS-9", "2"),
		dcxRecord(at(22, 2, 0), "QZSS-1", "2"),
	}
	s := Compute(records)

	// Equal counts order by key ascending so reruns render identically.
	require.Len(t, s.BySatellite, 2)
	assert.Equal(t, "QZSS-1", s.BySatellite[0].Key)
	assert.Equal(t, "QZSS-9", s.BySatellite[1].Key)
}

func TestPct(t *testing.T) {
	assert.InDelta(t, 33.333, Pct(1, 3), 0.001)
	assert.Equal(t, 100.0, Pct(7, 7))
	assert.Zero(t, Pct(3, 0))
}

func TestPctBreakdownSumsToHundred(t *testing.T) {
	s := Compute(fixture())

	sum := 0.0
	for _, c := range s.ByReportType {
		sum += Pct(c.N, s.Total)
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}
