package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/dc-report-analytics/internal/aggregate"
	"github.com/couchcryptid/dc-report-analytics/internal/domain"
)

func rec(day, hour, min int, rt domain.ReportType, sat, msg string) domain.Record {
	return domain.Record{
		Timestamp:  time.Date(2025, time.August, day, hour, min, 0, 0, domain.JST),
		ReportType: rt,
		Satellite:  sat,
		Priority:   "1",
		Message:    msg,
	}
}

// fixtureRecords spans two days with four DC Reports across three disaster
// categories and two DCX test broadcasts.
func fixtureRecords() []domain.ClassifiedRecord {
	return domain.ClassifyAll([]domain.Record{
		rec(21, 14, 5, domain.ReportTypeDCReport, "QZSS-2", "災危通報(気象)大雨警報発令"),
		rec(21, 14, 25, domain.ReportTypeDCReport, "QZSS-2", "災危通報(気象)土砂災害警戒情報発表"),
		rec(22, 14, 40, domain.ReportTypeDCReport, "QZSS-7", "災危通報(震源)地震発生"),
		rec(22, 15, 0, domain.ReportTypeDCX, "QZSS-2", "Test broadcast"),
		rec(22, 16, 30, domain.ReportTypeDCReport, "QZSS-2", "災危通報(海上)海上風警報発表"),
		rec(22, 20, 10, domain.ReportTypeDCX, "QZSS-3", "Test broadcast"),
	})
}

func fixtureSummary() *aggregate.Summary {
	return aggregate.Compute(fixtureRecords())
}

// assertSectionOrder verifies each heading appears and that they appear in
// the given order.
func assertSectionOrder(t *testing.T, out string, headings ...string) {
	t.Helper()
	prev := -1
	for _, h := range headings {
		idx := strings.Index(out, h)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", h)
		assert.Greater(t, idx, prev, "section %q out of order", h)
		prev = idx
	}
}

func TestBuilderSummary(t *testing.T) {
	out := NewBuilder(NewPrinter(LocaleEnglish)).Summary(fixtureSummary())

	assertSectionOrder(t, out,
		"# QZSS DC Report Analysis",
		"## Overview",
		"## Report Type Breakdown",
		"## Satellite Breakdown",
		"## Disaster Categories",
		"## Key Findings",
	)

	assert.Contains(t, out, "- Total records: 6")
	assert.Contains(t, out, "- Period: 2025-08-21 14:05:00 to 2025-08-22 20:10:00")
	assert.Contains(t, out, "- Days covered: 2")
	assert.Contains(t, out, "- DC Report: 4 (66.7%)")
	assert.Contains(t, out, "- DCX: 2 (33.3%)")
	assert.Contains(t, out, "- QZSS-2: 4 (66.7%)")

	// Disaster percentages use the DC Report count as denominator.
	assert.Contains(t, out, "- Weather: 2 (50.0%)")
	assert.Contains(t, out, "- Earthquake: 1 (25.0%)")
	assert.Contains(t, out, "- Marine: 1 (25.0%)")

	assert.Contains(t, out, "1. Logged 6 broadcasts between 2025-08-21 14:05:00 and 2025-08-22 20:10:00.")
	assert.Contains(t, out, "2. Real alerts (DC Report) make up 66.7% of traffic, tests (DCX) 33.3%.")
	assert.Contains(t, out, "3. Satellite QZSS-2 relayed the most broadcasts (66.7%).")
	assert.Contains(t, out, "4. The dominant disaster category is Weather (50.0% of DC Reports).")
	assert.Contains(t, out, "5. Activity peaks at 14:00 with 3 broadcasts.")
	assert.Contains(t, out, "6. Friday sees the most traffic.")

	assert.NotContains(t, out, "## Disaster Details")
	assert.NotContains(t, out, "## Temporal Analysis")
}

func TestBuilderSummaryJapanese(t *testing.T) {
	out := NewBuilder(NewPrinter(LocaleJapanese)).Summary(fixtureSummary())

	assert.Contains(t, out, "# QZSS DCレポート 分析レポート")
	assert.Contains(t, out, "## 概要")
	assert.Contains(t, out, "- 総レコード数: 6件")
	assert.Contains(t, out, "- 気象: 2件（50.0%）")
	assert.Contains(t, out, "金曜日")
	assert.NotContains(t, out, "## Overview")
	assert.NotContains(t, out, "Weather:")
}

func TestBuilderDetailed(t *testing.T) {
	out := NewBuilder(NewPrinter(LocaleEnglish)).Detailed(fixtureSummary())

	assertSectionOrder(t, out,
		"# QZSS DC Report Detailed Analysis",
		"## Overview",
		"## Report Type Breakdown",
		"## Priority Breakdown",
		"## Satellite Breakdown",
		"## Disaster Categories",
		"## Disaster Details (top 10)",
		"## Temporal Analysis",
		"## Key Findings",
	)

	assert.Contains(t, out, "- DC Report: real disaster and crisis management alerts")
	assert.Contains(t, out, "- DCX: test and exercise broadcasts")
	assert.Contains(t, out, "- 1: 6 (100.0%)")
	assert.Contains(t, out, "- QZSS-2: DC Report 3 / DCX 1 (total 4)")
	assert.Contains(t, out, "- QZSS-3: DC Report 0 / DCX 1 (total 1)")
	assert.Contains(t, out, "- QZSS-7: DC Report 1 / DCX 0 (total 1)")
	assert.Contains(t, out, "- Earthquake Information: 1 (25.0%)")
	assert.Contains(t, out, "- Heavy Rain Warning: 1 (25.0%)")
	assert.Contains(t, out, "- Peak hour: 14:00 (3 records)")
	assert.Contains(t, out, "- Most active day: Friday (4 records)")
}

func TestBuilderDetailedSatelliteRowsAscending(t *testing.T) {
	out := NewBuilder(NewPrinter(LocaleEnglish)).Detailed(fixtureSummary())

	i2 := strings.Index(out, "- QZSS-2: DC Report")
	i3 := strings.Index(out, "- QZSS-3: DC Report")
	i7 := strings.Index(out, "- QZSS-7: DC Report")
	require.GreaterOrEqual(t, i2, 0)
	assert.Less(t, i2, i3)
	assert.Less(t, i3, i7)
}

func TestBuilderFiltered(t *testing.T) {
	since := time.Date(2025, time.August, 22, 0, 0, 0, 0, domain.JST)
	subset := aggregate.Filter(fixtureRecords(), since)
	require.Len(t, subset, 4)

	out := NewBuilder(NewPrinter(LocaleEnglish)).Filtered(aggregate.Compute(subset), since)

	assert.Contains(t, out, "# QZSS DC Report Analysis (from 2025-08-22 00:00:00)")
	assert.Contains(t, out, "- Total records: 4")
	assert.Contains(t, out, "- Duration: 5.5 hours")
	assert.NotContains(t, out, "- Days covered:")

	// Categories are rebuilt from the detail labels; the split must match
	// the records that survived the cutoff.
	assert.Contains(t, out, "- Earthquake: 1 (50.0%)")
	assert.Contains(t, out, "- Marine: 1 (50.0%)")
	assert.NotContains(t, out, "- Weather:")
}

func TestCategoriesFromDetailsMatchesDirect(t *testing.T) {
	s := fixtureSummary()
	derived := categoriesFromDetails(s.Disasters.ByDetail)
	assert.Equal(t, s.Disasters.ByCategory, derived)
}

func TestBuilderTrend(t *testing.T) {
	records := domain.ClassifyAll([]domain.Record{
		rec(22, 14, 5, domain.ReportTypeDCReport, "QZSS-2", "災危通報(気象)大雨警報発令"),
		rec(22, 14, 40, domain.ReportTypeDCReport, "QZSS-7", "災危通報(震源)地震発生"),
		rec(22, 15, 10, domain.ReportTypeDCX, "QZSS-3", "Test broadcast"),
		rec(22, 17, 20, domain.ReportTypeDCReport, "QZSS-2", "災危通報(洪水)氾濫警戒情報発表"),
	})
	series := aggregate.HourlyBuckets(records, time.Date(2025, time.August, 22, 14, 0, 0, 0, domain.JST))
	require.Len(t, series.Buckets, 4)

	out := NewBuilder(NewPrinter(LocaleEnglish)).Trend(series)

	assertSectionOrder(t, out,
		"# QZSS DC Report Hourly Trend Analysis",
		"## Overview",
		"## Hourly Statistics",
		"## Hourly Buckets",
		"## Key Findings",
	)

	assert.Contains(t, out, "- Period: 2025-08-22 14:00 to 2025-08-22 17:00")
	assert.Contains(t, out, "- Hours observed: 4")
	assert.Contains(t, out, "- Total records: 4")
	assert.Contains(t, out, "- DC Report: 3 / DCX: 1")
	assert.Contains(t, out, "- Average per hour: DC Report 0.8 / DCX 0.2 / total 1.0")
	assert.Contains(t, out, "- Busiest hour: 2025-08-22 14:00 (2 records)")
	assert.Contains(t, out, "- DCX peak: 2025-08-22 15:00 (1 records)")

	// Empty hours still get a bucket line.
	assert.Contains(t, out, "- 2025-08-22 16:00: 0 DC Report / 0 DCX / 0 total")

	assert.Contains(t, out, "1. Cumulative volume reached 4 records by 2025-08-22 17:00.")
	assert.Contains(t, out, "2. Average activity is 1.0 broadcasts per hour.")
	assert.Contains(t, out, "3. Activity peaks at 14:00 with 2 broadcasts.")
}

func TestBuilderEmptyInput(t *testing.T) {
	b := NewBuilder(NewPrinter(LocaleEnglish))

	t.Run("summary keeps only overview", func(t *testing.T) {
		out := b.Summary(aggregate.Compute(nil))
		assert.Contains(t, out, "# QZSS DC Report Analysis")
		assert.Contains(t, out, "- Total records: 0")
		assert.NotContains(t, out, "- Period:")
		assert.NotContains(t, out, "## Report Type Breakdown")
		assert.NotContains(t, out, "## Satellite Breakdown")
		assert.NotContains(t, out, "## Disaster Categories")
		assert.NotContains(t, out, "## Key Findings")
	})

	t.Run("detailed keeps only overview", func(t *testing.T) {
		out := b.Detailed(aggregate.Compute(nil))
		assert.Contains(t, out, "- Total records: 0")
		assert.NotContains(t, out, "## Priority Breakdown")
		assert.NotContains(t, out, "## Disaster Details")
		assert.NotContains(t, out, "## Temporal Analysis")
	})

	t.Run("trend reports zero records", func(t *testing.T) {
		out := b.Trend(aggregate.Series{})
		assert.Contains(t, out, "# QZSS DC Report Hourly Trend Analysis")
		assert.Contains(t, out, "- Total records: 0")
		assert.NotContains(t, out, "## Hourly Buckets")
		assert.NotContains(t, out, "## Key Findings")
	})
}

func TestBuilderNoDisasterSections(t *testing.T) {
	// DCX-only input has no DC Reports, so every disaster section drops out.
	s := aggregate.Compute(domain.ClassifyAll([]domain.Record{
		rec(22, 10, 0, domain.ReportTypeDCX, "QZSS-3", "Test broadcast"),
	}))
	out := NewBuilder(NewPrinter(LocaleEnglish)).Detailed(s)

	assert.Contains(t, out, "- Total records: 1")
	assert.NotContains(t, out, "## Disaster Categories")
	assert.NotContains(t, out, "## Disaster Details")
}

func TestBuilderDetailsCapped(t *testing.T) {
	// More distinct detail labels than the cap: the listing stops at ten.
	var records []domain.Record
	messages := []string{
		"災危通報(気象)大雨警報発令",
		"災危通報(気象)土砂災害警戒情報発表",
		"災危通報(気象)洪水警報発表",
		"災危通報(気象)注意報",
		"災危通報(震源)地震発生",
		"災危通報(海上)海上濃霧警報発表",
		"災危通報(海上)海上風警報発表",
		"災危通報(海上)その他",
		"災危通報(洪水)氾濫警戒情報発表",
		"災危通報(洪水)その他",
		"通常メッセージ",
	}
	for i, msg := range messages {
		records = append(records, rec(22, 10, i, domain.ReportTypeDCReport, "QZSS-2", msg))
	}
	s := aggregate.Compute(domain.ClassifyAll(records))
	require.Len(t, s.Disasters.ByDetail, 11)

	out := NewBuilder(NewPrinter(LocaleEnglish)).Detailed(s)
	listed := strings.Count(out[strings.Index(out, "## Disaster Details"):], "(9.1%)")
	assert.Equal(t, 10, listed)
}
