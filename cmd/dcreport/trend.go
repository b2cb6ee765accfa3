package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/dc-report-analytics/internal/pipeline"
	"github.com/couchcryptid/dc-report-analytics/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Hourly trend analysis from a cutoff onward",
	Long: `Buckets broadcasts into hourly bins from --since through the last
record, reporting per-hour DC Report and DCX activity, peaks, and
cumulative totals, with trend line charts.`,
	RunE: runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	since, err := parseSince(flagSince)
	if err != nil {
		return err
	}
	return runAnalysis(pipeline.VariantTrend, report.LocaleJapanese, since)
}
