package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/dc-report-analytics/internal/pipeline"
	"github.com/couchcryptid/dc-report-analytics/internal/report"
)

var detailCmd = &cobra.Command{
	Use:   "detail",
	Short: "Detailed analysis with priority, crosstab, and temporal sections",
	Long: `Everything analyze produces plus priority and satellite-by-type
breakdowns, the top disaster details, temporal patterns, and the
corresponding extra charts.`,
	RunE: runDetail,
}

func runDetail(cmd *cobra.Command, args []string) error {
	return runAnalysis(pipeline.VariantDetailed, report.LocaleJapanese, time.Time{})
}
