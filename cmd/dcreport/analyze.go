package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/dc-report-analytics/internal/pipeline"
	"github.com/couchcryptid/dc-report-analytics/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summary analysis of a receiver log",
	Long: `Parses the log and writes the summary report: report-type and
satellite breakdowns, disaster categories, and key findings, with the
matching charts.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	return runAnalysis(pipeline.VariantSummary, report.LocaleJapanese, time.Time{})
}
