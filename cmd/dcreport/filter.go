package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/dc-report-analytics/internal/pipeline"
	"github.com/couchcryptid/dc-report-analytics/internal/report"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Analysis restricted to records at or after a cutoff",
	Long: `Drops every record timestamped before --since, then runs the
detailed analysis over the remainder. Useful for isolating a single
boot session or storm window inside a long capture.`,
	RunE: runFilter,
}

func runFilter(cmd *cobra.Command, args []string) error {
	since, err := parseSince(flagSince)
	if err != nil {
		return err
	}
	return runAnalysis(pipeline.VariantFiltered, report.LocaleEnglish, since)
}
