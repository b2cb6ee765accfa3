package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/couchcryptid/dc-report-analytics/internal/chart"
	"github.com/couchcryptid/dc-report-analytics/internal/config"
	"github.com/couchcryptid/dc-report-analytics/internal/domain"
	"github.com/couchcryptid/dc-report-analytics/internal/observability"
	"github.com/couchcryptid/dc-report-analytics/internal/pipeline"
	"github.com/couchcryptid/dc-report-analytics/internal/report"
)

var (
	// Global flags. Empty string means "not set"; environment and
	// built-in defaults apply underneath (see internal/config).
	flagInput        string
	flagOutDir       string
	flagPresentation string
	flagLocale       string
	flagMetricsFile  string
	flagPlain        bool

	// Cutoff shared by the filter and trend subcommands.
	flagSince string
)

// rootCmd runs the summary analysis when invoked without a subcommand, so
// a bare `dcreport` against the default input still produces a report.
var rootCmd = &cobra.Command{
	Use:   "dcreport",
	Short: "QZSS DC Report log analyzer",
	Long: `dcreport parses Michibiki (QZSS) DC Report receiver logs, classifies
disaster broadcasts by JMA marker, and writes Markdown reports plus PNG
charts to the output directory.

Run without arguments to produce the summary analysis of the default input.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "receiver log to analyze (default "+config.DefaultInput+", env DCR_INPUT)")
	rootCmd.PersistentFlags().StringVarP(&flagOutDir, "out-dir", "o", "", "directory for reports and charts (default out, env DCR_OUT_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagPresentation, "presentation", "", "presentation config YAML (env DCR_PRESENTATION)")
	rootCmd.PersistentFlags().StringVar(&flagLocale, "locale", "", "report locale, ja or en (overrides presentation config)")
	rootCmd.PersistentFlags().StringVar(&flagMetricsFile, "metrics-file", "", "Prometheus textfile to write after the run (env DCR_METRICS_TEXTFILE)")
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "print raw Markdown instead of rendering for the terminal")

	for _, c := range []*cobra.Command{filterCmd, trendCmd} {
		c.Flags().StringVar(&flagSince, "since", "", `cutoff timestamp in JST ("2006-01-02" or "2006-01-02 15:04:05")`)
		c.MarkFlagRequired("since")
	}

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(detailCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(trendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runAnalysis wires the full pipeline for one variant and prints the
// resulting report. fallback is the locale used when neither --locale nor
// the presentation file picks one.
func runAnalysis(variant pipeline.Variant, fallback language.Tag, since time.Time) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(cfg)

	logger := observability.NewLogger(cfg, os.Stderr)

	pres := &config.Presentation{}
	if cfg.Presentation != "" {
		pres, err = config.LoadPresentation(cfg.Presentation)
		if err != nil {
			return err
		}
	}

	tag, err := resolveLocale(pres, fallback)
	if err != nil {
		return err
	}
	builder := report.NewBuilder(report.NewPrinter(tag))

	// Chart text falls back to English unless a font file is configured;
	// the stock chart fonts cannot draw CJK glyphs.
	chartTag := report.LocaleEnglish
	if pres.Charts.FontPath != "" {
		chartTag = tag
	}
	renderer, err := chart.NewRenderer(report.NewPrinter(chartTag), chart.Options{
		Width:    pres.Charts.Width,
		Height:   pres.Charts.Height,
		FontPath: pres.Charts.FontPath,
	})
	if err != nil {
		return err
	}

	writer, err := pipeline.NewFSWriter(cfg.OutDir)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	p := pipeline.New(cfg.Input, writer, builder, renderer, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, runErr := p.Run(ctx, pipeline.Options{Variant: variant, Since: since})

	// The textfile is written on failure too so scrapes see run_success=0.
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("metrics textfile write failed", "path", cfg.MetricsFile, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("analysis failed", "variant", string(variant), "error", runErr)
		return runErr
	}
	return printReport(outcome.Report)
}

func applyFlagOverrides(cfg *config.Config) {
	if flagInput != "" {
		cfg.Input = flagInput
	}
	if flagOutDir != "" {
		cfg.OutDir = flagOutDir
	}
	if flagPresentation != "" {
		cfg.Presentation = flagPresentation
	}
	if flagMetricsFile != "" {
		cfg.MetricsFile = flagMetricsFile
	}
}

// resolveLocale picks the report locale: --locale flag, then the
// presentation file, then the subcommand default.
func resolveLocale(pres *config.Presentation, fallback language.Tag) (language.Tag, error) {
	if flagLocale != "" {
		return report.ParseLocale(flagLocale)
	}
	if pres.Locale != "" {
		return report.ParseLocale(pres.Locale)
	}
	return fallback, nil
}

const (
	sinceDateLayout = "2006-01-02"
	sinceTimeLayout = "2006-01-02 15:04:05"
)

// parseSince reads the --since cutoff, interpreted in JST like the log
// timestamps themselves.
func parseSince(s string) (time.Time, error) {
	for _, layout := range []string{sinceTimeLayout, sinceDateLayout} {
		if ts, err := time.ParseInLocation(layout, s, domain.JST); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --since %q (use %q or %q)", s, sinceDateLayout, sinceTimeLayout)
}

// printReport writes the report Markdown to stdout, styled for the
// terminal unless --plain is set. Rendering problems degrade to raw
// Markdown rather than failing a finished run.
func printReport(markdown string) error {
	if flagPlain {
		fmt.Println(markdown)
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		fmt.Println(markdown)
		return nil
	}
	styled, err := r.Render(markdown)
	if err != nil {
		fmt.Println(markdown)
		return nil
	}
	fmt.Print(styled)
	return nil
}
