// Command logcheck runs integrity checks over a QZSS DC Report receiver
// log before it is trusted for analysis: line structure, timestamp sanity,
// field values, and agreement between an independent line scan and the
// analyzer's own parser.
//
// Usage:
//
//	go run ./cmd/logcheck -log dc_reports_boot_00003.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/dc-report-analytics/internal/aggregate"
	"github.com/couchcryptid/dc-report-analytics/internal/domain"
)

const timestampLayout = "2006/01/02 15:04:05 JST"

// serviceStart is the first year QZSS disaster bulletins were broadcast;
// timestamps before it indicate a receiver clock that never synced.
const serviceStart = 2018

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	logPath := flag.String("log", "", "receiver log file to check")
	flag.Parse()

	if *logPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*logPath); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== DC Report Log Integrity Check ===")
	fmt.Println()

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read log: %v\n", err)
		return 1
	}
	lines := strings.Split(string(raw), "\n")

	scan := scanLines(lines)

	// ── Run validation phases ──
	phases := []*phase{
		validateStructure(scan),
		validateTimestamps(scan),
		validateFields(scan),
		validateParserAgreement(lines, scan),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-40s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Lines: %d total (%d records, %d continuations, %d blank, %d malformed starts, %d orphans)\n",
		scan.lines, len(scan.starts), scan.continuations, scan.blanks, scan.malformed, scan.orphans)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
		return 0
	}
	fmt.Println("\nCheck FAILED.")
	return 1
}

// ── Line scanning ──

// startLine is a record-start line with its comma-separated fields.
type startLine struct {
	lineNum int
	fields  []string
}

// scanResult is an independent census of the log, kept deliberately separate
// from the analyzer's parser so phase 4 can compare the two.
type scanResult struct {
	lines         int
	starts        []startLine
	shortStarts   []startLine // start signature but too few fields
	continuations int
	orphans       int // continuation lines with no open record
	blanks        int
	malformed     int
}

func scanLines(lines []string) scanResult {
	scan := scanResult{lines: len(lines)}
	open := false

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			scan.blanks++
			continue
		}

		if !domain.DefaultStartPattern.MatchString(line) {
			if open {
				scan.continuations++
			} else {
				scan.orphans++
			}
			continue
		}

		fields := strings.SplitN(line, ",", 5)
		sl := startLine{lineNum: i + 1, fields: fields}
		if len(fields) < 5 {
			scan.shortStarts = append(scan.shortStarts, sl)
			scan.malformed++
			// A short start closes any open record but opens none, so
			// lines after it are orphans until the next complete start.
			open = false
			continue
		}
		scan.starts = append(scan.starts, sl)
		open = true
	}
	return scan
}

// ── Phase 1: Line Structure ──
// Every line must be a complete record start, a continuation of an open
// record, or blank.

func validateStructure(scan scanResult) *phase {
	p := &phase{name: "Phase 1: Line Structure"}

	for _, sl := range scan.shortStarts {
		p.errorf("line %d: record start has %d fields, want 5", sl.lineNum, len(sl.fields))
	}
	if scan.orphans > 0 {
		p.errorf("%d continuation line(s) with no open record", scan.orphans)
	}
	if len(scan.starts) == 0 {
		p.errorf("log contains no records")
	}
	return p
}

// ── Phase 2: Timestamps ──
// Start-line timestamps must parse and stay chronological. None may predate
// the start of the QZSS disaster bulletin service.

func validateTimestamps(scan scanResult) *phase {
	p := &phase{name: "Phase 2: Timestamps"}

	var prev time.Time
	for _, sl := range scan.starts {
		ts, err := time.ParseInLocation(timestampLayout, sl.fields[0], domain.JST)
		if err != nil {
			p.errorf("line %d: timestamp %q does not match %q", sl.lineNum, sl.fields[0], timestampLayout)
			continue
		}
		if ts.Year() < serviceStart {
			p.errorf("line %d: timestamp %s predates the bulletin service", sl.lineNum, sl.fields[0])
		}
		if !prev.IsZero() && ts.Before(prev) {
			p.errorf("line %d: timestamp %s goes backwards", sl.lineNum, sl.fields[0])
		}
		prev = ts
	}
	return p
}

// ── Phase 3: Field Values ──

func validateFields(scan scanResult) *phase {
	p := &phase{name: "Phase 3: Field Values"}

	validTypes := map[string]bool{
		string(domain.ReportTypeDCReport): true,
		string(domain.ReportTypeDCX):      true,
	}

	for _, sl := range scan.starts {
		reportType, satellite, priority, message := sl.fields[1], sl.fields[2], sl.fields[3], sl.fields[4]

		if !validTypes[reportType] {
			p.errorf("line %d: unknown report type %q", sl.lineNum, reportType)
		}
		if satellite == "" {
			p.errorf("line %d: empty satellite field", sl.lineNum)
		}
		if priority == "" || !allDigits(priority) {
			p.errorf("line %d: priority %q is not numeric", sl.lineNum, priority)
		}
		if message == "" {
			p.errorf("line %d: empty message field", sl.lineNum)
		}
	}
	return p
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ── Phase 4: Parser Agreement ──
// The analyzer's parser must see the same log the scan saw, and its
// aggregates must be internally consistent.

func validateParserAgreement(lines []string, scan scanResult) *phase {
	p := &phase{name: "Phase 4: Parser Agreement"}

	records, stats, err := domain.NewParser().Parse(lines)
	if err != nil {
		p.errorf("parser rejected the log: %v", err)
		return p
	}

	if stats.Records != len(scan.starts) {
		p.errorf("record count: scan saw %d, parser saw %d", len(scan.starts), stats.Records)
	}
	if stats.ContinuationLines != scan.continuations {
		p.errorf("continuation count: scan saw %d, parser saw %d", scan.continuations, stats.ContinuationLines)
	}
	if stats.MalformedStarts != scan.malformed {
		p.errorf("malformed start count: scan saw %d, parser saw %d", scan.malformed, stats.MalformedStarts)
	}
	if stats.DiscardedLines != scan.orphans {
		p.errorf("discarded line count: scan saw %d, parser saw %d", scan.orphans, stats.DiscardedLines)
	}
	if stats.BlankLines != scan.blanks {
		p.errorf("blank line count: scan saw %d, parser saw %d", scan.blanks, stats.BlankLines)
	}

	s := aggregate.Compute(domain.ClassifyAll(records))
	if s.Total != stats.Records {
		p.errorf("aggregate total %d does not match parsed record count %d", s.Total, stats.Records)
	}
	if got := s.Disasters.ByCategory.Total(); got != s.Disasters.DCTotal {
		p.errorf("disaster categories sum to %d, want DC Report count %d", got, s.Disasters.DCTotal)
	}
	if got := s.ByReportType.Get(string(domain.ReportTypeDCReport)); got != s.Disasters.DCTotal {
		p.errorf("DC Report count %d disagrees with disaster total %d", got, s.Disasters.DCTotal)
	}
	hourSum := 0
	for _, n := range s.ByHour {
		hourSum += n
	}
	if hourSum != s.Total {
		p.errorf("hourly series sums to %d, want %d", hourSum, s.Total)
	}
	if !s.HourType.Empty() && s.HourType.Total() != s.Total {
		p.errorf("hour/type crosstab sums to %d, want %d", s.HourType.Total(), s.Total)
	}
	return p
}
