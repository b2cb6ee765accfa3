package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// timestampLayout matches the receiver's clock format, e.g.
// "2025/08/22 06:00:00 JST". The zone label is literal text.
const timestampLayout = "2006/01/02 15:04:05 JST"

// recordFields is the fixed field count of a start line: timestamp, report
// type, satellite, priority, message. The message field is never split, so
// it may contain literal commas.
const recordFields = 5

// DefaultStartPattern matches the start of a new logical record: a 4-digit
// year followed by a slash. Matching on the shape rather than a literal year
// keeps the parser valid across year boundaries.
var DefaultStartPattern = regexp.MustCompile(`^\d{4}/`)

// ErrTimestampFormat reports a start line whose timestamp does not parse
// under the expected layout. It aborts the whole batch: a systemic format
// drift should stop the run rather than silently drop records.
var ErrTimestampFormat = errors.New("timestamp does not match layout " + timestampLayout)

// ParseStats counts what the parser saw in one pass over the input.
type ParseStats struct {
	Records           int
	ContinuationLines int
	MalformedStarts   int
	DiscardedLines    int
	BlankLines        int
}

// Parser reconstructs logical records from raw log lines. The start matcher
// is injected so the record-start policy is data, not a hardcoded literal.
type Parser struct {
	start *regexp.Regexp
}

// NewParser returns a Parser using DefaultStartPattern.
func NewParser() *Parser {
	return &Parser{start: DefaultStartPattern}
}

// NewParserWithStart returns a Parser with a custom record-start matcher.
func NewParserWithStart(start *regexp.Regexp) *Parser {
	return &Parser{start: start}
}

// Parse walks the lines in order, maintaining at most one record under
// construction:
//
//   - A start line closes the open record and, when it splits into at least
//     five comma-separated fields, opens a new one. A start line with fewer
//     fields still closes the open record but opens none, so unrelated
//     records are never silently merged.
//   - Any other non-blank line is a continuation of the open record's
//     message, appended with a newline separator. Continuations with no open
//     record are discarded.
//   - Blank lines never count as content or delimiters.
//   - End of input flushes the open record.
//
// Each line is whitespace-trimmed at its boundaries before any handling.
// Timestamps must all parse under the fixed layout; the first failure aborts
// with ErrTimestampFormat.
func (p *Parser) Parse(lines []string) ([]Record, ParseStats, error) {
	var (
		records []Record
		stats   ParseStats
		open    *Record
	)
	flush := func() {
		if open != nil {
			records = append(records, *open)
			open = nil
		}
	}

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			stats.BlankLines++
			continue
		}

		if !p.start.MatchString(line) {
			if open == nil {
				stats.DiscardedLines++
				continue
			}
			open.Message += "\n" + line
			stats.ContinuationLines++
			continue
		}

		flush()

		parts := strings.SplitN(line, ",", recordFields)
		if len(parts) < recordFields {
			stats.MalformedStarts++
			continue
		}

		ts, err := time.ParseInLocation(timestampLayout, parts[0], JST)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: timestamp %q: %w", i+1, parts[0], ErrTimestampFormat)
		}

		open = &Record{
			Timestamp:  ts,
			ReportType: ReportType(parts[1]),
			Satellite:  parts[2],
			Priority:   parts[3],
			Message:    parts[4],
		}
	}
	flush()

	stats.Records = len(records)
	return records, stats, nil
}
