package domain

import "time"

// ReportType distinguishes real alert broadcasts from test broadcasts.
type ReportType string

const (
	// ReportTypeDCReport marks a real Disaster and Crisis management alert.
	ReportTypeDCReport ReportType = "DC Report"
	// ReportTypeDCX marks a test/exercise broadcast, structurally identical
	// to a DC Report but not a real alert.
	ReportTypeDCX ReportType = "DCX"
)

// JST is the fixed UTC+9 zone all log timestamps are recorded in. The trailing
// "JST" label in the log is a literal suffix, not a parsed offset.
var JST = time.FixedZone("JST", 9*60*60)

// Record is one reconstructed broadcast from the receiver log. A record spans
// one start line plus zero or more continuation lines folded into Message.
type Record struct {
	Timestamp  time.Time
	ReportType ReportType
	Satellite  string
	Priority   string
	Message    string // multi-line; internal newlines preserved in order
}

// Hour returns the record's local (JST) hour of day, 0-23.
func (r Record) Hour() int {
	return r.Timestamp.Hour()
}

// DateKey returns the record's local calendar date as "YYYY-MM-DD".
func (r Record) DateKey() string {
	return r.Timestamp.Format("2006-01-02")
}

// Weekday returns the record's local calendar day of week.
func (r Record) Weekday() time.Weekday {
	return r.Timestamp.Weekday()
}

// ClassifiedRecord is a Record with its derived disaster categories attached.
// Category and Detail are populated for DC Report records only; DCX and other
// report types are never classified.
type ClassifiedRecord struct {
	Record
	Category Category
	Detail   Detail
}

// ClassifyAll attaches disaster categories to every DC Report record in order.
// Non-DC-Report records pass through with empty Category/Detail.
func ClassifyAll(records []Record) []ClassifiedRecord {
	out := make([]ClassifiedRecord, 0, len(records))
	for _, r := range records {
		cr := ClassifiedRecord{Record: r}
		if r.ReportType == ReportTypeDCReport {
			cr.Category, cr.Detail = Classify(r.Message)
		}
		out = append(out, cr)
	}
	return out
}
