// Package validation classifies raw flight records before allocation.
// It runs schema, type, cross-reference and business-rule checks over a
// batch and emits a deterministic report of structured issues.  The
// validator never aborts: every record is examined and a report is
// always produced, even when every record is invalid.
package validation

// Severity grades an issue.  Errors make a record invalid; warnings and
// informational issues are strictly data.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
	SeverityInfo    Severity = "Info"
)

// rank orders severities for sorting, highest first.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	}
	return 0
}

// Diagnostic codes are wire-stable.
const (
	CodeMissingField      = "E001" // required field absent or empty
	CodeBadType           = "E002" // value does not parse as its type
	CodeUnknownReference  = "E004" // reference data lookup failed
	CodeNegativeTurn      = "E005" // departure before arrival in a link
	CodeCriticalConnShort = "E006" // critical connection below min transfer
	CodeCriticalConnLong  = "E007" // critical connection above max transfer
	CodeShortTurnaround   = "W004" // linked turnaround below the minimum
	CodeConnShort         = "W008" // connection below min transfer
	CodeConnLong          = "W009" // connection above max transfer
	CodeConnUnknownFlight = "W010" // connection references an absent flight
	CodeUtilizationClash  = "W011" // same-number flights overlap in time
	CodeUnknownAircraft   = "W012" // aircraft type not in reference data
	CodeNonISODate        = "I001" // date accepted in a non-ISO format
	CodeLargeDelay        = "I002" // estimated far from scheduled
)

// Issue is one structured diagnostic attached to a record (or to the
// batch, when Row is 0).
type Issue struct {
	Severity    Severity          `json:"severity"`
	Code        string            `json:"code"`
	Field       string            `json:"field,omitempty"`
	RecordID    string            `json:"record_id,omitempty"`
	Row         int               `json:"row"`
	Column      string            `json:"column,omitempty"`
	Message     string            `json:"message"`
	Value       string            `json:"value,omitempty"`
	Suggestion  string            `json:"suggestion,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// Report is the outcome of one validation run.  Issues are sorted by
// (row asc, severity desc, code asc), so two runs over the same input
// produce byte-identical reports.
type Report struct {
	RecordsTotal      int            `json:"records_total"`
	ValidCount        int            `json:"valid_count"`
	InvalidCount      int            `json:"invalid_count"`
	WarningCount      int            `json:"warning_count"`
	PerCategoryCounts map[string]int `json:"per_category_counts"`
	Issues            []Issue        `json:"issues"`
}
