package storage

import (
	"time"

	"eos-mcp/internal/analytics"
)

// ReportRecord is one archived insights report.
// Records are expected to be appended in chronological order.
type ReportRecord struct {
	ID         string            `json:"id"`
	RecordedAt time.Time         `json:"recorded_at"`
	Report     *analytics.Report `json:"report"`
}

// Recorder abstracts persistence of insights reports.
// LoadReports should return records in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendReport(report *analytics.Report) (ReportRecord, error)
	LoadReports() ([]ReportRecord, error)
}
