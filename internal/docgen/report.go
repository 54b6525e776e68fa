package docgen

import (
	"time"

	"github.com/google/uuid"
)

// Operation names the action a report is about.
type Operation string

const (
	OpPreview Operation = "preview"
	OpCommit  Operation = "commit"
)

// ReportKind separates outcomes so that local rejections are never treated as
// faults downstream.
type ReportKind string

const (
	ReportSuccess  ReportKind = "success"
	ReportRejected ReportKind = "rejected"
	ReportFailure  ReportKind = "failure"
)

// Report is the outward notification emitted at the end of every preview or
// commit attempt.
type Report struct {
	SessionID uuid.UUID
	Mode      Mode
	Operation Operation
	Kind      ReportKind
	Message   string
	SubjectID *int64
	RecordID  *int64
	Filename  string
	Category  RemoteCategory
	Err       error
	At        time.Time
}

// Reporter receives session reports. Implementations must not block for long;
// they are called on the request path.
type Reporter interface {
	Report(r Report)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(r Report)

func (f ReporterFunc) Report(r Report) {
	f(r)
}

// MultiReporter fans a report out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(r Report) {
	for _, rep := range m {
		if rep != nil {
			rep.Report(r)
		}
	}
}
