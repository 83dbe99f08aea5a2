// Package models defines the data types shared by the sync engine:
// survey records, response rows, transmission queue entries and the
// canonical exported document.
package models

// RecordStatus is the lifecycle state of a survey record.
//
// A record only moves forward: SUBMITTED -> EXPORTED -> SYNCED. The one
// exception is reconciliation of a missing archive file, which moves an
// EXPORTED record back to SUBMITTED so it gets re-exported.
type RecordStatus int

const (
	StatusSubmitted RecordStatus = iota
	StatusExported
	StatusSynced
)

func (s RecordStatus) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusExported:
		return "exported"
	case StatusSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// Record is one completed survey instance awaiting export and sync.
type Record struct {
	ID          int64
	UUID        string
	FormID      string
	DataPointID string
	DeviceID    string
	SubmittedAt int64 // unix millis
	Duration    int64 // milliseconds
	Username    string
	Email       string
	Status      RecordStatus
}

// AnswerType classifies a single response value.
type AnswerType string

const (
	AnswerTypeValue AnswerType = "VALUE"
	AnswerTypeImage AnswerType = "IMAGE"
	AnswerTypeVideo AnswerType = "VIDEO"
	AnswerTypeGeo   AnswerType = "GEO"
	AnswerTypeOther AnswerType = "OTHER"
)

// IsMedia reports whether the answer value is a local media file path that
// must be uploaded separately from the record archive.
func (t AnswerType) IsMedia() bool {
	return t == AnswerTypeImage || t == AnswerTypeVideo
}

// Answer is one question response belonging to a Record.
type Answer struct {
	QuestionID string
	Type       AnswerType
	Value      string
}

// ResponseRow is one joined row returned by the record store when reading a
// record's responses. Each row repeats the record-level metadata columns next
// to the answer columns; the archive builder picks the metadata off the first
// row that survives sanitization.
type ResponseRow struct {
	UUID           string
	FormID         string
	DataPointID    string
	SubmittedAt    int64 // unix millis
	DurationMillis int64
	Username       string
	Email          string

	QuestionID string
	Type       AnswerType
	Value      string
}
