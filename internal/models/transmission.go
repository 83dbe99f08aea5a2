package models

// TransmissionStatus is the per-file upload state, tracked independently of
// the owning record's status.
type TransmissionStatus int

const (
	TransmissionQueued TransmissionStatus = iota
	TransmissionInProgress
	TransmissionSynced
	TransmissionFailed
	TransmissionFormDeleted
)

func (s TransmissionStatus) String() string {
	switch s {
	case TransmissionQueued:
		return "queued"
	case TransmissionInProgress:
		return "in_progress"
	case TransmissionSynced:
		return "synced"
	case TransmissionFailed:
		return "failed"
	case TransmissionFormDeleted:
		return "form_deleted"
	default:
		return "unknown"
	}
}

// UnassociatedRecordID is the sentinel owner for transmissions discovered via
// server reconciliation that cannot be matched to a local record.
const UnassociatedRecordID int64 = -1

// TransmissionEntry is one file's progress toward the remote store. Entries
// are never deleted; they double as an audit trail and retry ledger.
type TransmissionEntry struct {
	ID       int64
	RecordID int64
	FormID   string
	FilePath string
	Status   TransmissionStatus
}
