package engine

import "github.com/openfield/fieldsync/internal/models"

// Events receives engine notifications. The host application typically maps
// these onto its own user-facing surface; the engine never blocks on them.
type Events interface {
	// RecordStatusChanged fires after a record's lifecycle status is persisted.
	RecordStatusChanged(recordID int64, status models.RecordStatus)

	// ExportComplete fires when a record's archive has been written and queued.
	ExportComplete(recordID int64, archiveName string)

	// Progress reports how many queue entries have been handled so far.
	Progress(done, total int)

	// SyncComplete reports the final per-record tally of an upload drain.
	SyncComplete(synced, failed int)

	// FormDeleted fires when the server reports a form as deleted.
	FormDeleted(formID string)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) RecordStatusChanged(int64, models.RecordStatus) {}
func (NopEvents) ExportComplete(int64, string)                   {}
func (NopEvents) Progress(int, int)                              {}
func (NopEvents) SyncComplete(int, int)                          {}
func (NopEvents) FormDeleted(string)                             {}
