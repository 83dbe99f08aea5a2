package agent

import (
	"context"

	"github.com/openfield/fieldsync/internal/logging"
	"github.com/openfield/fieldsync/internal/models"
)

// LogEvents is the headless agent's notification surface: every engine event
// becomes a structured log line. Host applications with a UI would replace
// this with their own engine.Events implementation.
type LogEvents struct {
	log logging.Logger
}

func NewLogEvents(log logging.Logger) *LogEvents {
	return &LogEvents{log: log.With("component", "events")}
}

func (e *LogEvents) RecordStatusChanged(recordID int64, status models.RecordStatus) {
	e.log.Info(context.Background(), "record status changed", "record_id", recordID, "status", status.String())
}

func (e *LogEvents) ExportComplete(recordID int64, archiveName string) {
	e.log.Info(context.Background(), "export complete", "record_id", recordID, "archive", archiveName)
}

func (e *LogEvents) Progress(done, total int) {
	e.log.Info(context.Background(), "sync progress", "done", done, "total", total)
}

func (e *LogEvents) SyncComplete(synced, failed int) {
	e.log.Info(context.Background(), "sync complete", "synced", synced, "failed", failed)
}

func (e *LogEvents) FormDeleted(formID string) {
	e.log.Warn(context.Background(), "form deleted on server", "form_id", formID)
}
