package engine

import (
	"context"
	"fmt"

	"github.com/openfield/fieldsync/internal/filex"
	"github.com/openfield/fieldsync/internal/logging"
	"github.com/openfield/fieldsync/internal/models"
	"github.com/openfield/fieldsync/internal/repositories/records"
)

// Tracker is the sole writer of record lifecycle statuses. It persists status
// changes and broadcasts them to the host application.
//
// Tracker does not validate transitions; the orchestrator owns the state
// machine rules.
type Tracker struct {
	records records.Repository
	path    func(uuid string) string
	events  Events
	log     logging.Logger
}

// NewTracker returns a Tracker. path must be the archive builder's
// deterministic uuid-to-file mapping.
func NewTracker(repo records.Repository, path func(uuid string) string, events Events, log logging.Logger) *Tracker {
	return &Tracker{records: repo, path: path, events: events, log: log}
}

// Advance persists the new status and raises a status-changed event.
func (t *Tracker) Advance(ctx context.Context, recordID int64, status models.RecordStatus) error {
	if err := t.records.UpdateStatus(ctx, recordID, status); err != nil {
		return fmt.Errorf("update record %d: %w", recordID, err)
	}
	t.events.RecordStatusChanged(recordID, status)
	return nil
}

// ReconcileExportedMissing reverts EXPORTED records whose archive file is
// gone from disk back to SUBMITTED, so the next export pass recreates them.
// Run at the start of every pass, before new exports.
func (t *Tracker) ReconcileExportedMissing(ctx context.Context) error {
	recs, err := t.records.ListByStatus(ctx, models.StatusExported)
	if err != nil {
		return fmt.Errorf("list exported records: %w", err)
	}

	for _, rec := range recs {
		if filex.Exists(t.path(rec.UUID)) {
			continue
		}
		t.log.Warn(ctx, "exported archive not found, record will be reprocessed",
			"uuid", rec.UUID, "record_id", rec.ID)
		if err := t.Advance(ctx, rec.ID, models.StatusSubmitted); err != nil {
			t.log.Error(ctx, "failed to revert record", "record_id", rec.ID, "error", err)
		}
	}
	return nil
}
