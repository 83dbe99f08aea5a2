// Package engine implements the export-and-synchronization core: one pass
// turns submitted records into archive files, reconciles local state with the
// backend, and drains the transmission queue into object storage.
package engine

import (
	"context"
	"path/filepath"

	"github.com/openfield/fieldsync/internal/archive"
	"github.com/openfield/fieldsync/internal/logging"
	"github.com/openfield/fieldsync/internal/models"
	"github.com/openfield/fieldsync/internal/repositories/records"
	"github.com/openfield/fieldsync/internal/repositories/transmissions"
)

// ArchiveBuilder is the subset of the archive package the orchestrator needs.
type ArchiveBuilder interface {
	Path(uuid string) string
	Build(ctx context.Context, rows []models.ResponseRow) (*archive.Archive, error)
}

// FileUploader uploads one queue entry, reporting overall success.
type FileUploader interface {
	Upload(ctx context.Context, entry models.TransmissionEntry) bool
}

// MissingReconciler runs the best-effort server reconciliation step.
type MissingReconciler interface {
	ReconcileMissing(ctx context.Context)
}

// Orchestrator sequences one synchronization pass. It is the engine's only
// entry point. RunPass is idempotent, but the caller must ensure at most one
// pass runs at a time; the engine performs no internal locking.
type Orchestrator struct {
	tracker    *Tracker
	builder    ArchiveBuilder
	records    records.Repository
	queue      transmissions.Queue
	uploader   FileUploader
	reconciler MissingReconciler
	online     func(ctx context.Context) bool
	events     Events
	log        logging.Logger
}

func NewOrchestrator(tracker *Tracker, builder ArchiveBuilder, repo records.Repository,
	queue transmissions.Queue, uploader FileUploader, reconciler MissingReconciler,
	online func(ctx context.Context) bool, events Events, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		tracker:    tracker,
		builder:    builder,
		records:    repo,
		queue:      queue,
		uploader:   uploader,
		reconciler: reconciler,
		online:     online,
		events:     events,
		log:        log,
	}
}

// RunPass executes export, reconciliation and upload in order. It never
// propagates a failure to its caller; every error is contained to the record
// or file it concerns and the pass makes best-effort progress.
func (o *Orchestrator) RunPass(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			o.log.Error(ctx, "sync pass aborted by panic", "panic", p)
		}
	}()

	// Self-heal stale EXPORTED state before creating anything new.
	if err := o.tracker.ReconcileExportedMissing(ctx); err != nil {
		o.log.Error(ctx, "exported-file check failed", "error", err)
	}

	o.exportRecords(ctx)

	if !o.online(ctx) {
		o.log.Info(ctx, "backend unreachable, skipping sync")
		return
	}

	o.reconciler.ReconcileMissing(ctx)
	o.syncFiles(ctx)
}

// exportRecords archives every SUBMITTED record and enqueues the archive plus
// its referenced media files. A record that fails to export stays SUBMITTED
// and is retried on the next pass.
func (o *Orchestrator) exportRecords(ctx context.Context) {
	recs, err := o.records.ListByStatus(ctx, models.StatusSubmitted)
	if err != nil {
		o.log.Error(ctx, "could not list submitted records", "error", err)
		return
	}

	for _, rec := range recs {
		rows, err := o.records.ResponseRows(ctx, rec.ID)
		if err != nil {
			o.log.Error(ctx, "could not read responses", "record_id", rec.ID, "error", err)
			continue
		}

		a, err := o.builder.Build(ctx, rows)
		if err != nil {
			o.log.Error(ctx, "archive creation failed", "record_id", rec.ID, "error", err)
			continue
		}
		if a == nil {
			continue
		}

		o.events.ExportComplete(rec.ID, filepath.Base(a.Path))

		if err := o.queue.Enqueue(ctx, rec.ID, a.FormID, a.Path, models.TransmissionQueued); err != nil {
			o.log.Error(ctx, "could not enqueue archive", "record_id", rec.ID, "error", err)
			continue
		}
		if err := o.tracker.Advance(ctx, rec.ID, models.StatusExported); err != nil {
			o.log.Error(ctx, "could not advance record", "record_id", rec.ID, "error", err)
		}

		for _, media := range a.MediaPaths {
			if err := o.queue.Enqueue(ctx, rec.ID, a.FormID, media, models.TransmissionQueued); err != nil {
				o.log.Error(ctx, "could not enqueue media file",
					"record_id", rec.ID, "path", media, "error", err)
			}
		}
	}
}

// syncFiles drains the pending queue in insertion order and settles record
// statuses from the per-record outcome sets. A record present in both sets is
// treated as failed: failure dominates.
func (o *Orchestrator) syncFiles(ctx context.Context) {
	entries, err := o.queue.ListPending(ctx)
	if err != nil {
		o.log.Error(ctx, "could not list pending transmissions", "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	synced := make(map[int64]struct{})
	failed := make(map[int64]struct{})

	total := len(entries)
	o.events.Progress(0, total)

	for i, entry := range entries {
		if o.uploader.Upload(ctx, entry) {
			synced[entry.RecordID] = struct{}{}
		} else {
			failed[entry.RecordID] = struct{}{}
		}
		o.events.Progress(i, total)
	}

	for id := range failed {
		delete(synced, id)
	}

	o.events.SyncComplete(len(synced), len(failed))

	for id := range synced {
		if id == models.UnassociatedRecordID {
			continue
		}
		if err := o.tracker.Advance(ctx, id, models.StatusSynced); err != nil {
			o.log.Error(ctx, "could not mark record synced", "record_id", id, "error", err)
		}
	}
	// Keep the unsynced ones at EXPORTED for the next pass.
	for id := range failed {
		if id == models.UnassociatedRecordID {
			continue
		}
		if err := o.tracker.Advance(ctx, id, models.StatusExported); err != nil {
			o.log.Error(ctx, "could not mark record exported", "record_id", id, "error", err)
		}
	}
}
