package engine

import (
	"context"
	"path/filepath"

	"github.com/openfield/fieldsync/internal/backend"
	"github.com/openfield/fieldsync/internal/filex"
	"github.com/openfield/fieldsync/internal/logging"
	"github.com/openfield/fieldsync/internal/models"
	"github.com/openfield/fieldsync/internal/repositories/records"
	"github.com/openfield/fieldsync/internal/repositories/transmissions"
)

// DeviceNotifier fetches the backend's view of what is missing or deleted.
type DeviceNotifier interface {
	DeviceNotifications(ctx context.Context, formIDs []string) (*backend.DeviceNotification, error)
}

// Reconciler cross-checks local state against the backend. Files the server
// never received are forced back into the retry queue; server-side form
// deletions are surfaced as events.
type Reconciler struct {
	notifier DeviceNotifier
	queue    transmissions.Queue
	records  records.Repository
	mediaDir string
	events   Events
	log      logging.Logger
}

func NewReconciler(notifier DeviceNotifier, queue transmissions.Queue, repo records.Repository,
	mediaDir string, events Events, log logging.Logger) *Reconciler {
	return &Reconciler{
		notifier: notifier,
		queue:    queue,
		records:  repo,
		mediaDir: mediaDir,
		events:   events,
		log:      log,
	}
}

// ReconcileMissing is best-effort: every error is logged and swallowed so
// reconciliation never blocks the upload drain that follows it.
func (r *Reconciler) ReconcileMissing(ctx context.Context) {
	formIDs, err := r.records.FormIDs(ctx)
	if err != nil {
		r.log.Error(ctx, "could not list local form ids", "error", err)
		return
	}

	dn, err := r.notifier.DeviceNotifications(ctx, formIDs)
	if err != nil {
		r.log.Error(ctx, "could not retrieve missing files", "error", err)
		return
	}

	// Missing files the server knows about plus files it cannot interpret.
	// If such a file still exists locally, its transmission is marked failed
	// so the next sync retries it.
	names := append(append([]string{}, dn.MissingFiles...), dn.MissingUnknown...)
	for _, name := range names {
		path := filepath.Join(r.mediaDir, name)
		if !filex.Exists(path) {
			continue
		}
		r.markFailed(ctx, path)
	}

	for _, formID := range dn.DeletedForms {
		r.events.FormDeleted(formID)
	}
}

func (r *Reconciler) markFailed(ctx context.Context, path string) {
	rows, err := r.queue.SetStatus(ctx, path, models.TransmissionFailed)
	if err != nil {
		r.log.Error(ctx, "could not flag transmission failed", "path", path, "error", err)
		return
	}
	if rows == 0 {
		// No transmission on record for this file; create an unassociated one.
		if err := r.queue.Enqueue(ctx, models.UnassociatedRecordID, "", path, models.TransmissionFailed); err != nil {
			r.log.Error(ctx, "could not enqueue unassociated transmission", "path", path, "error", err)
		}
	}
}
