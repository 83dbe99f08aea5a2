// Package transmissions implements the durable upload queue: one row per file
// that still has to reach, or has reached, the remote store.
package transmissions

import (
	"context"

	"github.com/openfield/fieldsync/internal/models"
)

// Queue describes the transmission-queue operations used by the sync engine.
type Queue interface {
	// Enqueue appends a new entry for the given file.
	Enqueue(ctx context.Context, recordID int64, formID, filePath string, status models.TransmissionStatus) error

	// ListPending returns QUEUED and FAILED entries in insertion order.
	// Entries already in progress, synced, or belonging to deleted forms are
	// excluded.
	ListPending(ctx context.Context) ([]models.TransmissionEntry, error)

	// SetStatus updates every entry for filePath and returns the number of
	// rows affected. Zero means no entry exists for that file.
	SetStatus(ctx context.Context, filePath string, status models.TransmissionStatus) (int64, error)
}
