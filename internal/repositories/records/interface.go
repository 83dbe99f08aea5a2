// Package records persists survey records and their responses in the local
// store, and exposes the query/update surface the sync engine drives.
package records

import (
	"context"

	"github.com/openfield/fieldsync/internal/models"
)

// Repository describes record-store operations used by the sync engine.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// Create inserts a new record and fills in its generated ID.
	Create(ctx context.Context, r *models.Record) error

	// AddResponse appends one answer to a record.
	AddResponse(ctx context.Context, recordID int64, questionID string, typ models.AnswerType, value string) error

	// ListByStatus returns all records currently in the given status, in
	// insertion order.
	ListByStatus(ctx context.Context, status models.RecordStatus) ([]models.Record, error)

	// ResponseRows returns the record's responses joined with the record
	// metadata columns, preserving response insertion order.
	ResponseRows(ctx context.Context, recordID int64) ([]models.ResponseRow, error)

	// UpdateStatus persists a new lifecycle status for the record.
	UpdateStatus(ctx context.Context, recordID int64, status models.RecordStatus) error

	// FormIDs returns the distinct form ids known to the local store.
	FormIDs(ctx context.Context) ([]string, error)
}
