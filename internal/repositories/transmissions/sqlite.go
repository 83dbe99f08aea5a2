package transmissions

import (
	"context"
	"fmt"

	"github.com/openfield/fieldsync/internal/dbx"
	"github.com/openfield/fieldsync/internal/models"
)

// SQLiteQueue implements Queue using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteQueue struct {
	db dbx.DBTX
}

// NewSQLiteQueue returns a new SQLiteQueue bound to the given DBTX.
func NewSQLiteQueue(db dbx.DBTX) *SQLiteQueue {
	return &SQLiteQueue{db: db}
}

func (q *SQLiteQueue) Enqueue(ctx context.Context, recordID int64, formID, filePath string, status models.TransmissionStatus) error {
	query := `INSERT INTO transmissions (record_id, form_id, file_path, status) VALUES (?, ?, ?, ?)`
	if _, err := q.db.ExecContext(ctx, query, recordID, formID, filePath, status); err != nil {
		return fmt.Errorf("failed to enqueue transmission: %w", err)
	}
	return nil
}

func (q *SQLiteQueue) ListPending(ctx context.Context) ([]models.TransmissionEntry, error) {
	query := `SELECT id, record_id, form_id, file_path, status FROM transmissions
			  WHERE status IN (?, ?) ORDER BY id`
	rows, err := q.db.QueryContext(ctx, query, models.TransmissionQueued, models.TransmissionFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending transmissions: %w", err)
	}
	defer rows.Close()

	var result []models.TransmissionEntry
	for rows.Next() {
		var e models.TransmissionEntry
		if err := rows.Scan(&e.ID, &e.RecordID, &e.FormID, &e.FilePath, &e.Status); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *SQLiteQueue) SetStatus(ctx context.Context, filePath string, status models.TransmissionStatus) (int64, error) {
	query := `UPDATE transmissions SET status = ? WHERE file_path = ?`
	res, err := q.db.ExecContext(ctx, query, status, filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to update transmission status: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra, nil
}
