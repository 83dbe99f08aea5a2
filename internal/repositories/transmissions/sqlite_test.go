package transmissions

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfield/fieldsync/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE transmissions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  record_id INTEGER NOT NULL,
  form_id TEXT NOT NULL DEFAULT '',
  file_path TEXT NOT NULL,
  status INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func TestListPending_FiltersAndKeepsInsertionOrder(t *testing.T) {
	q := NewSQLiteQueue(setupDB(t))
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, 1, "42", "/data/a.zip", models.TransmissionQueued))
	require.NoError(t, q.Enqueue(ctx, 1, "42", "/media/b.jpg", models.TransmissionFailed))
	require.NoError(t, q.Enqueue(ctx, 2, "42", "/data/c.zip", models.TransmissionSynced))
	require.NoError(t, q.Enqueue(ctx, 2, "42", "/data/d.zip", models.TransmissionInProgress))
	require.NoError(t, q.Enqueue(ctx, 3, "7", "/data/e.zip", models.TransmissionFormDeleted))

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "/data/a.zip", pending[0].FilePath)
	assert.Equal(t, "/media/b.jpg", pending[1].FilePath)
	assert.Equal(t, models.TransmissionFailed, pending[1].Status)
}

func TestSetStatus_ReturnsAffectedRows(t *testing.T) {
	q := NewSQLiteQueue(setupDB(t))
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, 1, "42", "/media/a.jpg", models.TransmissionQueued))

	rows, err := q.SetStatus(ctx, "/media/a.jpg", models.TransmissionFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = q.SetStatus(ctx, "/media/unknown.jpg", models.TransmissionFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.TransmissionFailed, pending[0].Status)
}

func TestEnqueue_UnassociatedSentinel(t *testing.T) {
	q := NewSQLiteQueue(setupDB(t))
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, models.UnassociatedRecordID, "", "/media/orphan.jpg", models.TransmissionFailed))

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.UnassociatedRecordID, pending[0].RecordID)
}
