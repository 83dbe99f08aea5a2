package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfield/fieldsync/internal/backend"
	"github.com/openfield/fieldsync/internal/models"
)

func TestReconcileMissing_FlagsExistingFileFailed(t *testing.T) {
	ctx := context.Background()
	mediaDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "photo1.jpg"), []byte("x"), 0o644))

	repo := newFakeRecords()
	require.NoError(t, repo.Create(ctx, &models.Record{UUID: "u1", FormID: "42"}))

	queue := &fakeQueue{}
	path := filepath.Join(mediaDir, "photo1.jpg")
	require.NoError(t, queue.Enqueue(ctx, 1, "42", path, models.TransmissionSynced))

	notifier := &fakeDeviceNotifier{dn: &backend.DeviceNotification{MissingFiles: []string{"photo1.jpg"}}}

	r := NewReconciler(notifier, queue, repo, mediaDir, newEventRecorder(), testLogger())
	r.ReconcileMissing(ctx)

	assert.Equal(t, []string{"42"}, notifier.gotIDs)
	assert.Equal(t, models.TransmissionFailed, queue.statusOf(path))

	// The entry is now pending again and will be retried by the next drain.
	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, path, pending[0].FilePath)
}

func TestReconcileMissing_CreatesUnassociatedEntry(t *testing.T) {
	ctx := context.Background()
	mediaDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "mystery.jpg"), []byte("x"), 0o644))

	queue := &fakeQueue{}
	notifier := &fakeDeviceNotifier{dn: &backend.DeviceNotification{MissingUnknown: []string{"mystery.jpg"}}}

	r := NewReconciler(notifier, queue, newFakeRecords(), mediaDir, newEventRecorder(), testLogger())
	r.ReconcileMissing(ctx)

	require.Len(t, queue.entries, 1)
	e := queue.entries[0]
	assert.Equal(t, models.UnassociatedRecordID, e.RecordID)
	assert.Equal(t, filepath.Join(mediaDir, "mystery.jpg"), e.FilePath)
	assert.Equal(t, models.TransmissionFailed, e.Status)
}

func TestReconcileMissing_IgnoresAbsentFiles(t *testing.T) {
	queue := &fakeQueue{}
	notifier := &fakeDeviceNotifier{dn: &backend.DeviceNotification{MissingFiles: []string{"gone.jpg"}}}

	r := NewReconciler(notifier, queue, newFakeRecords(), t.TempDir(), newEventRecorder(), testLogger())
	r.ReconcileMissing(context.Background())

	assert.Empty(t, queue.entries)
}

func TestReconcileMissing_RaisesFormDeletedEvents(t *testing.T) {
	events := newEventRecorder()
	notifier := &fakeDeviceNotifier{dn: &backend.DeviceNotification{DeletedForms: []string{"42", "7"}}}

	r := NewReconciler(notifier, &fakeQueue{}, newFakeRecords(), t.TempDir(), events, testLogger())
	r.ReconcileMissing(context.Background())

	assert.Equal(t, []string{"42", "7"}, events.deletedForms)
}

func TestReconcileMissing_BackendErrorIsSwallowed(t *testing.T) {
	queue := &fakeQueue{}
	notifier := &fakeDeviceNotifier{err: errors.New("boom")}

	r := NewReconciler(notifier, queue, newFakeRecords(), t.TempDir(), newEventRecorder(), testLogger())
	r.ReconcileMissing(context.Background())

	assert.True(t, notifier.queried)
	assert.Empty(t, queue.entries)
}
