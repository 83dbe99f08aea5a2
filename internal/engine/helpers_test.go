package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/openfield/fieldsync/internal/backend"
	"github.com/openfield/fieldsync/internal/logging"
	"github.com/openfield/fieldsync/internal/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// eventRecorder captures every engine notification for assertions.
type eventRecorder struct {
	statusChanges map[int64][]models.RecordStatus
	exports       []string
	progress      [][2]int
	syncTallies   [][2]int
	deletedForms  []string
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{statusChanges: make(map[int64][]models.RecordStatus)}
}

func (e *eventRecorder) RecordStatusChanged(id int64, s models.RecordStatus) {
	e.statusChanges[id] = append(e.statusChanges[id], s)
}
func (e *eventRecorder) ExportComplete(id int64, name string) { e.exports = append(e.exports, name) }
func (e *eventRecorder) Progress(done, total int)             { e.progress = append(e.progress, [2]int{done, total}) }
func (e *eventRecorder) SyncComplete(synced, failed int) {
	e.syncTallies = append(e.syncTallies, [2]int{synced, failed})
}
func (e *eventRecorder) FormDeleted(formID string) { e.deletedForms = append(e.deletedForms, formID) }

// fakeRecords is an in-memory records.Repository.
type fakeRecords struct {
	records   map[int64]*models.Record
	responses map[int64][]models.ResponseRow
	nextID    int64
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		records:   make(map[int64]*models.Record),
		responses: make(map[int64][]models.ResponseRow),
	}
}

func (f *fakeRecords) Create(_ context.Context, r *models.Record) error {
	f.nextID++
	r.ID = f.nextID
	cp := *r
	f.records[r.ID] = &cp
	return nil
}

func (f *fakeRecords) AddResponse(_ context.Context, recordID int64, questionID string, typ models.AnswerType, value string) error {
	rec, ok := f.records[recordID]
	if !ok {
		return errors.New("no such record")
	}
	f.responses[recordID] = append(f.responses[recordID], models.ResponseRow{
		UUID:           rec.UUID,
		FormID:         rec.FormID,
		DataPointID:    rec.DataPointID,
		SubmittedAt:    rec.SubmittedAt,
		DurationMillis: rec.Duration,
		Username:       rec.Username,
		Email:          rec.Email,
		QuestionID:     questionID,
		Type:           typ,
		Value:          value,
	})
	return nil
}

func (f *fakeRecords) ListByStatus(_ context.Context, status models.RecordStatus) ([]models.Record, error) {
	var ids []int64
	for id, r := range f.records {
		if r.Status == status {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var result []models.Record
	for _, id := range ids {
		result = append(result, *f.records[id])
	}
	return result, nil
}

func (f *fakeRecords) ResponseRows(_ context.Context, recordID int64) ([]models.ResponseRow, error) {
	return f.responses[recordID], nil
}

func (f *fakeRecords) UpdateStatus(_ context.Context, recordID int64, status models.RecordStatus) error {
	rec, ok := f.records[recordID]
	if !ok {
		return errors.New("no such record")
	}
	rec.Status = status
	return nil
}

func (f *fakeRecords) FormIDs(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range f.records {
		if _, ok := seen[r.FormID]; ok {
			continue
		}
		seen[r.FormID] = struct{}{}
		ids = append(ids, r.FormID)
	}
	sort.Strings(ids)
	return ids, nil
}

// fakeQueue is an in-memory transmissions.Queue.
type fakeQueue struct {
	entries []models.TransmissionEntry
	nextID  int64
}

func (q *fakeQueue) Enqueue(_ context.Context, recordID int64, formID, filePath string, status models.TransmissionStatus) error {
	q.nextID++
	q.entries = append(q.entries, models.TransmissionEntry{
		ID:       q.nextID,
		RecordID: recordID,
		FormID:   formID,
		FilePath: filePath,
		Status:   status,
	})
	return nil
}

func (q *fakeQueue) ListPending(_ context.Context) ([]models.TransmissionEntry, error) {
	var result []models.TransmissionEntry
	for _, e := range q.entries {
		if e.Status == models.TransmissionQueued || e.Status == models.TransmissionFailed {
			result = append(result, e)
		}
	}
	return result, nil
}

func (q *fakeQueue) SetStatus(_ context.Context, filePath string, status models.TransmissionStatus) (int64, error) {
	var n int64
	for i := range q.entries {
		if q.entries[i].FilePath == filePath {
			q.entries[i].Status = status
			n++
		}
	}
	return n, nil
}

func (q *fakeQueue) statusOf(filePath string) models.TransmissionStatus {
	for _, e := range q.entries {
		if e.FilePath == filePath {
			return e.Status
		}
	}
	return -1
}

// fakeStore counts object puts and can be told to fail.
type putCall struct {
	key         string
	path        string
	contentType string
	public      bool
}

type fakeStore struct {
	calls      []putCall
	failAlways bool
	failFirst  int // fail this many leading calls
}

func (s *fakeStore) Put(_ context.Context, key, localPath, contentType string, public bool) error {
	s.calls = append(s.calls, putCall{key: key, path: localPath, contentType: contentType, public: public})
	if s.failAlways || len(s.calls) <= s.failFirst {
		return errors.New("connection reset")
	}
	return nil
}

// fakeNotifier records processing notifications and replies with a canned
// status.
type notifyCall struct {
	action   string
	formID   string
	fileName string
}

type fakeNotifier struct {
	status int
	err    error
	calls  []notifyCall
}

func (n *fakeNotifier) NotifyProcessing(_ context.Context, action, formID, fileName string) (int, error) {
	n.calls = append(n.calls, notifyCall{action: action, formID: formID, fileName: fileName})
	return n.status, n.err
}

// fakeDeviceNotifier serves a canned device notification.
type fakeDeviceNotifier struct {
	dn      *backend.DeviceNotification
	err     error
	gotIDs  []string
	queried bool
}

func (n *fakeDeviceNotifier) DeviceNotifications(_ context.Context, formIDs []string) (*backend.DeviceNotification, error) {
	n.queried = true
	n.gotIDs = formIDs
	return n.dn, n.err
}
