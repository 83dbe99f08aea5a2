package engine

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/openfield/fieldsync/internal/backend"
	"github.com/openfield/fieldsync/internal/filex"
	"github.com/openfield/fieldsync/internal/logging"
	"github.com/openfield/fieldsync/internal/models"
	"github.com/openfield/fieldsync/internal/objstore"
	"github.com/openfield/fieldsync/internal/repositories/transmissions"
)

const (
	// DefaultRetries is the number of extra attempts after a failed upload.
	DefaultRetries = 2

	imageSuffix = ".jpg"
	videoSuffix = ".mp4"

	dataContentType  = "application/zip"
	imageContentType = "image/jpeg"
	videoContentType = "video/mp4"

	// Object key prefixes in the remote store.
	dataDirPrefix  = "devicezip/"
	mediaDirPrefix = "images/"
)

// ProcessingNotifier announces completed uploads to the backend processor.
type ProcessingNotifier interface {
	NotifyProcessing(ctx context.Context, action, formID, fileName string) (int, error)
}

// Uploader pushes a single queued file to object storage and drives the
// entry's status through the transmission queue.
type Uploader struct {
	store    objstore.ObjectStore
	notifier ProcessingNotifier
	queue    transmissions.Queue
	events   Events
	log      logging.Logger
	retries  int
}

// NewUploader returns an Uploader performing retries+1 attempts per file.
func NewUploader(store objstore.ObjectStore, notifier ProcessingNotifier, queue transmissions.Queue,
	events Events, log logging.Logger, retries int) *Uploader {
	if retries < 0 {
		retries = DefaultRetries
	}
	return &Uploader{
		store:    store,
		notifier: notifier,
		queue:    queue,
		events:   events,
		log:      log,
		retries:  retries,
	}
}

// Upload transmits one entry and reports whether it fully succeeded. A
// failure here is never fatal to the surrounding pass; callers record it and
// move on to the next entry.
func (u *Uploader) Upload(ctx context.Context, entry models.TransmissionEntry) bool {
	if entry.FilePath == "" {
		return false
	}

	var contentType, dir, action string
	var public bool
	switch {
	case strings.HasSuffix(entry.FilePath, imageSuffix), strings.HasSuffix(entry.FilePath, videoSuffix):
		if strings.HasSuffix(entry.FilePath, imageSuffix) {
			contentType = imageContentType
		} else {
			contentType = videoContentType
		}
		dir = mediaDirPrefix
		// Only notify the server when previous attempts have failed.
		if entry.Status == models.TransmissionFailed {
			action = backend.ActionImage
		}
		public = true // media carries a public read policy
	default:
		contentType = dataContentType
		dir = dataDirPrefix
		action = backend.ActionSubmit
		public = false
	}

	u.setStatus(ctx, entry.FilePath, models.TransmissionInProgress)

	ok := u.send(ctx, entry.FilePath, dir, contentType, public)
	destName := filepath.Base(entry.FilePath)

	switch {
	case ok && action != "":
		status, err := u.notifier.NotifyProcessing(ctx, action, entry.FormID, destName)
		if err != nil {
			u.log.Error(ctx, "processing notification failed",
				"file", destName, "form_id", entry.FormID, "status", status, "error", err)
		}
		switch status {
		case http.StatusOK:
			u.setStatus(ctx, entry.FilePath, models.TransmissionSynced)
		case http.StatusNotFound:
			// The form has been deleted on the dashboard; this entry can
			// never sync.
			u.events.FormDeleted(entry.FormID)
			u.setStatus(ctx, entry.FilePath, models.TransmissionFormDeleted)
			ok = false
		default:
			u.setStatus(ctx, entry.FilePath, models.TransmissionFailed)
			ok = false
		}
	case ok:
		// Stored and no processing needed.
		u.setStatus(ctx, entry.FilePath, models.TransmissionSynced)
	default:
		u.setStatus(ctx, entry.FilePath, models.TransmissionFailed)
	}

	return ok
}

// send attempts the object PUT up to retries+1 times, immediately and without
// backoff. A file missing from disk fails without attempting the network.
func (u *Uploader) send(ctx context.Context, path, dir, contentType string, public bool) bool {
	if !filex.Exists(path) {
		u.log.Warn(ctx, "file to upload does not exist", "path", path)
		return false
	}

	key := dir + filepath.Base(path)
	for attempt := 0; attempt <= u.retries; attempt++ {
		err := u.store.Put(ctx, key, path, contentType, public)
		if err == nil {
			return true
		}
		u.log.Warn(ctx, "upload attempt failed",
			"key", key, "attempt", attempt+1, "error", err)
	}
	return false
}

func (u *Uploader) setStatus(ctx context.Context, path string, status models.TransmissionStatus) {
	if _, err := u.queue.SetStatus(ctx, path, status); err != nil {
		u.log.Error(ctx, "failed to update transmission status",
			"path", path, "status", status.String(), "error", err)
	}
}
