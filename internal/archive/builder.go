// Package archive turns a record's responses into a signed, checksummed zip
// archive ready for upload. One archive is produced per record; the file name
// is derived from the record UUID, so existence on disk is an authoritative
// membership check.
package archive

import (
	"archive/zip"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/adler32"
	"io"
	"path/filepath"
	"strconv"

	"github.com/openfield/fieldsync/internal/filex"
	"github.com/openfield/fieldsync/internal/logging"
	"github.com/openfield/fieldsync/internal/models"
)

const (
	// Suffix is the archive file extension.
	Suffix = ".zip"

	dataFileName = "data.json"
	sigFileName  = ".sig"

	delimiter = "\t"
)

// Archive describes one written archive file and the media files referenced
// by the record it packages.
type Archive struct {
	Path       string
	UUID       string
	FormID     string
	Data       []byte
	Checksum   uint32
	MediaPaths []string
}

// Builder serializes records into archive files under a fixed data directory.
type Builder struct {
	dataDir    string
	deviceID   string
	signingKey []byte
	log        logging.Logger
}

// NewBuilder returns a Builder writing archives into dataDir. An empty
// signingKey disables the signature entry.
func NewBuilder(dataDir, deviceID, signingKey string, log logging.Logger) *Builder {
	return &Builder{
		dataDir:    dataDir,
		deviceID:   deviceID,
		signingKey: []byte(signingKey),
		log:        log,
	}
}

// Path returns the deterministic archive location for a record UUID.
func (b *Builder) Path(uuid string) string {
	return filepath.Join(b.dataDir, uuid+Suffix)
}

// Build serializes the given response rows into an archive file. It returns
// (nil, nil) when the rows contain nothing exportable. On any write or
// serialization failure no partial file is left behind and the error is
// returned, so the record can be retried from scratch on the next pass.
//
// Record-level metadata is taken from the first row that survives
// sanitization, not from a dedicated header row. Callers must hand rows over
// in store order.
func (b *Builder) Build(ctx context.Context, rows []models.ResponseRow) (*Archive, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	deviceID := b.deviceID
	if deviceID == "" {
		deviceID = "unset"
	} else {
		deviceID = SanitizeIdentity(deviceID)
	}

	var doc models.Document
	var media []string

	for _, row := range rows {
		value := SanitizeValue(row.Value)
		// never send empty answers
		if value == "" {
			continue
		}

		if doc.UUID == "" {
			doc.UUID = row.UUID
			doc.FormID = ParseFormID(row.FormID)
			doc.DataPointID = row.DataPointID
			doc.DeviceID = deviceID
			doc.SubmissionDate = row.SubmittedAt
			doc.Duration = row.DurationMillis / 1000
			doc.Username = SanitizeIdentity(row.Username)
			doc.Email = SanitizeIdentity(row.Email)
		}

		if row.Type.IsMedia() {
			media = append(media, value)
		}

		doc.Responses = append(doc.Responses, models.Response{
			QuestionID: row.QuestionID,
			AnswerType: string(row.Type),
			Value:      value,
		})
	}

	if doc.UUID == "" {
		// Every answer sanitized away; nothing to export.
		return nil, nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	path := b.Path(doc.UUID)
	b.log.Info(ctx, "creating archive", "path", path)

	var checksum uint32
	err = filex.WriteAtomic(path, func(w io.Writer) error {
		h := adler32.New()
		zw := zip.NewWriter(io.MultiWriter(w, h))

		if err := writeEntry(zw, dataFileName, data); err != nil {
			return err
		}
		if len(b.signingKey) > 0 {
			sig := Sign(data, b.signingKey)
			if err := writeEntry(zw, sigFileName, []byte(sig)); err != nil {
				return err
			}
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("close zip: %w", err)
		}
		checksum = h.Sum32()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("write archive %s: %w", path, err)
	}

	// The checksum is diagnostic only; the receiving end does not verify it.
	b.log.Info(ctx, "archive written", "path", path, "checksum", checksum)

	return &Archive{
		Path:       path,
		UUID:       doc.UUID,
		FormID:     strconv.FormatInt(doc.FormID, 10),
		Data:       data,
		Checksum:   checksum,
		MediaPaths: media,
	}, nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

// Sign produces the detached signature written next to the document:
// base64 of the HMAC-SHA1, under key, of the SHA-1 digest of data.
func Sign(data, key []byte) string {
	digest := sha1.Sum(data)
	mac := hmac.New(sha1.New, key)
	mac.Write(digest[:])
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ParseFormID coerces a form id into its numeric format; invalid ids map to 0.
func ParseFormID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
