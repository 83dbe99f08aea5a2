// Package common defines shared sentinel errors used across the sync engine.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Upload errors.
	ErrorFileMissing  = errors.New("local file missing")
	ErrorUploadFailed = errors.New("upload failed")

	// Backend errors.
	ErrorBadServerReply = errors.New("malformed server response")
)
