// Package config handles configuration for the sync agent, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the fieldsync agent.
//
// Fields:
//   - DatabaseDSN: SQLite database path for the local record store.
//   - DataDir / MediaDir: directories holding record archives and captured media.
//   - ServerBase: base URL of the processing backend.
//   - SigningKey: pre-shared archive signing key; empty disables signing.
//   - DeviceID / PhoneNumber / IMEI / OSVersion: device identity sent to the backend.
//   - UploadRetries: extra attempts after a failed object upload.
//   - ProbeTimeout: connectivity probe bound before the sync phase.
//   - LogFile: optional rotating log file; empty logs to stdout only.
//   - S3*: object storage settings (S3-compatible endpoints supported).
type Config struct {
	DatabaseDSN string
	DataDir     string
	MediaDir    string

	ServerBase string
	SigningKey string

	DeviceID    string
	PhoneNumber string
	IMEI        string
	OSVersion   string

	UploadRetries int
	ProbeTimeout  time.Duration
	LogFile       string

	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3BaseEndpoint   string
	S3ForcePathStyle bool
}

// LoadDefaults populates c with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "fieldsync.db"
	c.DataDir = "data"
	c.MediaDir = "media"
	c.ServerBase = "http://127.0.0.1:8080"
	c.SigningKey = ""
	c.DeviceID = ""
	c.UploadRetries = 2
	c.ProbeTimeout = 5 * time.Second
	c.S3Region = "us-east-1"
	c.S3Bucket = "fieldsync"
	c.S3BaseEndpoint = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
