package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/openfield/fieldsync/internal/flagx"
	"github.com/openfield/fieldsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s" or
// as integer nanoseconds. After parsing, values are copied into the runtime
// Config.
type JsonConfig struct {
	DatabaseDSN string `json:"database_dsn"`
	DataDir     string `json:"data_dir"`
	MediaDir    string `json:"media_dir"`

	ServerBase string `json:"server_base"`
	SigningKey string `json:"signing_key"`

	DeviceID    string `json:"device_id"`
	PhoneNumber string `json:"phone_number"`
	IMEI        string `json:"imei"`
	OSVersion   string `json:"os_version"`

	UploadRetries *int           `json:"upload_retries"`
	ProbeTimeout  timex.Duration `json:"probe_timeout"`
	LogFile       string         `json:"log_file"`

	S3Region         string `json:"s3_region"`
	S3AccessKey      string `json:"s3_access_key"`
	S3SecretKey      string `json:"s3_secret_key"`
	S3Bucket         string `json:"s3_bucket"`
	S3BaseEndpoint   string `json:"s3_base_endpoint"`
	S3ForcePathStyle bool   `json:"s3_force_path_style"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. Missing file path means no JSON is loaded. Read or parse
// errors panic; the agent cannot run on a half-applied config.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.MediaDir != "" {
		cfg.MediaDir = jc.MediaDir
	}
	if jc.ServerBase != "" {
		cfg.ServerBase = jc.ServerBase
	}
	if jc.SigningKey != "" {
		cfg.SigningKey = jc.SigningKey
	}
	if jc.DeviceID != "" {
		cfg.DeviceID = jc.DeviceID
	}
	if jc.PhoneNumber != "" {
		cfg.PhoneNumber = jc.PhoneNumber
	}
	if jc.IMEI != "" {
		cfg.IMEI = jc.IMEI
	}
	if jc.OSVersion != "" {
		cfg.OSVersion = jc.OSVersion
	}
	if jc.UploadRetries != nil {
		cfg.UploadRetries = *jc.UploadRetries
	}
	if jc.ProbeTimeout.Duration != 0 {
		cfg.ProbeTimeout = time.Duration(jc.ProbeTimeout.Duration)
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3ForcePathStyle {
		cfg.S3ForcePathStyle = true
	}
}
