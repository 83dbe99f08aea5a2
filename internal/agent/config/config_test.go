package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.DatabaseDSN, "fieldsync.db")
	assert.Equal(t, c.DataDir, "data")
	assert.Equal(t, c.MediaDir, "media")
	assert.Equal(t, c.ServerBase, "http://127.0.0.1:8080")
	assert.Equal(t, c.SigningKey, "")
	assert.Equal(t, c.UploadRetries, 2)
	assert.Equal(t, c.ProbeTimeout, 5*time.Second)
	assert.Equal(t, c.S3Region, "us-east-1")
	assert.Equal(t, c.S3Bucket, "fieldsync")
	assert.Equal(t, c.S3BaseEndpoint, "")
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.DatabaseDSN, "fieldsync.db")
	assert.Equal(t, c.ServerBase, "http://127.0.0.1:8080")
	assert.Equal(t, c.UploadRetries, 2)
	assert.Equal(t, c.ProbeTimeout, 5*time.Second)
	assert.Equal(t, c.S3Region, "us-east-1")
	assert.Equal(t, c.S3Bucket, "fieldsync")
}
