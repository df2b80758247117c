package storage_test

import (
	"testing"

	"asset-sync/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "hooks",
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MissingBucket", func(t *testing.T) {
		_, err := storage.NewClient(storage.Config{Endpoint: "localhost:9000"})
		assert.ErrorIs(t, err, storage.ErrNoBucket)
	})

	t.Run("EmptyEndpoint", func(t *testing.T) {
		_, err := storage.NewClient(storage.Config{Bucket: "hooks"})
		assert.Error(t, err)
	})
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		useSSL   bool
		host     string
		secure   bool
		wantErr  bool
	}{
		{name: "bare host keeps flag", endpoint: "minio:9000", useSSL: true, host: "minio:9000", secure: true},
		{name: "https scheme", endpoint: "https://s3.amazonaws.com", host: "s3.amazonaws.com", secure: true},
		{name: "http scheme overrides flag", endpoint: "http://minio:9000/", useSSL: true, host: "minio:9000", secure: false},
		{name: "unsupported scheme", endpoint: "ftp://minio", wantErr: true},
		{name: "empty", endpoint: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure, err := storage.ParseEndpoint(tt.endpoint, tt.useSSL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}
