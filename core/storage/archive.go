package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// Archive stores raw webhook bodies for audit and replay.
type Archive struct {
	client Client
	bucket string
	region string
}

// NewArchive creates an archive writing to cfg.Bucket.
func NewArchive(client Client, cfg Config) *Archive {
	return &Archive{client: client, bucket: cfg.Bucket, region: cfg.Region}
}

// EnsureBucket creates the bucket when missing.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// WebhookKey is the object key of a webhook payload.
func WebhookKey(connectionID uint, eventID string, receivedAt time.Time) string {
	return fmt.Sprintf("webhooks/%d/%s/%s.json", connectionID, receivedAt.UTC().Format("2006/01/02"), eventID)
}

// PutWebhook uploads a webhook body and returns its key.
func (a *Archive) PutWebhook(ctx context.Context, connectionID uint, eventID string, receivedAt time.Time, payload []byte) (string, error) {
	key := WebhookKey(connectionID, eventID, receivedAt)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"connection-id": fmt.Sprintf("%d", connectionID),
			"event-id":      eventID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive webhook %s: %w", eventID, err)
	}
	return key, nil
}

// Get downloads an archived payload.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archived object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived object %s: %w", key, err)
	}
	return data, nil
}
