// Package storage wraps the MinIO client used to archive raw webhook payloads.
//
// The Client interface is the subset of minio-go the archive calls, which keeps
// it mockable (see core/storage/mocks). Archive lays objects out as
// webhooks/<connection>/<yyyy>/<mm>/<dd>/<event id>.json.
//
//	client, err := storage.NewClient(cfg.Storage)
//	archive := storage.NewArchive(client, cfg.Storage)
//	key, err := archive.PutWebhook(ctx, conn.ID, event.EventID, event.ReceivedAt, body)
package storage
