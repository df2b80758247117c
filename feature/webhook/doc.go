// Package webhook receives vendor push deliveries and processes them asynchronously.
//
// # Ingest
//
// POST /webhooks/:connectionID authenticates the delivery with an HMAC-SHA256
// signature of timestamp + "\n" + body (headers X-Webhook-Timestamp and
// X-Webhook-Signature) keyed by the connection's webhook secret, persists it
// as a received WebhookEvent, optionally archives the raw body to object
// storage, enqueues it and answers 202 with the event id. A delivery that
// repeats a vendor event id (X-Webhook-Id or event_id in the body) returns the
// existing event.
//
// # Dispatch
//
// Dispatcher fans events into lanes by connection, one goroutine per lane, so
// events of a connection are processed in order.
//
// # Processing
//
// Processor maps the payload through the connection's adapter and reconciles
// the items in a push run while holding the connection lock. The run outcome
// settles the event as processed or failed; missing or inactive connections
// settle it as ignored. Settled events are never processed twice; a failed
// event can be resubmitted.
package webhook
