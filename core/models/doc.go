// Package models defines the GORM models of the canonical asset store.
//
//   - Connection: a configured vendor integration (credentials, settings, schedule).
//   - SyncRun: one pull or push execution with its counters and retry state.
//   - ExternalAsset: one inventory item, unique on (connection, external id, external type).
//   - ClientMapping: vendor tenant to internal client association.
//   - WebhookEvent: a persisted push payload and its processing outcome.
//
// All lists the models for migrations and the schema integrity check.
package models

// All returns every model managed by the service, in migration order.
func All() []any {
	return []any{
		&Connection{},
		&SyncRun{},
		&ExternalAsset{},
		&ClientMapping{},
		&WebhookEvent{},
	}
}
