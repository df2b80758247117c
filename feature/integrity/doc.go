// Package integrity validates the infrastructure the service depends on.
//
// # Checks Provided
//
//   - Schema: compares the live tables with the gorm models (missing tables, missing
//     columns, declared type drift). Works on MySQL and sqlite.
//   - Archive: verifies the object storage bucket used for webhook payloads exists.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true).
//
// The same schema check backs the `asset-sync check schema` command.
package integrity
