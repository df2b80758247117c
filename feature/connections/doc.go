// Package connections implements the admin API over connections.
//
// # HTTP Endpoints
//
// All routes live under /api and require the X-API-Key header.
//
//   - GET   /providers                       : registered adapters
//   - GET   /connections                     : list (?active=true)
//   - POST  /connections                     : create
//   - GET   /connections/:id                 : one connection
//   - PATCH /connections/:id/active          : activate or deactivate
//   - POST  /connections/:id/sync            : pull now
//   - GET   /connections/:id/runs            : recent runs
//   - GET   /connections/:id/clients/discover: vendor tenants
//   - GET   /connections/:id/assets/stale    : assets not seen since ?before=
//   - GET   /connections/:id/mappings        : client mappings
//   - PUT   /connections/:id/mappings        : create or replace a mapping
//
// Credentials and webhook secrets are write-only; they never appear in responses.
package connections
