// Package provider defines the vendor adapter contract and the helpers every
// adapter composes: an authenticated Requester guarded per connection by a
// circuit breaker and a token bucket, cursor or page-number pagination with a
// hard page cap, and fallback field extraction over dotted paths.
//
// Vendor adapters live in subpackages and call these helpers explicitly, so the
// only vendor-specific code is auth, endpoints, pagination style and the
// field map.
//
// # Normalization
//
// Normalize turns one decoded item into a NormalizedAsset. Items without an
// external id are dropped silently. Defaults: external type "asset" (or the
// adapter's type), name "Unknown Asset", last seen now.
package provider
