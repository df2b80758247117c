// Package middleware contains HTTP middleware for the Fiber application.
//
//   - auth: API key validation (X-API-Key) for the admin API.
//   - rayid: a request id (RayID) per request, stored in locals for logging
//     and echoed in the X-Ray-ID response header.
package middleware
