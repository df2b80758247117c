// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface and registers its routes on
// the router it is loaded onto:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The server keeps two managers: one for public routes (webhook ingest) and
// one for the API group protected by the API key.
package loader
