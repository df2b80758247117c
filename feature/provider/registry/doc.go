// Package registry maps provider keys to vendor adapters.
package registry
