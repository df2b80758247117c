// Package utils provides loose type conversion helpers for decoded vendor JSON,
// where ids, flags and timestamps arrive as strings, floats or numbers depending on the vendor.
package utils
