//go:build !unix && !windows

package platform

// RaisePriority is a no-op on platforms without a priority API.
func RaisePriority() error { return nil }
