//go:build !linux

package sysmem

// Available returns a conservative default on platforms without a cheap
// availability probe.
func Available() int64 {
	return fallbackAvailable
}
