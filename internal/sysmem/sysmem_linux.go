//go:build linux

package sysmem

import "golang.org/x/sys/unix"

// Available returns the system memory in bytes that a new amplitude vector
// may reasonably claim: free memory plus reclaimable buffers, halved to leave
// headroom for the rest of the process.
func Available() int64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return fallbackAvailable
	}
	unit := int64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	avail := (int64(info.Freeram) + int64(info.Bufferram)) * unit
	if avail <= 0 {
		return fallbackAvailable
	}
	return avail / 2
}
