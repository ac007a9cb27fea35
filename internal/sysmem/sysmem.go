// Package sysmem probes the memory available for amplitude allocation.
//
// A register of n qubits needs 16·2^n bytes; past roughly 30 qubits that is
// beyond commodity memory, so construction checks the requested size against
// this probe instead of letting the allocator kill the process.
package sysmem

// fallbackAvailable is used when no platform probe exists or the probe
// fails: 8 GiB, enough for a 29-qubit register.
const fallbackAvailable = int64(8) << 30
