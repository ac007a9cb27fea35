// Package accel provides the hardware-accelerated register variant.
//
// The accelerated register satisfies the same backend.Register contract as
// the CPU engine. Availability is decided at construction time, never cached:
// every New call re-checks. When acceleration cannot be used the constructor
// fails with a typed *backend.ErrAcceleratorUnavailable whose Cause
// distinguishes a binary built without the "accel" tag from a runtime
// environment without devices.
package accel

import (
	"github.com/hupe1980/qsimgo/backend"
)

// New creates an accelerated register of numQubits qubits, or fails with
// *backend.ErrAcceleratorUnavailable.
func New(numQubits int) (backend.Register, error) {
	return newRegister(numQubits)
}
