//go:build accel

package accel

import (
	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/backend/statevec"
)

// Compiled reports whether acceleration support is built into the binary.
const Compiled = true

// DeviceProbe enumerates accelerator devices. Accelerator integrations
// replace it at init time; the default finds nothing, so an accel-tagged
// build without a linked device layer still fails with a typed NoDevice
// error instead of crashing in a kernel launch.
var DeviceProbe = func() []string { return nil }

func newRegister(numQubits int) (backend.Register, error) {
	devices := DeviceProbe()
	if len(devices) == 0 {
		return nil, &backend.ErrAcceleratorUnavailable{
			Cause:  backend.CauseNoDevice,
			Detail: "no accelerator devices detected",
		}
	}

	// Device memory management and kernel dispatch live in the linked device
	// layer; the host-side register reuses the dense CPU engine for state
	// bookkeeping so both variants honor an identical contract.
	return statevec.New(numQubits)
}
