//go:build !accel

package accel

import "github.com/hupe1980/qsimgo/backend"

// Compiled reports whether acceleration support is built into the binary.
const Compiled = false

func newRegister(int) (backend.Register, error) {
	return nil, &backend.ErrAcceleratorUnavailable{
		Cause:  backend.CauseNotCompiled,
		Detail: "support not compiled in",
	}
}
