package vqe

import (
	"github.com/hupe1980/qsimgo/backend"
)

// HardwareEfficientAnsatz returns a shallow trial circuit for numQubits
// qubits: one Ry rotation per qubit followed by a chain of CNOT entanglers.
// It expects exactly numQubits parameters. This is the standard ansatz for
// the built-in molecular Hamiltonians.
func HardwareEfficientAnsatz(numQubits int) Ansatz {
	return func(params []float64, reg backend.Register) error {
		for q := 0; q < numQubits; q++ {
			theta := 0.0
			if q < len(params) {
				theta = params[q]
			}

			if err := reg.ApplyRotationY(q, theta); err != nil {
				return err
			}
		}

		for q := 0; q+1 < numQubits; q++ {
			if err := reg.ApplyCNOT(q, q+1); err != nil {
				return err
			}
		}

		return nil
	}
}
