// Package backend defines the register contract shared by all simulation
// backends, together with the typed errors every backend must return.
package backend

import (
	"errors"
	"fmt"

	"github.com/hupe1980/qsimgo/pauli"
)

// ErrInvalidQubitCount is returned when a register is constructed with a
// non-positive qubit count.
var ErrInvalidQubitCount = errors.New("qubit count must be positive")

// ErrControlTargetOverlap is returned when a controlled gate is applied with
// identical control and target qubits.
var ErrControlTargetOverlap = errors.New("control and target qubits must be distinct")

// ErrInvalidNoiseProbability is returned when a noise probability is outside
// the closed interval [0, 1].
var ErrInvalidNoiseProbability = errors.New("noise probability must be in [0, 1]")

// ErrNumerical is a named error type for non-finite or materially non-real
// results of a computation that must produce a real scalar.
type ErrNumerical struct {
	Op    string  // Operation that produced the value
	Value float64 // Offending value
}

// Error returns the error message for a degenerate numerical result.
func (e *ErrNumerical) Error() string {
	return fmt.Sprintf("numerical error in %s: got %v", e.Op, e.Value)
}

// ErrQubitOutOfRange is a named error type for qubit indices outside [0, n).
type ErrQubitOutOfRange struct {
	Qubit     int // Offending qubit index
	NumQubits int // Register size
}

// Error returns the error message for an out-of-range qubit index.
func (e *ErrQubitOutOfRange) Error() string {
	return fmt.Sprintf("qubit %d out of range [0, %d)", e.Qubit, e.NumQubits)
}

// ErrMemoryBudgetExceeded indicates that allocating the 2^n amplitude vector
// would exceed the configured memory budget.
type ErrMemoryBudgetExceeded struct {
	NumQubits int   // Requested register size
	Required  int64 // Bytes the amplitude vector would need
	Budget    int64 // Bytes available under the budget
}

// Error returns the error message for an exceeded memory budget.
func (e *ErrMemoryBudgetExceeded) Error() string {
	return fmt.Sprintf("register of %d qubits needs %d bytes, budget is %d",
		e.NumQubits, e.Required, e.Budget)
}

// UnavailableCause classifies why an accelerated backend cannot be used.
type UnavailableCause int

const (
	// CauseNotCompiled means acceleration support was not compiled into the
	// binary (missing build tag).
	CauseNotCompiled UnavailableCause = iota
	// CauseNoDevice means support is compiled in but no accelerator device
	// was detected at construction time.
	CauseNoDevice
)

// String returns a string representation of the UnavailableCause.
func (c UnavailableCause) String() string {
	switch c {
	case CauseNotCompiled:
		return "NotCompiled"
	case CauseNoDevice:
		return "NoDevice"
	default:
		return "Unknown"
	}
}

// ErrAcceleratorUnavailable is returned by accelerated register constructors
// when no accelerated execution path exists. The Cause field distinguishes a
// binary built without acceleration from a runtime environment without
// devices, so callers never have to parse the message.
type ErrAcceleratorUnavailable struct {
	Cause  UnavailableCause
	Detail string // Human-readable cause, e.g. "support not compiled in"
}

// Error returns the error message for an unavailable accelerator.
func (e *ErrAcceleratorUnavailable) Error() string {
	return fmt.Sprintf("accelerator unavailable (%s): %s", e.Cause, e.Detail)
}

// Register is the contract every simulation backend implements.
//
// A register owns a dense amplitude vector of length 2^n. Bit i of a basis
// index encodes the state of qubit i. All gate applications mutate the state
// in place and preserve normalization; a failed call leaves the state
// untouched. Registers are not safe for concurrent use.
type Register interface {
	// NumQubits returns the register size n fixed at construction.
	NumQubits() int

	// ApplyHadamard applies the Hadamard gate to qubit q.
	ApplyHadamard(q int) error

	// ApplyX applies the Pauli-X (NOT) gate to qubit q.
	ApplyX(q int) error

	// ApplyY applies the Pauli-Y gate to qubit q.
	ApplyY(q int) error

	// ApplyZ applies the Pauli-Z gate to qubit q.
	ApplyZ(q int) error

	// ApplyS applies the S phase gate (quarter turn) to qubit q.
	ApplyS(q int) error

	// ApplyT applies the T phase gate (eighth turn) to qubit q.
	ApplyT(q int) error

	// ApplyRotationY applies Ry(theta) = [[cos θ/2, −sin θ/2], [sin θ/2, cos θ/2]]
	// to qubit q.
	ApplyRotationY(q int, theta float64) error

	// ApplyRotationZ applies Rz(theta) = diag(e^{−iθ/2}, e^{iθ/2}) to qubit q.
	ApplyRotationZ(q int, theta float64) error

	// ApplyCNOT applies a controlled-NOT with the given control and target.
	ApplyCNOT(control, target int) error

	// ApplyToffoli applies a doubly controlled NOT gate.
	ApplyToffoli(control1, control2, target int) error

	// Measure performs a projective measurement of qubit q in the
	// computational basis, collapses and renormalizes the state, and returns
	// the observed outcome (0 or 1).
	Measure(q int) (int, error)

	// StateVector returns a copy of the amplitude vector.
	StateVector() []complex128

	// Probabilities returns the squared magnitude of every amplitude.
	// The result sums to 1 within floating tolerance.
	Probabilities() []float64

	// ExpectationValue computes ⟨ψ|P|ψ⟩ for a Pauli string of length
	// exactly NumQubits.
	ExpectationValue(p pauli.String) (float64, error)
}

// Factory constructs a fresh register of the given size. The gradient and
// optimizer code instantiates registers through a Factory so the backend
// stays swappable.
type Factory func(numQubits int) (Register, error)
