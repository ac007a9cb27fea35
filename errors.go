package qsimgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/pauli"
)

var (
	// ErrInvalidArgument is returned for malformed inputs: bad qubit counts,
	// registers too large for the memory budget, invalid Pauli strings,
	// overlapping control/target qubits, probabilities outside [0, 1].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange is returned when a qubit index does not address the register.
	ErrOutOfRange = errors.New("index out of range")
)

// translateError normalizes backend and pauli errors into the public
// taxonomy. Typed errors keep their fields; errors.Is and errors.As both
// work on the result.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Argument normalization.
	if errors.Is(err, backend.ErrInvalidQubitCount) ||
		errors.Is(err, backend.ErrControlTargetOverlap) ||
		errors.Is(err, backend.ErrInvalidNoiseProbability) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	var lm *pauli.ErrLengthMismatch
	if errors.As(err, &lm) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	var op *pauli.ErrInvalidOperator
	if errors.As(err, &op) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	var budget *backend.ErrMemoryBudgetExceeded
	if errors.As(err, &budget) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	// Index unification.
	var oor *backend.ErrQubitOutOfRange
	if errors.As(err, &oor) {
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	// Accelerator, numerical and budget errors already carry their own
	// typed causes; pass them through untouched.
	return err
}
