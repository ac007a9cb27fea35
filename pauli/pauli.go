// Package pauli provides Pauli strings and weighted Pauli-string Hamiltonians.
//
// A Pauli string is a per-qubit label sequence over {I, X, Y, Z}; label k acts
// on qubit k. Strings serve both as measurement bases for expectation values
// and as Hamiltonian terms.
package pauli

import (
	"fmt"
	"math/bits"
)

// ErrLengthMismatch is a named error type for Pauli strings whose length does
// not match the register size.
type ErrLengthMismatch struct {
	Expected int // Register qubit count
	Actual   int // Pauli string length
}

// Error returns the error message for a Pauli string length mismatch.
func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("pauli string length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidOperator is a named error type for labels outside {I, X, Y, Z}.
type ErrInvalidOperator struct {
	Operator byte // Offending label
	Position int  // Qubit index of the label
}

// Error returns the error message for an invalid operator label.
func (e *ErrInvalidOperator) Error() string {
	return fmt.Sprintf("invalid pauli operator %q at qubit %d", e.Operator, e.Position)
}

// String is a Pauli string such as "IZXY". Index k addresses qubit k.
type String string

// Validate checks that the string has exactly numQubits labels, all of which
// are in {I, X, Y, Z}.
func (s String) Validate(numQubits int) error {
	if len(s) != numQubits {
		return &ErrLengthMismatch{Expected: numQubits, Actual: len(s)}
	}
	for k := 0; k < len(s); k++ {
		switch s[k] {
		case 'I', 'X', 'Y', 'Z':
		default:
			return &ErrInvalidOperator{Operator: s[k], Position: k}
		}
	}
	return nil
}

// IsIdentity reports whether every label is I.
func (s String) IsIdentity() bool {
	for k := 0; k < len(s); k++ {
		if s[k] != 'I' {
			return false
		}
	}
	return true
}

// Masks precomputes the bit masks a dense backend needs to evaluate ⟨ψ|P|ψ⟩.
//
// Flip covers the qubits carrying X or Y (the operators that connect basis
// index i to i XOR Flip). Phase covers the qubits carrying Y or Z, whose
// eigenstructure contributes a sign of (−1)^popcount(i AND Phase). YCount is
// the number of Y labels; the string as a whole carries a global factor of
// i^YCount in front of the sign.
type Masks struct {
	Flip   uint64
	Phase  uint64
	YCount int
}

// Masks returns the evaluation masks for the string. The string is assumed
// validated; labels outside {I, X, Y, Z} are ignored.
func (s String) Masks() Masks {
	var m Masks
	for k := 0; k < len(s); k++ {
		bit := uint64(1) << uint(k)
		switch s[k] {
		case 'X':
			m.Flip |= bit
		case 'Y':
			m.Flip |= bit
			m.Phase |= bit
			m.YCount++
		case 'Z':
			m.Phase |= bit
		}
	}
	return m
}

// Sign returns (−1)^popcount(index AND mask).
func Sign(index, mask uint64) float64 {
	if bits.OnesCount64(index&mask)%2 == 1 {
		return -1
	}
	return 1
}

// Term is one weighted Pauli string of a Hamiltonian.
type Term struct {
	Coefficient float64
	String      String
}

// Hamiltonian is an ordered weighted sum of Pauli strings. The total
// expectation is the sum of Coefficient × ⟨ψ|String|ψ⟩ over all terms, always
// accumulated in slice order for reproducibility.
type Hamiltonian []Term

// Validate checks every term's Pauli string against the register size.
func (h Hamiltonian) Validate(numQubits int) error {
	for _, t := range h {
		if err := t.String.Validate(numQubits); err != nil {
			return err
		}
	}
	return nil
}
