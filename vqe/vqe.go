// Package vqe implements the variational loop: Hamiltonian energy
// evaluation, parameter-shift gradients and the Adam optimizer.
//
// The caller supplies an ansatz, a function that prepares a trial state by
// applying gates to a fresh register. Gradient and optimizer code never
// reuses registers across evaluations; every energy evaluation instantiates
// a new one through the configured backend factory.
package vqe

import (
	"io"
	"log/slog"
	"math"

	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/backend/statevec"
	"github.com/hupe1980/qsimgo/pauli"
)

// Ansatz prepares a trial state by applying gates to reg. It is invoked
// synchronously and must not retain reg beyond the call.
type Ansatz func(params []float64, reg backend.Register) error

// Options configure gradient and optimizer evaluation.
type Options struct {
	// Factory constructs the registers used for circuit evaluations.
	// Defaults to the CPU state-vector engine.
	Factory backend.Factory

	// MaxParallel bounds how many parameter-shift evaluations may run
	// concurrently. 1 (the default) keeps evaluation fully sequential.
	// Accumulation order within one evaluation is fixed regardless.
	MaxParallel int

	// Logger receives progress output. Defaults to a discarding logger.
	Logger *slog.Logger
}

// WithFactory sets the register factory used for circuit evaluations.
func WithFactory(f backend.Factory) func(*Options) {
	return func(o *Options) {
		if f != nil {
			o.Factory = f
		}
	}
}

// WithMaxParallel bounds concurrent parameter-shift evaluations.
func WithMaxParallel(n int) func(*Options) {
	return func(o *Options) {
		o.MaxParallel = n
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func applyOptions(optFns []func(*Options)) Options {
	o := Options{
		Factory: func(n int) (backend.Register, error) {
			return statevec.New(n)
		},
		MaxParallel: 1,
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.MaxParallel < 1 {
		o.MaxParallel = 1
	}
	return o
}

// Energy evaluates the Hamiltonian expectation for one parameter vector:
// a fresh register, the ansatz, then the coefficient-weighted sum of
// per-term expectations in slice order.
func Energy(numQubits int, params []float64, ansatz Ansatz, h pauli.Hamiltonian, optFns ...func(*Options)) (float64, error) {
	o := applyOptions(optFns)
	if err := h.Validate(numQubits); err != nil {
		return 0, err
	}
	return energy(numQubits, params, ansatz, h, o.Factory)
}

func energy(numQubits int, params []float64, ansatz Ansatz, h pauli.Hamiltonian, factory backend.Factory) (float64, error) {
	reg, err := factory(numQubits)
	if err != nil {
		return 0, err
	}
	if c, ok := reg.(io.Closer); ok {
		defer c.Close()
	}

	if err := ansatz(params, reg); err != nil {
		return 0, err
	}

	total := 0.0
	for _, term := range h {
		ev, err := reg.ExpectationValue(term.String)
		if err != nil {
			return 0, err
		}
		total += term.Coefficient * ev
	}

	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, &backend.ErrNumerical{Op: "energy", Value: total}
	}
	return total, nil
}
