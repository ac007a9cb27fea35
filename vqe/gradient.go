package vqe

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/pauli"
)

// shift is the parameter-shift offset. For gates generated by Pauli
// rotations the exact gradient is 0.5*(E(θ+π/2) - E(θ-π/2)).
const shift = math.Pi / 2

// Gradients computes the energy gradient with respect to every parameter
// using the parameter-shift rule. Each component uses two full circuit
// evaluations on fresh registers; the input slice is never mutated.
func Gradients(ctx context.Context, numQubits int, params []float64, ansatz Ansatz, h pauli.Hamiltonian, optFns ...func(*Options)) ([]float64, error) {
	o := applyOptions(optFns)

	if err := h.Validate(numQubits); err != nil {
		return nil, err
	}

	grad := make([]float64, len(params))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.MaxParallel)

	for i := range params {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			shifted := make([]float64, len(params))
			copy(shifted, params)

			shifted[i] = params[i] + shift
			plus, err := energy(numQubits, shifted, ansatz, h, o.Factory)
			if err != nil {
				return err
			}

			if err := ctx.Err(); err != nil {
				return err
			}

			shifted[i] = params[i] - shift
			minus, err := energy(numQubits, shifted, ansatz, h, o.Factory)
			if err != nil {
				return err
			}

			d := 0.5 * (plus - minus)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return &backend.ErrNumerical{Op: "gradient", Value: d}
			}

			grad[i] = d

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return grad, nil
}
