package vqe

import (
	"context"
	"math"

	"github.com/hupe1980/qsimgo/pauli"
)

// AdamConfig holds the optimizer hyperparameters. The zero value of any
// field is replaced by its default.
type AdamConfig struct {
	LearningRate  float64 // default 0.1
	Beta1         float64 // default 0.9
	Beta2         float64 // default 0.999
	Epsilon       float64 // default 1e-8
	MaxIterations int     // default 100
	Tolerance     float64 // default 1e-6, early-stop threshold on max |grad|
}

func (c *AdamConfig) applyDefaults() {
	if c.LearningRate == 0 {
		c.LearningRate = 0.1
	}

	if c.Beta1 == 0 {
		c.Beta1 = 0.9
	}

	if c.Beta2 == 0 {
		c.Beta2 = 0.999
	}

	if c.Epsilon == 0 {
		c.Epsilon = 1e-8
	}

	if c.MaxIterations == 0 {
		c.MaxIterations = 100
	}

	if c.Tolerance == 0 {
		c.Tolerance = 1e-6
	}
}

// Result reports the outcome of a minimization run.
type Result struct {
	// Params holds the final parameter vector.
	Params []float64

	// Energy is the Hamiltonian expectation at Params.
	Energy float64

	// Iterations is the number of update steps performed.
	Iterations int
}

// Adam minimizes a Hamiltonian expectation with the Adam gradient method
// and parameter-shift gradients.
type Adam struct {
	cfg AdamConfig
}

// NewAdam creates an optimizer with the given configuration. Zero-valued
// fields fall back to defaults.
func NewAdam(cfg AdamConfig) *Adam {
	cfg.applyDefaults()
	return &Adam{cfg: cfg}
}

// Minimize runs up to MaxIterations Adam steps from initial, stopping early
// once every gradient component is below Tolerance in magnitude. The
// optimizer state (first and second moment estimates) is owned by this call;
// an Adam value may run concurrent minimizations.
//
// The final parameters are returned whether or not the gradient converged;
// non-convergence is reported through the logger, not as an error.
func (a *Adam) Minimize(ctx context.Context, numQubits int, ansatz Ansatz, h pauli.Hamiltonian, initial []float64, optFns ...func(*Options)) (*Result, error) {
	o := applyOptions(optFns)

	if err := h.Validate(numQubits); err != nil {
		return nil, err
	}

	params := make([]float64, len(initial))
	copy(params, initial)

	m := make([]float64, len(params))
	v := make([]float64, len(params))

	iterations := 0
	converged := false

	for t := 1; t <= a.cfg.MaxIterations; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		grad, err := Gradients(ctx, numQubits, params, ansatz, h, optFns...)
		if err != nil {
			return nil, err
		}

		maxGrad := 0.0
		for _, g := range grad {
			if ag := math.Abs(g); ag > maxGrad {
				maxGrad = ag
			}
		}

		if maxGrad < a.cfg.Tolerance {
			converged = true
			break
		}

		bc1 := 1 - math.Pow(a.cfg.Beta1, float64(t))
		bc2 := 1 - math.Pow(a.cfg.Beta2, float64(t))

		for i, g := range grad {
			m[i] = a.cfg.Beta1*m[i] + (1-a.cfg.Beta1)*g
			v[i] = a.cfg.Beta2*v[i] + (1-a.cfg.Beta2)*g*g

			mHat := m[i] / bc1
			vHat := v[i] / bc2

			params[i] -= a.cfg.LearningRate * mHat / (math.Sqrt(vHat) + a.cfg.Epsilon)
		}

		iterations = t

		if t%10 == 0 {
			e, err := energy(numQubits, params, ansatz, h, o.Factory)
			if err != nil {
				return nil, err
			}

			o.Logger.Debug("optimizer step", "iteration", t, "energy", e, "maxGrad", maxGrad)
		}
	}

	final, err := energy(numQubits, params, ansatz, h, o.Factory)
	if err != nil {
		return nil, err
	}

	if converged {
		o.Logger.Info("optimizer converged", "iterations", iterations, "energy", final)
	} else {
		o.Logger.Warn("optimizer reached iteration limit without converging", "iterations", iterations, "energy", final)
	}

	return &Result{
		Params:     params,
		Energy:     final,
		Iterations: iterations,
	}, nil
}
