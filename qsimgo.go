// Package qsimgo provides an embedded quantum-circuit simulator for Go.
//
// Qsimgo simulates registers of qubits as dense state vectors with
// production-ready features including:
//
//   - Exact state-vector simulation up to 48 qubits (2^n complex amplitudes)
//   - Single-qubit gates (H, X, Y, Z, S, T, Ry, Rz), CNOT and Toffoli
//   - Projective measurement and a depolarizing noise channel
//   - Pauli-string expectation values for Hamiltonian evaluation
//   - Parameter-shift gradients and an Adam optimizer for variational circuits
//   - Optional build-tag gated accelerator backend with typed availability errors
//   - Circuit recording with replay, inversion and OpenQASM 3.0 export
//   - Compressed snapshots to local disk, S3 or MinIO, with a DynamoDB run log
//   - Shared memory and IO budgets for running many registers side by side
//
// # Quick Start
//
// Prepare a Bell state and inspect it:
//
//	ctx := context.Background()
//	reg, err := qsimgo.New(2)
//	if err != nil {
//	    panic(err)
//	}
//	defer reg.Close()
//
//	_ = reg.ApplyHadamard(ctx, 0)
//	_ = reg.ApplyCNOT(ctx, 0, 1)
//	probs := reg.Probabilities() // {0.5, 0, 0, 0.5}
//
// Run a small variational ground-state search:
//
//	h := pauli.H2.Hamiltonian()
//	ansatz := vqe.HardwareEfficientAnsatz(2)
//	result, err := qsimgo.Minimize(ctx, 2, ansatz, h, []float64{0.1, 0.1})
//
// # Backends
//
// New constructs the CPU engine. WithAccelerated requests the accelerated
// engine instead; if the binary was built without the accel tag or no device
// is present, construction fails with a typed error describing the cause.
// Availability is probed on every construction, never cached.
package qsimgo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/backend/accel"
	"github.com/hupe1980/qsimgo/backend/statevec"
	"github.com/hupe1980/qsimgo/blobstore"
	"github.com/hupe1980/qsimgo/circuit"
	"github.com/hupe1980/qsimgo/pauli"
	"github.com/hupe1980/qsimgo/snapshot"
	"github.com/hupe1980/qsimgo/vqe"
)

// Register is a simulated quantum register. It wraps a backend engine with
// structured logging, metrics and an optional circuit tape.
//
// Gate and measurement methods validate their arguments before touching any
// amplitude; a failed operation leaves the state exactly as it was.
type Register struct {
	base    backend.Register // unwrapped engine
	reg     backend.Register // base, or recorder around it
	rec     *circuit.Recorder
	metrics MetricsCollector
	logger  *Logger
}

// New creates a register of numQubits qubits initialized to |0...0>.
func New(numQubits int, optFns ...Option) (*Register, error) {
	o := applyOptions(optFns)

	var (
		base backend.Register
		err  error
	)

	if o.accelerated {
		base, err = accel.New(numQubits)
	} else {
		var svOpts []func(*statevec.Options)
		if o.rng != nil {
			svOpts = append(svOpts, statevec.WithRand(o.rng))
		}
		if o.controller != nil {
			svOpts = append(svOpts, statevec.WithController(o.controller))
		}
		if o.memoryLimitBytes > 0 {
			svOpts = append(svOpts, statevec.WithMemoryLimit(o.memoryLimitBytes))
		}
		base, err = statevec.New(numQubits, svOpts...)
	}
	if err != nil {
		return nil, translateError(err)
	}

	r := &Register{
		base:    base,
		reg:     base,
		metrics: o.metricsCollector,
		logger:  o.logger.WithNumQubits(numQubits),
	}

	if o.recording {
		r.rec = circuit.NewRecorder(base)
		r.reg = r.rec
	}

	return r, nil
}

// Close releases the register's memory reservation.
func (r *Register) Close() error {
	if c, ok := r.base.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NumQubits returns the number of qubits in the register.
func (r *Register) NumQubits() int {
	return r.reg.NumQubits()
}

func (r *Register) applyGate(ctx context.Context, name string, qubits []int, fn func() error) error {
	start := time.Now()
	err := translateError(fn())
	r.metrics.RecordGate(time.Since(start), err)
	r.logger.LogGate(ctx, name, qubits, err)
	return err
}

// ApplyHadamard applies the Hadamard gate to the given qubit.
func (r *Register) ApplyHadamard(ctx context.Context, qubit int) error {
	return r.applyGate(ctx, circuit.GateH, []int{qubit}, func() error {
		return r.reg.ApplyHadamard(qubit)
	})
}

// ApplyX applies the Pauli-X gate to the given qubit.
func (r *Register) ApplyX(ctx context.Context, qubit int) error {
	return r.applyGate(ctx, circuit.GateX, []int{qubit}, func() error {
		return r.reg.ApplyX(qubit)
	})
}

// ApplyY applies the Pauli-Y gate to the given qubit.
func (r *Register) ApplyY(ctx context.Context, qubit int) error {
	return r.applyGate(ctx, circuit.GateY, []int{qubit}, func() error {
		return r.reg.ApplyY(qubit)
	})
}

// ApplyZ applies the Pauli-Z gate to the given qubit.
func (r *Register) ApplyZ(ctx context.Context, qubit int) error {
	return r.applyGate(ctx, circuit.GateZ, []int{qubit}, func() error {
		return r.reg.ApplyZ(qubit)
	})
}

// ApplyS applies the phase gate S to the given qubit.
func (r *Register) ApplyS(ctx context.Context, qubit int) error {
	return r.applyGate(ctx, circuit.GateS, []int{qubit}, func() error {
		return r.reg.ApplyS(qubit)
	})
}

// ApplyT applies the T gate to the given qubit.
func (r *Register) ApplyT(ctx context.Context, qubit int) error {
	return r.applyGate(ctx, circuit.GateT, []int{qubit}, func() error {
		return r.reg.ApplyT(qubit)
	})
}

// ApplyRotationY applies a rotation of theta radians about the Y axis.
func (r *Register) ApplyRotationY(ctx context.Context, qubit int, theta float64) error {
	return r.applyGate(ctx, circuit.GateRY, []int{qubit}, func() error {
		return r.reg.ApplyRotationY(qubit, theta)
	})
}

// ApplyRotationZ applies a rotation of theta radians about the Z axis.
func (r *Register) ApplyRotationZ(ctx context.Context, qubit int, theta float64) error {
	return r.applyGate(ctx, circuit.GateRZ, []int{qubit}, func() error {
		return r.reg.ApplyRotationZ(qubit, theta)
	})
}

// ApplyCNOT applies a controlled-NOT gate.
func (r *Register) ApplyCNOT(ctx context.Context, control, target int) error {
	return r.applyGate(ctx, circuit.GateCNOT, []int{control, target}, func() error {
		return r.reg.ApplyCNOT(control, target)
	})
}

// ApplyToffoli applies a doubly-controlled NOT gate.
func (r *Register) ApplyToffoli(ctx context.Context, control1, control2, target int) error {
	return r.applyGate(ctx, circuit.GateCCX, []int{control1, control2, target}, func() error {
		return r.reg.ApplyToffoli(control1, control2, target)
	})
}

// ApplyDepolarizingNoise applies a depolarizing channel with probability p
// to every qubit, when the backend supports noise. Noise is stochastic and
// never recorded on the tape.
func (r *Register) ApplyDepolarizingNoise(ctx context.Context, p float64) error {
	noisy, ok := r.base.(interface{ ApplyDepolarizingNoise(p float64) error })
	if !ok {
		return fmt.Errorf("%w: backend does not support noise channels", ErrInvalidArgument)
	}

	start := time.Now()
	err := translateError(noisy.ApplyDepolarizingNoise(p))
	r.metrics.RecordGate(time.Since(start), err)
	r.logger.LogGate(ctx, "DEPOLARIZE", nil, err)
	return err
}

// Measure performs a projective measurement of the given qubit in the
// computational basis, collapsing and renormalizing the state.
func (r *Register) Measure(ctx context.Context, qubit int) (int, error) {
	start := time.Now()
	outcome, err := r.reg.Measure(qubit)
	err = translateError(err)
	r.metrics.RecordMeasure(time.Since(start), err)
	r.logger.LogMeasure(ctx, qubit, outcome, err)
	return outcome, err
}

// StateVector returns a copy of the register's 2^n amplitudes. Bit i of a
// state's index gives the state of qubit i.
func (r *Register) StateVector() []complex128 {
	return r.reg.StateVector()
}

// Probabilities returns the measurement probability of every basis state.
func (r *Register) Probabilities() []float64 {
	return r.reg.Probabilities()
}

// ExpectationValue evaluates <psi|P|psi> for a Pauli string such as "ZZ" or
// "XY". The string assigns one operator per qubit, leftmost character to
// qubit 0.
func (r *Register) ExpectationValue(ctx context.Context, p pauli.String) (float64, error) {
	start := time.Now()
	value, err := r.reg.ExpectationValue(p)
	err = translateError(err)
	r.metrics.RecordExpectation(time.Since(start), err)
	r.logger.LogExpectation(ctx, string(p), value, err)
	return value, err
}

// Tape returns the recorded circuit, or nil when recording is disabled.
func (r *Register) Tape() []circuit.Gate {
	if r.rec == nil {
		return nil
	}
	return r.rec.Tape()
}

// ExportQASM writes the recorded circuit as an OpenQASM 3.0 program.
// Requires WithRecording.
func (r *Register) ExportQASM(w io.Writer) error {
	return circuit.ExportQASM(w, r.NumQubits(), r.Tape())
}

// Snapshot encodes the register state and writes it to the store under name.
func (r *Register) Snapshot(ctx context.Context, store blobstore.Store, name string, optFns ...func(*snapshot.Options)) error {
	start := time.Now()
	err := snapshot.Save(ctx, store, name, r.base, optFns...)
	r.metrics.RecordSnapshot(len(r.base.StateVector())*16, time.Since(start), err)
	r.logger.LogSnapshot(ctx, name, err)
	return err
}

// Restore loads the named snapshot from the store into this register,
// replacing its state. The recorded tape, if any, is cleared; a restored
// state has no gate history.
func (r *Register) Restore(ctx context.Context, store blobstore.Store, name string, optFns ...func(*snapshot.Options)) error {
	restorer, ok := r.base.(snapshot.Restorer)
	if !ok {
		return fmt.Errorf("%w: backend does not support state restore", ErrInvalidArgument)
	}

	if err := snapshot.LoadInto(ctx, store, name, restorer, optFns...); err != nil {
		return translateError(err)
	}

	if r.rec != nil {
		r.rec.Reset()
	}
	return nil
}

// Minimize runs a full variational ground-state search: Adam with default
// hyperparameters over parameter-shift gradients, starting from initial.
func Minimize(ctx context.Context, numQubits int, ansatz vqe.Ansatz, h pauli.Hamiltonian, initial []float64, optFns ...Option) (*vqe.Result, error) {
	o := applyOptions(optFns)

	vqeOpts := []func(*vqe.Options){
		vqe.WithLogger(o.logger.Logger),
	}
	if o.controller != nil || o.memoryLimitBytes > 0 {
		vqeOpts = append(vqeOpts, vqe.WithFactory(func(n int) (backend.Register, error) {
			var svOpts []func(*statevec.Options)
			if o.controller != nil {
				svOpts = append(svOpts, statevec.WithController(o.controller))
			}
			if o.memoryLimitBytes > 0 {
				svOpts = append(svOpts, statevec.WithMemoryLimit(o.memoryLimitBytes))
			}
			return statevec.New(n, svOpts...)
		}))
	}

	result, err := vqe.NewAdam(vqe.AdamConfig{}).Minimize(ctx, numQubits, ansatz, h, initial, vqeOpts...)
	if err != nil {
		iterations := 0
		if result != nil {
			iterations = result.Iterations
		}
		o.logger.LogMinimize(ctx, iterations, 0, err)
		return nil, translateError(err)
	}

	o.logger.LogMinimize(ctx, result.Iterations, result.Energy, nil)
	return result, nil
}

// MinimizeMolecule runs Minimize against a built-in molecular Hamiltonian
// with the standard hardware-efficient ansatz.
func MinimizeMolecule(ctx context.Context, molecule pauli.Molecule, initial []float64, optFns ...Option) (*vqe.Result, error) {
	numQubits := molecule.NumQubits()
	return Minimize(ctx, numQubits, vqe.HardwareEfficientAnsatz(numQubits), molecule.Hamiltonian(), initial, optFns...)
}
