// Package circuit records applied gate operations as a replayable tape.
//
// A Recorder wraps any backend.Register and satisfies the same contract,
// capturing every gate it forwards. The tape can be replayed onto a fresh
// register, replayed in inverse to undo a circuit, or exported as OpenQASM.
package circuit

import (
	"fmt"

	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/pauli"
)

// Gate names as recorded on the tape.
const (
	GateH    = "H"
	GateX    = "X"
	GateY    = "Y"
	GateZ    = "Z"
	GateS    = "S"
	GateT    = "T"
	GateRY   = "RY"
	GateRZ   = "RZ"
	GateCNOT = "CNOT"
	GateCCX  = "CCX"
)

// ErrUnknownGate is a named error type for tape entries the replayer does not
// recognize.
type ErrUnknownGate struct {
	Name string
}

// Error returns the error message for an unknown gate name.
func (e *ErrUnknownGate) Error() string {
	return fmt.Sprintf("unknown gate %q", e.Name)
}

// Gate is one recorded operation.
type Gate struct {
	Name   string
	Qubits []int
	Params []float64
}

// Recorder wraps a register and records every gate it forwards.
// Measurements are forwarded but not recorded; a collapse is not a unitary
// and cannot be replayed.
type Recorder struct {
	reg  backend.Register
	tape []Gate
}

var _ backend.Register = (*Recorder)(nil)

// NewRecorder creates a Recorder around the given register.
func NewRecorder(reg backend.Register) *Recorder {
	return &Recorder{reg: reg}
}

// Tape returns the recorded gates in application order.
func (r *Recorder) Tape() []Gate {
	out := make([]Gate, len(r.tape))
	copy(out, r.tape)
	return out
}

// Reset clears the tape. The wrapped register is untouched.
func (r *Recorder) Reset() {
	r.tape = r.tape[:0]
}

func (r *Recorder) record(name string, qubits []int, params []float64) {
	r.tape = append(r.tape, Gate{Name: name, Qubits: qubits, Params: params})
}

// NumQubits returns the wrapped register's size.
func (r *Recorder) NumQubits() int { return r.reg.NumQubits() }

// ApplyHadamard forwards and records a Hadamard gate.
func (r *Recorder) ApplyHadamard(q int) error {
	if err := r.reg.ApplyHadamard(q); err != nil {
		return err
	}
	r.record(GateH, []int{q}, nil)
	return nil
}

// ApplyX forwards and records a Pauli-X gate.
func (r *Recorder) ApplyX(q int) error {
	if err := r.reg.ApplyX(q); err != nil {
		return err
	}
	r.record(GateX, []int{q}, nil)
	return nil
}

// ApplyY forwards and records a Pauli-Y gate.
func (r *Recorder) ApplyY(q int) error {
	if err := r.reg.ApplyY(q); err != nil {
		return err
	}
	r.record(GateY, []int{q}, nil)
	return nil
}

// ApplyZ forwards and records a Pauli-Z gate.
func (r *Recorder) ApplyZ(q int) error {
	if err := r.reg.ApplyZ(q); err != nil {
		return err
	}
	r.record(GateZ, []int{q}, nil)
	return nil
}

// ApplyS forwards and records an S gate.
func (r *Recorder) ApplyS(q int) error {
	if err := r.reg.ApplyS(q); err != nil {
		return err
	}
	r.record(GateS, []int{q}, nil)
	return nil
}

// ApplyT forwards and records a T gate.
func (r *Recorder) ApplyT(q int) error {
	if err := r.reg.ApplyT(q); err != nil {
		return err
	}
	r.record(GateT, []int{q}, nil)
	return nil
}

// ApplyRotationY forwards and records an Ry gate.
func (r *Recorder) ApplyRotationY(q int, theta float64) error {
	if err := r.reg.ApplyRotationY(q, theta); err != nil {
		return err
	}
	r.record(GateRY, []int{q}, []float64{theta})
	return nil
}

// ApplyRotationZ forwards and records an Rz gate.
func (r *Recorder) ApplyRotationZ(q int, theta float64) error {
	if err := r.reg.ApplyRotationZ(q, theta); err != nil {
		return err
	}
	r.record(GateRZ, []int{q}, []float64{theta})
	return nil
}

// ApplyCNOT forwards and records a controlled-NOT gate.
func (r *Recorder) ApplyCNOT(control, target int) error {
	if err := r.reg.ApplyCNOT(control, target); err != nil {
		return err
	}
	r.record(GateCNOT, []int{control, target}, nil)
	return nil
}

// ApplyToffoli forwards and records a Toffoli gate.
func (r *Recorder) ApplyToffoli(c1, c2, target int) error {
	if err := r.reg.ApplyToffoli(c1, c2, target); err != nil {
		return err
	}
	r.record(GateCCX, []int{c1, c2, target}, nil)
	return nil
}

// Measure forwards a projective measurement without recording it.
func (r *Recorder) Measure(q int) (int, error) {
	return r.reg.Measure(q)
}

// StateVector returns the wrapped register's amplitude snapshot.
func (r *Recorder) StateVector() []complex128 { return r.reg.StateVector() }

// Probabilities returns the wrapped register's probability vector.
func (r *Recorder) Probabilities() []float64 { return r.reg.Probabilities() }

// ExpectationValue evaluates a Pauli string on the wrapped register.
func (r *Recorder) ExpectationValue(p pauli.String) (float64, error) {
	return r.reg.ExpectationValue(p)
}

// Replay applies the tape, in order, onto the given register.
func Replay(tape []Gate, reg backend.Register) error {
	for _, g := range tape {
		if err := apply(g, reg); err != nil {
			return err
		}
	}
	return nil
}

// ReplayInverse applies the adjoint of the tape: gates in reverse order,
// each replaced by its inverse. H, X, Y, Z, CNOT and CCX are self-inverse;
// rotations negate their angle. S and T are inverted through their own
// powers (S† = S³, T† = T⁷), which is exact including global phase.
func ReplayInverse(tape []Gate, reg backend.Register) error {
	for k := len(tape) - 1; k >= 0; k-- {
		g := tape[k]
		switch g.Name {
		case GateRY:
			if err := reg.ApplyRotationY(g.Qubits[0], -g.Params[0]); err != nil {
				return err
			}
		case GateRZ:
			if err := reg.ApplyRotationZ(g.Qubits[0], -g.Params[0]); err != nil {
				return err
			}
		case GateS:
			for n := 0; n < 3; n++ {
				if err := reg.ApplyS(g.Qubits[0]); err != nil {
					return err
				}
			}
		case GateT:
			for n := 0; n < 7; n++ {
				if err := reg.ApplyT(g.Qubits[0]); err != nil {
					return err
				}
			}
		default:
			if err := apply(g, reg); err != nil {
				return err
			}
		}
	}
	return nil
}

func apply(g Gate, reg backend.Register) error {
	switch g.Name {
	case GateH:
		return reg.ApplyHadamard(g.Qubits[0])
	case GateX:
		return reg.ApplyX(g.Qubits[0])
	case GateY:
		return reg.ApplyY(g.Qubits[0])
	case GateZ:
		return reg.ApplyZ(g.Qubits[0])
	case GateS:
		return reg.ApplyS(g.Qubits[0])
	case GateT:
		return reg.ApplyT(g.Qubits[0])
	case GateRY:
		return reg.ApplyRotationY(g.Qubits[0], g.Params[0])
	case GateRZ:
		return reg.ApplyRotationZ(g.Qubits[0], g.Params[0])
	case GateCNOT:
		return reg.ApplyCNOT(g.Qubits[0], g.Qubits[1])
	case GateCCX:
		return reg.ApplyToffoli(g.Qubits[0], g.Qubits[1], g.Qubits[2])
	default:
		return &ErrUnknownGate{Name: g.Name}
	}
}
