// Package statevec implements the default CPU register: a dense, contiguous
// complex128 amplitude vector mutated in place by bit-paired gate kernels.
package statevec

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/internal/sysmem"
	"github.com/hupe1980/qsimgo/pauli"
	"github.com/hupe1980/qsimgo/resource"
)

const (
	// amplitudeSize is the memory footprint of one complex128 amplitude.
	amplitudeSize = 16

	// maxQubits caps the register size so 2^n never overflows the index
	// arithmetic. Memory runs out long before this on any real machine.
	maxQubits = 48
)

// Options configure a Register.
type Options struct {
	// Rand is the source used by Measure and ApplyDepolarizingNoise.
	// If nil, a time-seeded PCG source is used.
	Rand *rand.Rand

	// Controller, if set, accounts the amplitude memory against a shared
	// budget. Construction fails when the budget would be exceeded and
	// Close releases the reservation.
	Controller *resource.Controller

	// MemoryLimitBytes bounds the amplitude allocation when no Controller
	// is set. If 0, the available system memory is probed.
	MemoryLimitBytes int64
}

// Register is a dense state-vector register. It is not safe for concurrent
// use; each instance is owned by a single caller.
type Register struct {
	numQubits int
	state     []complex128
	rng       *rand.Rand

	controller *resource.Controller
	reserved   int64
}

var _ backend.Register = (*Register)(nil)

// New creates a register of numQubits qubits initialized to |0...0⟩.
func New(numQubits int, optFns ...func(*Options)) (*Register, error) {
	o := Options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if numQubits <= 0 || numQubits > maxQubits {
		return nil, backend.ErrInvalidQubitCount
	}

	dim := int64(1) << uint(numQubits)
	required := dim * amplitudeSize

	if o.Controller != nil {
		if !o.Controller.TryAcquireMemory(required) {
			return nil, &backend.ErrMemoryBudgetExceeded{
				NumQubits: numQubits,
				Required:  required,
				Budget:    o.Controller.Limit(),
			}
		}
	} else {
		limit := o.MemoryLimitBytes
		if limit <= 0 {
			limit = sysmem.Available()
		}
		if required > limit {
			return nil, &backend.ErrMemoryBudgetExceeded{
				NumQubits: numQubits,
				Required:  required,
				Budget:    limit,
			}
		}
	}

	rng := o.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	state := make([]complex128, dim)
	state[0] = 1

	r := &Register{
		numQubits:  numQubits,
		state:      state,
		rng:        rng,
		controller: o.Controller,
	}
	if o.Controller != nil {
		r.reserved = required
	}
	return r, nil
}

// WithRand sets the random source used by Measure and noise application.
func WithRand(rng *rand.Rand) func(*Options) {
	return func(o *Options) {
		o.Rand = rng
	}
}

// WithController accounts amplitude memory against a shared controller.
func WithController(c *resource.Controller) func(*Options) {
	return func(o *Options) {
		o.Controller = c
	}
}

// WithMemoryLimit bounds the amplitude allocation in bytes.
func WithMemoryLimit(bytes int64) func(*Options) {
	return func(o *Options) {
		o.MemoryLimitBytes = bytes
	}
}

// Close releases any memory reservation held against a controller.
// The register must not be used afterwards.
func (r *Register) Close() error {
	if r.controller != nil && r.reserved > 0 {
		r.controller.ReleaseMemory(r.reserved)
		r.reserved = 0
	}
	r.state = nil
	return nil
}

// NumQubits returns the register size.
func (r *Register) NumQubits() int { return r.numQubits }

func (r *Register) checkQubit(q int) error {
	if q < 0 || q >= r.numQubits {
		return &backend.ErrQubitOutOfRange{Qubit: q, NumQubits: r.numQubits}
	}
	return nil
}

// ApplyHadamard applies the Hadamard gate to qubit q.
func (r *Register) ApplyHadamard(q int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	inv := complex(1/math.Sqrt2, 0)
	r.forEachPair(q, func(i, j int) {
		a, b := r.state[i], r.state[j]
		r.state[i] = (a + b) * inv
		r.state[j] = (a - b) * inv
	})
	return nil
}

// ApplyX applies the Pauli-X gate to qubit q.
func (r *Register) ApplyX(q int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	r.forEachPair(q, func(i, j int) {
		r.state[i], r.state[j] = r.state[j], r.state[i]
	})
	return nil
}

// ApplyY applies the Pauli-Y gate to qubit q.
func (r *Register) ApplyY(q int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	r.forEachPair(q, func(i, j int) {
		a, b := r.state[i], r.state[j]
		r.state[i] = -1i * b
		r.state[j] = 1i * a
	})
	return nil
}

// ApplyZ applies the Pauli-Z gate to qubit q.
func (r *Register) ApplyZ(q int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	r.forEachUpper(q, func(j int) {
		r.state[j] = -r.state[j]
	})
	return nil
}

// ApplyS applies the S phase gate to qubit q.
func (r *Register) ApplyS(q int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	r.forEachUpper(q, func(j int) {
		r.state[j] *= 1i
	})
	return nil
}

// ApplyT applies the T phase gate to qubit q.
func (r *Register) ApplyT(q int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	phase := cmplx.Exp(complex(0, math.Pi/4))
	r.forEachUpper(q, func(j int) {
		r.state[j] *= phase
	})
	return nil
}

// ApplyRotationY applies Ry(theta) to qubit q.
func (r *Register) ApplyRotationY(q int, theta float64) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	r.forEachPair(q, func(i, j int) {
		a, b := r.state[i], r.state[j]
		r.state[i] = c*a - s*b
		r.state[j] = s*a + c*b
	})
	return nil
}

// ApplyRotationZ applies Rz(theta) to qubit q.
func (r *Register) ApplyRotationZ(q int, theta float64) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	z0 := cmplx.Exp(complex(0, -theta/2))
	z1 := cmplx.Exp(complex(0, theta/2))
	r.forEachPair(q, func(i, j int) {
		r.state[i] *= z0
		r.state[j] *= z1
	})
	return nil
}

// ApplyCNOT applies a controlled-NOT gate.
func (r *Register) ApplyCNOT(control, target int) error {
	if err := r.checkQubit(control); err != nil {
		return err
	}
	if err := r.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return backend.ErrControlTargetOverlap
	}

	cBit := 1 << uint(control)
	tBit := 1 << uint(target)
	for i := range r.state {
		if i&cBit != 0 {
			partner := i ^ tBit
			// Visit each pair once from its lower index.
			if i < partner {
				r.state[i], r.state[partner] = r.state[partner], r.state[i]
			}
		}
	}
	return nil
}

// ApplyToffoli applies a doubly controlled NOT gate.
func (r *Register) ApplyToffoli(control1, control2, target int) error {
	if err := r.checkQubit(control1); err != nil {
		return err
	}
	if err := r.checkQubit(control2); err != nil {
		return err
	}
	if err := r.checkQubit(target); err != nil {
		return err
	}
	if control1 == target || control2 == target || control1 == control2 {
		return backend.ErrControlTargetOverlap
	}

	c1Bit := 1 << uint(control1)
	c2Bit := 1 << uint(control2)
	tBit := 1 << uint(target)
	for i := range r.state {
		if i&c1Bit != 0 && i&c2Bit != 0 && i&tBit == 0 {
			r.state[i], r.state[i|tBit] = r.state[i|tBit], r.state[i]
		}
	}
	return nil
}

// ApplyDepolarizingNoise applies, independently per qubit with probability p,
// a uniformly chosen Pauli error (X, Y or Z).
func (r *Register) ApplyDepolarizingNoise(p float64) error {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return backend.ErrInvalidNoiseProbability
	}
	for q := 0; q < r.numQubits; q++ {
		if r.rng.Float64() >= p {
			continue
		}
		switch r.rng.IntN(3) {
		case 0:
			_ = r.ApplyX(q)
		case 1:
			_ = r.ApplyY(q)
		default:
			_ = r.ApplyZ(q)
		}
	}
	return nil
}

// Measure performs a projective measurement of qubit q, collapses the state
// and renormalizes. Returns the observed outcome.
func (r *Register) Measure(q int) (int, error) {
	if err := r.checkQubit(q); err != nil {
		return 0, err
	}

	bit := 1 << uint(q)
	prob0 := 0.0
	for i, a := range r.state {
		if i&bit == 0 {
			prob0 += real(a)*real(a) + imag(a)*imag(a)
		}
	}

	outcome := 0
	if r.rng.Float64() > prob0 {
		outcome = 1
	}

	norm := 0.0
	for i := range r.state {
		if (i&bit != 0) != (outcome == 1) {
			r.state[i] = 0
		} else {
			a := r.state[i]
			norm += real(a)*real(a) + imag(a)*imag(a)
		}
	}

	norm = math.Sqrt(norm)
	if norm > 1e-12 {
		inv := complex(1/norm, 0)
		for i := range r.state {
			r.state[i] *= inv
		}
	}
	return outcome, nil
}

// StateVector returns a copy of the amplitude vector.
func (r *Register) StateVector() []complex128 {
	out := make([]complex128, len(r.state))
	copy(out, r.state)
	return out
}

// Probabilities returns the squared magnitude of every amplitude.
func (r *Register) Probabilities() []float64 {
	out := make([]float64, len(r.state))
	for i, a := range r.state {
		out[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return out
}

// Support returns the set of basis indices whose probability exceeds eps.
// Useful for inspecting which basis states carry mass after a circuit.
func (r *Register) Support(eps float64) *roaring.Bitmap {
	bm := roaring.New()
	for i, a := range r.state {
		if real(a)*real(a)+imag(a)*imag(a) > eps {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// ExpectationValue computes ⟨ψ|P|ψ⟩ for the given Pauli string.
//
// Basis index i couples to i XOR flip, where flip covers the X/Y qubits;
// Y/Z qubits contribute a sign via the phase mask and each Y a global factor
// of the imaginary unit. The accumulated value of a Hermitian operator is
// real up to floating error; a materially non-real or non-finite result is
// surfaced as a numerical error.
func (r *Register) ExpectationValue(p pauli.String) (float64, error) {
	if err := p.Validate(r.numQubits); err != nil {
		return 0, err
	}

	m := p.Masks()

	// i^YCount cycles with period 4.
	var global complex128
	switch m.YCount % 4 {
	case 0:
		global = 1
	case 1:
		global = 1i
	case 2:
		global = -1
	default:
		global = -1i
	}

	var acc complex128
	for i, a := range r.state {
		j := uint64(i) ^ m.Flip
		acc += cmplx.Conj(r.state[j]) * complex(pauli.Sign(uint64(i), m.Phase), 0) * a
	}
	acc *= global

	ev := real(acc)
	if math.IsNaN(ev) || math.IsInf(ev, 0) || math.Abs(imag(acc)) > 1e-9 {
		return 0, &backend.ErrNumerical{Op: "expectation", Value: ev}
	}
	return ev, nil
}

// SetState overwrites the amplitude vector. The input length must equal
// 2^NumQubits and be normalized; used by snapshot restore.
func (r *Register) SetState(amps []complex128) error {
	if len(amps) != len(r.state) {
		return backend.ErrInvalidQubitCount
	}
	norm := 0.0
	for _, a := range amps {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	if math.Abs(norm-1) > 1e-9 {
		return &backend.ErrNumerical{Op: "restore", Value: norm}
	}
	copy(r.state, amps)
	return nil
}

// forEachPair visits every (lower, upper) index pair differing only in bit q.
func (r *Register) forEachPair(q int, fn func(i, j int)) {
	stride := 1 << uint(q)
	dim := len(r.state)
	for base := 0; base < dim; base += 2 * stride {
		for i := base; i < base+stride; i++ {
			fn(i, i+stride)
		}
	}
}

// forEachUpper visits every index with bit q set.
func (r *Register) forEachUpper(q int, fn func(j int)) {
	stride := 1 << uint(q)
	dim := len(r.state)
	for base := 0; base < dim; base += 2 * stride {
		for i := base; i < base+stride; i++ {
			fn(i + stride)
		}
	}
}
