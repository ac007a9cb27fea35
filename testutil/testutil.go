package testutil

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qsimgo/backend"
)

// NewRand creates a deterministic random source from a seed, for
// reproducible measurements and noise in tests.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// AssertNormalized fails the test unless the probabilities sum to 1 within
// 1e-9.
func AssertNormalized(t *testing.T, probs []float64) {
	t.Helper()

	sum := 0.0
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

// AssertAmplitudes fails the test unless got matches want element-wise
// within tol.
func AssertAmplitudes(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()

	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.InDelta(t, 0.0, cmplx.Abs(got[i]-want[i]), tol, "amplitude %d: want %v, got %v", i, want[i], got[i])
	}
}

// PrepareBell entangles qubits 0 and 1 into (|00> + |11>)/sqrt(2).
func PrepareBell(t *testing.T, reg backend.Register) {
	t.Helper()

	require.NoError(t, reg.ApplyHadamard(0))
	require.NoError(t, reg.ApplyCNOT(0, 1))
}

// InvSqrt2 is 1/sqrt(2), the amplitude of an equal two-state superposition.
var InvSqrt2 = 1 / math.Sqrt2
