package statevec

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/resource"
	"github.com/hupe1980/qsimgo/testutil"
)

func TestNew(t *testing.T) {
	t.Run("initializes to ground state", func(t *testing.T) {
		reg, err := New(3)
		require.NoError(t, err)

		amps := reg.StateVector()
		assert.Len(t, amps, 8)
		assert.Equal(t, complex128(1), amps[0])
		for i := 1; i < 8; i++ {
			assert.Equal(t, complex128(0), amps[i])
		}
	})

	t.Run("rejects non-positive qubit count", func(t *testing.T) {
		_, err := New(0)
		assert.ErrorIs(t, err, backend.ErrInvalidQubitCount)

		_, err = New(-1)
		assert.ErrorIs(t, err, backend.ErrInvalidQubitCount)
	})

	t.Run("rejects oversized register", func(t *testing.T) {
		_, err := New(49)
		assert.ErrorIs(t, err, backend.ErrInvalidQubitCount)
	})

	t.Run("memory limit", func(t *testing.T) {
		// 4 qubits need 256 bytes of amplitudes.
		_, err := New(4, WithMemoryLimit(255))

		var budget *backend.ErrMemoryBudgetExceeded
		require.ErrorAs(t, err, &budget)
		assert.Equal(t, 4, budget.NumQubits)
		assert.Equal(t, int64(256), budget.Required)

		reg, err := New(4, WithMemoryLimit(256))
		require.NoError(t, err)
		assert.Equal(t, 4, reg.NumQubits())
	})
}

func TestController(t *testing.T) {
	c := resource.NewController(resource.Config{MemoryLimitBytes: 256})

	reg, err := New(4, WithController(c))
	require.NoError(t, err)
	assert.Equal(t, int64(256), c.MemoryUsage())

	// Budget is exhausted, a second register must not fit.
	_, err = New(1, WithController(c))
	var budget *backend.ErrMemoryBudgetExceeded
	assert.ErrorAs(t, err, &budget)

	require.NoError(t, reg.Close())
	assert.Equal(t, int64(0), c.MemoryUsage())

	reg2, err := New(4, WithController(c))
	require.NoError(t, err)
	require.NoError(t, reg2.Close())
}

func TestQubitValidation(t *testing.T) {
	reg, err := New(2)
	require.NoError(t, err)

	before := reg.StateVector()

	var oor *backend.ErrQubitOutOfRange
	err = reg.ApplyHadamard(2)
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 2, oor.Qubit)
	assert.Equal(t, 2, oor.NumQubits)

	assert.Error(t, reg.ApplyX(-1))
	assert.Error(t, reg.ApplyRotationY(5, 0.3))
	_, err = reg.Measure(2)
	assert.Error(t, err)

	err = reg.ApplyCNOT(0, 0)
	assert.ErrorIs(t, err, backend.ErrControlTargetOverlap)

	err = reg.ApplyToffoli(0, 1, 1)
	assert.ErrorIs(t, err, backend.ErrControlTargetOverlap)

	// A failed operation must not disturb the state.
	testutil.AssertAmplitudes(t, before, reg.StateVector(), 0)
}

func TestBellState(t *testing.T) {
	reg, err := New(2)
	require.NoError(t, err)

	testutil.PrepareBell(t, reg)

	inv := complex(testutil.InvSqrt2, 0)
	testutil.AssertAmplitudes(t, []complex128{inv, 0, 0, inv}, reg.StateVector(), 1e-9)

	probs := reg.Probabilities()
	testutil.AssertNormalized(t, probs)
	assert.InDelta(t, 0.5, probs[0], 1e-9)
	assert.InDelta(t, 0.0, probs[1], 1e-9)
	assert.InDelta(t, 0.0, probs[2], 1e-9)
	assert.InDelta(t, 0.5, probs[3], 1e-9)

	// Perfect ZZ correlation.
	zz, err := reg.ExpectationValue("ZZ")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, zz, 1e-9)
}

func TestGateRoundTrips(t *testing.T) {
	reg, err := New(2)
	require.NoError(t, err)

	// Scramble into a generic state first.
	require.NoError(t, reg.ApplyRotationY(0, 0.7))
	require.NoError(t, reg.ApplyRotationY(1, -1.3))
	before := reg.StateVector()

	t.Run("H then H", func(t *testing.T) {
		require.NoError(t, reg.ApplyHadamard(0))
		require.NoError(t, reg.ApplyHadamard(0))
		testutil.AssertAmplitudes(t, before, reg.StateVector(), 1e-12)
	})

	t.Run("CNOT then CNOT", func(t *testing.T) {
		require.NoError(t, reg.ApplyCNOT(0, 1))
		require.NoError(t, reg.ApplyCNOT(0, 1))
		testutil.AssertAmplitudes(t, before, reg.StateVector(), 1e-12)
	})

	t.Run("X X, Y Y, Z Z", func(t *testing.T) {
		require.NoError(t, reg.ApplyX(1))
		require.NoError(t, reg.ApplyX(1))
		require.NoError(t, reg.ApplyY(0))
		require.NoError(t, reg.ApplyY(0))
		require.NoError(t, reg.ApplyZ(1))
		require.NoError(t, reg.ApplyZ(1))
		testutil.AssertAmplitudes(t, before, reg.StateVector(), 1e-12)
	})

	t.Run("Ry then Ry inverse", func(t *testing.T) {
		require.NoError(t, reg.ApplyRotationY(0, 1.1))
		require.NoError(t, reg.ApplyRotationY(0, -1.1))
		testutil.AssertAmplitudes(t, before, reg.StateVector(), 1e-12)
	})

	t.Run("S four times", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			require.NoError(t, reg.ApplyS(0))
		}
		testutil.AssertAmplitudes(t, before, reg.StateVector(), 1e-12)
	})

	t.Run("T eight times", func(t *testing.T) {
		for i := 0; i < 8; i++ {
			require.NoError(t, reg.ApplyT(1))
		}
		testutil.AssertAmplitudes(t, before, reg.StateVector(), 1e-12)
	})
}

func TestNormalizationDrift(t *testing.T) {
	reg, err := New(3)
	require.NoError(t, err)

	// A long mixed gate sequence must not let rounding accumulate into a
	// visible norm drift.
	for i := 0; i < 500; i++ {
		q := i % 3
		require.NoError(t, reg.ApplyHadamard(q))
		require.NoError(t, reg.ApplyRotationY(q, 0.1*float64(i%7)))
		require.NoError(t, reg.ApplyRotationZ(q, -0.2*float64(i%5)))
		require.NoError(t, reg.ApplyCNOT(q, (q+1)%3))
	}

	testutil.AssertNormalized(t, reg.Probabilities())
}

func TestRotationY(t *testing.T) {
	reg, err := New(1)
	require.NoError(t, err)

	theta := math.Pi / 3
	require.NoError(t, reg.ApplyRotationY(0, theta))

	amps := reg.StateVector()
	assert.InDelta(t, math.Cos(theta/2), real(amps[0]), 1e-12)
	assert.InDelta(t, math.Sin(theta/2), real(amps[1]), 1e-12)

	// <Z> after Ry(theta) from |0> is cos(theta).
	z, err := reg.ExpectationValue("Z")
	require.NoError(t, err)
	assert.InDelta(t, math.Cos(theta), z, 1e-12)
}

func TestToffoli(t *testing.T) {
	reg, err := New(3)
	require.NoError(t, err)

	// |110>: controls set, target clear.
	require.NoError(t, reg.ApplyX(0))
	require.NoError(t, reg.ApplyX(1))
	require.NoError(t, reg.ApplyToffoli(0, 1, 2))

	probs := reg.Probabilities()
	assert.InDelta(t, 1.0, probs[7], 1e-12)

	// Clear one control: target must stay.
	require.NoError(t, reg.ApplyX(0))
	require.NoError(t, reg.ApplyToffoli(0, 1, 2))
	probs = reg.Probabilities()
	assert.InDelta(t, 1.0, probs[6], 1e-12)
}

func TestExpectationValue(t *testing.T) {
	t.Run("ground state", func(t *testing.T) {
		reg, err := New(1)
		require.NoError(t, err)

		z, err := reg.ExpectationValue("Z")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, z, 1e-12)

		x, err := reg.ExpectationValue("X")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, x, 1e-12)

		y, err := reg.ExpectationValue("Y")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, y, 1e-12)
	})

	t.Run("plus state has unit X", func(t *testing.T) {
		reg, err := New(1)
		require.NoError(t, err)
		require.NoError(t, reg.ApplyHadamard(0))

		x, err := reg.ExpectationValue("X")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, x, 1e-12)

		z, err := reg.ExpectationValue("Z")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, z, 1e-12)
	})

	t.Run("i state has unit Y", func(t *testing.T) {
		reg, err := New(1)
		require.NoError(t, err)
		require.NoError(t, reg.ApplyHadamard(0))
		require.NoError(t, reg.ApplyS(0))

		y, err := reg.ExpectationValue("Y")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, y, 1e-12)
	})

	t.Run("bell state XX", func(t *testing.T) {
		reg, err := New(2)
		require.NoError(t, err)
		testutil.PrepareBell(t, reg)

		xx, err := reg.ExpectationValue("XX")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, xx, 1e-9)

		yy, err := reg.ExpectationValue("YY")
		require.NoError(t, err)
		assert.InDelta(t, -1.0, yy, 1e-9)
	})

	t.Run("identity is always one", func(t *testing.T) {
		reg, err := New(2)
		require.NoError(t, err)
		require.NoError(t, reg.ApplyRotationY(0, 0.42))

		ii, err := reg.ExpectationValue("II")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, ii, 1e-12)
	})

	t.Run("length mismatch", func(t *testing.T) {
		reg, err := New(2)
		require.NoError(t, err)

		_, err = reg.ExpectationValue("Z")
		assert.Error(t, err)

		_, err = reg.ExpectationValue("ZZZ")
		assert.Error(t, err)
	})

	t.Run("invalid operator", func(t *testing.T) {
		reg, err := New(2)
		require.NoError(t, err)

		_, err = reg.ExpectationValue("ZQ")
		assert.Error(t, err)
	})
}

func TestMeasure(t *testing.T) {
	t.Run("deterministic outcome", func(t *testing.T) {
		reg, err := New(1, WithRand(testutil.NewRand(1)))
		require.NoError(t, err)

		outcome, err := reg.Measure(0)
		require.NoError(t, err)
		assert.Equal(t, 0, outcome)

		require.NoError(t, reg.ApplyX(0))
		outcome, err = reg.Measure(0)
		require.NoError(t, err)
		assert.Equal(t, 1, outcome)
	})

	t.Run("collapse renormalizes", func(t *testing.T) {
		reg, err := New(2, WithRand(testutil.NewRand(42)))
		require.NoError(t, err)
		testutil.PrepareBell(t, reg)

		outcome, err := reg.Measure(0)
		require.NoError(t, err)

		probs := reg.Probabilities()
		testutil.AssertNormalized(t, probs)

		// Bell correlations: the second qubit must agree.
		second, err := reg.Measure(1)
		require.NoError(t, err)
		assert.Equal(t, outcome, second)
	})
}

func TestDepolarizingNoise(t *testing.T) {
	reg, err := New(2, WithRand(testutil.NewRand(7)))
	require.NoError(t, err)

	err = reg.ApplyDepolarizingNoise(1.5)
	assert.ErrorIs(t, err, backend.ErrInvalidNoiseProbability)

	err = reg.ApplyDepolarizingNoise(-0.1)
	assert.ErrorIs(t, err, backend.ErrInvalidNoiseProbability)

	// p=0 never touches the state.
	require.NoError(t, reg.ApplyDepolarizingNoise(0))
	assert.InDelta(t, 1.0, reg.Probabilities()[0], 1e-12)

	// Any error channel keeps the state normalized.
	require.NoError(t, reg.ApplyDepolarizingNoise(1))
	testutil.AssertNormalized(t, reg.Probabilities())
}

func TestSupport(t *testing.T) {
	reg, err := New(2)
	require.NoError(t, err)
	testutil.PrepareBell(t, reg)

	bm := reg.Support(1e-9)
	assert.Equal(t, uint64(2), bm.GetCardinality())
	assert.True(t, bm.Contains(0))
	assert.True(t, bm.Contains(3))
}

func TestSetState(t *testing.T) {
	reg, err := New(1)
	require.NoError(t, err)

	err = reg.SetState([]complex128{1, 0, 0, 0})
	assert.ErrorIs(t, err, backend.ErrInvalidQubitCount)

	err = reg.SetState([]complex128{0.5, 0.5})
	var numErr *backend.ErrNumerical
	assert.True(t, errors.As(err, &numErr))

	inv := complex(testutil.InvSqrt2, 0)
	require.NoError(t, reg.SetState([]complex128{inv, inv}))

	x, err := reg.ExpectationValue("X")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x, 1e-9)
}
