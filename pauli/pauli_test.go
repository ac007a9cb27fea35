package pauli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("valid strings", func(t *testing.T) {
		assert.NoError(t, String("Z").Validate(1))
		assert.NoError(t, String("IXYZ").Validate(4))
	})

	t.Run("length mismatch", func(t *testing.T) {
		var lm *ErrLengthMismatch
		err := String("ZZ").Validate(3)
		require.ErrorAs(t, err, &lm)
		assert.Equal(t, 3, lm.Expected)
		assert.Equal(t, 2, lm.Actual)

		assert.Error(t, String("").Validate(1))
		assert.Error(t, String("ZZZZ").Validate(3))
	})

	t.Run("invalid operator", func(t *testing.T) {
		var io *ErrInvalidOperator
		err := String("IZQ").Validate(3)
		require.ErrorAs(t, err, &io)
		assert.Equal(t, byte('Q'), io.Operator)
		assert.Equal(t, 2, io.Position)

		// Lowercase labels are rejected.
		assert.Error(t, String("z").Validate(1))
	})
}

func TestIsIdentity(t *testing.T) {
	assert.True(t, String("III").IsIdentity())
	assert.True(t, String("").IsIdentity())
	assert.False(t, String("IIZ").IsIdentity())
}

func TestMasks(t *testing.T) {
	m := String("IXYZ").Masks()

	// X on qubit 1 and Y on qubit 2 flip.
	assert.Equal(t, uint64(0b0110), m.Flip)
	// Y on qubit 2 and Z on qubit 3 carry phase.
	assert.Equal(t, uint64(0b1100), m.Phase)
	assert.Equal(t, 1, m.YCount)

	id := String("II").Masks()
	assert.Zero(t, id.Flip)
	assert.Zero(t, id.Phase)
	assert.Zero(t, id.YCount)
}

func TestSign(t *testing.T) {
	assert.Equal(t, 1.0, Sign(0b00, 0b11))
	assert.Equal(t, -1.0, Sign(0b01, 0b11))
	assert.Equal(t, -1.0, Sign(0b10, 0b11))
	assert.Equal(t, 1.0, Sign(0b11, 0b11))
	assert.Equal(t, 1.0, Sign(0b11, 0b00))
}

func TestHamiltonianValidate(t *testing.T) {
	h := Hamiltonian{
		{Coefficient: 1.0, String: "ZZ"},
		{Coefficient: 0.5, String: "XX"},
	}
	assert.NoError(t, h.Validate(2))

	bad := Hamiltonian{
		{Coefficient: 1.0, String: "ZZ"},
		{Coefficient: 0.5, String: "X"},
	}
	assert.Error(t, bad.Validate(2))
}

func TestMolecule(t *testing.T) {
	assert.Equal(t, "H2", H2.String())
	assert.Equal(t, 2, H2.NumQubits())

	h := H2.Hamiltonian()
	require.Len(t, h, 5)
	assert.NoError(t, h.Validate(2))

	// The identity offset dominates the spectrum.
	assert.Equal(t, String("II"), h[0].String)
	assert.InDelta(t, -1.052373245772859, h[0].Coefficient, 1e-15)
	assert.Equal(t, String("XX"), h[4].String)
}
