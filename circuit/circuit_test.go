package circuit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qsimgo/backend/statevec"
	"github.com/hupe1980/qsimgo/testutil"
)

func TestRecorder(t *testing.T) {
	reg, err := statevec.New(2)
	require.NoError(t, err)

	rec := NewRecorder(reg)

	require.NoError(t, rec.ApplyHadamard(0))
	require.NoError(t, rec.ApplyCNOT(0, 1))
	require.NoError(t, rec.ApplyRotationY(1, 0.5))

	tape := rec.Tape()
	require.Len(t, tape, 3)
	assert.Equal(t, Gate{Name: GateH, Qubits: []int{0}}, tape[0])
	assert.Equal(t, Gate{Name: GateCNOT, Qubits: []int{0, 1}}, tape[1])
	assert.Equal(t, Gate{Name: GateRY, Qubits: []int{1}, Params: []float64{0.5}}, tape[2])

	t.Run("failed gates are not recorded", func(t *testing.T) {
		require.Error(t, rec.ApplyHadamard(5))
		assert.Len(t, rec.Tape(), 3)
	})

	t.Run("measurements are not recorded", func(t *testing.T) {
		_, err := rec.Measure(0)
		require.NoError(t, err)
		assert.Len(t, rec.Tape(), 3)
	})

	t.Run("reset clears the tape", func(t *testing.T) {
		rec.Reset()
		assert.Empty(t, rec.Tape())
	})
}

func TestReplay(t *testing.T) {
	src, err := statevec.New(2)
	require.NoError(t, err)

	rec := NewRecorder(src)
	testutil.PrepareBell(t, rec)

	dst, err := statevec.New(2)
	require.NoError(t, err)

	require.NoError(t, Replay(rec.Tape(), dst))
	testutil.AssertAmplitudes(t, src.StateVector(), dst.StateVector(), 1e-12)
}

func TestReplayInverse(t *testing.T) {
	reg, err := statevec.New(2)
	require.NoError(t, err)

	rec := NewRecorder(reg)

	require.NoError(t, rec.ApplyHadamard(0))
	require.NoError(t, rec.ApplyS(0))
	require.NoError(t, rec.ApplyT(1))
	require.NoError(t, rec.ApplyRotationY(1, 0.8))
	require.NoError(t, rec.ApplyRotationZ(0, -0.3))
	require.NoError(t, rec.ApplyCNOT(0, 1))

	// Undoing the circuit must return exactly to |00>, global phase included.
	require.NoError(t, ReplayInverse(rec.Tape(), reg))

	want := make([]complex128, 4)
	want[0] = 1
	testutil.AssertAmplitudes(t, want, reg.StateVector(), 1e-12)
}

func TestReplayUnknownGate(t *testing.T) {
	reg, err := statevec.New(1)
	require.NoError(t, err)

	var unknown *ErrUnknownGate
	err = Replay([]Gate{{Name: "FOO", Qubits: []int{0}}}, reg)
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "FOO", unknown.Name)

	err = ReplayInverse([]Gate{{Name: "FOO", Qubits: []int{0}}}, reg)
	assert.Error(t, err)
}

func TestExportQASM(t *testing.T) {
	tape := []Gate{
		{Name: GateH, Qubits: []int{0}},
		{Name: GateCNOT, Qubits: []int{0, 1}},
		{Name: GateRY, Qubits: []int{1}, Params: []float64{0.5}},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportQASM(&buf, 2, tape))

	want := `OPENQASM 3.0;
include "stdgates.inc";
qubit[2] q;
bit[2] c;

h q[0];
cx q[0], q[1];
ry(0.5) q[1];

c = measure q;
`
	assert.Equal(t, want, buf.String())
}

func TestExportQASMUnknownGate(t *testing.T) {
	var buf bytes.Buffer
	err := ExportQASM(&buf, 1, []Gate{{Name: "BAR", Qubits: []int{0}}})
	assert.Error(t, err)
}
