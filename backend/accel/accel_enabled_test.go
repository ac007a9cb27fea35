//go:build accel

package accel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qsimgo/backend"
)

func TestNewNoDevice(t *testing.T) {
	assert.True(t, Compiled)

	orig := DeviceProbe
	defer func() { DeviceProbe = orig }()

	DeviceProbe = func() []string { return nil }

	_, err := New(2)

	var unavailable *backend.ErrAcceleratorUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, backend.CauseNoDevice, unavailable.Cause)
}

func TestNewWithDevice(t *testing.T) {
	orig := DeviceProbe
	defer func() { DeviceProbe = orig }()

	DeviceProbe = func() []string { return []string{"dev0"} }

	reg, err := New(2)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.NumQubits())
}

func TestProbeRunsEveryConstruction(t *testing.T) {
	orig := DeviceProbe
	defer func() { DeviceProbe = orig }()

	calls := 0
	DeviceProbe = func() []string {
		calls++
		return []string{"dev0"}
	}

	_, err := New(1)
	require.NoError(t, err)
	_, err = New(1)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}
