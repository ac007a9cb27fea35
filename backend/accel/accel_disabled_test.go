//go:build !accel

package accel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qsimgo/backend"
)

func TestNewNotCompiled(t *testing.T) {
	assert.False(t, Compiled)

	_, err := New(2)

	var unavailable *backend.ErrAcceleratorUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, backend.CauseNotCompiled, unavailable.Cause)

	// The cause is re-evaluated on every construction, not cached.
	_, err2 := New(2)
	require.ErrorAs(t, err2, &unavailable)
	assert.Equal(t, backend.CauseNotCompiled, unavailable.Cause)
}
