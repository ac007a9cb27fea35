package sysmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailable(t *testing.T) {
	// Whatever the platform, the probe must report a usable budget.
	assert.Positive(t, Available())
}
