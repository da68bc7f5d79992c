package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry(Deps{})

	id := reg.Open()
	require.NotEmpty(t, id)

	s, ok := reg.Get(id)
	require.True(t, ok)
	assert.Empty(t, s.User())

	// Each open mints an independent session.
	other := reg.Open()
	assert.NotEqual(t, id, other)

	reg.Close(id)
	_, ok = reg.Get(id)
	assert.False(t, ok)

	// Closing twice is a no-op.
	reg.Close(id)
	_, ok = reg.Get(other)
	assert.True(t, ok)
}
