package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsDeterministic(t *testing.T) {
	v := NewPBKDF2(64) // low work factor keeps the test fast
	salt, err := v.NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, v.SaltLen)

	a := v.Derive("hunter2", salt)
	b := v.Derive("hunter2", salt)
	assert.Equal(t, a, b)
	assert.Len(t, a, v.KeyLen)
}

func TestDeriveDependsOnSaltAndPassword(t *testing.T) {
	v := NewPBKDF2(64)
	s1, err := v.NewSalt()
	require.NoError(t, err)
	s2, err := v.NewSalt()
	require.NoError(t, err)
	require.NotEqual(t, s1, s2)

	assert.NotEqual(t, v.Derive("hunter2", s1), v.Derive("hunter2", s2))
	assert.NotEqual(t, v.Derive("hunter2", s1), v.Derive("hunter3", s1))
}

func TestMatch(t *testing.T) {
	v := NewPBKDF2(64)
	salt, err := v.NewSalt()
	require.NoError(t, err)
	stored := v.Derive("correct horse", salt)

	assert.True(t, Match(v, stored, "correct horse", salt))
	assert.False(t, Match(v, stored, "wrong horse", salt))
	assert.False(t, Match(v, stored, "correct horse", append([]byte{0}, salt...)))
}
