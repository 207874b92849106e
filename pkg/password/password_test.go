package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptVerifier_HashAndMatch(t *testing.T) {
	v := NewBcryptVerifier(MinCost)

	hash, err := v.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, v.Matches("correct horse battery staple", hash))
	assert.False(t, v.Matches("wrong", hash))
	assert.False(t, v.Matches("correct horse battery staple", "not-a-hash"))
}

func TestBcryptVerifier_EmptyPassword(t *testing.T) {
	v := NewBcryptVerifier(MinCost)

	_, err := v.Hash("")
	assert.Error(t, err)
}

func TestNewBcryptVerifier_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcryptVerifier(0).Cost)
	assert.Equal(t, DefaultCost, NewBcryptVerifier(MaxCost+1).Cost)
	assert.Equal(t, MinCost, NewBcryptVerifier(MinCost).Cost)
}

func TestNeedsRehash(t *testing.T) {
	hash, err := hashWithCost("secret-password", MinCost)
	require.NoError(t, err)

	needs, err := NeedsRehash(hash, MinCost+1)
	require.NoError(t, err)
	assert.True(t, needs)

	needs, err = NeedsRehash(hash, MinCost)
	require.NoError(t, err)
	assert.False(t, needs)

	_, err = NeedsRehash("garbage", MinCost)
	assert.Error(t, err)
}
