package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", h1)
	assert.NotEqual(t, h1, h2)

	ok, err := CheckPassword(h1, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPassword_UsesCost(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("pw", 5)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestCheckPassword_Mismatch(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("right", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := CheckPassword(h, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	ok, err := CheckPassword("not-a-bcrypt-hash", "pw")
	require.Error(t, err)
	assert.False(t, ok)
}
