package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasherRoundtrip(t *testing.T) {
	hasher := &BcryptHasher{cost: 4} // minimum cost keeps the test fast

	hashed, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	assert.NoError(t, hasher.Compare(hashed, "correct horse battery staple"))
	assert.Error(t, hasher.Compare(hashed, "wrong password"))
}

func TestBcryptHasherRejectsLongPasswords(t *testing.T) {
	hasher := &BcryptHasher{cost: 4}

	// bcrypt refuses input over 72 bytes.
	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestBcryptHasherProducesUniqueSalts(t *testing.T) {
	hasher := &BcryptHasher{cost: 4}

	first, err := hasher.Hash("password123")
	require.NoError(t, err)
	second, err := hasher.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
