package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "changeme", hash)

	assert.NoError(t, ComparePassword(hash, "changeme"))
	assert.Error(t, ComparePassword(hash, "wrongpassword"))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("changeme", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("changeme", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("changeme", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
