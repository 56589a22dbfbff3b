package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, uid)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), 1)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken([]byte("secret"), "not.a.token")
	assert.Error(t, err)
}
