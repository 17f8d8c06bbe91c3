package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse", 10)
	require.NoError(t, err)
	require.NotContains(t, hash, "correct horse") // one-way, never the plaintext

	require.True(t, VerifyPassword(hash, "correct horse"))
	require.False(t, VerifyPassword(hash, "wrong horse"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	require.False(t, VerifyPassword("not-a-bcrypt-hash", "anything"))
}

func TestHashPasswordSalted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same input", 10)
	require.NoError(t, err)
	h2, err := HashPassword("same input", 10)
	require.NoError(t, err)
	require.False(t, strings.EqualFold(h1, h2)) // per-hash salt
}
