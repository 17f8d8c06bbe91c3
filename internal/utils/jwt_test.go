package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundtrip(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("super-secret", 42, 5*time.Hour)
	require.NoError(t, err)

	uid, err := ParseSessionToken("super-secret", tok)
	require.NoError(t, err)
	require.Equal(t, uint64(42), uid)
}

func TestSessionTokenExpired(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("secret", 1, -time.Second)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", tok)
	require.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("right-secret", 7, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("wrong-secret", tok)
	require.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionTokenTampered(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("secret", 7, time.Hour)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := tok[:len(tok)-2] + "xx"
	_, err = ParseSessionToken("secret", tampered)
	require.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionTokenMalformed(t *testing.T) {
	t.Parallel()

	_, err := ParseSessionToken("k", "not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidSessionToken)
}
