package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel error for invalid tokens
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidSessionToken is returned for every kind of session token
// failure: bad signature, wrong signing method, malformed string, or
// past expiry.  Callers deliberately cannot tell these apart, so the API
// never leaks which check rejected a presented token.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims is the claim set embedded in a session token.  Besides
// the registered expiry and issued-at claims it carries only the user id;
// a session token is self-contained and nothing about it is persisted
// server side.
type SessionClaims struct {
    jwt.RegisteredClaims
    UserID uint64 `json:"uid"`
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The token
// expires exactly ttl after issuance (5 hours in production config) and
// records its issued-at time.  The secret is the server-held signing key.
func NewSessionToken(secret string, userID uint64, ttl time.Duration) (string, error) {
    now := time.Now().UTC()
    claims := SessionClaims{
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
            IssuedAt:  jwt.NewNumericDate(now),
        },
        UserID: userID,
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry of a session token
// and returns the embedded user id.  Only HMAC-signed tokens are
// accepted; a token signed with any other method is rejected.  All
// failures collapse to ErrInvalidSessionToken.
func ParseSessionToken(secret, token string) (uint64, error) {
    claims := &SessionClaims{}
    tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSessionToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return 0, ErrInvalidSessionToken
    }
    return claims.UserID, nil
}
