// Package googleauth validates Google-issued ID tokens and extracts the
// verified identity claims the auth flows need.  Cryptographic
// verification (signature, issuer, expiry, audience) is delegated to
// Google's idtoken validator; claims are only ever read from a token
// that passed it.
package googleauth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// ErrInvalidToken is returned for any verification failure: expired
// token, bad signature, or wrong audience.  Callers respond with an
// authentication failure, never a server error.
var ErrInvalidToken = errors.New("invalid google id token")

// Claims are the verified identity fields extracted from an ID token.
type Claims struct {
	Email   string
	Name    string
	Picture string
}

// Verifier validates a raw ID token and returns its claims.  The
// production implementation is Google; tests substitute a stub.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Claims, error)
}

// Google verifies ID tokens against this application's OAuth client ID,
// which must match the token's audience.
type Google struct{ ClientID string }

func NewGoogle(clientID string) *Google { return &Google{ClientID: clientID} }

// Verify checks the token and pulls the email, name and picture claims.
// A token without a verified email claim is rejected outright.
func (g *Google) Verify(ctx context.Context, rawToken string) (Claims, error) {
	payload, err := idtoken.Validate(ctx, rawToken, g.ClientID)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	c := Claims{
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if c.Email == "" {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
