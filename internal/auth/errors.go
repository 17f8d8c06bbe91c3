package auth

import "errors"

// Sentinel errors forming the failure taxonomy of the auth flows.
// Handlers map these onto HTTP statuses; anything else from the flows is
// treated as an internal error and never detailed to the client.
var (
	// ErrDuplicateAccount: an account already exists for the email.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, deliberately indistinguishable to prevent user
	// enumeration through the login endpoint.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOrExpiredOTP: the submitted passcode was absent, wrong
	// or past its validity window.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")

	// ErrInvalidIDToken: the Google ID token failed verification.
	ErrInvalidIDToken = errors.New("invalid id token")

	// ErrForbidden: the actor is authenticated but neither owns the
	// target resource nor holds the superuser flag.
	ErrForbidden = errors.New("forbidden")
)
