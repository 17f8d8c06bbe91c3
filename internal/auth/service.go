// Package auth implements the account and session flows: direct signup,
// OTP-verified signup, password login, Google ID-token login, and the
// authorization policy gating access to per-user resources.  Persistence
// is reached through the UserStore interface so the flows can be tested
// against an in-memory store.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/taskvault/internal/googleauth"
	"github.com/iliyamo/taskvault/internal/model"
	"github.com/iliyamo/taskvault/internal/otp"
	"github.com/iliyamo/taskvault/internal/repository"
	"github.com/iliyamo/taskvault/internal/utils"
)

// UserStore is the account persistence the flows need.
// *repository.UserRepo implements it.  Not-found is reported with
// repository.ErrNotFound and a duplicate email with
// repository.ErrEmailExists.
type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfileImage(ctx context.Context, email, imageURL string) error
}

// Session is a successful authentication result: a signed bearer token
// plus the account it identifies.  The plaintext password and its hash
// never appear here.
type Session struct {
	Token string
	User  model.User
}

// Service bundles the collaborators of the auth flows.  All fields are
// set once at startup and read-only afterwards.
type Service struct {
	Users      UserStore
	OTP        *otp.Engine
	Google     googleauth.Verifier
	Secret     string        // session token signing key
	SessionTTL time.Duration // session token lifetime
	BcryptCost int           // password hashing cost
}

// Signup creates an account from a name, email and password.  An email
// that already has an account fails with ErrDuplicateAccount.
func (s *Service) Signup(ctx context.Context, name, email, password string) (model.User, error) {
	email = normalizeEmail(email)
	if err := s.ensureNoAccount(ctx, email); err != nil {
		return model.User{}, err
	}
	return s.createPasswordAccount(ctx, name, email, password)
}

// RequestSignupOTP starts the two-step OTP signup: it rejects emails
// that already have an account, then issues and mails a passcode.
func (s *Service) RequestSignupOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.ensureNoAccount(ctx, email); err != nil {
		return err
	}
	_, err := s.OTP.Issue(ctx, email)
	return err
}

// CompleteSignupOTP finishes the OTP signup.  The passcode is verified
// and consumed first; account non-existence is then re-checked to narrow
// the window between two interleaved completions, with the unique email
// index as the final backstop.
func (s *Service) CompleteSignupOTP(ctx context.Context, name, email, password, code string) (model.User, error) {
	email = normalizeEmail(email)
	if err := s.OTP.VerifyAndConsume(ctx, email, code); err != nil {
		if errors.Is(err, otp.ErrInvalidOrExpired) {
			return model.User{}, ErrInvalidOrExpiredOTP
		}
		return model.User{}, err
	}
	if err := s.ensureNoAccount(ctx, email); err != nil {
		return model.User{}, err
	}
	return s.createPasswordAccount(ctx, name, email, password)
}

// Login verifies a password against the stored hash and mints a session
// token.  An unknown email, a Google-only account and a wrong password
// all fail with the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if u.PasswordHash == nil || !utils.VerifyPassword(*u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.mint(u)
}

// GoogleLogin authenticates with a Google ID token.  A first login
// creates the account (no password hash, picture claim as avatar); any
// later login re-syncs the avatar from the fresh claim.  Both branches
// end with a minted session token; created reports whether this login
// brought the account into existence.
func (s *Service) GoogleLogin(ctx context.Context, rawToken string) (sess Session, created bool, err error) {
	claims, err := s.Google.Verify(ctx, rawToken)
	if err != nil {
		return Session{}, false, ErrInvalidIDToken
	}
	email := normalizeEmail(claims.Email)

	u, err := s.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u, err = s.Users.Create(ctx, model.User{
			Username:     claims.Name,
			Email:        email,
			SignupMethod: model.SignupMethodGoogle,
			ProfileImage: optional(claims.Picture),
		})
		created = err == nil
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost a race with a concurrent first login; use the winner.
			u, err = s.Users.GetByEmail(ctx, email)
		}
		if err != nil {
			return Session{}, false, err
		}
	case err != nil:
		return Session{}, false, err
	default:
		if claims.Picture != "" {
			if err := s.Users.UpdateProfileImage(ctx, email, claims.Picture); err != nil {
				return Session{}, false, err
			}
			u.ProfileImage = optional(claims.Picture)
		}
	}
	sess, err = s.mint(u)
	return sess, created, err
}

// ensureNoAccount maps an existing account to ErrDuplicateAccount.
func (s *Service) ensureNoAccount(ctx context.Context, email string) error {
	_, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		return ErrDuplicateAccount
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Service) createPasswordAccount(ctx context.Context, name, email, password string) (model.User, error) {
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.Users.Create(ctx, model.User{
		Username:     name,
		Email:        email,
		PasswordHash: &hash,
		SignupMethod: model.SignupMethodPassword,
	})
	if errors.Is(err, repository.ErrEmailExists) {
		return model.User{}, ErrDuplicateAccount
	}
	return u, err
}

func (s *Service) mint(u model.User) (Session, error) {
	token, err := utils.NewSessionToken(s.Secret, u.ID, s.SessionTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: u}, nil
}

// normalizeEmail keeps email matching consistent across every flow: the
// same folding is applied on signup, login and Google claims, so one
// address maps to one account regardless of how it was typed.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
