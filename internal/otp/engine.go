// Package otp implements issuance and single-use consumption of email
// verification passcodes.  Challenges live in the store keyed by email,
// one per address, and the mail dispatch happens strictly after the
// challenge is committed so a slow or failing mail provider can never
// leave the stored state out of sync with what was sent.
package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/iliyamo/taskvault/internal/model"
	"github.com/iliyamo/taskvault/internal/repository"
	"github.com/iliyamo/taskvault/internal/utils"
)

// ErrInvalidOrExpired covers every verification failure: no challenge
// for the email, a mismatched code, or a code past the validity window.
// Callers must not distinguish these to the end user.
var ErrInvalidOrExpired = errors.New("invalid or expired otp")

// ErrDelivery is returned when the passcode mail could not be sent.  The
// challenge row has already been committed at that point; the user can
// retry delivery by requesting a fresh code, which overwrites it.
var ErrDelivery = errors.New("otp delivery failed")

// ChallengeStore is the persistence the engine needs.  *repository.OTPRepo
// implements it; tests substitute an in-memory map.
type ChallengeStore interface {
	Upsert(ctx context.Context, email, code string, issuedAt time.Time) error
	Get(ctx context.Context, email string) (model.OTPChallenge, error)
	Delete(ctx context.Context, email string) error
}

// Sender dispatches a passcode to a recipient.  *email.SMTPSender
// implements it.
type Sender interface {
	SendOTP(to, code string) error
}

// Engine issues and consumes OTP challenges.  Window bounds how long an
// issued code stays valid.
type Engine struct {
	Store  ChallengeStore
	Sender Sender
	Window time.Duration
}

func NewEngine(store ChallengeStore, sender Sender, window time.Duration) *Engine {
	return &Engine{Store: store, Sender: sender, Window: window}
}

// Issue generates a fresh six digit code for the email, upserts the
// challenge (replacing any outstanding one) and then mails the code.
// A mail failure surfaces as ErrDelivery after the row is committed.
func (e *Engine) Issue(ctx context.Context, email string) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}
	if err := e.Store.Upsert(ctx, email, code, time.Now().UTC()); err != nil {
		return "", err
	}
	if err := e.Sender.SendOTP(email, code); err != nil {
		return "", errors.Join(ErrDelivery, err)
	}
	return code, nil
}

// VerifyAndConsume checks the submitted code against the stored
// challenge.  An absent challenge, a wrong code or one older than the
// validity window all fail with ErrInvalidOrExpired.  A wrong code does
// not consume the challenge; a correct one deletes it before returning,
// so a code can never be replayed.
func (e *Engine) VerifyAndConsume(ctx context.Context, email, code string) error {
	ch, err := e.Store.Get(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidOrExpired
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(code)) != 1 {
		return ErrInvalidOrExpired
	}
	if time.Since(ch.CreatedAt) > e.Window {
		return ErrInvalidOrExpired
	}
	if err := e.Store.Delete(ctx, email); err != nil {
		return err
	}
	return nil
}
