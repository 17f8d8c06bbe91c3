package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/taskvault/internal/model"
)

// OTPRepo persists OTP challenges in the 'user_otps' table.  The table is
// keyed by email, so at most one live challenge exists per address.
type OTPRepo struct{ DB *sql.DB }

func NewOTPRepo(db *sql.DB) *OTPRepo { return &OTPRepo{DB: db} }

// Upsert stores a challenge for the email, replacing any prior code and
// resetting the issuance timestamp.  Reissuing therefore invalidates the
// previous code.
func (r *OTPRepo) Upsert(ctx context.Context, email, code string, issuedAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_otps (email, otp, created_at) VALUES (?,?,?) ON DUPLICATE KEY UPDATE otp=VALUES(otp), created_at=VALUES(created_at)",
		email, code, issuedAt)
	return err
}

// Get returns the live challenge for the email, or ErrNotFound.
func (r *OTPRepo) Get(ctx context.Context, email string) (model.OTPChallenge, error) {
	var ch model.OTPChallenge
	err := r.DB.QueryRowContext(ctx,
		"SELECT email, otp, created_at FROM user_otps WHERE email=? LIMIT 1",
		email).Scan(&ch.Email, &ch.Code, &ch.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.OTPChallenge{}, ErrNotFound
	}
	return ch, err
}

// Delete consumes the challenge for the email.  Deleting an absent row is
// not an error.
func (r *OTPRepo) Delete(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM user_otps WHERE email=?", email)
	return err
}
