package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/taskvault/internal/model"
)

// ProfileRepo persists the free-form profile record stored 1:1 with a
// user in the 'user_profiles' table, keyed by email.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// Upsert inserts or updates the profile row for the email.  The row is
// only ever written through this upsert, so create-vs-edit is not a
// distinction callers need to make.
func (r *ProfileRepo) Upsert(ctx context.Context, p model.Profile) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_profiles (email, about_me, contact_number, company_name) VALUES (?,?,?,?) "+
			"ON DUPLICATE KEY UPDATE about_me=VALUES(about_me), contact_number=VALUES(contact_number), company_name=VALUES(company_name)",
		p.Email, p.AboutMe, p.ContactNumber, p.CompanyName)
	return err
}

// GetByEmail returns the profile row for the email.  A missing row is not
// an error: it comes back as a Profile with empty fields, matching how
// the API renders users that never saved a profile.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (model.Profile, error) {
	p := model.Profile{Email: email}
	err := r.DB.QueryRowContext(ctx,
		"SELECT about_me, contact_number, company_name FROM user_profiles WHERE email=? LIMIT 1",
		email).Scan(&p.AboutMe, &p.ContactNumber, &p.CompanyName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{Email: email}, nil
	}
	return p, err
}
