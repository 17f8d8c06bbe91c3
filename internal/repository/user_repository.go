package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/taskvault/internal/model"
)

// UserRepo provides access to the 'users' table.  All queries are
// parameterized; no SQL is ever built from request input.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "user_id,username,email,password_hash,is_superuser,signup_method,profile_image,created_at,updated_at"

// Create inserts a user and returns the stored record with its generated
// id.  PasswordHash and ProfileImage may be nil (Google accounts carry no
// hash).  A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, is_superuser, signup_method, profile_image) VALUES (?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, u.IsSuperuser, u.SignupMethod, u.ProfileImage)
	if err != nil {
		// MySQL error 1062 = duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by email.  ErrNotFound when no account exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.TrimSpace(email)
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.  ErrNotFound when no account exists.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id=? LIMIT 1", id))
}

// UpdateProfileImage overwrites the avatar URL for the given email.  Used
// by the Google login flow, which syncs the picture claim on every login.
func (r *UserRepo) UpdateProfileImage(ctx context.Context, email, imageURL string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET profile_image=? WHERE email=?", imageURL, email)
	return err
}

// List returns all users ordered by creation time, newest first.
// Restricted to superusers at the handler layer.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteCascade removes a user together with its profile row and todos in
// a single transaction, so no dependent records are orphaned.  ErrNotFound
// when the user id does not exist.
func (r *UserRepo) DeleteCascade(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var email string
	err = tx.QueryRowContext(ctx,
		"SELECT email FROM users WHERE user_id=? LIMIT 1", id).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_profiles WHERE email=?", email); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE user_id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface{ Scan(dest ...any) error }

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsSuperuser, &u.SignupMethod, &u.ProfileImage, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
