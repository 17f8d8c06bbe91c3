package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/taskvault/internal/model"
)

// TodoRepo provides CRUD access to the 'todos' table.  Every mutation is
// scoped by the owning user id, so an authenticated user cannot touch
// another user's task by guessing an id.
type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

const todoColumns = "id,user_id,title,description,status,created_at,updated_at"

// Create inserts a task for the user and returns the stored record.
func (r *TodoRepo) Create(ctx context.Context, userID uint64, title, description string) (model.Todo, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (user_id, title, description, status) VALUES (?,?,?,'pending')",
		userID, title, description)
	if err != nil {
		return model.Todo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Todo{}, err
	}
	return r.get(ctx, uint64(id), userID)
}

// ListByUser returns all tasks owned by the user, newest first.
func (r *TodoRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// UpdateStatus sets the status of a task owned by the user and returns
// the updated record.  ErrNotFound when the id does not exist or belongs
// to someone else; the two cases are indistinguishable on purpose.
func (r *TodoRepo) UpdateStatus(ctx context.Context, id, userID uint64, status string) (model.Todo, error) {
	// RowsAffected is zero both for a missing row and for a no-op update
	// to the same status, so existence is checked by the read-back below.
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE todos SET status=? WHERE id=? AND user_id=?", status, id, userID); err != nil {
		return model.Todo{}, err
	}
	return r.get(ctx, id, userID)
}

// Delete removes a task owned by the user.  ErrNotFound when nothing was
// deleted.
func (r *TodoRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM todos WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TodoRepo) get(ctx context.Context, id, userID uint64) (model.Todo, error) {
	var t model.Todo
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	return t, err
}
