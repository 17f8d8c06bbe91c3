package model

import "time"

// Todo is a single task owned by a user.  All task operations, including
// status updates and deletes, are scoped to the owning user id.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning user.
//  Title       – short task title.
//  Description – longer task body.
//  Status      – free-form status string (e.g. "pending", "done").
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Todo struct {
    ID          uint64    // todos.id
    UserID      uint64    // todos.user_id
    Title       string    // todos.title
    Description string    // todos.description
    Status      string    // todos.status
    CreatedAt   time.Time // todos.created_at
    UpdatedAt   time.Time // todos.updated_at
}
