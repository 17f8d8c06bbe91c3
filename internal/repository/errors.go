// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let higher layers such as the auth
// service and handlers distinguish failure scenarios without matching on
// driver errors. For example, ErrNotFound covers any lookup that matched
// no row and is translated to HTTP 404 (or folded into a uniform
// credentials error by the auth flows).
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Repositories map
// sql.ErrNoRows to this value so callers never depend on database/sql
// directly.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique index on
// users.email.  The index is the invariant of last resort against two
// concurrent signups for the same address.
var ErrEmailExists = errors.New("email already exists")
