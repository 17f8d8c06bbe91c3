// Package queue defines message payloads exchanged over the message broker.
package queue

import "context"

// UserRegisteredEvent is published whenever a new account is created,
// through any signup flow.  It carries enough for downstream consumers
// (welcome mail, analytics) without querying the primary database.
type UserRegisteredEvent struct {
    UserID       uint64 `json:"user_id"`
    Email        string `json:"email"`
    Username     string `json:"username"`
    SignupMethod string `json:"signup_method"`
    RegisteredAt string `json:"registered_at"`
}

// Publisher emits registration events.  Publishing is best effort:
// implementations log failures and callers ignore the returned error so
// a broker outage never fails a signup.
type Publisher interface {
    PublishUserRegistered(ctx context.Context, event UserRegisteredEvent) error
}
