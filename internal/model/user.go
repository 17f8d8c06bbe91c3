package model

import "time"

// Signup methods recorded on the users table.  PasswordHash is only
// present for accounts created through one of the password flows; Google
// accounts carry a NULL hash and authenticate through verified ID tokens.
const (
    SignupMethodPassword = "password" // direct or OTP-verified signup
    SignupMethodGoogle   = "google"   // created or matched via a Google ID token
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name chosen at signup (or taken from Google).
//  Email        – unique email address.  Exactly one account per email.
//  PasswordHash – bcrypt hashed password; nil for Google accounts.
//  IsSuperuser  – elevated role flag granting access to all accounts.
//  SignupMethod – how the account was created ("password" or "google").
//  ProfileImage – avatar URL; nil when never set.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.user_id
    Username     string    // users.username
    Email        string    // users.email
    PasswordHash *string   // users.password_hash (nullable)
    IsSuperuser  bool      // users.is_superuser
    SignupMethod string    // users.signup_method
    ProfileImage *string   // users.profile_image (nullable)
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
