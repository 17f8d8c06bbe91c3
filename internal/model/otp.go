package model

import "time"

// OTPChallenge models a row in the `user_otps` table.  At most one live
// challenge exists per email: issuing a new code upserts over any prior
// one.  A challenge is consumed (deleted) on successful verification and
// treated as expired once CreatedAt is older than the configured window,
// so a stale code can never be replayed.
//
// Fields:
//  Email     – the address being verified; primary key of the table.
//  Code      – the six digit passcode sent by mail.
//  CreatedAt – issuance time, used for the expiry check.
type OTPChallenge struct {
    Email     string    // user_otps.email
    Code      string    // user_otps.otp
    CreatedAt time.Time // user_otps.created_at
}
