package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// otpSpan is the size of the OTP code range [100000, 999999].
const otpSpan = 900000

// GenerateOTP returns a uniformly random six digit passcode.  The range
// excludes codes with a leading zero so the code survives any client
// that treats it as a number.  crypto/rand.Int is uniform over the span,
// avoiding the modulo bias a plain remainder would introduce.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
