package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Numeric verification codes are drawn uniformly with crypto/rand and
// zero-padded to a fixed width. Codes are session-scoped, not globally
// unique: collisions across sessions are acceptable, and the email code and
// OTP issued to one session may coincide by chance (1 in 10^4 when the email
// code's last four digits match). That overlap is accepted.

// NewEmailCode returns a 6-digit email verification code ("000000" to "999999").
func NewEmailCode() (string, error) {
	return numeric(6)
}

// NewOTPCode returns a 4-digit SMS one-time password ("0000" to "9999").
func NewOTPCode() (string, error) {
	return numeric(4)
}

func numeric(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
