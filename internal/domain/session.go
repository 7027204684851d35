package domain

import "time"

// Session is a durable login session, created only after the account has
// passed the activation gate.
type Session struct {
	SessionID        string    `json:"id" dynamodbav:"session_id"`
	AccountID        string    `json:"account_id" dynamodbav:"account_id"`
	Enable           bool      `json:"enable" dynamodbav:"enable"`
	RefreshToken     string    `json:"-" dynamodbav:"refresh_token"`
	RefreshExpiresAt int64     `json:"refresh_expires_at" dynamodbav:"refresh_expires_at"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
	Account          *Account  `json:"account,omitempty" dynamodbav:"-"`
}

// VerificationSession is the ephemeral, in-memory state correlating a
// registrant's two-factor verification with the PENDING account. It is
// keyed by an opaque token and removed once a terminal verified state is
// reached; failed submissions leave it in place for retry.
type VerificationSession struct {
	Token         string
	Email         string
	EmailCode     string
	OTPCode       string
	PhoneRequired bool
	EmailVerified bool
	CreatedAt     time.Time
	ExpiresAt     time.Time
}
