package domain

import "time"

// Registration lifecycle statuses. Transitions only move forward:
// PENDING -> ACTIVE (email verified) -> COMPLETE (email + phone verified).
// SUSPENDED and REJECTED are terminal administrative states.
const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusComplete  = "COMPLETE"
	StatusSuspended = "SUSPENDED"
	StatusRejected  = "REJECTED"
)

type Account struct {
	AccountID     string     `json:"id" dynamodbav:"account_id"`
	FirstName     string     `json:"first_name" dynamodbav:"first_name"`
	LastName      string     `json:"last_name" dynamodbav:"last_name"`
	Email         string     `json:"email" dynamodbav:"email"`
	Phone         *string    `json:"phone" dynamodbav:"phone"`
	Birthday      time.Time  `json:"birthday" dynamodbav:"birthday"`
	Address       string     `json:"address" dynamodbav:"address"`
	PasswordHash  string     `json:"-" dynamodbav:"password_hash"`
	Role          string     `json:"role" dynamodbav:"role"`
	EmailVerified bool       `json:"email_verified" dynamodbav:"email_verified"`
	PhoneVerified bool       `json:"phone_verified" dynamodbav:"phone_verified"`
	Status        string     `json:"status" dynamodbav:"status"`
	Enable        int        `json:"enable" dynamodbav:"enable"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt     time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Activated reports whether the account may log in. Both ACTIVE and
// COMPLETE count as activated; PENDING, SUSPENDED and REJECTED do not.
func (a *Account) Activated() bool {
	return a.Status == StatusActive || a.Status == StatusComplete
}

func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

type CreateAccountRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string  `json:"last_name" validate:"required,min=2,max=50"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone" validate:"omitempty,len=10,numeric"`
	Birthday  string  `json:"birthday" validate:"required"` // expected format: YYYY-MM-DD
	Address   string  `json:"address" validate:"required,min=10,max=200"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
}

type UpdateAccountRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone" validate:"omitempty,len=10,numeric"`
	Birthday  *string `json:"birthday"` // expected format: YYYY-MM-DD
	Address   *string `json:"address"`
}
