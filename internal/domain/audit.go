package domain

import "time"

// AuditRecord is a tamper-evident trace of an activation or verification
// event. Records are write-once: the store exposes no update or delete.
type AuditRecord struct {
	AuditID     string    `json:"id" dynamodbav:"audit_id"`
	Email       string    `json:"email" dynamodbav:"email"`
	Action      string    `json:"action" dynamodbav:"action"`
	Timestamp   time.Time `json:"timestamp" dynamodbav:"timestamp"`
	Fingerprint string    `json:"fingerprint" dynamodbav:"fingerprint"`
	Details     string    `json:"details" dynamodbav:"details"`
}

// Audit action types.
const (
	AuditAccountActivated  = "ACCOUNT_ACTIVATED"
	AuditEmailVerification = "EMAIL_VERIFICATION"
	AuditPhoneVerification = "PHONE_VERIFICATION"
)
