package domain

import "time"

// Notification delivery channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Notification is one delivery-log entry for a verification message.
// Dispatch is best-effort; the entry records whether the send succeeded so
// operators can trace lost codes without re-exposing them.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	AccountID      string    `json:"account_id" dynamodbav:"account_id"`
	Channel        string    `json:"channel" dynamodbav:"channel"`
	Recipient      string    `json:"recipient" dynamodbav:"recipient"`
	Sent           bool      `json:"sent" dynamodbav:"sent"`
	FailureReason  string    `json:"failure_reason,omitempty" dynamodbav:"failure_reason"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}
