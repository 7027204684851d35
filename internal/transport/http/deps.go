package http

import (
	"context"

	"github.com/monicaDelao/brokerx/internal/domain"
)

// AccountRepository is the minimal interface the router requires from an
// account store.
type AccountRepository interface {
	Put(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	// GetByEmail resolves an account via the `email-index` GSI.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Account, string, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, accountID string) error
}

// SessionRepository is the minimal interface the router requires from a
// durable session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	SoftDeleteByAccount(ctx context.Context, accountID string) error
}

// StatusRepository is the minimal interface the router requires from a
// status reference store.
type StatusRepository interface {
	Scan(ctx context.Context) ([]domain.Status, error)
	Get(ctx context.Context, statusID string) (*domain.Status, error)
	Put(ctx context.Context, s *domain.Status) error
	Update(ctx context.Context, statusID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, statusID string) error
}

// NotificationRepository is the minimal interface the router requires from
// the delivery-log store.
type NotificationRepository interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error)
}

// VerificationSessions is the minimal interface the router requires from
// the in-memory verification session store.
type VerificationSessions interface {
	Put(sess *domain.VerificationSession)
	Get(token string) (*domain.VerificationSession, bool)
	MarkEmailVerified(token string) bool
	Delete(token string)
	FindByEmailCode(code string) (*domain.VerificationSession, bool)
}

// AuditRecorder records activation audit events.
type AuditRecorder interface {
	RecordActivation(ctx context.Context, email, action, details string) string
}
