package verification

import (
	"context"
	"fmt"
	"strings"

	"github.com/monicaDelao/brokerx/internal/domain"
)

// Service drives the two-factor verification state machine. Email first:
// the 6-digit email code (submitted directly or through the activation
// link) moves the account from PENDING to ACTIVE. When the registration
// carried a phone number, the 4-digit OTP then moves it to COMPLETE.
type Service interface {
	SubmitEmailCode(ctx context.Context, token, code string) (string, error)
	SubmitEmailCodeByLookup(ctx context.Context, code string) (string, error)
	SubmitOTPCode(ctx context.Context, token, code string) error
}

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
}

type sessionStore interface {
	Get(token string) (*domain.VerificationSession, bool)
	MarkEmailVerified(token string) bool
	Delete(token string)
	FindByEmailCode(code string) (*domain.VerificationSession, bool)
}

type auditRecorder interface {
	RecordActivation(ctx context.Context, email, action, details string) string
}

type service struct {
	accounts accountStore
	sessions sessionStore
	audit    auditRecorder
}

type ServiceDeps struct {
	AccountRepo accountStore
	Sessions    sessionStore
	Audit       auditRecorder
}

func NewService(deps ServiceDeps) Service {
	return &service{
		accounts: deps.AccountRepo,
		sessions: deps.Sessions,
		audit:    deps.Audit,
	}
}

// SubmitEmailCode verifies the 6-digit email code against the session
// identified by token and activates the account. Returns the activation
// audit ID. Once the email phase has completed, the same token no longer
// accepts email codes; resubmission reports the session as gone.
func (s *service) SubmitEmailCode(ctx context.Context, token, code string) (string, error) {
	sess, ok := s.sessions.Get(strings.TrimSpace(token))
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	if sess.EmailVerified {
		return "", domain.ErrSessionNotFound
	}
	if strings.TrimSpace(code) != sess.EmailCode {
		return "", domain.ErrInvalidCode
	}
	return s.completeEmailPhase(ctx, sess)
}

// SubmitEmailCodeByLookup handles the activation link, which carries only
// the code. The code alone selects the matching session; a code that no
// live session holds means the link is stale or already consumed.
func (s *service) SubmitEmailCodeByLookup(ctx context.Context, code string) (string, error) {
	sess, ok := s.sessions.FindByEmailCode(strings.TrimSpace(code))
	if !ok {
		return "", domain.ErrInvalidLink
	}
	return s.completeEmailPhase(ctx, sess)
}

func (s *service) completeEmailPhase(ctx context.Context, sess *domain.VerificationSession) (string, error) {
	a, err := s.accounts.GetByEmail(ctx, sess.Email)
	if err != nil {
		return "", err
	}

	s.audit.RecordActivation(ctx, a.Email, domain.AuditEmailVerification,
		"email code accepted")

	if err := s.accounts.Update(ctx, a.AccountID, map[string]interface{}{
		"status":         domain.StatusActive,
		"email_verified": true,
	}); err != nil {
		return "", err
	}

	auditID := s.audit.RecordActivation(ctx, a.Email, domain.AuditAccountActivated,
		fmt.Sprintf("account %s activated", a.AccountID))

	if sess.PhoneRequired {
		s.sessions.MarkEmailVerified(sess.Token)
	} else {
		s.sessions.Delete(sess.Token)
	}
	return auditID, nil
}

// SubmitOTPCode verifies the 4-digit SMS code. The email phase must have
// completed first. On success the account reaches COMPLETE and the
// verification session is removed.
func (s *service) SubmitOTPCode(ctx context.Context, token, code string) error {
	sess, ok := s.sessions.Get(strings.TrimSpace(token))
	if !ok {
		return domain.ErrSessionNotFound
	}
	if !sess.EmailVerified {
		return domain.ErrEmailNotVerified
	}
	if strings.TrimSpace(code) != sess.OTPCode {
		return domain.ErrInvalidCode
	}

	a, err := s.accounts.GetByEmail(ctx, sess.Email)
	if err != nil {
		return err
	}
	if err := s.accounts.Update(ctx, a.AccountID, map[string]interface{}{
		"status":         domain.StatusComplete,
		"phone_verified": true,
	}); err != nil {
		return err
	}

	s.audit.RecordActivation(ctx, a.Email, domain.AuditPhoneVerification,
		fmt.Sprintf("phone verified for account %s", a.AccountID))

	s.sessions.Delete(sess.Token)
	return nil
}
