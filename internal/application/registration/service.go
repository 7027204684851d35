package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/monicaDelao/brokerx/internal/domain"
	"github.com/monicaDelao/brokerx/internal/pkg/code"
	"github.com/monicaDelao/brokerx/internal/pkg/id"
	pkgtoken "github.com/monicaDelao/brokerx/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// Result carries everything produced by one registration. The codes and the
// session token are exposed here once, for the session bootstrap, and are
// never re-readable afterwards. EmailSent/SMSSent surface best-effort
// dispatch outcomes: a failed send does not fail the registration.
type Result struct {
	Account      *domain.Account
	SessionToken string
	EmailCode    string
	OTPCode      string
	EmailSent    bool
	SMSSent      bool
}

// errSMSUnconfigured is recorded in the delivery log when a phone
// registration happens while no SMS sender is wired.
var errSMSUnconfigured = errors.New("sms sender not configured")

type Service interface {
	Register(ctx context.Context, req domain.CreateAccountRequest) (*Result, error)
}

type accountStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Put(ctx context.Context, a *domain.Account) error
}

type verifySessionStore interface {
	Put(sess *domain.VerificationSession)
}

type mailer interface {
	SendVerificationEmail(to, code, name string) error
}

type smsSender interface {
	SendOTP(ctx context.Context, to, code, name string) error
}

type deliveryLog interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type service struct {
	repo     accountStore
	sessions verifySessionStore
	mailer   mailer
	sms      smsSender
	log      deliveryLog
}

type ServiceDeps struct {
	AccountRepo accountStore
	Sessions    verifySessionStore
	Mailer      mailer
	SMSSender   smsSender
	DeliveryLog deliveryLog
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.AccountRepo,
		sessions: deps.Sessions,
		mailer:   deps.Mailer,
		sms:      deps.SMSSender,
		log:      deps.DeliveryLog,
	}
}

// Register runs the full account-creation workflow: uniqueness checks,
// PENDING account persistence, code generation, verification session
// creation, and best-effort notification dispatch.
func (s *service) Register(ctx context.Context, req domain.CreateAccountRequest) (*Result, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	phone := normalizePhone(req.Phone)
	if phone != nil {
		exists, err := s.repo.ExistsByPhone(ctx, *phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicatePhone
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return nil, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	a := &domain.Account{
		AccountID:    id.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        phone,
		Birthday:     birthday,
		Address:      req.Address,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.StatusPending,
		Enable:       1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}

	emailCode, err := code.NewEmailCode()
	if err != nil {
		return nil, err
	}
	otpCode, err := code.NewOTPCode()
	if err != nil {
		return nil, err
	}
	sessionToken, err := pkgtoken.NewSessionToken()
	if err != nil {
		return nil, err
	}

	s.sessions.Put(&domain.VerificationSession{
		Token:         sessionToken,
		Email:         a.Email,
		EmailCode:     emailCode,
		OTPCode:       otpCode,
		PhoneRequired: phone != nil,
	})

	res := &Result{
		Account:      a,
		SessionToken: sessionToken,
		EmailCode:    emailCode,
		OTPCode:      otpCode,
	}

	if err := s.mailer.SendVerificationEmail(a.Email, emailCode, a.FirstName); err != nil {
		slog.Warn("verification email dispatch failed", "account_id", a.AccountID, "err", err)
		s.recordDelivery(ctx, a.AccountID, domain.ChannelEmail, a.Email, err)
	} else {
		res.EmailSent = true
		s.recordDelivery(ctx, a.AccountID, domain.ChannelEmail, a.Email, nil)
	}

	if phone != nil {
		if s.sms == nil {
			slog.Warn("OTP SMS dispatch skipped, no SMS sender configured", "account_id", a.AccountID)
			s.recordDelivery(ctx, a.AccountID, domain.ChannelSMS, *phone, errSMSUnconfigured)
		} else if err := s.sms.SendOTP(ctx, *phone, otpCode, a.FirstName); err != nil {
			slog.Warn("OTP SMS dispatch failed", "account_id", a.AccountID, "err", err)
			s.recordDelivery(ctx, a.AccountID, domain.ChannelSMS, *phone, err)
		} else {
			res.SMSSent = true
			s.recordDelivery(ctx, a.AccountID, domain.ChannelSMS, *phone, nil)
		}
	}

	return res, nil
}

// recordDelivery appends one delivery-log entry. Best-effort: the log must
// never fail a registration.
func (s *service) recordDelivery(ctx context.Context, accountID, channel, recipient string, sendErr error) {
	if s.log == nil {
		return
	}
	n := &domain.Notification{
		NotificationID: id.New(),
		AccountID:      accountID,
		Channel:        channel,
		Recipient:      recipient,
		Sent:           sendErr == nil,
		CreatedAt:      time.Now().UTC(),
	}
	if sendErr != nil {
		n.FailureReason = sendErr.Error()
	}
	if err := s.log.Put(ctx, n); err != nil {
		slog.Warn("failed to record notification delivery", "account_id", accountID, "channel", channel, "err", err)
	}
}

// normalizePhone treats empty or whitespace-only phone values as absent.
func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
