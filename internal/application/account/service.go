package account

import (
	"context"
	"fmt"
	"time"

	"github.com/monicaDelao/brokerx/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFirstName    = "first_name"
	fieldLastName     = "last_name"
	fieldPhone        = "phone"
	fieldBirthday     = "birthday"
	fieldAddress      = "address"
	fieldPasswordHash = "password_hash"
)

type Service interface {
	List(ctx context.Context, limit int, cursor string) ([]domain.Account, string, error)
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, req domain.UpdateAccountRequest) (*domain.Account, error)
	Delete(ctx context.Context, accountID string) error
	ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error
	Deliveries(ctx context.Context, accountID string) ([]domain.Notification, error)
}

type accountStore interface {
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Account, string, error)
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, accountID string) error
}

type sessionStore interface {
	SoftDeleteByAccount(ctx context.Context, accountID string) error
}

type deliveryStore interface {
	ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error)
}

type service struct {
	repo        accountStore
	sessionRepo sessionStore
	deliveries  deliveryStore
}

type ServiceDeps struct {
	AccountRepo accountStore
	SessionRepo sessionStore
	DeliveryLog deliveryStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.AccountRepo,
		sessionRepo: deps.SessionRepo,
		deliveries:  deps.DeliveryLog,
	}
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Account, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.Get(ctx, accountID)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *service) Update(ctx context.Context, accountID string, req domain.UpdateAccountRequest) (*domain.Account, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.Phone != nil {
		taken, err := s.repo.ExistsByPhone(ctx, *req.Phone)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicatePhone
		}
		updates[fieldPhone] = *req.Phone
	}
	if req.Birthday != nil {
		t, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldBirthday] = t
	}
	if req.Address != nil {
		updates[fieldAddress] = *req.Address
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, accountID)
	}
	if err := s.repo.Update(ctx, accountID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, accountID)
}

func (s *service) Delete(ctx context.Context, accountID string) error {
	if err := s.repo.SoftDelete(ctx, accountID); err != nil {
		return err
	}
	return s.sessionRepo.SoftDeleteByAccount(ctx, accountID)
}

func (s *service) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	a, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, accountID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

// Deliveries lists the verification-message delivery log for an account,
// most recent first.
func (s *service) Deliveries(ctx context.Context, accountID string) ([]domain.Notification, error) {
	return s.deliveries.ListByAccount(ctx, accountID)
}
