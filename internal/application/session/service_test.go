package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/monicaDelao/brokerx/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error {
	return m.Called(ctx, sessionID, newToken, newExpiry).Error(0)
}
func (m *mockSessionStore) Update(ctx context.Context, sessionID string, updates map[string]interface{}) error {
	return m.Called(ctx, sessionID, updates).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(accountID, role, sessionID string) (string, error) {
	args := m.Called(accountID, role, sessionID)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func newService(as *mockAccountStore, ss *mockSessionStore, jwt *mockJWTSigner) Service {
	return NewService(ServiceDeps{
		AccountRepo: as,
		SessionRepo: ss,
		JWTProvider: jwt,
		RefreshDur:  30 * 24 * time.Hour,
	})
}

func activeAccount(t *testing.T, status string) *domain.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.Account{
		AccountID:    "acc1",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       status,
		Enable:       1,
	}
}

// --- Login tests ---

func TestLogin_UnknownEmail(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)

	svc := newService(as, &mockSessionStore{}, &mockJWTSigner{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "password123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_WrongPassword(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeAccount(t, domain.StatusActive), nil)

	svc := newService(as, &mockSessionStore{}, &mockJWTSigner{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "nope"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_PendingAccountBlocked(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeAccount(t, domain.StatusPending), nil)

	svc := newService(as, &mockSessionStore{}, &mockJWTSigner{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "password123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestLogin_SuspendedAndRejectedBlocked(t *testing.T) {
	for _, status := range []string{domain.StatusSuspended, domain.StatusRejected} {
		as := &mockAccountStore{}
		as.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeAccount(t, status), nil)

		svc := newService(as, &mockSessionStore{}, &mockJWTSigner{})
		_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "password123"})

		require.Error(t, err, status)
		assert.True(t, errors.Is(err, domain.ErrForbidden), status)
	}
}

func TestLogin_ActiveAndCompleteAllowed(t *testing.T) {
	for _, status := range []string{domain.StatusActive, domain.StatusComplete} {
		as := &mockAccountStore{}
		as.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeAccount(t, status), nil)
		ss := &mockSessionStore{}
		ss.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
		jwt := &mockJWTSigner{}
		jwt.On("Sign", "acc1", domain.RoleUser, mock.AnythingOfType("string")).Return("bearer-token", nil)

		svc := newService(as, ss, jwt)
		res, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "password123"})

		require.NoError(t, err, status)
		assert.Equal(t, "bearer-token", res.Bearer)
		assert.Len(t, res.RefreshToken, 64)
		assert.Equal(t, "acc1", res.Session.AccountID)
		ss.AssertExpectations(t)
	}
}

func TestLogin_DisabledAccountBlocked(t *testing.T) {
	a := activeAccount(t, domain.StatusActive)
	a.Enable = 0
	as := &mockAccountStore{}
	as.On("GetByEmail", mock.Anything, "alice@example.com").Return(a, nil)

	svc := newService(as, &mockSessionStore{}, &mockJWTSigner{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "password123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

// --- Refresh tests ---

func TestRefresh_UnknownToken(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("GetByRefreshToken", mock.Anything, "bad").Return(nil, domain.ErrNotFound)

	svc := newService(&mockAccountStore{}, ss, &mockJWTSigner{})
	_, _, err := svc.Refresh(context.Background(), "bad")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_ExpiredToken(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("GetByRefreshToken", mock.Anything, "stale").Return(&domain.Session{
		SessionID:        "s1",
		AccountID:        "acc1",
		RefreshExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}, nil)

	svc := newService(&mockAccountStore{}, ss, &mockJWTSigner{})
	_, _, err := svc.Refresh(context.Background(), "stale")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_RotatesToken(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("GetByRefreshToken", mock.Anything, "good").Return(&domain.Session{
		SessionID:        "s1",
		AccountID:        "acc1",
		RefreshExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, nil)
	ss.On("RotateRefreshToken", mock.Anything, "s1", mock.AnythingOfType("string"), mock.AnythingOfType("int64")).Return(nil)
	as := &mockAccountStore{}
	as.On("Get", mock.Anything, "acc1").Return(activeAccount(t, domain.StatusActive), nil)
	jwt := &mockJWTSigner{}
	jwt.On("Sign", "acc1", domain.RoleUser, "s1").Return("new-bearer", nil)

	svc := newService(as, ss, jwt)
	bearer, newToken, err := svc.Refresh(context.Background(), "good")

	require.NoError(t, err)
	assert.Equal(t, "new-bearer", bearer)
	assert.NotEqual(t, "good", newToken)
	ss.AssertExpectations(t)
}

// --- Logout / GetCurrent ---

func TestLogout_DisablesSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Update", mock.Anything, "s1", map[string]interface{}{"enable": false}).Return(nil)

	svc := newService(&mockAccountStore{}, ss, &mockJWTSigner{})
	require.NoError(t, svc.Logout(context.Background(), "s1"))
	ss.AssertExpectations(t)
}

func TestGetCurrent_DisabledSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "s1").Return(&domain.Session{SessionID: "s1", Enable: false}, nil)

	svc := newService(&mockAccountStore{}, ss, &mockJWTSigner{})
	_, err := svc.GetCurrent(context.Background(), "s1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestGetCurrent_AttachesAccount(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "s1").Return(&domain.Session{SessionID: "s1", AccountID: "acc1", Enable: true}, nil)
	as := &mockAccountStore{}
	as.On("Get", mock.Anything, "acc1").Return(activeAccount(t, domain.StatusComplete), nil)

	svc := newService(as, ss, &mockJWTSigner{})
	sess, err := svc.GetCurrent(context.Background(), "s1")

	require.NoError(t, err)
	require.NotNil(t, sess.Account)
	assert.Equal(t, "acc1", sess.Account.AccountID)
}
