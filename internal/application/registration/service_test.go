package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/monicaDelao/brokerx/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *mockAccountStore) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}
func (m *mockAccountStore) Put(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

type fakeSessionStore struct {
	last *domain.VerificationSession
}

func (f *fakeSessionStore) Put(sess *domain.VerificationSession) { f.last = sess }

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendVerificationEmail(to, code, name string) error {
	return m.Called(to, code, name).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendOTP(ctx context.Context, to, code, name string) error {
	return m.Called(ctx, to, code, name).Error(0)
}

type mockDeliveryLog struct{ mock.Mock }

func (m *mockDeliveryLog) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// --- helpers ---

func newService(as *mockAccountStore, ss *fakeSessionStore, ml *mockMailer, sms *mockSMSSender, dl *mockDeliveryLog) Service {
	deps := ServiceDeps{
		AccountRepo: as,
		Sessions:    ss,
		Mailer:      ml,
		SMSSender:   sms,
	}
	// Assign only when non-nil so a nil *mockDeliveryLog doesn't become a
	// non-nil interface value, which would defeat the service's nil check.
	if dl != nil {
		deps.DeliveryLog = dl
	}
	return NewService(deps)
}

func ptr[T any](v T) *T { return &v }

func baseReq() domain.CreateAccountRequest {
	return domain.CreateAccountRequest{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Birthday:  "1994-05-17",
		Address:   "100 Main Street, Springfield",
		Password:  "password123",
	}
}

// --- Register tests ---

func TestRegister_DuplicateEmail(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil)

	svc := newService(as, &fakeSessionStore{}, &mockMailer{}, &mockSMSSender{}, nil)
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateEmail))
	as.AssertExpectations(t)
}

func TestRegister_DuplicatePhone(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("ExistsByPhone", mock.Anything, "5145551234").Return(true, nil)

	svc := newService(as, &fakeSessionStore{}, &mockMailer{}, &mockSMSSender{}, nil)
	req := baseReq()
	req.Phone = ptr("5145551234")
	_, err := svc.Register(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicatePhone))
	as.AssertExpectations(t)
}

func TestRegister_InvalidBirthday(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)

	svc := newService(as, &fakeSessionStore{}, &mockMailer{}, &mockSMSSender{}, nil)
	req := baseReq()
	req.Birthday = "not-a-date"
	_, err := svc.Register(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRegister_HappyPath_EmailOnly(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)
	ml := &mockMailer{}
	ml.On("SendVerificationEmail", "alice@example.com", mock.AnythingOfType("string"), "Alice").Return(nil)
	ss := &fakeSessionStore{}

	svc := newService(as, ss, ml, &mockSMSSender{}, nil)
	res, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, res.Account.Status)
	assert.Equal(t, domain.RoleUser, res.Account.Role)
	assert.Equal(t, 1, res.Account.Enable)
	assert.Len(t, res.EmailCode, 6)
	assert.Len(t, res.OTPCode, 4)
	assert.Len(t, res.SessionToken, 64)
	assert.True(t, res.EmailSent)
	assert.False(t, res.SMSSent)

	require.NotNil(t, ss.last)
	assert.Equal(t, res.SessionToken, ss.last.Token)
	assert.Equal(t, res.EmailCode, ss.last.EmailCode)
	assert.False(t, ss.last.PhoneRequired)
	as.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestRegister_HappyPath_WithPhone(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("ExistsByPhone", mock.Anything, "5145551234").Return(false, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)
	ml := &mockMailer{}
	ml.On("SendVerificationEmail", "alice@example.com", mock.AnythingOfType("string"), "Alice").Return(nil)
	sms := &mockSMSSender{}
	sms.On("SendOTP", mock.Anything, "5145551234", mock.AnythingOfType("string"), "Alice").Return(nil)
	ss := &fakeSessionStore{}

	svc := newService(as, ss, ml, sms, nil)
	req := baseReq()
	req.Phone = ptr("5145551234")
	res, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.True(t, res.SMSSent)
	require.NotNil(t, ss.last)
	assert.True(t, ss.last.PhoneRequired)
	assert.Equal(t, res.OTPCode, ss.last.OTPCode)
	sms.AssertExpectations(t)
}

func TestRegister_PasswordIsHashed(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)
	ml := &mockMailer{}
	ml.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newService(as, &fakeSessionStore{}, ml, &mockSMSSender{}, nil)
	res, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.NotEqual(t, "password123", res.Account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.Account.PasswordHash), []byte("password123")))
}

func TestRegister_EmailDispatchFailure_DoesNotFailRegistration(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)
	ml := &mockMailer{}
	ml.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(as, &fakeSessionStore{}, ml, &mockSMSSender{}, nil)
	res, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.False(t, res.EmailSent)
	assert.NotEmpty(t, res.SessionToken)
}

func TestRegister_SMSDispatchFailure_DoesNotFailRegistration(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("ExistsByPhone", mock.Anything, "5145551234").Return(false, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)
	ml := &mockMailer{}
	ml.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sms := &mockSMSSender{}
	sms.On("SendOTP", mock.Anything, "5145551234", mock.Anything, mock.Anything).Return(errors.New("sns down"))

	svc := newService(as, &fakeSessionStore{}, ml, sms, nil)
	req := baseReq()
	req.Phone = ptr("5145551234")
	res, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.False(t, res.SMSSent)
	assert.NotEmpty(t, res.SessionToken)
}

func TestRegister_NoSMSSenderConfigured(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("ExistsByPhone", mock.Anything, "5145551234").Return(false, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)
	ml := &mockMailer{}
	ml.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	dl := &mockDeliveryLog{}
	dl.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Channel == domain.ChannelEmail && n.Sent
	})).Return(nil)
	dl.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Channel == domain.ChannelSMS && !n.Sent && n.FailureReason != ""
	})).Return(nil)
	ss := &fakeSessionStore{}

	// No SMS sender wired, the way main runs when SNS setup fails.
	svc := NewService(ServiceDeps{
		AccountRepo: as,
		Sessions:    ss,
		Mailer:      ml,
		DeliveryLog: dl,
	})
	req := baseReq()
	req.Phone = ptr("5145551234")

	var res *Result
	var err error
	require.NotPanics(t, func() { res, err = svc.Register(context.Background(), req) })

	require.NoError(t, err)
	assert.False(t, res.SMSSent)
	assert.NotEmpty(t, res.SessionToken)
	require.NotNil(t, ss.last)
	assert.True(t, ss.last.PhoneRequired)
	dl.AssertExpectations(t)
}

func TestRegister_BlankPhoneTreatedAsAbsent(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)
	ml := &mockMailer{}
	ml.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ss := &fakeSessionStore{}

	svc := newService(as, ss, ml, &mockSMSSender{}, nil)
	req := baseReq()
	req.Phone = ptr("   ")
	res, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, res.Account.Phone)
	assert.False(t, ss.last.PhoneRequired)
	as.AssertNotCalled(t, "ExistsByPhone", mock.Anything, mock.Anything)
}

func TestRegister_RecordsDeliveryLog(t *testing.T) {
	as := &mockAccountStore{}
	as.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)
	ml := &mockMailer{}
	ml.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	dl := &mockDeliveryLog{}
	dl.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Channel == domain.ChannelEmail && !n.Sent && n.FailureReason != ""
	})).Return(nil)

	svc := newService(as, &fakeSessionStore{}, ml, &mockSMSSender{}, dl)
	_, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	dl.AssertExpectations(t)
}
