package service

import (
	"context"
	"testing"
	"time"

	"go-stock-portfolio/internal/entity"
	"go-stock-portfolio/internal/portfolio/dto"
	"go-stock-portfolio/pkg/common"
	"go-stock-portfolio/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of UserRepository for testing.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockEmailPublisher records published mail jobs.
type MockEmailPublisher struct {
	mock.Mock
}

func (m *MockEmailPublisher) PublishEmail(ctx context.Context, kind, to, link string) error {
	args := m.Called(ctx, kind, to, link)
	return args.Error(0)
}

var accountNow = time.Date(2023, 5, 2, 10, 0, 0, 0, time.UTC)

func newAccountService(userRepo *MockUserRepository, publisher *MockEmailPublisher) (AccountService, *token.Service) {
	tokens := token.NewService("test-secret-key")
	svc := NewAccountService(userRepo, tokens, publisher, testLogger(), "http://localhost:8080",
		func() time.Time { return accountNow })
	return svc, tokens
}

func TestRegisterCreatesUserAndSendsConfirmation(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	publisher := new(MockEmailPublisher)
	svc, _ := newAccountService(userRepo, publisher)

	userRepo.On("FindByEmail", ctx, "a@b.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	publisher.On("PublishEmail", ctx, common.EmailKindConfirmation, "a@b.com", mock.AnythingOfType("string")).Return(nil)

	user, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Pat", Email: "A@b.com", Password: "FlaskIsAwesome123"})

	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.False(t, user.EmailConfirmed)
	assert.Nil(t, user.EmailConfirmedOn)
	assert.NotEqual(t, "FlaskIsAwesome123", user.PasswordHashed)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte("FlaskIsAwesome123")))
	publisher.AssertExpectations(t)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	publisher := new(MockEmailPublisher)
	svc, _ := newAccountService(userRepo, publisher)

	userRepo.On("FindByEmail", ctx, "a@b.com").Return(&entity.User{Email: "a@b.com"}, nil)

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	publisher.AssertNotCalled(t, "PublishEmail")
}

func TestConfirmEmailIsIdempotent(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	publisher := new(MockEmailPublisher)
	svc, tokens := newAccountService(userRepo, publisher)

	user := &entity.User{ID: 7, Email: "a@b.com"}
	userRepo.On("FindByEmail", ctx, "a@b.com").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	tok := tokens.Issue("a@b.com", common.TokenPurposeEmailConfirmation)

	result, err := svc.ConfirmEmail(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, Confirmed, result)
	require.NotNil(t, user.EmailConfirmedOn)
	firstConfirmedOn := *user.EmailConfirmedOn

	// Second confirmation is a reported no-op; EmailConfirmedOn is set
	// exactly once.
	result, err = svc.ConfirmEmail(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, AlreadyConfirmed, result)
	assert.Equal(t, firstConfirmedOn, *user.EmailConfirmedOn)
	userRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestConfirmEmailRejectsResetToken(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAccountService(new(MockUserRepository), new(MockEmailPublisher))

	tok := tokens.Issue("a@b.com", common.TokenPurposePasswordReset)

	_, err := svc.ConfirmEmail(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequestPasswordResetRequiresConfirmedEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	publisher := new(MockEmailPublisher)
	svc, _ := newAccountService(userRepo, publisher)

	userRepo.On("FindByEmail", ctx, "a@b.com").Return(&entity.User{Email: "a@b.com", EmailConfirmed: false}, nil)

	err := svc.RequestPasswordReset(ctx, "a@b.com")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)
	publisher.AssertNotCalled(t, "PublishEmail")
}

func TestResetPasswordReplacesHash(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	publisher := new(MockEmailPublisher)
	svc, tokens := newAccountService(userRepo, publisher)

	oldHash, err := bcrypt.GenerateFromPassword([]byte("OldPassword1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &entity.User{ID: 7, Email: "a@b.com", EmailConfirmed: true, PasswordHashed: string(oldHash)}
	userRepo.On("FindByEmail", ctx, "a@b.com").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	tok := tokens.Issue("a@b.com", common.TokenPurposePasswordReset)
	require.NoError(t, svc.ResetPassword(ctx, tok, "NewPassword1"))

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte("NewPassword1")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte("OldPassword1")))
}

func TestResetPasswordRejectsConfirmationToken(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAccountService(new(MockUserRepository), new(MockEmailPublisher))

	tok := tokens.Issue("a@b.com", common.TokenPurposeEmailConfirmation)
	err := svc.ResetPassword(ctx, tok, "NewPassword1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResendConfirmationThrottles(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	publisher := new(MockEmailPublisher)
	svc, _ := newAccountService(userRepo, publisher)

	user := &entity.User{ID: 7, Email: "a@b.com"}
	userRepo.On("FindByEmail", ctx, "a@b.com").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)
	publisher.On("PublishEmail", ctx, common.EmailKindConfirmation, "a@b.com", mock.AnythingOfType("string")).Return(nil)

	require.NoError(t, svc.ResendConfirmation(ctx, "a@b.com"))

	err := svc.ResendConfirmation(ctx, "a@b.com")
	assert.ErrorIs(t, err, ErrConfirmationThrottled)
	publisher.AssertNumberOfCalls(t, "PublishEmail", 1)
}

func TestLoginChecksPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	svc, _ := newAccountService(userRepo, new(MockEmailPublisher))

	hash, err := bcrypt.GenerateFromPassword([]byte("FlaskIsAwesome123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	userRepo.On("FindByEmail", ctx, "a@b.com").Return(&entity.User{Email: "a@b.com", PasswordHashed: string(hash)}, nil)
	userRepo.On("FindByEmail", ctx, "missing@b.com").Return(nil, gorm.ErrRecordNotFound)

	user, err := svc.Login(ctx, "a@b.com", "FlaskIsAwesome123")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)

	_, err = svc.Login(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "missing@b.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
