package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-stock-portfolio/internal/entity"
	"go-stock-portfolio/internal/portfolio/dto"
	"go-stock-portfolio/internal/portfolio/repository"
	"go-stock-portfolio/pkg/common"
	"go-stock-portfolio/pkg/logger"
	"go-stock-portfolio/pkg/token"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email address already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken mirrors the token service's single failure outcome.
	ErrInvalidToken = token.ErrInvalidToken
	// ErrEmailNotConfirmed is returned when requesting a password reset for
	// an account that never confirmed its email.
	ErrEmailNotConfirmed = errors.New("email address not confirmed")
	// ErrConfirmationThrottled is returned when a confirmation resend is
	// requested before the cooldown elapses.
	ErrConfirmationThrottled = errors.New("confirmation email recently sent")
)

// ConfirmationResult reports the outcome of an email confirmation.
type ConfirmationResult string

const (
	// Confirmed means the account transitioned to confirmed.
	Confirmed ConfirmationResult = "confirmed"
	// AlreadyConfirmed means the account was confirmed before; the call is
	// an idempotent no-op.
	AlreadyConfirmed ConfirmationResult = "already_confirmed"
)

const resendCooldown = 5 * time.Minute

// AccountService manages registration, login checks, email confirmation and
// password resets.
type AccountService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, error)
	ConfirmEmail(ctx context.Context, tok string) (ConfirmationResult, error)
	ResendConfirmation(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tok, newPassword string) error
}

// NewAccountService creates a new account service.
func NewAccountService(
	userRepo repository.UserRepository,
	tokens *token.Service,
	publisher EmailPublisher,
	log *logger.Logger,
	baseURL string,
	now func() time.Time,
) AccountService {
	return &accountService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
		logger:    log,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       now,
		cooldowns: gocache.New(resendCooldown, 10*time.Minute),
	}
}

type accountService struct {
	userRepo  repository.UserRepository
	tokens    *token.Service
	publisher EmailPublisher
	logger    *logger.Logger
	baseURL   string
	now       func() time.Time
	cooldowns *gocache.Cache
}

// Register creates the account and dispatches the confirmation email.
func (s *accountService) Register(ctx context.Context, req *dto.RegisterRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		Name:                    req.Name,
		Email:                   email,
		PasswordHashed:          string(hashed),
		RegisteredOn:            now,
		EmailConfirmationSentOn: &now,
		EmailConfirmed:          false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, user.Email)
	s.logger.InfoContext(ctx, "User registered", logger.StringField("email", user.Email))
	return user, nil
}

// Login checks the password against the stored hash.
func (s *accountService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ConfirmEmail verifies a confirmation token and applies the confirmation
// transition. Confirming twice is not an error, just a reported no-op.
func (s *accountService) ConfirmEmail(ctx context.Context, tok string) (ConfirmationResult, error) {
	email, err := s.tokens.Verify(tok, common.TokenPurposeEmailConfirmation, common.TokenMaxAge)
	if err != nil {
		return "", ErrInvalidToken
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if user.EmailConfirmed {
		return AlreadyConfirmed, nil
	}

	now := s.now()
	user.EmailConfirmed = true
	user.EmailConfirmedOn = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Email confirmed", logger.StringField("email", user.Email))
	return Confirmed, nil
}

// ResendConfirmation re-issues the confirmation email, throttled per
// address so the endpoint cannot be used to spam a mailbox.
func (s *accountService) ResendConfirmation(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailConfirmed {
		return nil
	}
	if _, found := s.cooldowns.Get(email); found {
		return ErrConfirmationThrottled
	}

	s.sendConfirmation(ctx, email)
	now := s.now()
	user.EmailConfirmationSentOn = &now
	return s.userRepo.Update(ctx, user)
}

// RequestPasswordReset mints a reset token and dispatches the reset email.
// Only confirmed accounts can reset by email.
func (s *accountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if !user.EmailConfirmed {
		return ErrEmailNotConfirmed
	}

	tok := s.tokens.Issue(user.Email, common.TokenPurposePasswordReset)
	link := fmt.Sprintf("%s/users/password_reset/%s", s.baseURL, tok)
	if err := s.publisher.PublishEmail(ctx, common.EmailKindPasswordReset, user.Email, link); err != nil {
		// Best-effort contract: the request still succeeds.
		s.logger.ErrorContext(ctx, "Failed to enqueue password reset email",
			logger.StringField("email", user.Email), logger.ErrorField(err))
	}
	return nil
}

// ResetPassword verifies a reset token and replaces the stored hash.
func (s *accountService) ResetPassword(ctx context.Context, tok, newPassword string) error {
	email, err := s.tokens.Verify(tok, common.TokenPurposePasswordReset, common.TokenMaxAge)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHashed = string(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Password reset", logger.StringField("email", user.Email))
	return nil
}

// sendConfirmation enqueues the confirmation email and starts the resend
// cooldown. Publish failures are logged and dropped.
func (s *accountService) sendConfirmation(ctx context.Context, email string) {
	tok := s.tokens.Issue(email, common.TokenPurposeEmailConfirmation)
	link := fmt.Sprintf("%s/users/confirm/%s", s.baseURL, tok)
	if err := s.publisher.PublishEmail(ctx, common.EmailKindConfirmation, email, link); err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue confirmation email",
			logger.StringField("email", email), logger.ErrorField(err))
		return
	}
	s.cooldowns.SetDefault(email, struct{}{})
}
