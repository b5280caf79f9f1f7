package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/config"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"github.com/pranaysuyash/advay-learning/internal/email"
	"github.com/pranaysuyash/advay-learning/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidAuthToken   = errors.New("invalid or expired token")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrUserNotFound       = errors.New("user not found")
)

// dummyPasswordHash is a hash of a random secret that no caller can ever
// match. Authenticate compares against it when the email has no account so
// the absent-account and wrong-password paths take indistinguishable time.
// Generated at the same cost as real password hashes for that reason.
var dummyPasswordHash = func() string {
	secret := uuid.New()
	hash, err := bcrypt.GenerateFromPassword(secret[:], bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// AccountLockedError is returned while a lockout window is active. Remaining
// is surfaced to the client so it can report when to retry.
type AccountLockedError struct {
	Remaining time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d seconds", int(e.Remaining.Seconds()))
}

type AuthService struct {
	users    repository.UserRepository
	tokens   *TokenService
	lockouts *LockoutTracker
	mailer   *email.Sender
	cfg      *config.Config
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, lockouts *LockoutTracker, mailer *email.Sender, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		lockouts: lockouts,
		mailer:   mailer,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken *domain.RefreshToken
}

// Register creates an account and sends a verification email. It never leaks
// whether the email already had an account: existing unverified accounts get
// their verification email re-sent, existing verified accounts are a silent
// no-op, and a registration race at the unique email constraint is swallowed.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	if len(input.Password) < 8 {
		return ErrPasswordTooShort
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		if !existing.EmailVerified {
			if err := s.reissueVerification(ctx, existing); err != nil {
				return err
			}
		}
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	token, err := newSecureToken()
	if err != nil {
		return err
	}
	expires := email.TokenExpiry()

	user := &domain.User{
		ID:                       uuid.New(),
		Email:                    input.Email,
		PasswordHash:             string(hashed),
		Role:                     domain.RoleParent,
		IsActive:                 true,
		EmailVerified:            false,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
		CreatedAt:                time.Now(),
		UpdatedAt:                time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			// Concurrent registration for the same email; respond as success.
			return nil
		}
		return err
	}

	s.mailer.SendVerification(user.Email, token)
	return nil
}

// Authenticate verifies the password for the account behind email. Absent
// account and wrong password both return ErrInvalidCredentials; the caller
// cannot tell the cases apart from the result or the timing.
func (s *AuthService) Authenticate(ctx context.Context, emailAddr, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login runs the full credential flow: lockout gate, password check with
// failure accounting, account-state checks, then token issuance.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	// Reject before touching the password so lockout timing stays accurate.
	if s.lockouts.IsLocked(input.Email) {
		return nil, &AccountLockedError{Remaining: s.lockouts.RemainingLockout(input.Email)}
	}

	user, err := s.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if s.lockouts.RecordFailedAttempt(input.Email) {
				return nil, &AccountLockedError{Remaining: s.lockouts.RemainingLockout(input.Email)}
			}
		}
		return nil, err
	}

	s.lockouts.ClearFailedAttempts(input.Email)

	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	pair, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.GetByVerificationToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAuthToken
		}
		return err
	}

	user.EmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil
	user.UpdatedAt = time.Now()
	return s.users.Update(ctx, user)
}

// ResendVerification re-sends the verification link. Missing or already
// verified accounts are silent no-ops to avoid account enumeration.
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.reissueVerification(ctx, user)
}

// ForgotPassword issues a reset token and emails the link. A missing account
// is a silent no-op.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := newSecureToken()
	if err != nil {
		return err
	}
	expires := email.TokenExpiry()

	user.PasswordResetToken = &token
	user.PasswordResetExpires = &expires
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.mailer.SendPasswordReset(user.Email, token)
	return nil
}

// ResetPassword consumes a reset token, replaces the password hash, and
// revokes every refresh token for the account.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.users.GetByPasswordResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAuthToken
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashed)
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	// Existing sessions were established under the old password.
	_, err = s.tokens.RevokeAllForUser(ctx, user.ID)
	return err
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) reissueVerification(ctx context.Context, user *domain.User) error {
	token, err := newSecureToken()
	if err != nil {
		return err
	}
	expires := email.TokenExpiry()

	user.EmailVerificationToken = &token
	user.EmailVerificationExpires = &expires
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.mailer.SendVerification(user.Email, token)
	return nil
}
