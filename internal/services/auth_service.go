package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookvault/internal/auth"
	"bookvault/internal/models"
	"bookvault/internal/repositories"
)

// PasswordResetWindow is how long a verified OTP authorizes a password reset.
const PasswordResetWindow = 10 * time.Minute

// AccountNotifier sends the account lifecycle emails.
type AccountNotifier interface {
	SendVerificationEmail(ctx context.Context, email, name, token string) error
	SendPasswordResetOTP(ctx context.Context, email, name, code string) error
}

// AuthOptions toggles the behaviours that differ between deployments.
type AuthOptions struct {
	// GenericLoginErrors hides whether an email is registered on login.
	GenericLoginErrors bool
	// RequireVerifiedOTP makes ResetPassword depend on a prior successful
	// VerifyResetOTP within PasswordResetWindow.
	RequireVerifiedOTP bool
}

// AuthService handles registration, verification, login, password reset and
// session resolution.
type AuthService struct {
	users    repositories.UserRepository
	hasher   *auth.PasswordHasher
	sessions *auth.SessionIssuer
	notifier AccountNotifier
	log      *zap.Logger
	opts     AuthOptions
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repositories.UserRepository,
	hasher *auth.PasswordHasher,
	sessions *auth.SessionIssuer,
	notifier AccountNotifier,
	log *zap.Logger,
	opts AuthOptions,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		notifier: notifier,
		log:      log,
		opts:     opts,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for token and OTP expiry.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (in *RegisterInput) normalize() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return Validation("All fields are required")
	}
	if auth.PasswordTooLong(in.Password) {
		return ErrPasswordTooLong
	}
	return nil
}

// AdminRegisterInput is the payload of an admin-issued registration.
type AdminRegisterInput struct {
	RegisterInput
	Role         models.Role
	Subscription bool
}

// RegisterSelf creates an unverified user with the default role and sends the
// verification email. A failed send is logged and does not undo the account.
func (s *AuthService) RegisterSelf(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	token, expires, err := auth.NewVerificationToken(now)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Role:                          models.RoleUser,
		EmailVerificationToken:        &token,
		EmailVerificationTokenExpires: &expires,
	}
	if err := s.create(ctx, user, in); err != nil {
		return nil, err
	}

	if err := s.notifier.SendVerificationEmail(ctx, user.Email, user.FirstName, token); err != nil {
		s.log.Error("failed to send verification email", zap.String("userId", user.ID), zap.String("email", user.Email), zap.Error(err))
	}
	s.log.Info("user registered", zap.String("userId", user.ID))
	return user, nil
}

// RegisterAsAdmin lets an admin create a verified account with any role.
func (s *AuthService) RegisterAsAdmin(ctx context.Context, actor *models.User, in AdminRegisterInput) (*models.User, error) {
	if actor == nil || actor.Role != models.RoleAdmin {
		return nil, ErrAdminOnly
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user := &models.User{
		Role:         role,
		Subscription: in.Subscription,
		IsVerified:   true,
	}
	if err := s.create(ctx, user, in.RegisterInput); err != nil {
		return nil, err
	}
	s.log.Info("user registered by admin", zap.String("userId", user.ID), zap.String("actorId", actor.ID), zap.String("role", string(role)))
	return user, nil
}

// create fills the identity fields of user from in and stores it. The
// duplicate lookup runs before hashing; the unique index still decides races.
func (s *AuthService) create(ctx context.Context, user *models.User, in RegisterInput) error {
	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("check existing user: %w", err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.Password = digest
	user.ProfilePicture = auth.RandomAvatarURL()

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// VerifyEmail consumes a verification token. Tokens are single use and valid
// strictly before their expiry.
func (s *AuthService) VerifyEmail(ctx context.Context, email, token string) error {
	if email == "" || token == "" {
		return Validation("Invalid or missing verification link parameters.")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidOrExpiredLink
		}
		return err
	}

	stored, expires := user.EmailVerificationToken, user.EmailVerificationTokenExpires
	if stored == nil || expires == nil ||
		subtle.ConstantTimeCompare([]byte(*stored), []byte(token)) != 1 ||
		!s.now().Before(*expires) {
		return ErrInvalidOrExpiredLink
	}

	user.IsVerified = true
	user.ClearVerificationToken()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	s.log.Info("email verified", zap.String("userId", user.ID))
	return nil
}

// LoginResult carries a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, Validation("All fields are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		if s.opts.GenericLoginErrors {
			return nil, ErrLoginFailed
		}
		return nil, ErrLoginUserNotFound
	}

	if s.opts.GenericLoginErrors {
		// Only a caller who knows the password learns the account is unverified.
		if !s.hasher.Verify(password, user.Password) {
			return nil, ErrLoginFailed
		}
		if !user.IsVerified {
			return nil, ErrEmailNotVerified
		}
	} else {
		if !user.IsVerified {
			return nil, ErrEmailNotVerified
		}
		if !s.hasher.Verify(password, user.Password) {
			return nil, ErrInvalidCredentials
		}
	}

	token, expiresAt, err := s.sessions.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.String("userId", user.ID))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// SendResetOTP stores a fresh OTP for the user, replacing any earlier one,
// and emails it. The OTP stays stored even if the email cannot be sent.
func (s *AuthService) SendResetOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return Validation("Email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	code, expires, err := auth.NewOTP(s.now())
	if err != nil {
		return err
	}
	user.OTP = &code
	user.OTPExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.notifier.SendPasswordResetOTP(ctx, user.Email, user.FirstName, code); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	s.log.Info("password reset otp sent", zap.String("userId", user.ID))
	return nil
}

// VerifyResetOTP consumes the user's OTP and opens the password reset window.
func (s *AuthService) VerifyResetOTP(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(email)
	if email == "" || code == "" {
		return Validation("Email and OTP are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoActiveOTP
		}
		return err
	}
	if user.OTP == nil || user.OTPExpires == nil {
		return ErrNoActiveOTP
	}

	now := s.now()
	if !now.Before(*user.OTPExpires) {
		return ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(*user.OTP), []byte(code)) != 1 {
		return ErrOTPMismatch
	}

	consumed, err := s.users.ConsumeOTP(ctx, user.ID, code, now, now.Add(PasswordResetWindow))
	if err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	if !consumed {
		return ErrNoActiveOTP
	}
	return nil
}

// ResetPassword replaces the user's password and clears every reset remnant.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return Validation("Email and new password are required")
	}
	if auth.PasswordTooLong(newPassword) {
		return ErrPasswordTooLong
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if s.opts.RequireVerifiedOTP {
		until := user.PasswordResetAllowedUntil
		if until == nil || !s.now().Before(*until) {
			return ErrResetNotAuthorized
		}
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = digest
	user.ClearOTP()
	user.PasswordResetAllowedUntil = nil
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	s.log.Info("password reset", zap.String("userId", user.ID))
	return nil
}

// Authenticate resolves a session token to a verified user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.sessions.Verify(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionUserGone
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, ErrAccountNotVerified
	}
	return user, nil
}

// CurrentUser resolves a session token without requiring a verified account.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.sessions.Verify(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates a verified admin account unless the email is already
// registered. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (bool, error) {
	if err := in.normalize(); err != nil {
		return false, err
	}
	user := &models.User{Role: models.RoleAdmin, IsVerified: true}
	if err := s.create(ctx, user, in); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	s.log.Info("admin account created", zap.String("userId", user.ID))
	return true, nil
}
