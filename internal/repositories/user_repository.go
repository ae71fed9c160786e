package repositories

import (
	"context"
	"time"

	"bookvault/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts a new user. It fails with ErrDuplicateKey when the email
	// is already registered.
	Create(ctx context.Context, user *models.User) error
	// Update persists every field of an existing user.
	Update(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// ConsumeOTP clears the user's reset code and sets the reset window in one
	// conditional write. It reports false when the code is no longer stored or
	// has expired by now, so only one of several concurrent callers wins.
	ConsumeOTP(ctx context.Context, id, code string, now, allowedUntil time.Time) (bool, error)
	// ClearExpiredOTPs drops reset codes whose expiry is not after now.
	ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error)
	// ClearExpiredVerificationTokens drops verification tokens whose expiry is not after now.
	ClearExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}
