package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookvault/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user")
}

// Update saves all columns of the user, including cleared token fields.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "update user "+user.ID)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get user by id "+id)
	}
	return &user, nil
}

func (r *GORMUserRepository) ConsumeOTP(ctx context.Context, id, code string, now, allowedUntil time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND otp = ? AND otp_expires > ?", id, code, now).
		Updates(map[string]any{"otp": nil, "otp_expires": nil, "password_reset_allowed_until": allowedUntil})
	if err := translate(res.Error, "consume otp for user "+id); err != nil {
		return false, err
	}
	return res.RowsAffected == 1, nil
}

func (r *GORMUserRepository) ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("otp_expires IS NOT NULL AND otp_expires <= ?", now).
		Updates(map[string]any{"otp": nil, "otp_expires": nil})
	return res.RowsAffected, translate(res.Error, "clear expired otps")
}

func (r *GORMUserRepository) ClearExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email_verification_token_expires IS NOT NULL AND email_verification_token_expires <= ?", now).
		Updates(map[string]any{"email_verification_token": nil, "email_verification_token_expires": nil})
	return res.RowsAffected, translate(res.Error, "clear expired verification tokens")
}
