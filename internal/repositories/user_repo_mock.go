package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookvault/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// Email uniqueness is enforced under the write lock, so it behaves like a
// unique index under concurrent inserts.
type MockUserRepository struct {
	users   map[string]models.User
	byEmail map[string]string
	mu      sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return fmt.Errorf("create user: %w", ErrDuplicateKey)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MockUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("update user %s: %w", user.ID, ErrNotFound)
	}
	if existing.Email != user.Email {
		if _, taken := r.byEmail[user.Email]; taken {
			return fmt.Errorf("update user %s: %w", user.ID, ErrDuplicateKey)
		}
		delete(r.byEmail, existing.Email)
		r.byEmail[user.Email] = user.ID
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", ErrNotFound)
	}
	user := r.users[id]
	return &user, nil
}

func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("get user by id %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

func (r *MockUserRepository) ConsumeOTP(_ context.Context, id, code string, now, allowedUntil time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.OTP == nil || *u.OTP != code || u.OTPExpires == nil || !now.Before(*u.OTPExpires) {
		return false, nil
	}
	u.ClearOTP()
	u.PasswordResetAllowedUntil = &allowedUntil
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return true, nil
}

func (r *MockUserRepository) ClearExpiredOTPs(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, u := range r.users {
		if u.OTPExpires != nil && !now.Before(*u.OTPExpires) {
			u.ClearOTP()
			r.users[id] = u
			n++
		}
	}
	return n, nil
}

func (r *MockUserRepository) ClearExpiredVerificationTokens(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, u := range r.users {
		if u.EmailVerificationTokenExpires != nil && !now.Before(*u.EmailVerificationTokenExpires) {
			u.ClearVerificationToken()
			r.users[id] = u
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored users.
func (r *MockUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
