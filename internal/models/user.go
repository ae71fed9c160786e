package models

import "time"

// Role determines what a user is authorized to do.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account of the bookstore.
// Users are never soft deleted.
type User struct {
	ID               string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FirstName        string `json:"firstname" gorm:"type:varchar(100);not null"`
	LastName         string `json:"lastname" gorm:"type:varchar(100);not null"`
	Email            string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password         string `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never plaintext
	ProfilePicture   string `json:"profilePicture" gorm:"type:varchar(512)"`
	ProfilePictureID string `json:"-" gorm:"type:varchar(512)"` // object store key of an uploaded picture
	NativeLanguage   string `json:"nativeLanguage" gorm:"type:varchar(100)"`
	LearningLanguage string `json:"learningLanguage" gorm:"type:varchar(100)"`
	Location         string `json:"location" gorm:"type:varchar(255)"`
	Role             Role   `json:"role" gorm:"type:varchar(20);not null"`
	IsVerified       bool   `json:"isVerified" gorm:"not null"`
	Subscription     bool   `json:"subscription" gorm:"not null"`

	EmailVerificationToken        *string    `json:"-" gorm:"type:varchar(64)"`
	EmailVerificationTokenExpires *time.Time `json:"-"`
	OTP                           *string    `json:"-" gorm:"column:otp;type:varchar(6)"`
	OTPExpires                    *time.Time `json:"-" gorm:"column:otp_expires"`
	PasswordResetAllowedUntil     *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClearVerificationToken drops the pending email verification token.
func (u *User) ClearVerificationToken() {
	u.EmailVerificationToken = nil
	u.EmailVerificationTokenExpires = nil
}

// ClearOTP drops any pending password reset code.
func (u *User) ClearOTP() {
	u.OTP = nil
	u.OTPExpires = nil
}

// PublicUser is the projection of a User that is safe to hand to other users.
type PublicUser struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstname"`
	LastName         string    `json:"lastname"`
	Email            string    `json:"email"`
	ProfilePicture   string    `json:"profilePicture"`
	NativeLanguage   string    `json:"nativeLanguage"`
	LearningLanguage string    `json:"learningLanguage"`
	Location         string    `json:"location"`
	Role             Role      `json:"role"`
	IsVerified       bool      `json:"isVerified"`
	Subscription     bool      `json:"subscription"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		ProfilePicture:   u.ProfilePicture,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		Location:         u.Location,
		Role:             u.Role,
		IsVerified:       u.IsVerified,
		Subscription:     u.Subscription,
		CreatedAt:        u.CreatedAt,
	}
}
