package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Handlers map kinds to HTTP statuses.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	// KindInvalid covers requests that are well formed but refer to state that
	// does not allow the operation, such as an expired link or a wrong code.
	KindInvalid
)

// Error is a classified failure whose message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, fmt.Sprintf(format, args...))
}

func Invalid(format string, args ...any) *Error {
	return newError(KindInvalid, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// Account errors.
var (
	ErrEmailTaken           = newError(KindConflict, "Email already registered. Please login.")
	ErrUserNotFound         = newError(KindNotFound, "User not found")
	ErrLoginUserNotFound    = newError(KindNotFound, "User not found. Please register.")
	ErrEmailNotVerified     = newError(KindForbidden, "Please verify your email before logging in.")
	ErrInvalidCredentials   = newError(KindUnauthorized, "Invalid credentials")
	ErrLoginFailed          = newError(KindUnauthorized, "Invalid email or password")
	ErrInvalidOrExpiredLink = newError(KindInvalid, "Verification link is invalid or expired.")
	ErrNoActiveOTP          = newError(KindInvalid, "OTP not requested or invalid user.")
	ErrOTPExpired           = newError(KindInvalid, "OTP has expired. Please request a new one.")
	ErrOTPMismatch          = newError(KindInvalid, "Invalid OTP. Please try again.")
	ErrResetNotAuthorized   = newError(KindForbidden, "Please verify the OTP before resetting your password.")
	ErrAdminOnly            = newError(KindForbidden, "Only admins can assign roles or subscriptions")
	ErrInvalidRole          = newError(KindValidation, "Role must be one of user, moderator or admin")
	ErrNotAnImage           = newError(KindValidation, "Uploaded file must be a JPEG, PNG or GIF image")
	ErrPasswordTooLong      = newError(KindValidation, "Password must be at most 72 bytes")
)

// Session errors returned by the access guard.
var (
	ErrUnauthenticated    = newError(KindUnauthorized, "Not authorized, token missing")
	ErrInvalidSession     = newError(KindUnauthorized, "Invalid token or unauthorized access")
	ErrSessionUserGone    = newError(KindUnauthorized, "Not authorized, user not found")
	ErrAccountNotVerified = newError(KindForbidden, "Email not verified. Access denied.")
	ErrForbidden          = newError(KindForbidden, "You do not have permission to perform this action")
)

// Catalog and cart errors.
var (
	ErrCategoryNotFound    = newError(KindNotFound, "Category not found")
	ErrCategoryExists      = newError(KindConflict, "Category with this name already exists")
	ErrSubCategoryNotFound = newError(KindNotFound, "Sub-category not found")
	ErrSubCategoryExists   = newError(KindConflict, "Sub-category already exists")
	ErrNoParentCategory    = newError(KindValidation, "Parent category does not exist")
	ErrSubCategoryParent   = newError(KindValidation, "Sub-category does not belong to the book's category")
	ErrBookNotFound        = newError(KindNotFound, "Book not found")
	ErrEpisodeNotFound     = newError(KindNotFound, "Episode not found")
	ErrEpisodeNumberTaken  = newError(KindConflict, "An episode with this number already exists for the book")
	ErrSliderNotFound      = newError(KindNotFound, "Slider not found")
	ErrNotInCart           = newError(KindNotFound, "Book not in cart")
	ErrIDsRequired         = newError(KindValidation, "Please provide a non-empty ids array")
)
