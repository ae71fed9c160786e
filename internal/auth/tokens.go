package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"time"
)

const (
	VerificationTokenTTL = 24 * time.Hour
	OTPTTL               = 5 * time.Minute

	verificationTokenBytes = 32
	otpMin                 = 100000
	otpSpan                = 900000 // codes are drawn from [100000, 999999]
)

// NewVerificationToken returns 32 random bytes hex encoded and the instant it
// stops being valid.
func NewVerificationToken(now time.Time) (string, time.Time, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), now.Add(VerificationTokenTTL), nil
}

// NewOTP returns a uniformly drawn six digit code and its expiry.
func NewOTP(now time.Time) (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), now.Add(OTPTTL), nil
}

// RandomAvatarURL picks one of the public placeholder avatars. It is not
// security sensitive.
func RandomAvatarURL() string {
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", mrand.IntN(100)+1)
}
