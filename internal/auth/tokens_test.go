package auth

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerificationToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	token, expires, err := NewVerificationToken(now)
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), token)
	assert.Equal(t, now.Add(24*time.Hour), expires)

	other, _, err := NewVerificationToken(now)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestNewOTP(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		code, expires, err := NewOTP(now)
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		assert.Equal(t, now.Add(5*time.Minute), expires)
	}
}

func TestRandomAvatarURL(t *testing.T) {
	for i := 0; i < 200; i++ {
		url := RandomAvatarURL()
		require.True(t, strings.HasPrefix(url, "https://avatar.iran.liara.run/public/"))
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(url, "https://avatar.iran.liara.run/public/"), ".png"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 100)
	}
}
