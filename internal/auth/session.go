package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"

	"bookvault/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
	Email  string      `json:"email"`
	jwt.StandardClaims
}

// SessionConfig configures a SessionIssuer.
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	// Production enables Secure cookies with SameSite=Strict.
	Production bool
}

// SessionIssuer signs and verifies HS256 session tokens and builds the
// cookie that carries them.
type SessionIssuer struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	production bool
	now        func() time.Time
}

func NewSessionIssuer(cfg SessionConfig) *SessionIssuer {
	name := cfg.CookieName
	if name == "" {
		name = "token"
	}
	return &SessionIssuer{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: name,
		production: cfg.Production,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *SessionIssuer) WithClock(now func() time.Time) *SessionIssuer {
	s.now = now
	return s
}

func (s *SessionIssuer) CookieName() string { return s.cookieName }

func (s *SessionIssuer) TTL() time.Duration { return s.ttl }

// Issue signs a token for the user and returns it with its expiry.
func (s *SessionIssuer) Issue(userID string, role models.Role, email string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	claims := SessionClaims{
		UserID: userID,
		Role:   role,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks the signature and expiry of token and returns its claims.
func (s *SessionIssuer) Verify(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	// Expiry is checked against the injected clock rather than jwt-go's
	// wall clock.
	if claims.ExpiresAt == 0 || !s.now().Before(time.Unix(claims.ExpiresAt, 0)) {
		return nil, ErrTokenExpired
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Cookie builds the session cookie for token.
func (s *SessionIssuer) Cookie(token string, expiresAt time.Time) *fiber.Cookie {
	cookie := s.baseCookie()
	cookie.Value = token
	cookie.Expires = expiresAt
	cookie.MaxAge = int(s.ttl.Seconds())
	return cookie
}

// ClearCookie builds a cookie that makes the client drop the session.
func (s *SessionIssuer) ClearCookie() *fiber.Cookie {
	cookie := s.baseCookie()
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	return cookie
}

func (s *SessionIssuer) baseCookie() *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     s.cookieName,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if s.production {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteStrictMode
	}
	return cookie
}
