package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bookvault/internal/models"
	"bookvault/internal/services"
)

const userLocalsKey = "user"

// SessionToken returns the session token of the request. The session cookie
// wins over an "Authorization: Bearer <token>" header.
func SessionToken(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthRequired is a Fiber middleware that resolves the session token to a
// verified user and stores it in the request context. A request that already
// passed the guard in an enclosing group is not checked again.
func AuthRequired(authService *services.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) != nil {
			return c.Next()
		}
		user, err := authService.Authenticate(c.UserContext(), SessionToken(c, cookieName))
		if err != nil {
			return err
		}
		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

// RestrictTo only lets through users holding one of roles. It must run after
// AuthRequired.
func RestrictTo(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return services.ErrUnauthenticated
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return services.ErrForbidden
	}
}
