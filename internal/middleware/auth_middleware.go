package middleware

import (
	"fmt"
	"strings"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/auth"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/util"
	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "user"

// Authenticate requires a valid session token from the Authorization
// header or the session cookie.
func Authenticate(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
		if tokenString == "" {
			tokenString = c.Cookies(auth.CookieName)
		}
		if tokenString == "" {
			return util.HandleError(c, fmt.Errorf("%w: sign in required", apperror.ErrAuthentication))
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return util.HandleError(c, err)
		}
		c.Locals(userLocalsKey, claims.User())
		return c.Next()
	}
}

// RequireRoles lets the request through only for the given roles. It must
// run after Authenticate.
func RequireRoles(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return util.HandleError(c, fmt.Errorf("%w: sign in required", apperror.ErrAuthentication))
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return util.HandleError(c, fmt.Errorf("%w: insufficient permissions", apperror.ErrForbidden))
	}
}

// CurrentUser returns the signed in user stored by Authenticate.
func CurrentUser(c *fiber.Ctx) (model.User, bool) {
	user, ok := c.Locals(userLocalsKey).(model.User)
	return user, ok
}
