package handler

import (
	"fmt"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/middleware"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/util"
	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into out, reporting malformed input as a
// validation error.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return util.NewFormError("invalid request body", map[string]string{"body": err.Error()})
	}
	return nil
}

func currentUser(c *fiber.Ctx) (model.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return model.User{}, fmt.Errorf("%w: sign in required", apperror.ErrAuthentication)
	}
	return user, nil
}
