package handler

import (
	"github.com/fadilmartias/grant-portal/internal/dto"
	"github.com/fadilmartias/grant-portal/internal/middleware"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/usecase"
	"github.com/fadilmartias/grant-portal/internal/util"
	"github.com/gofiber/fiber/v2"
)

// UserHandler serves user management, the own profile, portal settings
// and seeding.
type UserHandler struct {
	uc *usecase.AdminUsecase
}

func NewUserHandler(uc *usecase.AdminUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/settings", h.Settings)
}

func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	admin := middleware.RequireRoles(model.RoleAdmin)

	router.Get("/profile", h.Profile)
	router.Patch("/profile", h.UpdateProfile)
	router.Put("/settings", admin, h.UpdateSettings)
	router.Get("/users", admin, h.List)
	router.Post("/users", admin, h.Create)
	router.Put("/users/:id", admin, h.Update)
	router.Delete("/users/:id", admin, h.Delete)
	router.Post("/admin/seed", admin, h.Seed)
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	profile, err := h.uc.Profile(c.UserContext(), user.UID)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get profile",
		Data:    profile,
	})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	var updates map[string]any
	if err := parseBody(c, &updates); err != nil {
		return util.HandleError(c, err)
	}
	profile, err := h.uc.UpdateProfile(c.UserContext(), user.UID, updates)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Profile updated",
		Data:    profile,
	})
}

func (h *UserHandler) Settings(c *fiber.Ctx) error {
	settings, err := h.uc.Settings(c.UserContext())
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get portal settings",
		Data:    settings,
	})
}

func (h *UserHandler) UpdateSettings(c *fiber.Ctx) error {
	var settings model.PortalSettings
	if err := parseBody(c, &settings); err != nil {
		return util.HandleError(c, err)
	}
	if err := h.uc.UpdateSettings(c.UserContext(), settings); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Portal settings updated",
		Data:    settings,
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.UserContext())
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get users",
		Data:    users,
		Meta:    fiber.Map{"count": len(users)},
	})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	user, err := h.uc.CreateUser(c.UserContext(), req.ToModel(), req.Password)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "User created",
		Data:    user,
	})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var user model.User
	if err := parseBody(c, &user); err != nil {
		return util.HandleError(c, err)
	}
	if err := h.uc.UpdateUser(c.UserContext(), c.Params("id"), user); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "User updated"})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	if err := h.uc.DeleteUser(c.UserContext(), actor, c.Params("id")); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "User deleted"})
}

func (h *UserHandler) Seed(c *fiber.Ctx) error {
	if err := h.uc.Seed(c.UserContext()); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Database seeded"})
}
