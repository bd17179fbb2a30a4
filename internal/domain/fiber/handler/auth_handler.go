package handler

import (
	"time"

	"github.com/fadilmartias/grant-portal/internal/auth"
	"github.com/fadilmartias/grant-portal/internal/dto"
	"github.com/fadilmartias/grant-portal/internal/middleware"
	"github.com/fadilmartias/grant-portal/internal/usecase"
	"github.com/fadilmartias/grant-portal/internal/util"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	secureCookie bool
}

func NewAuthHandler(uc *usecase.AuthUsecase, secureCookie bool) *AuthHandler {
	return &AuthHandler{uc: uc, secureCookie: secureCookie}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/auth", middleware.RateLimiter(10, time.Minute))
	group.Post("/login", h.Login)
	group.Post("/register", h.Register)
	group.Post("/logout", h.Logout)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	session, err := h.uc.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return util.HandleError(c, err)
	}
	return h.respondSession(c, fiber.StatusOK, "Signed in", session)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	session, err := h.uc.Register(c.UserContext(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return util.HandleError(c, err)
	}
	return h.respondSession(c, fiber.StatusCreated, "Account created", session)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(auth.CookieName)
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Signed out"})
}

func (h *AuthHandler) respondSession(c *fiber.Ctx, code int, message string, session *usecase.Session) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    code,
		Message: message,
		Data: dto.SessionDTO{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			User:      session.User,
		},
	})
}
