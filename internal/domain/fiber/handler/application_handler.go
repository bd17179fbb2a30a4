package handler

import (
	"github.com/fadilmartias/grant-portal/internal/dto"
	"github.com/fadilmartias/grant-portal/internal/middleware"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/usecase"
	"github.com/fadilmartias/grant-portal/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	uc *usecase.ApplicationUsecase
}

func NewApplicationHandler(uc *usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(router fiber.Router) {
	staff := middleware.RequireRoles(model.RoleCommittee, model.RoleAdmin)

	router.Get("/applications", h.List)
	router.Get("/applications/:id", h.Get)
	router.Post("/applications", middleware.RequireRoles(model.RoleApplicant), h.SubmitStage1)
	router.Patch("/applications/:id", h.SaveDraft)
	router.Post("/applications/:id/stage2", h.StartStage2)
	router.Post("/applications/:id/stage2/submit", h.SubmitStage2)
	router.Put("/applications/:id/status", staff, h.ChangeStatus)
	router.Delete("/applications/:id", middleware.RequireRoles(model.RoleAdmin), h.Delete)
}

func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	apps, err := h.uc.ListForUser(c.UserContext(), user, c.Query("area"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get applications",
		Data:    apps,
		Meta:    fiber.Map{"count": len(apps)},
	})
}

func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	app, err := h.uc.Get(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get application",
		Data:    app,
	})
}

func (h *ApplicationHandler) SubmitStage1(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	var req dto.Stage1Request
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	app, err := h.uc.SubmitStage1(c.UserContext(), user, req.ToModel())
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Expression of interest submitted",
		Data:    app,
	})
}

func (h *ApplicationHandler) SaveDraft(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	var req dto.FormDataRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	app, err := h.uc.SaveDraft(c.UserContext(), user, c.Params("id"), req.FormData)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Draft saved",
		Data:    app,
	})
}

func (h *ApplicationHandler) StartStage2(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	app, err := h.uc.StartStage2(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Full application started",
		Data:    app,
	})
}

func (h *ApplicationHandler) SubmitStage2(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	var req dto.FormDataRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return util.HandleError(c, err)
		}
	}
	app, err := h.uc.SubmitStage2(c.UserContext(), user, c.Params("id"), req.FormData)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Full application submitted",
		Data:    app,
	})
}

func (h *ApplicationHandler) ChangeStatus(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	var req dto.StatusRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	app, err := h.uc.ChangeStatus(c.UserContext(), user, c.Params("id"), req.Status)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Status updated",
		Data:    app,
	})
}

func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Application deleted"})
}
